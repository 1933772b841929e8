package controllers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"

	"flood-alert-backend/auth"
	"flood-alert-backend/models"
	"flood-alert-backend/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ReportController struct {
	Auth   *auth.Service
	Bucket string
	Region string
}

type reportCreateRequest struct {
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Severity    string  `json:"severity"` // free text, e.g. "Critical", "Moderate"
}

func (rc ReportController) CreateReport(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := rc.Auth.CurrentUser(r, db)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Detail: err.Error()})
			return
		}

		var req reportCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Detail: "Invalid request body."})
			return
		}

		result, err := db.Exec(
			"INSERT INTO flood_reports (description, location, latitude, longitude, severity, user_id) VALUES (?, ?, ?, ?, ?, ?)",
			req.Description, req.Location, req.Latitude, req.Longitude, req.Severity, user.ID)
		if err != nil {
			log.WithError(err).Error("inserting flood report")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Failed to create report."})
			return
		}

		id, _ := result.LastInsertId()

		report := models.FloodReport{
			ID:          int(id),
			Description: req.Description,
			Location:    req.Location,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			Severity:    req.Severity,
			UserID:      user.ID,
		}
		// The timestamp is server-set by the database.
		if err := db.QueryRow("SELECT timestamp FROM flood_reports WHERE id = ?", id).Scan(&report.Timestamp); err != nil {
			log.WithError(err).Error("reading report timestamp")
		}

		utils.ResponseJSON(w, report)
	}
}

func (rc ReportController) GetReports(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := db.Query(
			"SELECT id, description, location, latitude, longitude, image_url, severity, timestamp, user_id FROM flood_reports")
		if err != nil {
			log.WithError(err).Error("querying flood reports")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Failed to get reports."})
			return
		}
		defer rows.Close()

		reports := []models.FloodReport{}
		for rows.Next() {
			var report models.FloodReport
			var imageURL sql.NullString
			if err := rows.Scan(&report.ID, &report.Description, &report.Location, &report.Latitude,
				&report.Longitude, &imageURL, &report.Severity, &report.Timestamp, &report.UserID); err != nil {
				log.WithError(err).Error("scanning flood report")
				utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Failed to get reports."})
				return
			}
			report.ImageURL = imageURL.String
			reports = append(reports, report)
		}

		utils.ResponseJSON(w, reports)
	}
}

// UploadReportPhoto attaches a photo to one of the caller's own reports.
func (rc ReportController) UploadReportPhoto(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := rc.Auth.CurrentUser(r, db)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Detail: err.Error()})
			return
		}

		reportID, err := utils.StrToInt(mux.Vars(r)["report_id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Detail: "Invalid report id."})
			return
		}

		var ownerID int
		err = db.QueryRow("SELECT user_id FROM flood_reports WHERE id = ?", reportID).Scan(&ownerID)
		if err == sql.ErrNoRows {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Detail: "Report not found."})
			return
		}
		if err != nil {
			log.WithError(err).Error("querying report owner")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Server error."})
			return
		}
		if ownerID != user.ID {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Detail: "You can only attach photos to your own reports."})
			return
		}

		file, _, err := r.FormFile("photo")
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Detail: "Error reading file."})
			return
		}
		defer file.Close()

		fileName := fmt.Sprintf("report-%d-%s.jpg", reportID, uuid.New().String())
		photoURL, err := utils.UploadFileToS3(file, fileName, rc.Bucket, rc.Region)
		if err != nil {
			log.WithError(err).Error("uploading report photo")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Failed to upload photo."})
			return
		}

		if _, err := db.Exec("UPDATE flood_reports SET image_url = ? WHERE id = ?", photoURL, reportID); err != nil {
			log.WithError(err).Error("updating report image url")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Failed to update report."})
			return
		}

		utils.ResponseJSON(w, map[string]string{"message": "Photo uploaded successfully.", "image_url": photoURL})
	}
}
