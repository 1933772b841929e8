package controllers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"flood-alert-backend/auth"
	"flood-alert-backend/models"
	"flood-alert-backend/utils"

	log "github.com/sirupsen/logrus"
)

type CampaignController struct {
	Auth *auth.Service
}

// CreateCampaign requires the caller to hold role "ngo" and an NGO profile.
// Nothing requires the profile to be verified.
func (cc CampaignController) CreateCampaign(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := cc.Auth.CurrentUser(r, db)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Detail: err.Error()})
			return
		}

		if user.Role != "ngo" {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Detail: "Only NGO accounts can create campaigns."})
			return
		}

		var ngoID int
		err = db.QueryRow("SELECT id FROM ngos WHERE user_id = ?", user.ID).Scan(&ngoID)
		if err == sql.ErrNoRows {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Detail: "No NGO profile linked to this account."})
			return
		}
		if err != nil {
			log.WithError(err).Error("querying ngo profile")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Server error."})
			return
		}

		var campaign models.Campaign
		if err := json.NewDecoder(r.Body).Decode(&campaign); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Detail: "Invalid request body."})
			return
		}

		result, err := db.Exec(
			"INSERT INTO campaigns (title, description, target_amount, raised_amount, ngo_id) VALUES (?, ?, ?, 0, ?)",
			campaign.Title, campaign.Description, campaign.TargetAmount, ngoID)
		if err != nil {
			log.WithError(err).Error("inserting campaign")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Failed to create campaign."})
			return
		}

		id, _ := result.LastInsertId()
		campaign.ID = int(id)
		campaign.RaisedAmount = 0
		campaign.NGOID = ngoID

		utils.ResponseJSON(w, campaign)
	}
}

func (cc CampaignController) GetCampaigns(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip := 0
		limit := 100
		if s := r.URL.Query().Get("skip"); s != "" {
			if n, err := utils.StrToInt(s); err == nil && n >= 0 {
				skip = n
			}
		}
		if s := r.URL.Query().Get("limit"); s != "" {
			if n, err := utils.StrToInt(s); err == nil && n >= 0 {
				limit = n
			}
		}

		rows, err := db.Query(
			"SELECT id, title, description, target_amount, raised_amount, ngo_id FROM campaigns LIMIT ? OFFSET ?",
			limit, skip)
		if err != nil {
			log.WithError(err).Error("querying campaigns")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Failed to get campaigns."})
			return
		}
		defer rows.Close()

		campaigns := []models.Campaign{}
		for rows.Next() {
			var c models.Campaign
			if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.TargetAmount, &c.RaisedAmount, &c.NGOID); err != nil {
				log.WithError(err).Error("scanning campaign")
				utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Failed to get campaigns."})
				return
			}
			campaigns = append(campaigns, c)
		}

		utils.ResponseJSON(w, campaigns)
	}
}
