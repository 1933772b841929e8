package controllers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"flood-alert-backend/models"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReport_RequiresAuth(t *testing.T) {
	db := newTestDB(t)
	rc := ReportController{Auth: newTestAuth()}

	rec := doJSON(t, rc.CreateReport(db), "POST", "/reports/",
		`{"description":"road under water","location":"Sylhet","latitude":24.9,"longitude":91.8,"severity":"Critical"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateReport_TiedToCaller(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuth()
	rc := ReportController{Auth: svc}
	userID, token := createUser(t, db, svc, "citizen@example.com", "user", false)

	rec := doJSON(t, rc.CreateReport(db), "POST", "/reports/",
		`{"description":"road under water","location":"Sylhet","latitude":24.9,"longitude":91.8,"severity":"Critical"}`, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report models.FloodReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, userID, report.UserID)
	assert.Equal(t, "Critical", report.Severity)
	assert.NotEmpty(t, report.Timestamp)
	assert.Empty(t, report.ImageURL)
}

func TestGetReports_NoAuthNeeded(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuth()
	rc := ReportController{Auth: svc}
	userID, _ := createUser(t, db, svc, "citizen@example.com", "user", false)

	_, err := db.Exec(
		"INSERT INTO flood_reports (description, location, latitude, longitude, severity, user_id) VALUES ('d', 'Sylhet', 24.9, 91.8, 'Moderate', ?)",
		userID)
	require.NoError(t, err)

	rec := doJSON(t, rc.GetReports(db), "GET", "/reports/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var reports []models.FloodReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "Sylhet", reports[0].Location)
}

func photoRouter(db *sql.DB, rc ReportController) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/reports/{report_id}/photo", rc.UploadReportPhoto(db)).Methods("POST")
	return router
}

func TestUploadReportPhoto_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuth()
	rc := ReportController{Auth: svc}
	_, token := createUser(t, db, svc, "citizen@example.com", "user", false)

	req := httptest.NewRequest("POST", "/reports/999/photo", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	photoRouter(db, rc).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadReportPhoto_ForbiddenForOtherUsersReport(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuth()
	rc := ReportController{Auth: svc}
	ownerID, _ := createUser(t, db, svc, "owner@example.com", "user", false)
	_, otherToken := createUser(t, db, svc, "other@example.com", "user", false)

	_, err := db.Exec(
		"INSERT INTO flood_reports (description, location, latitude, longitude, severity, user_id) VALUES ('d', 'l', 0, 0, 'Low', ?)",
		ownerID)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/reports/1/photo", nil)
	req.Header.Set("Authorization", "Bearer "+otherToken)
	rec := httptest.NewRecorder()
	photoRouter(db, rc).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
