package controllers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"flood-alert-backend/models"
	"flood-alert-backend/utils"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type TaskController struct{}

type taskCreateRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	AssignedTo  string  `json:"assigned_to"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// CreateTask inserts a new dispatch task. Status always starts as "Pending"
// regardless of what the caller sends.
func (tc TaskController) CreateTask(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req taskCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Detail: "Invalid request body."})
			return
		}

		result, err := db.Exec(
			"INSERT INTO volunteer_tasks (title, description, priority, status, assigned_to, latitude, longitude) VALUES (?, ?, ?, 'Pending', ?, ?, ?)",
			req.Title, req.Description, req.Priority, req.AssignedTo, req.Latitude, req.Longitude)
		if err != nil {
			log.WithError(err).Error("inserting task")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Failed to create task."})
			return
		}

		id, _ := result.LastInsertId()
		utils.ResponseJSON(w, map[string]interface{}{"status": "Task Created", "task_id": int(id)})
	}
}

// GetTasksByVolunteer lists tasks whose assigned_to matches the path segment.
// assigned_to is a free string, not a user id.
func (tc TaskController) GetTasksByVolunteer(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		volunteerID := mux.Vars(r)["volunteer_id"]

		rows, err := db.Query(
			"SELECT id, title, description, priority, status, assigned_to, latitude, longitude, created_at FROM volunteer_tasks WHERE assigned_to = ?",
			volunteerID)
		if err != nil {
			log.WithError(err).Error("querying tasks")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Failed to get tasks."})
			return
		}
		defer rows.Close()

		tasks := []models.VolunteerTask{}
		for rows.Next() {
			var task models.VolunteerTask
			if err := rows.Scan(&task.ID, &task.Title, &task.Description, &task.Priority, &task.Status,
				&task.AssignedTo, &task.Latitude, &task.Longitude, &task.CreatedAt); err != nil {
				log.WithError(err).Error("scanning task")
				utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Failed to get tasks."})
				return
			}
			tasks = append(tasks, task)
		}

		utils.ResponseJSON(w, tasks)
	}
}

// UpdateTaskStatus overwrites status with whatever new_status the caller
// supplies; there is no fixed state vocabulary.
func (tc TaskController) UpdateTaskStatus(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, err := utils.StrToInt(mux.Vars(r)["task_id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Detail: "Invalid task id."})
			return
		}

		newStatus := r.URL.Query().Get("new_status")
		if newStatus == "" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Detail: "new_status is required."})
			return
		}

		var existingID int
		err = db.QueryRow("SELECT id FROM volunteer_tasks WHERE id = ?", taskID).Scan(&existingID)
		if err == sql.ErrNoRows {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Detail: "Task not found."})
			return
		}
		if err != nil {
			log.WithError(err).Error("querying task")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Server error."})
			return
		}

		if _, err := db.Exec("UPDATE volunteer_tasks SET status = ? WHERE id = ?", newStatus, taskID); err != nil {
			log.WithError(err).Error("updating task status")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Failed to update task."})
			return
		}

		utils.ResponseJSON(w, map[string]string{"status": "updated", "current_state": newStatus})
	}
}
