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

type UserController struct {
	Auth *auth.Service
}

type signupRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	IsVolunteer     bool   `json:"is_volunteer"`
}

type ngoSignupRequest struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	NGOName      string `json:"ngo_name"`
	Description  string `json:"description"`
	ContactPhone string `json:"contact_phone"`
	AidTypes     string `json:"aid_types"`
}

// emailTaken reports whether a user row already exists for the email.
// Checked before insert, so two concurrent signups can still race; the
// unique index on email is the backstop.
func emailTaken(db *sql.DB, email string) (bool, error) {
	var existingID int
	err := db.QueryRow("SELECT id FROM users WHERE email = ?", email).Scan(&existingID)
	if err == nil {
		return true, nil
	}
	if err == sql.ErrNoRows {
		return false, nil
	}
	return false, err
}

func (uc UserController) Signup(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Detail: "Invalid request body."})
			return
		}

		if req.Email == "" || req.Password == "" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Detail: "Email and password are required."})
			return
		}
		if req.Password != req.ConfirmPassword {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Detail: "Passwords do not match."})
			return
		}

		taken, err := emailTaken(db, req.Email)
		if err != nil {
			log.WithError(err).Error("checking existing user")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Server error."})
			return
		}
		if taken {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Detail: "Email already registered."})
			return
		}

		hash, err := uc.Auth.HashPassword(req.Password)
		if err != nil {
			log.WithError(err).Error("hashing password")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Server error."})
			return
		}

		result, err := db.Exec(
			"INSERT INTO users (full_name, email, hashed_password, is_volunteer, role) VALUES (?, ?, ?, ?, 'user')",
			req.FullName, req.Email, hash, req.IsVolunteer)
		if err != nil {
			log.WithError(err).Error("inserting user")
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Detail: "Email already registered."})
			return
		}
		userID, _ := result.LastInsertId()

		token, err := uc.Auth.GenerateToken(req.Email)
		if err != nil {
			log.WithError(err).Error("generating token")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Server error."})
			return
		}

		utils.ResponseJSON(w, models.TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
			UserID:      int(userID),
			IsVolunteer: req.IsVolunteer,
		})
	}
}

// SignupNGO creates the account and its NGO profile in one step. The profile
// starts unverified and returns no token; the caller logs in afterwards.
func (uc UserController) SignupNGO(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ngoSignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Detail: "Invalid request body."})
			return
		}

		if req.Email == "" || req.Password == "" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Detail: "Email and password are required."})
			return
		}

		taken, err := emailTaken(db, req.Email)
		if err != nil {
			log.WithError(err).Error("checking existing user")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Server error."})
			return
		}
		if taken {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Detail: "Email already registered."})
			return
		}

		hash, err := uc.Auth.HashPassword(req.Password)
		if err != nil {
			log.WithError(err).Error("hashing password")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Server error."})
			return
		}

		result, err := db.Exec(
			"INSERT INTO users (full_name, email, hashed_password, is_volunteer, role) VALUES (?, ?, ?, false, 'ngo')",
			req.FullName, req.Email, hash)
		if err != nil {
			log.WithError(err).Error("inserting ngo user")
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Detail: "Email already registered."})
			return
		}
		userID, _ := result.LastInsertId()

		_, err = db.Exec(
			"INSERT INTO ngos (user_id, name, description, is_verified, contact_phone, aid_types) VALUES (?, ?, ?, false, ?, ?)",
			userID, req.NGOName, req.Description, req.ContactPhone, req.AidTypes)
		if err != nil {
			log.WithError(err).Error("inserting ngo profile")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Failed to create NGO profile."})
			return
		}

		utils.ResponseJSON(w, map[string]string{"message": "NGO registered successfully. Awaiting verification."})
	}
}

func (uc UserController) Login(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Detail: "Invalid request body."})
			return
		}

		var user models.User
		err := db.QueryRow(
			"SELECT id, full_name, email, hashed_password, is_volunteer, role FROM users WHERE email = ?", req.Email).
			Scan(&user.ID, &user.FullName, &user.Email, &user.HashedPassword, &user.IsVolunteer, &user.Role)
		if err == sql.ErrNoRows {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Detail: "Incorrect email or password."})
			return
		}
		if err != nil {
			log.WithError(err).Error("querying user")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Server error."})
			return
		}

		if !uc.Auth.CheckPassword(req.Password, user.HashedPassword) {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Detail: "Incorrect email or password."})
			return
		}

		token, err := uc.Auth.GenerateToken(user.Email)
		if err != nil {
			log.WithError(err).Error("generating token")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Server error."})
			return
		}

		utils.ResponseJSON(w, models.TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
			UserID:      user.ID,
			IsVolunteer: user.IsVolunteer,
		})
	}
}

func (uc UserController) GetMe(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := uc.Auth.CurrentUser(r, db)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Detail: err.Error()})
			return
		}

		utils.ResponseJSON(w, map[string]interface{}{
			"id":           user.ID,
			"full_name":    user.FullName,
			"email":        user.Email,
			"role":         user.Role,
			"is_volunteer": user.IsVolunteer,
		})
	}
}
