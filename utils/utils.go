package utils

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"flood-alert-backend/models"

	log "github.com/sirupsen/logrus"
)

func RespondWithError(w http.ResponseWriter, status int, error models.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(error); err != nil {
		log.WithError(err).Error("failed to encode error response")
	}
}

func ResponseJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode JSON", http.StatusInternalServerError)
	}
}

func StrToInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	return strconv.Atoi(s)
}
