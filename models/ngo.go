package models

type NGO struct {
	ID           int    `json:"id"`
	UserID       int    `json:"user_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	IsVerified   bool   `json:"is_verified"`
	ContactPhone string `json:"contact_phone"`
	AidTypes     string `json:"aid_types"` // comma separated, free text
}
