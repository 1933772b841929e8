package models

type User struct {
	ID             int    `json:"id"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	HashedPassword string `json:"-"`
	IsVolunteer    bool   `json:"is_volunteer"`
	Role           string `json:"role"`
	CreatedAt      string `json:"created_at,omitempty"`
}
