package models

type FloodReport struct {
	ID          int     `json:"id"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	ImageURL    string  `json:"image_url,omitempty"`
	Severity    string  `json:"severity"`
	Timestamp   string  `json:"timestamp"`
	UserID      int     `json:"user_id"`
}
