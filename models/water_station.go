package models

type WaterStation struct {
	ID          int     `json:"id"`
	StationName string  `json:"station_name"`
	RiverName   string  `json:"river_name"`
	WaterLevel  float64 `json:"water_level"`
	DangerLevel float64 `json:"danger_level"`
	LastUpdated string  `json:"last_updated"`
}
