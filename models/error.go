package models

type Error struct {
	Detail string `json:"detail"`
}
