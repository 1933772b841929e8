package models

type Campaign struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	TargetAmount float64 `json:"target_amount"`
	RaisedAmount float64 `json:"raised_amount"`
	NGOID        int     `json:"ngo_id"`
}
