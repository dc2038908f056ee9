package domain

import "time"

// Receipt is the confirmation record minted by checkout. It is returned
// to the caller once and never stored server-side.
type Receipt struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Total     float64   `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}
