package model

import "time"

// Penalty is a charge tied to a student and a calendar date (e.g. late pickup).
type Penalty struct {
	ID        int       `json:"id"`
	StudentID int       `json:"student_id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Amount    float64   `json:"amount"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// CreatePenaltyRequest is the payload for recording a penalty.
type CreatePenaltyRequest struct {
	Date   string  `json:"date" binding:"required,calendar_date"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Reason string  `json:"reason" binding:"required,min=2,max=200"`
}
