package model

import "time"

// Attendance is one student's presence record for a single day.
type Attendance struct {
	ID           int        `json:"id"`
	StudentID    int        `json:"student_id"`
	StudentName  string     `json:"student_name,omitempty"`
	Date         string     `json:"date"` // YYYY-MM-DD
	CheckInAt    time.Time  `json:"check_in_at"`
	CheckOutAt   *time.Time `json:"check_out_at,omitempty"`
	PickedUpBy   string     `json:"picked_up_by,omitempty"`
	LatePickupID *int       `json:"late_pickup_penalty_id,omitempty"`
}

// CheckOutRequest is the payload for checking a student out.
type CheckOutRequest struct {
	PickedUpBy string `json:"picked_up_by" binding:"required,min=2,max=100"`
}
