package model

import "time"

// Student represents a child enrolled (or about to be enrolled) at the center.
//
// StartDate and PlannedEndDate are calendar dates in YYYY-MM-DD form. An empty
// StartDate means the child is not enrolled yet; an empty PlannedEndDate means
// the enrollment is open-ended.
type Student struct {
	ID                  int       `json:"id"`
	Name                string    `json:"name"`
	BirthDate           string    `json:"birth_date,omitempty"`
	GuardianName        string    `json:"guardian_name"`
	GuardianPhone       string    `json:"guardian_phone"`
	StartDate           string    `json:"start_date,omitempty"`
	PlannedEndDate      string    `json:"planned_end_date,omitempty"`
	ScheduleID          string    `json:"schedule_id"`
	ExtendedSchedule    bool      `json:"extended_schedule"`
	EnrollmentFeePaid   bool      `json:"enrollment_fee_paid"`
	PendingScheduleID   string    `json:"pending_schedule_id,omitempty"`
	PendingScheduleFrom string    `json:"pending_schedule_from,omitempty"` // YYYY-MM
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// CreateStudentRequest is the payload for enrolling a new student.
type CreateStudentRequest struct {
	Name              string `json:"name" binding:"required,min=2,max=100"`
	BirthDate         string `json:"birth_date" binding:"omitempty,calendar_date"`
	GuardianName      string `json:"guardian_name" binding:"required,min=2,max=100"`
	GuardianPhone     string `json:"guardian_phone" binding:"required,min=6,max=20"`
	StartDate         string `json:"start_date" binding:"omitempty,calendar_date"`
	PlannedEndDate    string `json:"planned_end_date" binding:"omitempty,calendar_date"`
	ScheduleID        string `json:"schedule_id" binding:"required,schedule_id"`
	ExtendedSchedule  bool   `json:"extended_schedule"`
	EnrollmentFeePaid bool   `json:"enrollment_fee_paid"`
	Notes             string `json:"notes" binding:"max=500"`
}

// UpdateStudentRequest is the payload for updating an existing student.
type UpdateStudentRequest struct {
	CreateStudentRequest
	PendingScheduleID   string `json:"pending_schedule_id" binding:"omitempty,schedule_id"`
	PendingScheduleFrom string `json:"pending_schedule_from" binding:"required_with=PendingScheduleID,omitempty,calendar_month"`
}
