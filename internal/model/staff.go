package model

import "time"

// Staff is a daycare employee using the time-clock.
type Staff struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// TimeEntry is a clock-in/clock-out pair. ClockOutAt is nil while the shift is open.
type TimeEntry struct {
	ID         int        `json:"id"`
	StaffID    int        `json:"staff_id"`
	ClockInAt  time.Time  `json:"clock_in_at"`
	ClockOutAt *time.Time `json:"clock_out_at,omitempty"`
}

// Hours returns the worked hours of a closed entry, or zero for an open one.
func (e TimeEntry) Hours() float64 {
	if e.ClockOutAt == nil {
		return 0
	}
	return e.ClockOutAt.Sub(e.ClockInAt).Hours()
}

// TimeSheet summarizes a staff member's entries for one month.
type TimeSheet struct {
	StaffID    int         `json:"staff_id"`
	Month      string      `json:"month"` // YYYY-MM
	Entries    []TimeEntry `json:"entries"`
	TotalHours float64     `json:"total_hours"`
}

// CreateStaffRequest is the payload for registering a staff member.
type CreateStaffRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
	Role string `json:"role" binding:"required,min=2,max=50"`
}
