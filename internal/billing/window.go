package billing

import "github.com/stemsi/daycare-backend/internal/model"

// ActiveIn reports whether the student's active window overlaps month p.
// A student without a start date is never active.
func ActiveIn(student model.Student, p Period) bool {
	start, ok := parseOptional(student.StartDate)
	if !ok || start.After(p.Last()) {
		return false
	}
	if end, ok := parseOptional(student.PlannedEndDate); ok && end.Before(p.First()) {
		return false
	}
	return true
}

func ActiveThisMonth(student model.Student, today Date) bool {
	return ActiveIn(student, PeriodOf(today))
}

func ActiveLastMonth(student model.Student, today Date) bool {
	return ActiveIn(student, PeriodOf(today).Prev())
}

func ActiveNextMonth(student model.Student, today Date) bool {
	return ActiveIn(student, PeriodOf(today).Next())
}

// FirstActivePeriod returns the month of the student's start date.
func FirstActivePeriod(student model.Student) (Period, bool) {
	start, ok := parseOptional(student.StartDate)
	if !ok {
		return Period{}, false
	}
	return PeriodOf(start), true
}

// EnrolledOn reports whether d falls inside the student's enrollment.
func EnrolledOn(student model.Student, d Date) bool {
	start, ok := parseOptional(student.StartDate)
	if !ok || d.Before(start) {
		return false
	}
	if end, ok := parseOptional(student.PlannedEndDate); ok && d.After(end) {
		return false
	}
	return true
}
