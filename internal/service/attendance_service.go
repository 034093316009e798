package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/daycare-backend/internal/billing"
	"github.com/stemsi/daycare-backend/internal/config"
	"github.com/stemsi/daycare-backend/internal/model"
	"github.com/stemsi/daycare-backend/internal/render"
)

// ErrStudentNotEnrolled is returned when checking in a student outside their enrollment.
var ErrStudentNotEnrolled = errors.New("student is not enrolled on this date")

type attendanceStore interface {
	CheckIn(ctx context.Context, studentID int, date string, at time.Time) (*model.Attendance, error)
	CheckOut(ctx context.Context, studentID int, date string, at time.Time, pickedUpBy string) (*model.Attendance, error)
	LinkLatePickup(ctx context.Context, attendanceID, penaltyID int) error
	ListByDate(ctx context.Context, date string) ([]model.Attendance, error)
	ListByMonth(ctx context.Context, month string, studentID *int) ([]model.Attendance, error)
}

type penaltyWriter interface {
	Create(ctx context.Context, p *model.Penalty) error
}

// AttendanceService handles daily check-in and check-out.
type AttendanceService struct {
	repo      attendanceStore
	students  studentGetter
	penalties penaltyWriter
	activity  ActivityRecorder
	grace     time.Duration
	lateFee   float64
	now       func() time.Time
	log       zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(
	repo attendanceStore,
	students studentGetter,
	penalties penaltyWriter,
	activity ActivityRecorder,
	cfg *config.Config,
	now func() time.Time,
	log zerolog.Logger,
) *AttendanceService {
	return &AttendanceService{
		repo:      repo,
		students:  students,
		penalties: penalties,
		activity:  activity,
		grace:     cfg.LatePickupGrace,
		lateFee:   cfg.LatePickupFee,
		now:       now,
		log:       log.With().Str("component", "attendance_service").Logger(),
	}
}

// PickupDeadline is the latest check-out time on the day of at that is not
// late for the schedule: its contractual end plus grace.
func PickupDeadline(sched model.Schedule, at time.Time, grace time.Duration) (time.Time, bool) {
	end, err := time.Parse("15:04", sched.ContractualEnd)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := at.Date()
	deadline := time.Date(y, m, d, end.Hour(), end.Minute(), 0, 0, at.Location())
	return deadline.Add(grace), true
}

// CheckIn opens today's record for a student.
func (s *AttendanceService) CheckIn(ctx context.Context, actorID, studentID int) (*model.Attendance, error) {
	st, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := billing.DateOf(now)
	if !billing.EnrolledOn(*st, today) {
		return nil, ErrStudentNotEnrolled
	}

	rec, err := s.repo.CheckIn(ctx, studentID, today.String(), now)
	if err != nil {
		return nil, err
	}
	rec.StudentName = st.Name

	s.activity.Record(ctx, model.ActivityEntry{
		ActorID:  actorID,
		Action:   model.ActionCheckIn,
		Entity:   "student",
		EntityID: studentID,
		Summary:  fmt.Sprintf("%s checked in at %s", st.Name, now.Format("15:04")),
	})
	return rec, nil
}

// CheckOut closes today's record. A pickup after the schedule's contractual
// end plus grace raises a late-pickup penalty.
func (s *AttendanceService) CheckOut(ctx context.Context, actorID, studentID int, pickedUpBy string) (*model.Attendance, error) {
	st, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := billing.DateOf(now)
	rec, err := s.repo.CheckOut(ctx, studentID, today.String(), now, pickedUpBy)
	if err != nil {
		return nil, err
	}
	rec.StudentName = st.Name

	s.activity.Record(ctx, model.ActivityEntry{
		ActorID:  actorID,
		Action:   model.ActionCheckOut,
		Entity:   "student",
		EntityID: studentID,
		Summary:  fmt.Sprintf("%s picked up by %s at %s", st.Name, pickedUpBy, now.Format("15:04")),
	})

	sched, ok := config.ScheduleByID(st.ScheduleID)
	if !ok {
		return rec, nil
	}
	deadline, ok := PickupDeadline(sched, now, s.grace)
	if !ok || !now.After(deadline) {
		return rec, nil
	}

	p := &model.Penalty{
		StudentID: studentID,
		Date:      today.String(),
		Amount:    s.lateFee,
		Reason:    fmt.Sprintf("late pickup (%s)", now.Format("15:04")),
	}
	if err := s.penalties.Create(ctx, p); err != nil {
		// The checkout itself succeeded; the penalty can still be added by hand.
		s.log.Error().Err(err).Int("student_id", studentID).Msg("failed to record late pickup penalty")
		return rec, nil
	}
	if err := s.repo.LinkLatePickup(ctx, rec.ID, p.ID); err != nil {
		s.log.Warn().Err(err).Int("attendance_id", rec.ID).Msg("failed to link late pickup penalty")
	}
	rec.LatePickupID = &p.ID

	s.activity.Record(ctx, model.ActivityEntry{
		ActorID:  actorID,
		Action:   model.ActionCreated,
		Entity:   "penalty",
		EntityID: p.ID,
		Summary:  fmt.Sprintf("%s: %s", st.Name, p.Reason),
	})
	return rec, nil
}

// ListByDate returns the records of one day (YYYY-MM-DD), defaulting to today.
func (s *AttendanceService) ListByDate(ctx context.Context, date string) ([]model.Attendance, error) {
	if date == "" {
		date = billing.DateOf(s.now()).String()
	}
	records, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.Attendance{}
	}
	return records, nil
}

// ListByStudentMonth returns a student's records of month (YYYY-MM).
func (s *AttendanceService) ListByStudentMonth(ctx context.Context, studentID int, month string) ([]model.Attendance, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	records, err := s.repo.ListByMonth(ctx, month, &studentID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.Attendance{}
	}
	return records, nil
}

// ExportMonth builds the attendance workbook of month (YYYY-MM).
func (s *AttendanceService) ExportMonth(ctx context.Context, month string) ([]byte, error) {
	records, err := s.repo.ListByMonth(ctx, month, nil)
	if err != nil {
		return nil, err
	}

	loc := s.now().Location()
	rows := make([]render.AttendanceRow, 0, len(records))
	for _, r := range records {
		row := render.AttendanceRow{
			Date:        r.Date,
			StudentName: r.StudentName,
			CheckIn:     r.CheckInAt.In(loc).Format("15:04"),
			PickedUpBy:  r.PickedUpBy,
			LatePickup:  r.LatePickupID != nil,
		}
		if r.CheckOutAt != nil {
			row.CheckOut = r.CheckOutAt.In(loc).Format("15:04")
		}
		rows = append(rows, row)
	}
	return render.AttendanceWorkbook(month, rows)
}
