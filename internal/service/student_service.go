package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/daycare-backend/internal/billing"
	"github.com/stemsi/daycare-backend/internal/model"
	"github.com/stemsi/daycare-backend/internal/response"
)

// ErrInvalidEnrollmentWindow is returned when the planned end precedes the start.
var ErrInvalidEnrollmentWindow = errors.New("planned end date is before start date")

// ActiveFilter restricts a student listing to one enrollment window.
type ActiveFilter string

const (
	ActiveAny       ActiveFilter = ""
	ActiveThisMonth ActiveFilter = "this"
	ActiveLastMonth ActiveFilter = "last"
	ActiveNextMonth ActiveFilter = "next"
)

type studentStore interface {
	GetByID(ctx context.Context, id int) (*model.Student, error)
	ListPaginated(ctx context.Context, search string, limit, offset int) ([]model.Student, int, error)
	ListAll(ctx context.Context) ([]model.Student, error)
	Create(ctx context.Context, s *model.Student) error
	Update(ctx context.Context, s *model.Student) error
	SetEnrollmentFeePaid(ctx context.Context, id int, paid bool) error
	Delete(ctx context.Context, id int) error
}

// StudentService handles enrollment records.
type StudentService struct {
	repo     studentStore
	activity ActivityRecorder
	now      func() time.Time
	log      zerolog.Logger
}

// NewStudentService creates a new StudentService. now returns the current
// time in the center's zone.
func NewStudentService(repo studentStore, activity ActivityRecorder, now func() time.Time, log zerolog.Logger) *StudentService {
	return &StudentService{
		repo:     repo,
		activity: activity,
		now:      now,
		log:      log.With().Str("component", "student_service").Logger(),
	}
}

// ActivePredicate returns the billing window check for f, or nil for ActiveAny.
func ActivePredicate(f ActiveFilter) func(model.Student, billing.Date) bool {
	switch f {
	case ActiveThisMonth:
		return billing.ActiveThisMonth
	case ActiveLastMonth:
		return billing.ActiveLastMonth
	case ActiveNextMonth:
		return billing.ActiveNextMonth
	}
	return nil
}

// GetByID retrieves a student by ID.
func (s *StudentService) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return s.repo.GetByID(ctx, id)
}

// ListStudents lists students by name. With an active filter the whole roster
// is loaded and narrowed with the billing window predicates.
func (s *StudentService) ListStudents(ctx context.Context, search string, active ActiveFilter, page, perPage int) ([]model.Student, *response.Pagination, error) {
	page, perPage = normalizePage(page, perPage)
	offset := (page - 1) * perPage

	pred := ActivePredicate(active)
	if pred == nil {
		students, total, err := s.repo.ListPaginated(ctx, search, perPage, offset)
		if err != nil {
			return nil, nil, err
		}
		if students == nil {
			students = []model.Student{}
		}
		return students, paginate(page, perPage, total), nil
	}

	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	today := billing.DateOf(s.now())
	needle := strings.ToLower(search)
	matched := make([]model.Student, 0, len(all))
	for _, st := range all {
		if needle != "" && !strings.Contains(strings.ToLower(st.Name), needle) {
			continue
		}
		if pred(st, today) {
			matched = append(matched, st)
		}
	}

	total := len(matched)
	if offset > total {
		offset = total
	}
	end := offset + perPage
	if end > total {
		end = total
	}
	return matched[offset:end], paginate(page, perPage, total), nil
}

func checkWindow(start, plannedEnd string) error {
	if start == "" || plannedEnd == "" {
		return nil
	}
	s, err := billing.ParseDate(start)
	if err != nil {
		return err
	}
	e, err := billing.ParseDate(plannedEnd)
	if err != nil {
		return err
	}
	if e.Before(s) {
		return ErrInvalidEnrollmentWindow
	}
	return nil
}

func applyStudentRequest(st *model.Student, req *model.CreateStudentRequest) {
	st.Name = req.Name
	st.BirthDate = req.BirthDate
	st.GuardianName = req.GuardianName
	st.GuardianPhone = req.GuardianPhone
	st.StartDate = req.StartDate
	st.PlannedEndDate = req.PlannedEndDate
	st.ScheduleID = req.ScheduleID
	st.ExtendedSchedule = req.ExtendedSchedule
	st.EnrollmentFeePaid = req.EnrollmentFeePaid
	st.Notes = req.Notes
}

// Create enrolls a new student.
func (s *StudentService) Create(ctx context.Context, actorID int, req *model.CreateStudentRequest) (*model.Student, error) {
	if err := checkWindow(req.StartDate, req.PlannedEndDate); err != nil {
		return nil, err
	}

	st := &model.Student{}
	applyStudentRequest(st, req)
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}

	s.activity.Record(ctx, model.ActivityEntry{
		ActorID:  actorID,
		Action:   model.ActionCreated,
		Entity:   "student",
		EntityID: st.ID,
		Summary:  fmt.Sprintf("enrolled %s (%s)", st.Name, st.ScheduleID),
	})
	return st, nil
}

// Update replaces a student's editable fields.
func (s *StudentService) Update(ctx context.Context, actorID, id int, req *model.UpdateStudentRequest) (*model.Student, error) {
	if err := checkWindow(req.StartDate, req.PlannedEndDate); err != nil {
		return nil, err
	}

	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyStudentRequest(st, &req.CreateStudentRequest)
	st.PendingScheduleID = req.PendingScheduleID
	st.PendingScheduleFrom = req.PendingScheduleFrom
	if st.PendingScheduleID == "" {
		st.PendingScheduleFrom = ""
	}

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}

	summary := "updated " + st.Name
	if st.PendingScheduleID != "" {
		summary += fmt.Sprintf(", schedule %s from %s", st.PendingScheduleID, st.PendingScheduleFrom)
	}
	s.activity.Record(ctx, model.ActivityEntry{
		ActorID:  actorID,
		Action:   model.ActionUpdated,
		Entity:   "student",
		EntityID: st.ID,
		Summary:  summary,
	})
	return st, nil
}

// MarkEnrollmentFeePaid records that the one-time enrollment fee was collected.
func (s *StudentService) MarkEnrollmentFeePaid(ctx context.Context, actorID, id int) error {
	if err := s.repo.SetEnrollmentFeePaid(ctx, id, true); err != nil {
		return err
	}
	s.activity.Record(ctx, model.ActivityEntry{
		ActorID:  actorID,
		Action:   model.ActionUpdated,
		Entity:   "student",
		EntityID: id,
		Summary:  "enrollment fee paid",
	})
	return nil
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, actorID, id int) error {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.activity.Record(ctx, model.ActivityEntry{
		ActorID:  actorID,
		Action:   model.ActionDeleted,
		Entity:   "student",
		EntityID: id,
		Summary:  "removed " + st.Name,
	})
	return nil
}
