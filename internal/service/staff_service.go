package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/stemsi/daycare-backend/internal/billing"
	"github.com/stemsi/daycare-backend/internal/model"
)

type staffStore interface {
	List(ctx context.Context) ([]model.Staff, error)
	GetByID(ctx context.Context, id int) (*model.Staff, error)
	Create(ctx context.Context, s *model.Staff) error
	ClockIn(ctx context.Context, staffID int, at time.Time) (*model.TimeEntry, error)
	ClockOut(ctx context.Context, staffID int, at time.Time) (*model.TimeEntry, error)
	ListEntries(ctx context.Context, staffID int, from, to time.Time) ([]model.TimeEntry, error)
}

// StaffService manages staff members and their time-clock.
type StaffService struct {
	repo     staffStore
	activity ActivityRecorder
	now      func() time.Time
}

// NewStaffService creates a new StaffService.
func NewStaffService(repo staffStore, activity ActivityRecorder, now func() time.Time) *StaffService {
	return &StaffService{repo: repo, activity: activity, now: now}
}

func (s *StaffService) List(ctx context.Context) ([]model.Staff, error) {
	staff, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		staff = []model.Staff{}
	}
	return staff, nil
}

func (s *StaffService) Create(ctx context.Context, actorID int, req *model.CreateStaffRequest) (*model.Staff, error) {
	st := &model.Staff{Name: req.Name, Role: req.Role}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("create staff: %w", err)
	}
	s.activity.Record(ctx, model.ActivityEntry{
		ActorID:  actorID,
		Action:   model.ActionCreated,
		Entity:   "staff",
		EntityID: st.ID,
		Summary:  fmt.Sprintf("registered %s (%s)", st.Name, st.Role),
	})
	return st, nil
}

// ClockIn opens a shift. A second clock-in while a shift is open is rejected.
func (s *StaffService) ClockIn(ctx context.Context, actorID, staffID int) (*model.TimeEntry, error) {
	st, err := s.repo.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	entry, err := s.repo.ClockIn(ctx, staffID, now)
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, model.ActivityEntry{
		ActorID:  actorID,
		Action:   model.ActionClockIn,
		Entity:   "staff",
		EntityID: staffID,
		Summary:  fmt.Sprintf("%s clocked in at %s", st.Name, now.Format("15:04")),
	})
	return entry, nil
}

// ClockOut closes the open shift.
func (s *StaffService) ClockOut(ctx context.Context, actorID, staffID int) (*model.TimeEntry, error) {
	st, err := s.repo.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	entry, err := s.repo.ClockOut(ctx, staffID, now)
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, model.ActivityEntry{
		ActorID:  actorID,
		Action:   model.ActionClockOut,
		Entity:   "staff",
		EntityID: staffID,
		Summary:  fmt.Sprintf("%s clocked out at %s (%.2f h)", st.Name, now.Format("15:04"), entry.Hours()),
	})
	return entry, nil
}

// TimeSheet lists the shifts started in month (YYYY-MM) with the worked hours
// of the closed ones, rounded to two decimals.
func (s *StaffService) TimeSheet(ctx context.Context, staffID int, month string) (*model.TimeSheet, error) {
	if _, err := s.repo.GetByID(ctx, staffID); err != nil {
		return nil, err
	}
	p, err := billing.ParsePeriod(month)
	if err != nil {
		return nil, err
	}

	loc := s.now().Location()
	from := time.Date(p.Year, time.Month(p.Month+1), 1, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 1, 0)

	entries, err := s.repo.ListEntries(ctx, staffID, from, to)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.TimeEntry{}
	}

	var total float64
	for _, e := range entries {
		total += e.Hours()
	}
	return &model.TimeSheet{
		StaffID:    staffID,
		Month:      p.String(),
		Entries:    entries,
		TotalHours: math.Round(total*100) / 100,
	}, nil
}
