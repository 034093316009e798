package service

import (
	"context"
	"time"

	"github.com/stemsi/daycare-backend/internal/billing"
	"github.com/stemsi/daycare-backend/internal/model"
	"github.com/stemsi/daycare-backend/internal/repository"
)

// DashboardData consolidates all metrics for the admin dashboard.
type DashboardData struct {
	Date               string  `json:"date"`
	TotalStudents      int     `json:"total_students"`
	ActiveLastMonth    int     `json:"active_last_month"`
	ActiveThisMonth    int     `json:"active_this_month"`
	ActiveNextMonth    int     `json:"active_next_month"`
	CheckedInToday     int     `json:"checked_in_today"`
	StaffOnShift       int     `json:"staff_on_shift"`
	PenaltiesThisMonth float64 `json:"penalties_this_month"`
}

type rosterLister interface {
	ListAll(ctx context.Context) ([]model.Student, error)
}

// DashboardService handles admin dashboard business logic.
type DashboardService struct {
	repo     *repository.DashboardRepository
	students rosterLister
	now      func() time.Time
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(repo *repository.DashboardRepository, students rosterLister, now func() time.Time) *DashboardService {
	return &DashboardService{repo: repo, students: students, now: now}
}

// CountActive tallies the roster against the last/this/next month windows.
func CountActive(students []model.Student, today billing.Date) (last, this, next int) {
	for _, st := range students {
		if billing.ActiveLastMonth(st, today) {
			last++
		}
		if billing.ActiveThisMonth(st, today) {
			this++
		}
		if billing.ActiveNextMonth(st, today) {
			next++
		}
	}
	return
}

// GetDashboardData gathers the roster windows and today's counters.
func (s *DashboardService) GetDashboardData(ctx context.Context) (*DashboardData, error) {
	today := billing.DateOf(s.now())

	students, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	checkedIn, onShift, penalties, err := s.repo.GetDailyCounts(ctx, today.String(), billing.PeriodOf(today).String())
	if err != nil {
		return nil, err
	}

	data := &DashboardData{
		Date:               today.String(),
		TotalStudents:      len(students),
		CheckedInToday:     checkedIn,
		StaffOnShift:       onShift,
		PenaltiesThisMonth: penalties,
	}
	data.ActiveLastMonth, data.ActiveThisMonth, data.ActiveNextMonth = CountActive(students, today)
	return data, nil
}
