package service

import (
	"context"
	"fmt"

	"github.com/stemsi/daycare-backend/internal/model"
)

type studentGetter interface {
	GetByID(ctx context.Context, id int) (*model.Student, error)
}

type penaltyStore interface {
	ListByStudent(ctx context.Context, studentID int) ([]model.Penalty, error)
	ListByStudentMonth(ctx context.Context, studentID int, month string) ([]model.Penalty, error)
	Create(ctx context.Context, p *model.Penalty) error
	Delete(ctx context.Context, studentID, id int) error
}

// PenaltyService records extra charges against students.
type PenaltyService struct {
	repo     penaltyStore
	students studentGetter
	activity ActivityRecorder
}

// NewPenaltyService creates a new PenaltyService.
func NewPenaltyService(repo penaltyStore, students studentGetter, activity ActivityRecorder) *PenaltyService {
	return &PenaltyService{repo: repo, students: students, activity: activity}
}

// List returns a student's penalties, limited to month (YYYY-MM) when given.
func (s *PenaltyService) List(ctx context.Context, studentID int, month string) ([]model.Penalty, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	var (
		penalties []model.Penalty
		err       error
	)
	if month != "" {
		penalties, err = s.repo.ListByStudentMonth(ctx, studentID, month)
	} else {
		penalties, err = s.repo.ListByStudent(ctx, studentID)
	}
	if err != nil {
		return nil, err
	}
	if penalties == nil {
		penalties = []model.Penalty{}
	}
	return penalties, nil
}

// Create records a penalty for a student.
func (s *PenaltyService) Create(ctx context.Context, actorID, studentID int, req *model.CreatePenaltyRequest) (*model.Penalty, error) {
	st, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	p := &model.Penalty{StudentID: studentID, Date: req.Date, Amount: req.Amount, Reason: req.Reason}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create penalty: %w", err)
	}

	s.activity.Record(ctx, model.ActivityEntry{
		ActorID:  actorID,
		Action:   model.ActionCreated,
		Entity:   "penalty",
		EntityID: p.ID,
		Summary:  fmt.Sprintf("%s: %s (%.2f) on %s", st.Name, p.Reason, p.Amount, p.Date),
	})
	return p, nil
}

// Delete removes one of a student's penalties.
func (s *PenaltyService) Delete(ctx context.Context, actorID, studentID, id int) error {
	if err := s.repo.Delete(ctx, studentID, id); err != nil {
		return err
	}
	s.activity.Record(ctx, model.ActivityEntry{
		ActorID:  actorID,
		Action:   model.ActionDeleted,
		Entity:   "penalty",
		EntityID: id,
		Summary:  fmt.Sprintf("penalty %d of student %d removed", id, studentID),
	})
	return nil
}
