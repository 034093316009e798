package service

import (
	"context"
	"testing"

	"github.com/stemsi/daycare-backend/internal/model"
	"github.com/stemsi/daycare-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPenaltyService_CreateAndListByMonth(t *testing.T) {
	ctx := context.Background()
	students := newFakeStudents(model.Student{ID: 1, Name: "Ana", ScheduleID: "full-day"})
	penalties := &fakePenalties{}
	activity := &recordedActivity{}
	svc := NewPenaltyService(penalties, students, activity)

	_, err := svc.Create(ctx, 9, 1, &model.CreatePenaltyRequest{Date: "2025-03-04", Amount: 15, Reason: "late pickup (17:25)"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 9, 1, &model.CreatePenaltyRequest{Date: "2025-04-02", Amount: 5, Reason: "forgot bag"})
	require.NoError(t, err)

	march, err := svc.List(ctx, 1, "2025-03")
	require.NoError(t, err)
	require.Len(t, march, 1)
	assert.Equal(t, 15.0, march[0].Amount)

	all, err := svc.List(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assert.Equal(t, []model.ActivityAction{model.ActionCreated, model.ActionCreated}, activity.actions())
	assert.Equal(t, 9, activity.entries[0].ActorID)
	assert.Equal(t, "penalty", activity.entries[0].Entity)
}

func TestPenaltyService_UnknownStudent(t *testing.T) {
	svc := NewPenaltyService(&fakePenalties{}, newFakeStudents(), &recordedActivity{})

	_, err := svc.Create(context.Background(), 1, 42, &model.CreatePenaltyRequest{Date: "2025-03-04", Amount: 15, Reason: "x"})
	assert.ErrorIs(t, err, repository.ErrStudentNotFound)

	_, err = svc.List(context.Background(), 42, "")
	assert.ErrorIs(t, err, repository.ErrStudentNotFound)
}

func TestPenaltyService_ListEmptyIsNotNil(t *testing.T) {
	svc := NewPenaltyService(&fakePenalties{}, newFakeStudents(model.Student{ID: 1}), &recordedActivity{})

	got, err := svc.List(context.Background(), 1, "2025-03")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPenaltyService_DeleteScopedToStudent(t *testing.T) {
	ctx := context.Background()
	penalties := &fakePenalties{}
	activity := &recordedActivity{}
	svc := NewPenaltyService(penalties, newFakeStudents(model.Student{ID: 1}, model.Student{ID: 2}), activity)

	p, err := svc.Create(ctx, 0, 1, &model.CreatePenaltyRequest{Date: "2025-03-04", Amount: 15, Reason: "late"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, 0, 2, p.ID), repository.ErrPenaltyNotFound)
	require.NoError(t, svc.Delete(ctx, 0, 1, p.ID))
	assert.Empty(t, penalties.items)
	assert.Equal(t, []model.ActivityAction{model.ActionCreated, model.ActionDeleted}, activity.actions())
}
