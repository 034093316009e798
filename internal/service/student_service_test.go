package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/daycare-backend/internal/model"
)

func roster() *fakeStudents {
	return newFakeStudents(
		model.Student{ID: 1, Name: "Ana", ScheduleID: "full-day", StartDate: "2025-01-10"},
		model.Student{ID: 2, Name: "Ben", ScheduleID: "morning", StartDate: "2025-04-01"},
		model.Student{ID: 3, Name: "Carla", ScheduleID: "full-day", StartDate: "2024-05-01", PlannedEndDate: "2025-02-28"},
		model.Student{ID: 4, Name: "Dan", ScheduleID: "morning"},
	)
}

func names(students []model.Student) []string {
	out := make([]string, 0, len(students))
	for _, s := range students {
		out = append(out, s.Name)
	}
	return out
}

func TestListStudents_ActiveFilters(t *testing.T) {
	svc := NewStudentService(roster(), &recordedActivity{}, fixedNow(2025, 3, 12, 9, 0), testLog)
	ctx := context.Background()

	tests := []struct {
		filter ActiveFilter
		want   []string
	}{
		{ActiveAny, []string{"Ana", "Ben", "Carla", "Dan"}},
		{ActiveThisMonth, []string{"Ana"}},
		{ActiveLastMonth, []string{"Ana", "Carla"}},
		{ActiveNextMonth, []string{"Ana", "Ben"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			got, pag, err := svc.ListStudents(ctx, "", tt.filter, 1, 20)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
			assert.Equal(t, len(tt.want), pag.TotalItems)
		})
	}
}

func TestListStudents_ActiveFilterPaginates(t *testing.T) {
	svc := NewStudentService(roster(), &recordedActivity{}, fixedNow(2025, 3, 12, 9, 0), testLog)

	got, pag, err := svc.ListStudents(context.Background(), "", ActiveNextMonth, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ben"}, names(got))
	assert.Equal(t, 2, pag.TotalPages)

	got, _, err = svc.ListStudents(context.Background(), "", ActiveNextMonth, 5, 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListStudents_SearchWithFilter(t *testing.T) {
	svc := NewStudentService(roster(), &recordedActivity{}, fixedNow(2025, 3, 12, 9, 0), testLog)

	got, _, err := svc.ListStudents(context.Background(), "car", ActiveLastMonth, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Carla"}, names(got))
}

func TestCreateStudent(t *testing.T) {
	activity := &recordedActivity{}
	svc := NewStudentService(newFakeStudents(), activity, fixedNow(2025, 3, 12, 9, 0), testLog)

	st, err := svc.Create(context.Background(), 7, &model.CreateStudentRequest{
		Name:          "Eva",
		GuardianName:  "Rosa",
		GuardianPhone: "5551234",
		StartDate:     "2025-03-03",
		ScheduleID:    "morning",
	})
	require.NoError(t, err)
	assert.NotZero(t, st.ID)

	require.Len(t, activity.entries, 1)
	assert.Equal(t, model.ActionCreated, activity.entries[0].Action)
	assert.Equal(t, 7, activity.entries[0].ActorID)
	assert.Equal(t, st.ID, activity.entries[0].EntityID)
}

func TestCreateStudent_RejectsInvertedWindow(t *testing.T) {
	activity := &recordedActivity{}
	svc := NewStudentService(newFakeStudents(), activity, fixedNow(2025, 3, 12, 9, 0), testLog)

	_, err := svc.Create(context.Background(), 1, &model.CreateStudentRequest{
		Name:           "Eva",
		StartDate:      "2025-03-03",
		PlannedEndDate: "2025-02-28",
		ScheduleID:     "morning",
	})
	assert.ErrorIs(t, err, ErrInvalidEnrollmentWindow)
	assert.Empty(t, activity.entries)
}

func TestUpdateStudent_PendingSchedule(t *testing.T) {
	students := roster()
	svc := NewStudentService(students, &recordedActivity{}, fixedNow(2025, 3, 12, 9, 0), testLog)

	req := &model.UpdateStudentRequest{
		CreateStudentRequest: model.CreateStudentRequest{
			Name: "Ana", GuardianName: "Lu", GuardianPhone: "555000", StartDate: "2025-01-10", ScheduleID: "full-day",
		},
		PendingScheduleID:   "morning",
		PendingScheduleFrom: "2025-04",
	}
	st, err := svc.Update(context.Background(), 1, 1, req)
	require.NoError(t, err)
	assert.Equal(t, "full-day", st.ScheduleID)
	assert.Equal(t, "morning", st.PendingScheduleID)

	req.PendingScheduleID = ""
	st, err = svc.Update(context.Background(), 1, 1, req)
	require.NoError(t, err)
	assert.Empty(t, st.PendingScheduleFrom)
}

func TestMarkEnrollmentFeePaid(t *testing.T) {
	students := roster()
	svc := NewStudentService(students, &recordedActivity{}, fixedNow(2025, 3, 12, 9, 0), testLog)

	require.NoError(t, svc.MarkEnrollmentFeePaid(context.Background(), 1, 2))
	assert.True(t, students.byID[2].EnrollmentFeePaid)
}
