package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/daycare-backend/internal/model"
	"github.com/stemsi/daycare-backend/internal/render"
	"github.com/stemsi/daycare-backend/internal/repository"
)

var (
	testLog  = zerolog.Nop()
	testZone = time.FixedZone("center", -3*3600)
)

func fixedNow(y int, m time.Month, d, hh, mm int) func() time.Time {
	t := time.Date(y, m, d, hh, mm, 0, 0, testZone)
	return func() time.Time { return t }
}

var testCatalog = []model.Schedule{
	{ID: "full-day", Name: "Full day", Price: 410, ContractualEnd: "17:00"},
	{ID: "morning", Name: "Morning", Price: 280, ContractualEnd: "13:00"},
}

type recordedActivity struct {
	mu      sync.Mutex
	entries []model.ActivityEntry
}

func (r *recordedActivity) Record(_ context.Context, e model.ActivityEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *recordedActivity) actions() []model.ActivityAction {
	var out []model.ActivityAction
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

// ─── students ───────────────────────────────────────────────────────

type fakeStudents struct {
	byID    map[int]*model.Student
	nextID  int
	applied []int
	listErr error
	// applyErr fails the next apply of a student once.
	applyErr map[int]error
}

func newFakeStudents(students ...model.Student) *fakeStudents {
	f := &fakeStudents{byID: map[int]*model.Student{}, nextID: 100}
	for i := range students {
		s := students[i]
		f.byID[s.ID] = &s
	}
	return f
}

func (f *fakeStudents) GetByID(_ context.Context, id int) (*model.Student, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrStudentNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStudents) sorted() []model.Student {
	out := make([]model.Student, 0, len(f.byID))
	for _, s := range f.byID {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeStudents) ListPaginated(_ context.Context, search string, limit, offset int) ([]model.Student, int, error) {
	var matched []model.Student
	for _, s := range f.sorted() {
		if search == "" || strings.Contains(strings.ToLower(s.Name), strings.ToLower(search)) {
			matched = append(matched, s)
		}
	}
	total := len(matched)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (f *fakeStudents) ListAll(_ context.Context) ([]model.Student, error) {
	return f.sorted(), nil
}

func (f *fakeStudents) Create(_ context.Context, s *model.Student) error {
	f.nextID++
	s.ID = f.nextID
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeStudents) Update(_ context.Context, s *model.Student) error {
	if _, ok := f.byID[s.ID]; !ok {
		return repository.ErrStudentNotFound
	}
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeStudents) SetEnrollmentFeePaid(_ context.Context, id int, paid bool) error {
	s, ok := f.byID[id]
	if !ok {
		return repository.ErrStudentNotFound
	}
	s.EnrollmentFeePaid = paid
	return nil
}

func (f *fakeStudents) Delete(_ context.Context, id int) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrStudentNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeStudents) ListPendingScheduleChanges(_ context.Context, month string) ([]model.Student, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Student
	for _, s := range f.sorted() {
		if s.PendingScheduleID != "" && s.PendingScheduleFrom <= month {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStudents) ApplyPendingSchedule(_ context.Context, id int) (bool, error) {
	if err, ok := f.applyErr[id]; ok {
		delete(f.applyErr, id)
		return false, err
	}
	s := f.byID[id]
	if s.PendingScheduleID == "" {
		return false, nil
	}
	s.ScheduleID = s.PendingScheduleID
	s.PendingScheduleID = ""
	s.PendingScheduleFrom = ""
	f.applied = append(f.applied, id)
	return true, nil
}

// ─── penalties ──────────────────────────────────────────────────────

type fakePenalties struct {
	items  []model.Penalty
	nextID int
}

func (f *fakePenalties) ListByStudent(_ context.Context, studentID int) ([]model.Penalty, error) {
	var out []model.Penalty
	for _, p := range f.items {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePenalties) ListByStudentMonth(ctx context.Context, studentID int, month string) ([]model.Penalty, error) {
	all, _ := f.ListByStudent(ctx, studentID)
	var out []model.Penalty
	for _, p := range all {
		if strings.HasPrefix(p.Date, month) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePenalties) Create(_ context.Context, p *model.Penalty) error {
	f.nextID++
	p.ID = f.nextID
	f.items = append(f.items, *p)
	return nil
}

func (f *fakePenalties) Delete(_ context.Context, studentID, id int) error {
	for i, p := range f.items {
		if p.ID == id && p.StudentID == studentID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrPenaltyNotFound
}

// ─── attendance ─────────────────────────────────────────────────────

type fakeAttendance struct {
	records []model.Attendance
	links   map[int]int
}

func (f *fakeAttendance) CheckIn(_ context.Context, studentID int, date string, at time.Time) (*model.Attendance, error) {
	for _, r := range f.records {
		if r.StudentID == studentID && r.Date == date {
			return nil, repository.ErrAlreadyCheckedIn
		}
	}
	rec := model.Attendance{ID: len(f.records) + 1, StudentID: studentID, Date: date, CheckInAt: at}
	f.records = append(f.records, rec)
	return &rec, nil
}

func (f *fakeAttendance) CheckOut(_ context.Context, studentID int, date string, at time.Time, pickedUpBy string) (*model.Attendance, error) {
	for i, r := range f.records {
		if r.StudentID == studentID && r.Date == date && r.CheckOutAt == nil {
			f.records[i].CheckOutAt = &at
			f.records[i].PickedUpBy = pickedUpBy
			rec := f.records[i]
			return &rec, nil
		}
	}
	return nil, repository.ErrNotCheckedIn
}

func (f *fakeAttendance) LinkLatePickup(_ context.Context, attendanceID, penaltyID int) error {
	if f.links == nil {
		f.links = map[int]int{}
	}
	f.links[attendanceID] = penaltyID
	return nil
}

func (f *fakeAttendance) ListByDate(_ context.Context, date string) ([]model.Attendance, error) {
	var out []model.Attendance
	for _, r := range f.records {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAttendance) ListByMonth(_ context.Context, month string, studentID *int) ([]model.Attendance, error) {
	var out []model.Attendance
	for _, r := range f.records {
		if strings.HasPrefix(r.Date, month) && (studentID == nil || r.StudentID == *studentID) {
			out = append(out, r)
		}
	}
	return out, nil
}

// ─── invoices ───────────────────────────────────────────────────────

type fakeInvoices struct {
	stored []model.Invoice
}

func (f *fakeInvoices) Create(_ context.Context, inv *model.Invoice) error {
	inv.ID = len(f.stored) + 1
	inv.CreatedAt = time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	f.stored = append(f.stored, *inv)
	return nil
}

func (f *fakeInvoices) GetByID(_ context.Context, studentID, id int) (*model.Invoice, error) {
	for _, inv := range f.stored {
		if inv.ID == id && inv.StudentID == studentID {
			cp := inv
			return &cp, nil
		}
	}
	return nil, repository.ErrInvoiceNotFound
}

func (f *fakeInvoices) ListByStudent(_ context.Context, studentID int) ([]model.Invoice, error) {
	var out []model.Invoice
	for _, inv := range f.stored {
		if inv.StudentID == studentID {
			out = append(out, inv)
		}
	}
	return out, nil
}

type staticSettings map[string]string

func (s staticSettings) GetAllSettings(context.Context) (map[string]string, error) {
	return s, nil
}

type captureRenderer struct {
	docs []render.Invoice
	err  error
}

func (r *captureRenderer) RenderInvoice(inv render.Invoice) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.docs = append(r.docs, inv)
	return []byte("%PDF-1.4 " + inv.Number), nil
}
