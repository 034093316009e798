package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/daycare-backend/internal/model"
)

var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrStudentHasInvoices = errors.New("student has issued invoices")
)

// Dates are read back as YYYY-MM-DD text so they never pass through a
// time.Time and a zone conversion.
const studentColumns = `id, name,
	COALESCE(to_char(birth_date, 'YYYY-MM-DD'), ''),
	guardian_name, guardian_phone,
	COALESCE(to_char(start_date, 'YYYY-MM-DD'), ''),
	COALESCE(to_char(planned_end_date, 'YYYY-MM-DD'), ''),
	schedule_id, extended_schedule, enrollment_fee_paid,
	COALESCE(pending_schedule_id, ''), COALESCE(pending_schedule_from, ''),
	notes, created_at, updated_at`

// StudentRepository handles student data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func scanStudent(row pgx.Row, s *model.Student) error {
	return row.Scan(&s.ID, &s.Name, &s.BirthDate, &s.GuardianName, &s.GuardianPhone,
		&s.StartDate, &s.PlannedEndDate, &s.ScheduleID, &s.ExtendedSchedule, &s.EnrollmentFeePaid,
		&s.PendingScheduleID, &s.PendingScheduleFrom, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
}

func collectStudents(rows pgx.Rows) ([]model.Student, error) {
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	s := &model.Student{}
	err := scanStudent(r.pool.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id), s)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListPaginated retrieves students ordered by name, optionally filtered by a name search.
func (r *StudentRepository) ListPaginated(ctx context.Context, search string, limit, offset int) ([]model.Student, int, error) {
	where := ""
	var args []interface{}
	if search != "" {
		where = ` WHERE name ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	argIdx := len(args) + 1
	query := `SELECT ` + studentColumns + ` FROM students` + where +
		` ORDER BY name LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	students, err := collectStudents(rows)
	return students, total, err
}

// ListAll retrieves every student. The roster of a single center is small
// enough to filter by active window in memory.
func (r *StudentRepository) ListAll(ctx context.Context) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+studentColumns+` FROM students ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return collectStudents(rows)
}

// ListPendingScheduleChanges returns students whose pending schedule change
// takes effect in or before month (YYYY-MM).
func (r *StudentRepository) ListPendingScheduleChanges(ctx context.Context, month string) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+studentColumns+` FROM students
		 WHERE pending_schedule_id IS NOT NULL AND pending_schedule_from <= $1
		 ORDER BY id`, month)
	if err != nil {
		return nil, err
	}
	return collectStudents(rows)
}

// Create inserts a new student.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO students (name, birth_date, guardian_name, guardian_phone, start_date, planned_end_date,
		                       schedule_id, extended_schedule, enrollment_fee_paid, notes)
		 VALUES ($1, NULLIF($2, '')::date, $3, $4, NULLIF($5, '')::date, NULLIF($6, '')::date, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		s.Name, s.BirthDate, s.GuardianName, s.GuardianPhone, s.StartDate, s.PlannedEndDate,
		s.ScheduleID, s.ExtendedSchedule, s.EnrollmentFeePaid, s.Notes,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// Update modifies a student's record, including any pending schedule change.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE students SET name = $1, birth_date = NULLIF($2, '')::date, guardian_name = $3, guardian_phone = $4,
		        start_date = NULLIF($5, '')::date, planned_end_date = NULLIF($6, '')::date, schedule_id = $7,
		        extended_schedule = $8, enrollment_fee_paid = $9, pending_schedule_id = NULLIF($10, ''),
		        pending_schedule_from = NULLIF($11, ''), notes = $12, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $13`,
		s.Name, s.BirthDate, s.GuardianName, s.GuardianPhone, s.StartDate, s.PlannedEndDate, s.ScheduleID,
		s.ExtendedSchedule, s.EnrollmentFeePaid, s.PendingScheduleID, s.PendingScheduleFrom, s.Notes, s.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// SetEnrollmentFeePaid flips the one-time enrollment fee flag.
func (r *StudentRepository) SetEnrollmentFeePaid(ctx context.Context, id int, paid bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE students SET enrollment_fee_paid = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		paid, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// ApplyPendingSchedule moves the pending schedule into schedule_id and clears it.
func (r *StudentRepository) ApplyPendingSchedule(ctx context.Context, id int) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE students
		 SET schedule_id = pending_schedule_id, pending_schedule_id = NULL, pending_schedule_from = NULL,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND pending_schedule_id IS NOT NULL`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a student by ID.
func (r *StudentRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrStudentHasInvoices
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStudentNotFound
	}
	return nil
}
