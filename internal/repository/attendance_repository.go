package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/daycare-backend/internal/model"
)

var (
	ErrAlreadyCheckedIn = errors.New("student already checked in today")
	ErrNotCheckedIn     = errors.New("student has no open check-in today")
)

const attendanceColumns = `a.id, a.student_id, s.name, to_char(a.attendance_date, 'YYYY-MM-DD'),
	a.check_in_at, a.check_out_at, COALESCE(a.picked_up_by, ''), a.late_pickup_penalty_id`

// AttendanceRepository handles daily attendance data access.
type AttendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

func collectAttendance(rows pgx.Rows) ([]model.Attendance, error) {
	defer rows.Close()

	var records []model.Attendance
	for rows.Next() {
		var a model.Attendance
		if err := rows.Scan(&a.ID, &a.StudentID, &a.StudentName, &a.Date,
			&a.CheckInAt, &a.CheckOutAt, &a.PickedUpBy, &a.LatePickupID); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// CheckIn opens today's attendance record. A second check-in on the same day
// is rejected by the (student_id, attendance_date) unique key.
func (r *AttendanceRepository) CheckIn(ctx context.Context, studentID int, date string, at time.Time) (*model.Attendance, error) {
	a := &model.Attendance{StudentID: studentID, Date: date, CheckInAt: at}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO attendance (student_id, attendance_date, check_in_at)
		 VALUES ($1, $2::date, $3)
		 RETURNING id`,
		studentID, date, at,
	).Scan(&a.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}
	return a, nil
}

// CheckOut closes today's open record.
func (r *AttendanceRepository) CheckOut(ctx context.Context, studentID int, date string, at time.Time, pickedUpBy string) (*model.Attendance, error) {
	a := &model.Attendance{StudentID: studentID, Date: date, CheckOutAt: &at, PickedUpBy: pickedUpBy}
	err := r.pool.QueryRow(ctx,
		`UPDATE attendance SET check_out_at = $1, picked_up_by = $2
		 WHERE student_id = $3 AND attendance_date = $4::date AND check_out_at IS NULL
		 RETURNING id, check_in_at`,
		at, pickedUpBy, studentID, date,
	).Scan(&a.ID, &a.CheckInAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotCheckedIn
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// LinkLatePickup stores the penalty raised for a late checkout.
func (r *AttendanceRepository) LinkLatePickup(ctx context.Context, attendanceID, penaltyID int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE attendance SET late_pickup_penalty_id = $1 WHERE id = $2`, penaltyID, attendanceID)
	return err
}

// ListByDate retrieves all records of one day.
func (r *AttendanceRepository) ListByDate(ctx context.Context, date string) ([]model.Attendance, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attendanceColumns+`
		 FROM attendance a JOIN students s ON s.id = a.student_id
		 WHERE a.attendance_date = $1::date
		 ORDER BY s.name`, date)
	if err != nil {
		return nil, err
	}
	return collectAttendance(rows)
}

// ListByMonth retrieves all records of a month (YYYY-MM), optionally for one student.
func (r *AttendanceRepository) ListByMonth(ctx context.Context, month string, studentID *int) ([]model.Attendance, error) {
	query := `SELECT ` + attendanceColumns + `
		 FROM attendance a JOIN students s ON s.id = a.student_id
		 WHERE to_char(a.attendance_date, 'YYYY-MM') = $1`
	args := []interface{}{month}
	if studentID != nil {
		query += ` AND a.student_id = $2`
		args = append(args, *studentID)
	}
	query += ` ORDER BY a.attendance_date, s.name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectAttendance(rows)
}
