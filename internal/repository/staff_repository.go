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
	ErrStaffNotFound    = errors.New("staff member not found")
	ErrAlreadyClockedIn = errors.New("staff member already has an open shift")
	ErrNoOpenShift      = errors.New("staff member has no open shift")
)

// StaffRepository handles staff and time-clock data access.
type StaffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository creates a new StaffRepository.
func NewStaffRepository(pool *pgxpool.Pool) *StaffRepository {
	return &StaffRepository{pool: pool}
}

// List retrieves all staff members.
func (r *StaffRepository) List(ctx context.Context) ([]model.Staff, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, role, active, created_at FROM staff ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var staff []model.Staff
	for rows.Next() {
		var s model.Staff
		if err := rows.Scan(&s.ID, &s.Name, &s.Role, &s.Active, &s.CreatedAt); err != nil {
			return nil, err
		}
		staff = append(staff, s)
	}
	return staff, rows.Err()
}

// GetByID retrieves a staff member.
func (r *StaffRepository) GetByID(ctx context.Context, id int) (*model.Staff, error) {
	s := &model.Staff{}
	err := r.pool.QueryRow(ctx, `SELECT id, name, role, active, created_at FROM staff WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Role, &s.Active, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new staff member.
func (r *StaffRepository) Create(ctx context.Context, s *model.Staff) error {
	s.Active = true
	return r.pool.QueryRow(ctx,
		`INSERT INTO staff (name, role) VALUES ($1, $2) RETURNING id, created_at`,
		s.Name, s.Role,
	).Scan(&s.ID, &s.CreatedAt)
}

// ClockIn opens a shift. The partial unique index on open entries rejects a
// second open shift for the same staff member.
func (r *StaffRepository) ClockIn(ctx context.Context, staffID int, at time.Time) (*model.TimeEntry, error) {
	e := &model.TimeEntry{StaffID: staffID, ClockInAt: at}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO time_entries (staff_id, clock_in_at) VALUES ($1, $2) RETURNING id`,
		staffID, at,
	).Scan(&e.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, ErrAlreadyClockedIn
			case "23503":
				return nil, ErrStaffNotFound
			}
		}
		return nil, err
	}
	return e, nil
}

// ClockOut closes the open shift.
func (r *StaffRepository) ClockOut(ctx context.Context, staffID int, at time.Time) (*model.TimeEntry, error) {
	e := &model.TimeEntry{StaffID: staffID, ClockOutAt: &at}
	err := r.pool.QueryRow(ctx,
		`UPDATE time_entries SET clock_out_at = $1
		 WHERE staff_id = $2 AND clock_out_at IS NULL
		 RETURNING id, clock_in_at`,
		at, staffID,
	).Scan(&e.ID, &e.ClockInAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoOpenShift
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListEntries retrieves a staff member's entries whose shift started in [from, to).
func (r *StaffRepository) ListEntries(ctx context.Context, staffID int, from, to time.Time) ([]model.TimeEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, staff_id, clock_in_at, clock_out_at FROM time_entries
		 WHERE staff_id = $1 AND clock_in_at >= $2 AND clock_in_at < $3
		 ORDER BY clock_in_at`, staffID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.TimeEntry
	for rows.Next() {
		var e model.TimeEntry
		if err := rows.Scan(&e.ID, &e.StaffID, &e.ClockInAt, &e.ClockOutAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
