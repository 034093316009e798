package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/daycare-backend/internal/model"
)

var ErrPenaltyNotFound = errors.New("penalty not found")

// PenaltyRepository handles penalty data access.
type PenaltyRepository struct {
	pool *pgxpool.Pool
}

// NewPenaltyRepository creates a new PenaltyRepository.
func NewPenaltyRepository(pool *pgxpool.Pool) *PenaltyRepository {
	return &PenaltyRepository{pool: pool}
}

func collectPenalties(rows pgx.Rows) ([]model.Penalty, error) {
	defer rows.Close()

	var penalties []model.Penalty
	for rows.Next() {
		var p model.Penalty
		if err := rows.Scan(&p.ID, &p.StudentID, &p.Date, &p.Amount, &p.Reason, &p.CreatedAt); err != nil {
			return nil, err
		}
		penalties = append(penalties, p)
	}
	return penalties, rows.Err()
}

// ListByStudent retrieves every penalty of a student, oldest first.
func (r *PenaltyRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Penalty, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, to_char(penalty_date, 'YYYY-MM-DD'), amount, reason, created_at
		 FROM penalties WHERE student_id = $1
		 ORDER BY penalty_date, id`, studentID)
	if err != nil {
		return nil, err
	}
	return collectPenalties(rows)
}

// ListByStudentMonth retrieves a student's penalties dated within month (YYYY-MM).
func (r *PenaltyRepository) ListByStudentMonth(ctx context.Context, studentID int, month string) ([]model.Penalty, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, to_char(penalty_date, 'YYYY-MM-DD'), amount, reason, created_at
		 FROM penalties
		 WHERE student_id = $1 AND to_char(penalty_date, 'YYYY-MM') = $2
		 ORDER BY penalty_date, id`, studentID, month)
	if err != nil {
		return nil, err
	}
	return collectPenalties(rows)
}

// Create inserts a new penalty.
func (r *PenaltyRepository) Create(ctx context.Context, p *model.Penalty) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO penalties (student_id, penalty_date, amount, reason)
		 VALUES ($1, $2::date, $3, $4)
		 RETURNING id, created_at`,
		p.StudentID, p.Date, p.Amount, p.Reason,
	).Scan(&p.ID, &p.CreatedAt)
}

// Delete removes a student's penalty.
func (r *PenaltyRepository) Delete(ctx context.Context, studentID, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM penalties WHERE id = $1 AND student_id = $2`, id, studentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPenaltyNotFound
	}
	return nil
}
