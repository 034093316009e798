package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardRepository handles admin dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetDailyCounts retrieves today's attendance, open staff shifts and the
// penalty total of month (YYYY-MM).
func (r *DashboardRepository) GetDailyCounts(ctx context.Context, today, month string) (checkedIn, onShift int, penaltyTotal float64, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM attendance WHERE attendance_date = $1::date),
			(SELECT COUNT(*) FROM time_entries WHERE clock_out_at IS NULL),
			(SELECT COALESCE(SUM(amount), 0)::float8 FROM penalties WHERE to_char(penalty_date, 'YYYY-MM') = $2)`,
		today, month,
	).Scan(&checkedIn, &onShift, &penaltyTotal)
	return
}
