package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/daycare-backend/internal/model"
)

var ErrInvoiceNotFound = errors.New("invoice not found")

// InvoiceRepository handles generated invoice data access.
type InvoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository creates a new InvoiceRepository.
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

// Create inserts an invoice with its lines stored as JSONB.
func (r *InvoiceRepository) Create(ctx context.Context, inv *model.Invoice) error {
	lines, err := json.Marshal(inv.Lines)
	if err != nil {
		return err
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO invoices (student_id, kind, period, lines, total, created_by)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, 0))
		 RETURNING id, created_at`,
		inv.StudentID, string(inv.Kind), inv.Period, lines, inv.Total, inv.CreatedBy,
	).Scan(&inv.ID, &inv.CreatedAt)
}

func scanInvoice(row pgx.Row, inv *model.Invoice) error {
	var kind string
	var lines []byte
	if err := row.Scan(&inv.ID, &inv.StudentID, &kind, &inv.Period, &lines, &inv.Total, &inv.CreatedBy, &inv.CreatedAt); err != nil {
		return err
	}
	inv.Kind = model.InvoiceKind(kind)
	return json.Unmarshal(lines, &inv.Lines)
}

// GetByID retrieves one invoice of a student.
func (r *InvoiceRepository) GetByID(ctx context.Context, studentID, id int) (*model.Invoice, error) {
	inv := &model.Invoice{}
	err := scanInvoice(r.pool.QueryRow(ctx,
		`SELECT id, student_id, kind, period, lines, total, COALESCE(created_by, 0), created_at
		 FROM invoices WHERE id = $1 AND student_id = $2`, id, studentID), inv)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// ListByStudent retrieves a student's invoices, newest first.
func (r *InvoiceRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Invoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, kind, period, lines, total, COALESCE(created_by, 0), created_at
		 FROM invoices WHERE student_id = $1
		 ORDER BY created_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []model.Invoice
	for rows.Next() {
		var inv model.Invoice
		if err := scanInvoice(rows, &inv); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}
