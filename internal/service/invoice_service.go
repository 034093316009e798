package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/daycare-backend/internal/billing"
	"github.com/stemsi/daycare-backend/internal/model"
	"github.com/stemsi/daycare-backend/internal/render"
)

type invoiceStore interface {
	Create(ctx context.Context, inv *model.Invoice) error
	GetByID(ctx context.Context, studentID, id int) (*model.Invoice, error)
	ListByStudent(ctx context.Context, studentID int) ([]model.Invoice, error)
}

type penaltyLister interface {
	ListByStudent(ctx context.Context, studentID int) ([]model.Penalty, error)
}

type settingsReader interface {
	GetAllSettings(ctx context.Context) (map[string]string, error)
}

// InvoiceRenderer produces the printable document of an invoice.
type InvoiceRenderer interface {
	RenderInvoice(inv render.Invoice) ([]byte, error)
}

// InvoicePreview is an unsaved statement returned for review.
type InvoicePreview struct {
	StudentID int                `json:"student_id"`
	Kind      model.InvoiceKind  `json:"kind"`
	Period    string             `json:"period"`
	Items     []billing.LineItem `json:"items"`
	Total     float64            `json:"total"`
}

// InvoiceService assembles, stores and renders invoices.
type InvoiceService struct {
	students  studentGetter
	penalties penaltyLister
	invoices  invoiceStore
	settings  settingsReader
	renderer  InvoiceRenderer
	activity  ActivityRecorder
	assembler *billing.Assembler
	now       func() time.Time
	log       zerolog.Logger
}

// NewInvoiceService creates a new InvoiceService over the schedule catalog.
func NewInvoiceService(
	students studentGetter,
	penalties penaltyLister,
	invoices invoiceStore,
	settings settingsReader,
	renderer InvoiceRenderer,
	activity ActivityRecorder,
	catalog []model.Schedule,
	now func() time.Time,
	log zerolog.Logger,
) *InvoiceService {
	return &InvoiceService{
		students:  students,
		penalties: penalties,
		invoices:  invoices,
		settings:  settings,
		renderer:  renderer,
		activity:  activity,
		assembler: billing.NewAssembler(catalog),
		now:       now,
		log:       log.With().Str("component", "invoice_service").Logger(),
	}
}

// InvoiceNumber formats the printed number of a stored invoice.
func InvoiceNumber(id int) string {
	return fmt.Sprintf("INV-%06d", id)
}

func (s *InvoiceService) statement(ctx context.Context, studentID int, kind model.InvoiceKind) (*model.Student, *billing.Statement, error) {
	st, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, nil, err
	}
	penalties, err := s.penalties.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, nil, fmt.Errorf("load penalties: %w", err)
	}

	today := billing.DateOf(s.now())
	var stmt *billing.Statement
	switch kind {
	case model.InvoiceCurrent:
		stmt, err = s.assembler.CurrentMonth(*st, today, penalties)
	case model.InvoiceNext:
		stmt, err = s.assembler.NextMonth(*st, today, penalties)
	case model.InvoiceConsolidated:
		stmt, err = s.assembler.Consolidated(*st, today, penalties)
	default:
		return nil, nil, fmt.Errorf("unknown invoice kind %q", kind)
	}
	if err != nil {
		return nil, nil, err
	}
	return st, stmt, nil
}

// Preview computes a statement without storing it. A suppressed statement
// yields an error matching billing.ErrEmptyStatement.
func (s *InvoiceService) Preview(ctx context.Context, studentID int, kind model.InvoiceKind) (*InvoicePreview, error) {
	_, stmt, err := s.statement(ctx, studentID, kind)
	if err != nil {
		return nil, err
	}
	items := stmt.Items
	if items == nil {
		items = []billing.LineItem{}
	}
	return &InvoicePreview{
		StudentID: studentID,
		Kind:      kind,
		Period:    stmt.PeriodLabel(),
		Items:     items,
		Total:     stmt.Total,
	}, nil
}

// Generate stores an invoice of the given kind and returns its PDF.
func (s *InvoiceService) Generate(ctx context.Context, actorID, studentID int, kind model.InvoiceKind) (*model.Invoice, []byte, error) {
	st, stmt, err := s.statement(ctx, studentID, kind)
	if err != nil {
		return nil, nil, err
	}

	inv := &model.Invoice{
		StudentID: studentID,
		Kind:      kind,
		Period:    stmt.PeriodLabel(),
		Lines:     make([]model.InvoiceLine, 0, len(stmt.Items)),
		Total:     stmt.Total,
		CreatedBy: actorID,
	}
	for _, it := range stmt.Items {
		inv.Lines = append(inv.Lines, model.InvoiceLine{
			Category:      it.Category,
			Description:   it.Description,
			Amount:        it.Amount,
			Informational: it.Informational,
		})
	}
	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, nil, fmt.Errorf("store invoice: %w", err)
	}

	s.activity.Record(ctx, model.ActivityEntry{
		ActorID:  actorID,
		Action:   model.ActionInvoiced,
		Entity:   "student",
		EntityID: studentID,
		Summary:  fmt.Sprintf("%s %s for %s: %s, total %.2f", InvoiceNumber(inv.ID), kind, st.Name, inv.Period, inv.Total),
	})

	// The stored invoice stands even if rendering fails; it can be downloaded later.
	pdf, err := s.renderPDF(ctx, st, inv)
	if err != nil {
		return inv, nil, err
	}
	return inv, pdf, nil
}

// Download re-renders a stored invoice.
func (s *InvoiceService) Download(ctx context.Context, studentID, invoiceID int) (*model.Invoice, []byte, error) {
	st, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, nil, err
	}
	inv, err := s.invoices.GetByID(ctx, studentID, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := s.renderPDF(ctx, st, inv)
	if err != nil {
		return nil, nil, err
	}
	return inv, pdf, nil
}

// List returns a student's stored invoices.
func (s *InvoiceService) List(ctx context.Context, studentID int) ([]model.Invoice, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	invoices, err := s.invoices.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if invoices == nil {
		invoices = []model.Invoice{}
	}
	return invoices, nil
}

func (s *InvoiceService) renderPDF(ctx context.Context, st *model.Student, inv *model.Invoice) ([]byte, error) {
	settings, err := s.settings.GetAllSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	doc := render.Invoice{
		Number:        InvoiceNumber(inv.ID),
		IssuedOn:      billing.DateOf(inv.CreatedAt.In(s.now().Location())).String(),
		CenterName:    settings[model.SettingCenterName],
		CenterAddress: settings[model.SettingCenterAddress],
		Currency:      settings[model.SettingCurrencySymbol],
		StudentName:   st.Name,
		GuardianName:  st.GuardianName,
		Period:        inv.Period,
		Total:         inv.Total,
	}
	for _, l := range inv.Lines {
		doc.Lines = append(doc.Lines, render.Line{
			Category:      l.Category,
			Description:   l.Description,
			Amount:        l.Amount,
			Informational: l.Informational,
		})
	}

	pdf, err := s.renderer.RenderInvoice(doc)
	if err != nil {
		s.log.Error().Err(err).Int("invoice_id", inv.ID).Msg("failed to render invoice")
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return pdf, nil
}
