package model

import "time"

// InvoiceKind selects which months an invoice covers.
type InvoiceKind string

const (
	InvoiceCurrent      InvoiceKind = "current"
	InvoiceNext         InvoiceKind = "next"
	InvoiceConsolidated InvoiceKind = "consolidated"
)

// InvoiceLine is one rendered line of an invoice.
type InvoiceLine struct {
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Informational bool    `json:"informational,omitempty"`
}

// Invoice is a generated, persisted invoice.
type Invoice struct {
	ID        int           `json:"id"`
	StudentID int           `json:"student_id"`
	Kind      InvoiceKind   `json:"kind"`
	Period    string        `json:"period"`
	Lines     []InvoiceLine `json:"lines"`
	Total     float64       `json:"total"`
	CreatedBy int           `json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
}

// GenerateInvoiceRequest selects the invoice kind.
type GenerateInvoiceRequest struct {
	Kind InvoiceKind `json:"kind" form:"kind" binding:"required,oneof=current next consolidated"`
}
