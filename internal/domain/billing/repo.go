package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

// RevenueSummary aggregates stored invoices for the reporting dashboard.
type RevenueSummary struct {
	InvoiceCount int     `json:"invoice_count"`
	TotalRevenue float64 `json:"total_revenue"`
	RecentCount  int     `json:"recent_count"`
	RecentTotal  float64 `json:"recent_total"`
}

type InvoiceRepository interface {
	// Create stores the invoice and its line items atomically.
	Create(ctx context.Context, inv *Invoice, items []*InvoiceLineItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	GetLineItems(ctx context.Context, invoiceID uuid.UUID) ([]*InvoiceLineItem, error)
	List(ctx context.Context, limit, offset int) ([]*Invoice, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Invoice, int, error)
	Summary(ctx context.Context, since time.Time) (*RevenueSummary, error)
}
