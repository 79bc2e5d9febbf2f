package billing

import (
	"time"

	"github.com/google/uuid"
)

type Invoice struct {
	ID             uuid.UUID  `json:"id"`
	InvoiceNumber  string     `json:"invoice_number"`
	PatientID      *uuid.UUID `json:"patient_id,omitempty"`
	PatientName    string     `json:"patient_name"`
	RegistrationID *uuid.UUID `json:"registration_id,omitempty"`
	TaxRatePercent float64    `json:"tax_rate_percent"`
	DiscountAmount float64    `json:"discount_amount"`
	Subtotal       float64    `json:"subtotal"`
	TaxAmount      float64    `json:"tax_amount"`
	Total          float64    `json:"total"`
	CreatedAt      time.Time  `json:"created_at"`

	// Populated on single-invoice reads.
	Items []*InvoiceLineItem `json:"items,omitempty"`
}

type InvoiceLineItem struct {
	ID          uuid.UUID `json:"id"`
	InvoiceID   uuid.UUID `json:"invoice_id"`
	Sequence    int       `json:"sequence"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	Rate        float64   `json:"rate"`
	Amount      float64   `json:"amount"`
}
