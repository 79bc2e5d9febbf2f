package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/domain/opd"
	"github.com/hms/hms/internal/domain/registry"
)

// ErrNotCompleted is returned when invoice generation is attempted for a
// registration that has not reached the completed state.
var ErrNotCompleted = errors.New("registration not completed")

// RegistrationSource resolves OPD registrations for invoice generation.
type RegistrationSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*opd.Registration, error)
}

// DoctorDirectory resolves consultation fees for generated invoices.
type DoctorDirectory interface {
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*registry.Doctor, error)
}

type Service struct {
	invoices       InvoiceRepository
	registrations  RegistrationSource
	doctors        DoctorDirectory
	defaultTaxRate float64

	now func() time.Time
}

func NewService(invoices InvoiceRepository, registrations RegistrationSource, doctors DoctorDirectory, defaultTaxRate float64) *Service {
	return &Service{
		invoices:       invoices,
		registrations:  registrations,
		doctors:        doctors,
		defaultTaxRate: defaultTaxRate,
		now:            time.Now,
	}
}

type CreateInvoiceInput struct {
	PatientID      *uuid.UUID `json:"patient_id"`
	PatientName    string     `json:"patient_name"`
	RegistrationID *uuid.UUID `json:"registration_id"`
	Items          []LineItem `json:"items"`
	TaxRatePercent *float64   `json:"tax_rate_percent"`
	DiscountAmount float64    `json:"discount_amount"`
}

// CreateInvoice computes totals for the given line items and stores the
// invoice. The tax rate falls back to the configured default when the
// request omits it.
func (s *Service) CreateInvoice(ctx context.Context, in CreateInvoiceInput) (*Invoice, error) {
	if strings.TrimSpace(in.PatientName) == "" {
		return nil, fmt.Errorf("patient_name is required")
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("at least one line item is required")
	}
	for i, li := range in.Items {
		if strings.TrimSpace(li.Description) == "" {
			return nil, fmt.Errorf("line item %d: description is required", i+1)
		}
	}

	taxRate := s.defaultTaxRate
	if in.TaxRatePercent != nil {
		if *in.TaxRatePercent < 0 {
			return nil, fmt.Errorf("tax_rate_percent must not be negative")
		}
		taxRate = *in.TaxRatePercent
	}

	totals := ComputeTotals(in.Items, taxRate, in.DiscountAmount)

	inv := &Invoice{
		InvoiceNumber:  s.nextInvoiceNumber(),
		PatientID:      in.PatientID,
		PatientName:    strings.TrimSpace(in.PatientName),
		RegistrationID: in.RegistrationID,
		TaxRatePercent: taxRate,
		DiscountAmount: in.DiscountAmount,
		Subtotal:       totals.Subtotal,
		TaxAmount:      totals.TaxAmount,
		Total:          totals.Total,
		CreatedAt:      s.now(),
	}

	lineItems := make([]*InvoiceLineItem, 0, len(in.Items))
	for _, li := range in.Items {
		q := li.Quantity
		if q < 1 {
			q = 1
		}
		r := li.Rate
		if r < 0 {
			r = 0
		}
		lineItems = append(lineItems, &InvoiceLineItem{
			Description: strings.TrimSpace(li.Description),
			Quantity:    q,
			Rate:        r,
			Amount:      li.Amount(),
		})
	}

	if err := s.invoices.Create(ctx, inv, lineItems); err != nil {
		return nil, fmt.Errorf("store invoice: %w", err)
	}
	inv.Items = lineItems
	return inv, nil
}

// GenerateFromRegistration builds an invoice for a completed OPD visit.
// The doctor's consultation fee becomes the first line item; extra items
// from the request are appended after it.
func (s *Service) GenerateFromRegistration(ctx context.Context, registrationID uuid.UUID, extraItems []LineItem, discountAmount float64) (*Invoice, error) {
	reg, err := s.registrations.GetByID(ctx, registrationID)
	if err != nil {
		var nf *opd.NotFoundError
		if errors.As(err, &nf) {
			return nil, fmt.Errorf("registration %s: %w", registrationID, ErrNotFound)
		}
		return nil, err
	}
	if reg.Status != opd.StatusCompleted {
		return nil, fmt.Errorf("registration %s is %s: %w", registrationID, reg.Status, ErrNotCompleted)
	}

	doc, err := s.doctors.GetDoctorByID(ctx, reg.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("resolve doctor %s: %w", reg.DoctorID, err)
	}

	items := make([]LineItem, 0, len(extraItems)+1)
	items = append(items, LineItem{
		Description: "Consultation - " + doc.Name + " (" + reg.Department + ")",
		Quantity:    1,
		Rate:        doc.ConsultationFee,
	})
	items = append(items, extraItems...)

	return s.CreateInvoice(ctx, CreateInvoiceInput{
		PatientID:      reg.PatientID,
		PatientName:    reg.PatientName,
		RegistrationID: &reg.ID,
		Items:          items,
		DiscountAmount: discountAmount,
	})
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.invoices.GetLineItems(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

func (s *Service) ListInvoices(ctx context.Context, limit, offset int) ([]*Invoice, int, error) {
	return s.invoices.List(ctx, limit, offset)
}

func (s *Service) ListInvoicesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Invoice, int, error) {
	return s.invoices.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) RevenueSummary(ctx context.Context, since time.Time) (*RevenueSummary, error) {
	return s.invoices.Summary(ctx, since)
}

func (s *Service) nextInvoiceNumber() string {
	return "INV-" + s.now().Format("20060102-150405.000")
}
