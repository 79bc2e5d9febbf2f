package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type invoiceRepoPG struct{ pool *pgxpool.Pool }

func NewInvoiceRepoPG(pool *pgxpool.Pool) InvoiceRepository {
	return &invoiceRepoPG{pool: pool}
}

func mapPgErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

const invoiceCols = `id, invoice_number, patient_id, patient_name, registration_id,
	tax_rate_percent, discount_amount, subtotal, tax_amount, total, created_at`

func (r *invoiceRepoPG) scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.PatientID, &inv.PatientName, &inv.RegistrationID,
		&inv.TaxRatePercent, &inv.DiscountAmount, &inv.Subtotal, &inv.TaxAmount, &inv.Total, &inv.CreatedAt)
	if err != nil {
		return nil, mapPgErr(err)
	}
	return &inv, nil
}

func (r *invoiceRepoPG) Create(ctx context.Context, inv *Invoice, items []*InvoiceLineItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	inv.ID = uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO invoices (id, invoice_number, patient_id, patient_name, registration_id,
			tax_rate_percent, discount_amount, subtotal, tax_amount, total)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		inv.ID, inv.InvoiceNumber, inv.PatientID, inv.PatientName, inv.RegistrationID,
		inv.TaxRatePercent, inv.DiscountAmount, inv.Subtotal, inv.TaxAmount, inv.Total)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}

	for i, li := range items {
		li.ID = uuid.New()
		li.InvoiceID = inv.ID
		li.Sequence = i + 1
		_, err = tx.Exec(ctx, `
			INSERT INTO invoice_line_items (id, invoice_id, sequence, description, quantity, rate, amount)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			li.ID, li.InvoiceID, li.Sequence, li.Description, li.Quantity, li.Rate, li.Amount)
		if err != nil {
			return fmt.Errorf("insert line item %d: %w", li.Sequence, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *invoiceRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return r.scanInvoice(r.pool.QueryRow(ctx, `SELECT `+invoiceCols+` FROM invoices WHERE id = $1`, id))
}

func (r *invoiceRepoPG) GetLineItems(ctx context.Context, invoiceID uuid.UUID) ([]*InvoiceLineItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, invoice_id, sequence, description, quantity, rate, amount
		FROM invoice_line_items WHERE invoice_id = $1 ORDER BY sequence`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*InvoiceLineItem
	for rows.Next() {
		var li InvoiceLineItem
		if err := rows.Scan(&li.ID, &li.InvoiceID, &li.Sequence, &li.Description,
			&li.Quantity, &li.Rate, &li.Amount); err != nil {
			return nil, err
		}
		items = append(items, &li)
	}
	return items, rows.Err()
}

func (r *invoiceRepoPG) List(ctx context.Context, limit, offset int) ([]*Invoice, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+invoiceCols+` FROM invoices ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *invoiceRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Invoice, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+invoiceCols+` FROM invoices WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *invoiceRepoPG) collect(rows pgx.Rows, total int) ([]*Invoice, int, error) {
	var items []*Invoice
	for rows.Next() {
		inv, err := r.scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, inv)
	}
	return items, total, rows.Err()
}

func (r *invoiceRepoPG) Summary(ctx context.Context, since time.Time) (*RevenueSummary, error) {
	var s RevenueSummary
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total), 0),
			COUNT(*) FILTER (WHERE created_at >= $1),
			COALESCE(SUM(total) FILTER (WHERE created_at >= $1), 0)
		FROM invoices`, since).
		Scan(&s.InvoiceCount, &s.TotalRevenue, &s.RecentCount, &s.RecentTotal)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
