package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/etudesn/notacompta/internal/domain"
)

// InvoiceRepository implements usecase.InvoiceRepository.
type InvoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository creates a new InvoiceRepository.
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

const invoiceColumns = `id, number, client_id, client_name, invoice_date, dossier_id,
	honoraires, debours, droits, tva, total_ttc, paid_amount, remaining_amount,
	status, created_at, updated_at`

// Create inserts a new invoice.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		invoice.ID,
		invoice.Number,
		invoice.ClientID,
		invoice.ClientName,
		invoice.Date,
		invoice.DossierID,
		decimalToNumeric(invoice.Honoraires),
		decimalToNumeric(invoice.Debours),
		decimalToNumeric(invoice.Droits),
		decimalToNumeric(invoice.TVA),
		decimalToNumeric(invoice.TotalTTC),
		decimalToNumeric(invoice.PaidAmount),
		decimalToNumeric(invoice.RemainingAmount),
		string(invoice.Status),
		invoice.CreatedAt,
		invoice.UpdatedAt,
	)

	return err
}

// GetByID retrieves an invoice by ID.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE id = $1`, id)

	invoice, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}

		return nil, err
	}

	return invoice, nil
}

// Update persists the settlement state of an invoice.
func (r *InvoiceRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE invoices
		SET paid_amount = $2, remaining_amount = $3, status = $4, updated_at = $5
		WHERE id = $1`,
		invoice.ID,
		decimalToNumeric(invoice.PaidAmount),
		decimalToNumeric(invoice.RemainingAmount),
		string(invoice.Status),
		invoice.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrInvoiceNotFound
	}

	return nil
}

// ListByClient retrieves the invoices of a client, most recent first.
func (r *InvoiceRepository) ListByClient(ctx context.Context, clientID string) ([]*domain.Invoice, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE client_id = $1
		ORDER BY invoice_date DESC, created_at DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*domain.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}

	return invoices, rows.Err()
}

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var (
		invoice domain.Invoice
		status  string

		honoraires, debours, droits, tva      pgtype.Numeric
		totalTTC, paidAmount, remainingAmount pgtype.Numeric
	)

	err := row.Scan(
		&invoice.ID,
		&invoice.Number,
		&invoice.ClientID,
		&invoice.ClientName,
		&invoice.Date,
		&invoice.DossierID,
		&honoraires,
		&debours,
		&droits,
		&tva,
		&totalTTC,
		&paidAmount,
		&remainingAmount,
		&status,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	invoice.Honoraires = numericToDecimal(honoraires)
	invoice.Debours = numericToDecimal(debours)
	invoice.Droits = numericToDecimal(droits)
	invoice.TVA = numericToDecimal(tva)
	invoice.TotalTTC = numericToDecimal(totalTTC)
	invoice.PaidAmount = numericToDecimal(paidAmount)
	invoice.RemainingAmount = numericToDecimal(remainingAmount)
	invoice.Status = domain.InvoiceStatus(status)

	return &invoice, nil
}
