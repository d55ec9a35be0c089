package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/gilangrmdnii/invoice-backend/internal/application/port"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/entity"
	"github.com/gilangrmdnii/invoice-backend/internal/infrastructure/persistence/sqlite"
)

// InvoiceRepository implements port.InvoiceRepository
type InvoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) port.InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

const invoiceColumns = `
	id, project_id, invoice_number, invoice_type, recipient_name,
	recipient_address, attention, po_number, invoice_date, due_date,
	dp_percentage, ppn_percentage, pph_percentage, subtotal, ppn_amount,
	pph_amount, amount, dp_amount, balance_due, paid_amount, status,
	payment_status, reject_notes, notes, language, created_by, approved_by,
	created_at, updated_at
`

// Create persists a new invoice
func (r *InvoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (
			project_id, invoice_number, invoice_type, recipient_name,
			recipient_address, attention, po_number, invoice_date, due_date,
			dp_percentage, ppn_percentage, pph_percentage, subtotal, ppn_amount,
			pph_amount, amount, dp_amount, balance_due, paid_amount, status,
			payment_status, notes, language, created_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		invoice.ProjectID,
		invoice.InvoiceNumber,
		invoice.InvoiceType,
		invoice.RecipientName,
		invoice.RecipientAddress,
		invoice.Attention,
		invoice.PONumber,
		invoice.InvoiceDate,
		invoice.DueDate,
		invoice.DPPercentage,
		invoice.PPNPercentage,
		invoice.PPHPercentage,
		invoice.Subtotal,
		invoice.PPNAmount,
		invoice.PPHAmount,
		invoice.Amount,
		invoice.DPAmount,
		invoice.BalanceDue,
		invoice.PaidAmount,
		invoice.Status,
		invoice.PaymentStatus,
		invoice.Notes,
		invoice.Language,
		invoice.CreatedBy,
	)
	if err != nil {
		r.logger.Error("Failed to create invoice", zap.Error(err))
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	invoice.ID = id
	return nil
}

// GetByID retrieves an invoice by ID
func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`

	row := sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, id)
	invoice, err := scanInvoice(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get invoice by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return invoice, nil
}

// List retrieves invoices with pagination, newest first. A zero
// projectID means all projects.
func (r *InvoiceRepository) List(ctx context.Context, projectID int64, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	args := []interface{}{}
	if projectID != 0 {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*entity.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}

	return invoices, rows.Err()
}

// CountByYear counts invoices dated within the given year, feeding the
// yearly numbering sequence.
func (r *InvoiceRepository) CountByYear(ctx context.Context, year int) (int, error) {
	query := `SELECT COUNT(*) FROM invoices WHERE CAST(strftime('%Y', invoice_date) AS INTEGER) = ?`

	var count int
	err := sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, year).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count invoices by year", zap.Int("year", year), zap.Error(err))
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	return count, nil
}

// Decide flips the invoice's status away from PENDING. The WHERE guard
// makes two concurrent decisions resolve to exactly one winner.
func (r *InvoiceRepository) Decide(ctx context.Context, id int64, status string, approvedBy int64, rejectNotes string) (bool, error) {
	query := `
		UPDATE invoices
		SET status = ?, approved_by = ?, reject_notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		status, approvedBy, rejectNotes, id, entity.StatusPending)
	if err != nil {
		r.logger.Error("Failed to decide invoice", zap.Int64("id", id), zap.String("status", status), zap.Error(err))
		return false, fmt.Errorf("failed to decide invoice: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected == 1, nil
}

// UpdatePaymentTotals stores the re-derived cumulative paid amount and
// payment status.
func (r *InvoiceRepository) UpdatePaymentTotals(ctx context.Context, id int64, paidAmount int64, paymentStatus string) error {
	query := `UPDATE invoices SET paid_amount = ?, payment_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query, paidAmount, paymentStatus, id)
	if err != nil {
		r.logger.Error("Failed to update payment totals", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to update payment totals: %w", err)
	}

	return nil
}

// Delete removes an invoice
func (r *InvoiceRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM invoices WHERE id = ?`

	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete invoice", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	return nil
}

// scanInvoice maps one row onto an Invoice, normalizing nullable columns.
func scanInvoice(scan func(dest ...interface{}) error) (*entity.Invoice, error) {
	var invoice entity.Invoice
	var dueDate sql.NullTime
	var dpPercentage sql.NullFloat64
	var dpAmount, balanceDue, approvedBy sql.NullInt64
	var rejectNotes, notes sql.NullString

	err := scan(
		&invoice.ID,
		&invoice.ProjectID,
		&invoice.InvoiceNumber,
		&invoice.InvoiceType,
		&invoice.RecipientName,
		&invoice.RecipientAddress,
		&invoice.Attention,
		&invoice.PONumber,
		&invoice.InvoiceDate,
		&dueDate,
		&dpPercentage,
		&invoice.PPNPercentage,
		&invoice.PPHPercentage,
		&invoice.Subtotal,
		&invoice.PPNAmount,
		&invoice.PPHAmount,
		&invoice.Amount,
		&dpAmount,
		&balanceDue,
		&invoice.PaidAmount,
		&invoice.Status,
		&invoice.PaymentStatus,
		&rejectNotes,
		&notes,
		&invoice.Language,
		&invoice.CreatedBy,
		&approvedBy,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dueDate.Valid {
		invoice.DueDate = &dueDate.Time
	}
	if dpPercentage.Valid {
		invoice.DPPercentage = &dpPercentage.Float64
	}
	if dpAmount.Valid {
		invoice.DPAmount = &dpAmount.Int64
	}
	if balanceDue.Valid {
		invoice.BalanceDue = &balanceDue.Int64
	}
	if approvedBy.Valid {
		invoice.ApprovedBy = &approvedBy.Int64
	}
	invoice.RejectNotes = rejectNotes.String
	invoice.Notes = notes.String

	return &invoice, nil
}

// Verify interface compliance
var _ port.InvoiceRepository = (*InvoiceRepository)(nil)
