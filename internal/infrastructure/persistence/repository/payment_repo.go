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

// PaymentRepository implements port.PaymentRepository
type PaymentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *sql.DB, logger *zap.Logger) port.PaymentRepository {
	return &PaymentRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new payment record
func (r *PaymentRepository) Create(ctx context.Context, payment *entity.InvoicePayment) error {
	query := `
		INSERT INTO invoice_payments (
			invoice_id, amount, payment_date, payment_method, proof_url, notes, recorded_by
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		payment.InvoiceID,
		payment.Amount,
		payment.PaymentDate,
		payment.PaymentMethod,
		payment.ProofURL,
		payment.Notes,
		payment.RecordedBy,
	)
	if err != nil {
		r.logger.Error("Failed to create payment", zap.Int64("invoice_id", payment.InvoiceID), zap.Error(err))
		return fmt.Errorf("failed to create payment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	payment.ID = id
	return nil
}

// GetByID retrieves a payment by ID
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*entity.InvoicePayment, error) {
	query := `
		SELECT id, invoice_id, amount, payment_date, payment_method,
			proof_url, notes, recorded_by, created_at
		FROM invoice_payments
		WHERE id = ?
	`

	var payment entity.InvoicePayment
	err := sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&payment.ID,
		&payment.InvoiceID,
		&payment.Amount,
		&payment.PaymentDate,
		&payment.PaymentMethod,
		&payment.ProofURL,
		&payment.Notes,
		&payment.RecordedBy,
		&payment.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get payment by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &payment, nil
}

// ListByInvoice retrieves an invoice's payments in chronological order
func (r *PaymentRepository) ListByInvoice(ctx context.Context, invoiceID int64) ([]*entity.InvoicePayment, error) {
	query := `
		SELECT id, invoice_id, amount, payment_date, payment_method,
			proof_url, notes, recorded_by, created_at
		FROM invoice_payments
		WHERE invoice_id = ?
		ORDER BY payment_date, id
	`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, invoiceID)
	if err != nil {
		r.logger.Error("Failed to list payments", zap.Int64("invoice_id", invoiceID), zap.Error(err))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*entity.InvoicePayment
	for rows.Next() {
		var payment entity.InvoicePayment
		err := rows.Scan(
			&payment.ID,
			&payment.InvoiceID,
			&payment.Amount,
			&payment.PaymentDate,
			&payment.PaymentMethod,
			&payment.ProofURL,
			&payment.Notes,
			&payment.RecordedBy,
			&payment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, &payment)
	}

	return payments, rows.Err()
}

// SumByInvoice recomputes the cumulative paid amount from the records
func (r *PaymentRepository) SumByInvoice(ctx context.Context, invoiceID int64) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM invoice_payments WHERE invoice_id = ?`

	var total int64
	err := sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, invoiceID).Scan(&total)
	if err != nil {
		r.logger.Error("Failed to sum payments", zap.Int64("invoice_id", invoiceID), zap.Error(err))
		return 0, fmt.Errorf("failed to sum payments: %w", err)
	}

	return total, nil
}

// Delete removes a payment record
func (r *PaymentRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM invoice_payments WHERE id = ?`

	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete payment", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete payment: %w", err)
	}

	return nil
}

// Verify interface compliance
var _ port.PaymentRepository = (*PaymentRepository)(nil)
