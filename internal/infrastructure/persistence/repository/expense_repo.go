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

// ExpenseRepository implements port.ExpenseRepository
type ExpenseRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *sql.DB, logger *zap.Logger) port.ExpenseRepository {
	return &ExpenseRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new expense
func (r *ExpenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	query := `
		INSERT INTO expenses (project_id, description, amount, category, receipt_url, status, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		expense.ProjectID,
		expense.Description,
		expense.Amount,
		expense.Category,
		expense.ReceiptURL,
		expense.Status,
		expense.CreatedBy,
	)
	if err != nil {
		r.logger.Error("Failed to create expense", zap.Error(err))
		return fmt.Errorf("failed to create expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	expense.ID = id
	return nil
}

// GetByID retrieves an expense by ID
func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*entity.Expense, error) {
	query := `
		SELECT id, project_id, description, amount, category, receipt_url,
			status, proof_url, reject_notes, created_by, approved_by,
			created_at, updated_at
		FROM expenses
		WHERE id = ?
	`

	row := sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, id)
	expense, err := scanExpense(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get expense by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// List retrieves expenses with pagination, newest first. A zero
// projectID means all projects.
func (r *ExpenseRepository) List(ctx context.Context, projectID int64, limit, offset int) ([]*entity.Expense, error) {
	query := `
		SELECT id, project_id, description, amount, category, receipt_url,
			status, proof_url, reject_notes, created_by, approved_by,
			created_at, updated_at
		FROM expenses
	`
	args := []interface{}{}
	if projectID != 0 {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list expenses", zap.Error(err))
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*entity.Expense
	for rows.Next() {
		expense, err := scanExpense(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}

// Decide flips the expense's status away from PENDING, guarded by the
// current status so concurrent decisions resolve to one winner.
func (r *ExpenseRepository) Decide(ctx context.Context, id int64, status string, approvedBy int64, proofURL, rejectNotes string) (bool, error) {
	query := `
		UPDATE expenses
		SET status = ?, approved_by = ?, proof_url = ?, reject_notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		status, approvedBy, proofURL, rejectNotes, id, entity.StatusPending)
	if err != nil {
		r.logger.Error("Failed to decide expense", zap.Int64("id", id), zap.String("status", status), zap.Error(err))
		return false, fmt.Errorf("failed to decide expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected == 1, nil
}

// Delete removes an expense
func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM expenses WHERE id = ?`

	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete expense", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	return nil
}

func scanExpense(scan func(dest ...interface{}) error) (*entity.Expense, error) {
	var expense entity.Expense
	var proofURL, rejectNotes sql.NullString
	var approvedBy sql.NullInt64

	err := scan(
		&expense.ID,
		&expense.ProjectID,
		&expense.Description,
		&expense.Amount,
		&expense.Category,
		&expense.ReceiptURL,
		&expense.Status,
		&proofURL,
		&rejectNotes,
		&expense.CreatedBy,
		&approvedBy,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	expense.ProofURL = proofURL.String
	expense.RejectNotes = rejectNotes.String
	if approvedBy.Valid {
		expense.ApprovedBy = &approvedBy.Int64
	}

	return &expense, nil
}

// Verify interface compliance
var _ port.ExpenseRepository = (*ExpenseRepository)(nil)
