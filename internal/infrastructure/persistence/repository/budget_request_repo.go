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

// BudgetRequestRepository implements port.BudgetRequestRepository
type BudgetRequestRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBudgetRequestRepository creates a new budget request repository
func NewBudgetRequestRepository(db *sql.DB, logger *zap.Logger) port.BudgetRequestRepository {
	return &BudgetRequestRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new budget request
func (r *BudgetRequestRepository) Create(ctx context.Context, request *entity.BudgetRequest) error {
	query := `
		INSERT INTO budget_requests (project_id, amount, reason, proof_url, status, requested_by)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		request.ProjectID,
		request.Amount,
		request.Reason,
		request.ProofURL,
		request.Status,
		request.RequestedBy,
	)
	if err != nil {
		r.logger.Error("Failed to create budget request", zap.Error(err))
		return fmt.Errorf("failed to create budget request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	request.ID = id
	return nil
}

// GetByID retrieves a budget request by ID
func (r *BudgetRequestRepository) GetByID(ctx context.Context, id int64) (*entity.BudgetRequest, error) {
	query := `
		SELECT id, project_id, amount, reason, proof_url, status,
			decision_notes, decision_proof, requested_by, approved_by,
			created_at, updated_at
		FROM budget_requests
		WHERE id = ?
	`

	row := sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, id)
	request, err := scanBudgetRequest(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get budget request by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get budget request: %w", err)
	}

	return request, nil
}

// List retrieves budget requests with pagination, newest first. A zero
// projectID means all projects.
func (r *BudgetRequestRepository) List(ctx context.Context, projectID int64, limit, offset int) ([]*entity.BudgetRequest, error) {
	query := `
		SELECT id, project_id, amount, reason, proof_url, status,
			decision_notes, decision_proof, requested_by, approved_by,
			created_at, updated_at
		FROM budget_requests
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
		r.logger.Error("Failed to list budget requests", zap.Error(err))
		return nil, fmt.Errorf("failed to list budget requests: %w", err)
	}
	defer rows.Close()

	var requests []*entity.BudgetRequest
	for rows.Next() {
		request, err := scanBudgetRequest(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget request: %w", err)
		}
		requests = append(requests, request)
	}

	return requests, rows.Err()
}

// Decide flips the request's status away from PENDING, guarded by the
// current status so concurrent decisions resolve to one winner.
func (r *BudgetRequestRepository) Decide(ctx context.Context, id int64, status string, approvedBy int64, decisionNotes, decisionProof string) (bool, error) {
	query := `
		UPDATE budget_requests
		SET status = ?, approved_by = ?, decision_notes = ?, decision_proof = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		status, approvedBy, decisionNotes, decisionProof, id, entity.StatusPending)
	if err != nil {
		r.logger.Error("Failed to decide budget request", zap.Int64("id", id), zap.String("status", status), zap.Error(err))
		return false, fmt.Errorf("failed to decide budget request: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected == 1, nil
}

// Delete removes a budget request
func (r *BudgetRequestRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM budget_requests WHERE id = ?`

	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete budget request", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete budget request: %w", err)
	}

	return nil
}

func scanBudgetRequest(scan func(dest ...interface{}) error) (*entity.BudgetRequest, error) {
	var request entity.BudgetRequest
	var decisionNotes, decisionProof sql.NullString
	var approvedBy sql.NullInt64

	err := scan(
		&request.ID,
		&request.ProjectID,
		&request.Amount,
		&request.Reason,
		&request.ProofURL,
		&request.Status,
		&decisionNotes,
		&decisionProof,
		&request.RequestedBy,
		&approvedBy,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	request.DecisionNotes = decisionNotes.String
	request.DecisionProof = decisionProof.String
	if approvedBy.Valid {
		request.ApprovedBy = &approvedBy.Int64
	}

	return &request, nil
}

// Verify interface compliance
var _ port.BudgetRequestRepository = (*BudgetRequestRepository)(nil)
