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

// ProjectRepository implements port.ProjectRepository
type ProjectRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB, logger *zap.Logger) port.ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new project
func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	query := `
		INSERT INTO projects (name, description, status, total_budget, spent_amount, created_by)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		project.Name,
		project.Description,
		project.Status,
		project.TotalBudget,
		project.SpentAmount,
		project.CreatedBy,
	)
	if err != nil {
		r.logger.Error("Failed to create project", zap.Error(err))
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	project.ID = id
	return nil
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*entity.Project, error) {
	query := `
		SELECT id, name, description, status, total_budget, spent_amount,
			created_by, created_at, updated_at
		FROM projects
		WHERE id = ?
	`

	var project entity.Project
	err := sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.Status,
		&project.TotalBudget,
		&project.SpentAmount,
		&project.CreatedBy,
		&project.CreatedAt,
		&project.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get project by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

// List retrieves projects with pagination, newest first
func (r *ProjectRepository) List(ctx context.Context, limit, offset int) ([]*entity.Project, error) {
	query := `
		SELECT id, name, description, status, total_budget, spent_amount,
			created_by, created_at, updated_at
		FROM projects
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list projects", zap.Error(err))
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*entity.Project
	for rows.Next() {
		var project entity.Project
		err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Description,
			&project.Status,
			&project.TotalBudget,
			&project.SpentAmount,
			&project.CreatedBy,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, &project)
	}

	return projects, rows.Err()
}

// IncrementSpent adds delta to the project's spent amount
func (r *ProjectRepository) IncrementSpent(ctx context.Context, id int64, delta int64) error {
	query := `UPDATE projects SET spent_amount = spent_amount + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query, delta, id)
	if err != nil {
		r.logger.Error("Failed to increment spent amount", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to increment spent amount: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("project %d not found", id)
	}

	return nil
}

// IncrementBudget adds delta to the project's total budget
func (r *ProjectRepository) IncrementBudget(ctx context.Context, id int64, delta int64) error {
	query := `UPDATE projects SET total_budget = total_budget + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query, delta, id)
	if err != nil {
		r.logger.Error("Failed to increment budget", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to increment budget: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("project %d not found", id)
	}

	return nil
}

// Verify interface compliance
var _ port.ProjectRepository = (*ProjectRepository)(nil)
