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

// DashboardRepository implements port.DashboardRepository
type DashboardRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *sql.DB, logger *zap.Logger) port.DashboardRepository {
	return &DashboardRepository{
		db:     db,
		logger: logger,
	}
}

// Summary aggregates counts and totals for the dashboard page. A zero
// projectID aggregates across all projects.
func (r *DashboardRepository) Summary(ctx context.Context, projectID int64) (*port.DashboardSummary, error) {
	exec := sqlite.ExecutorFor(ctx, r.db)
	summary := &port.DashboardSummary{}

	projectQuery := `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(total_budget), 0),
			COALESCE(SUM(spent_amount), 0)
		FROM projects
	`
	projectArgs := []interface{}{entity.ProjectActive}
	if projectID != 0 {
		projectQuery += ` WHERE id = ?`
		projectArgs = append(projectArgs, projectID)
	}
	err := exec.QueryRowContext(ctx, projectQuery, projectArgs...).Scan(
		&summary.TotalProjects,
		&summary.ActiveProjects,
		&summary.TotalBudget,
		&summary.TotalSpent,
	)
	if err != nil {
		r.logger.Error("Failed to aggregate projects", zap.Error(err))
		return nil, fmt.Errorf("failed to aggregate projects: %w", err)
	}

	expenseQuery := `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0)
		FROM expenses
	`
	expenseArgs := []interface{}{entity.StatusPending, entity.StatusApproved, entity.StatusRejected, entity.StatusApproved}
	if projectID != 0 {
		expenseQuery += ` WHERE project_id = ?`
		expenseArgs = append(expenseArgs, projectID)
	}
	err = exec.QueryRowContext(ctx, expenseQuery, expenseArgs...).Scan(
		&summary.TotalExpenses,
		&summary.PendingExpenses,
		&summary.ApprovedExpenses,
		&summary.RejectedExpenses,
		&summary.ExpenseAmount,
	)
	if err != nil {
		r.logger.Error("Failed to aggregate expenses", zap.Error(err))
		return nil, fmt.Errorf("failed to aggregate expenses: %w", err)
	}

	requestQuery := `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0)
		FROM budget_requests
	`
	requestArgs := []interface{}{entity.StatusPending, entity.StatusApproved, entity.StatusRejected, entity.StatusApproved}
	if projectID != 0 {
		requestQuery += ` WHERE project_id = ?`
		requestArgs = append(requestArgs, projectID)
	}
	err = exec.QueryRowContext(ctx, requestQuery, requestArgs...).Scan(
		&summary.TotalBudgetRequests,
		&summary.PendingBudgetRequests,
		&summary.ApprovedBudgetRequests,
		&summary.RejectedBudgetRequests,
		&summary.BudgetRequestAmount,
	)
	if err != nil {
		r.logger.Error("Failed to aggregate budget requests", zap.Error(err))
		return nil, fmt.Errorf("failed to aggregate budget requests: %w", err)
	}

	invoiceQuery := `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN paid_amount ELSE 0 END), 0)
		FROM invoices
	`
	invoiceArgs := []interface{}{entity.StatusApproved, entity.StatusApproved}
	if projectID != 0 {
		invoiceQuery += ` WHERE project_id = ?`
		invoiceArgs = append(invoiceArgs, projectID)
	}
	err = exec.QueryRowContext(ctx, invoiceQuery, invoiceArgs...).Scan(
		&summary.TotalInvoices,
		&summary.InvoiceAmount,
		&summary.InvoicePaidAmount,
	)
	if err != nil {
		r.logger.Error("Failed to aggregate invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to aggregate invoices: %w", err)
	}

	return summary, nil
}

// Verify interface compliance
var _ port.DashboardRepository = (*DashboardRepository)(nil)
