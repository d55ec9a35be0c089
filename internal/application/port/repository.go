package port

import (
	"context"

	"github.com/gilangrmdnii/invoice-backend/internal/domain/entity"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/finance"
)

// ProjectRepository defines persistence operations for Project. The two
// increment methods are the only writers of the budget envelope and run
// inside the approval transaction that triggers them.
type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	GetByID(ctx context.Context, id int64) (*entity.Project, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Project, error)

	// IncrementSpent adds delta to spent_amount (expense approvals only)
	IncrementSpent(ctx context.Context, id int64, delta int64) error

	// IncrementBudget adds delta to total_budget (budget-request approvals only)
	IncrementBudget(ctx context.Context, id int64, delta int64) error
}

// ItemRepository defines persistence operations for DocumentItem trees.
// Item sets are replace-only; partial patches would risk dangling parent
// references.
type ItemRepository interface {
	// Replace atomically swaps the document's whole item set for the tree
	Replace(ctx context.Context, docType string, docID int64, tree *finance.ItemTree) error

	// ListByDocument returns the flat item set, labels before their children
	ListByDocument(ctx context.Context, docType string, docID int64) ([]*entity.DocumentItem, error)

	// DeleteByDocument removes the document's whole item set
	DeleteByDocument(ctx context.Context, docType string, docID int64) error
}

// InvoiceRepository defines persistence operations for Invoice
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)
	List(ctx context.Context, projectID int64, limit, offset int) ([]*entity.Invoice, error)
	CountByYear(ctx context.Context, year int) (int, error)

	// Decide flips status away from PENDING. The update is guarded by the
	// current status so exactly one of two concurrent decisions wins;
	// returns false when the guard did not match.
	Decide(ctx context.Context, id int64, status string, approvedBy int64, rejectNotes string) (bool, error)

	// UpdatePaymentTotals stores the re-derived paid amount and payment status
	UpdatePaymentTotals(ctx context.Context, id int64, paidAmount int64, paymentStatus string) error

	Delete(ctx context.Context, id int64) error
}

// PaymentRepository defines persistence operations for InvoicePayment
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.InvoicePayment) error
	GetByID(ctx context.Context, id int64) (*entity.InvoicePayment, error)
	ListByInvoice(ctx context.Context, invoiceID int64) ([]*entity.InvoicePayment, error)

	// SumByInvoice recomputes the cumulative paid amount from the records
	SumByInvoice(ctx context.Context, invoiceID int64) (int64, error)

	Delete(ctx context.Context, id int64) error
}

// ExpenseRepository defines persistence operations for Expense
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, id int64) (*entity.Expense, error)
	List(ctx context.Context, projectID int64, limit, offset int) ([]*entity.Expense, error)

	// Decide flips status away from PENDING, guarded by current status
	Decide(ctx context.Context, id int64, status string, approvedBy int64, proofURL, rejectNotes string) (bool, error)

	Delete(ctx context.Context, id int64) error
}

// BudgetRequestRepository defines persistence operations for BudgetRequest
type BudgetRequestRepository interface {
	Create(ctx context.Context, request *entity.BudgetRequest) error
	GetByID(ctx context.Context, id int64) (*entity.BudgetRequest, error)
	List(ctx context.Context, projectID int64, limit, offset int) ([]*entity.BudgetRequest, error)

	// Decide flips status away from PENDING, guarded by current status
	Decide(ctx context.Context, id int64, status string, approvedBy int64, decisionNotes, decisionProof string) (bool, error)

	Delete(ctx context.Context, id int64) error
}

// DashboardRepository aggregates counts and totals across entities.
// A zero projectID means all projects.
type DashboardRepository interface {
	Summary(ctx context.Context, projectID int64) (*DashboardSummary, error)
}

// DashboardSummary is the read-only aggregation behind the dashboard page
type DashboardSummary struct {
	TotalProjects          int   `json:"total_projects"`
	ActiveProjects         int   `json:"active_projects"`
	TotalBudget            int64 `json:"total_budget"`
	TotalSpent             int64 `json:"total_spent"`
	TotalExpenses          int   `json:"total_expenses"`
	PendingExpenses        int   `json:"pending_expenses"`
	ApprovedExpenses       int   `json:"approved_expenses"`
	RejectedExpenses       int   `json:"rejected_expenses"`
	ExpenseAmount          int64 `json:"expense_amount"`
	TotalBudgetRequests    int   `json:"total_budget_requests"`
	PendingBudgetRequests  int   `json:"pending_budget_requests"`
	ApprovedBudgetRequests int   `json:"approved_budget_requests"`
	RejectedBudgetRequests int   `json:"rejected_budget_requests"`
	BudgetRequestAmount    int64 `json:"budget_request_amount"`
	TotalInvoices          int   `json:"total_invoices"`
	InvoiceAmount          int64 `json:"invoice_amount"`
	InvoicePaidAmount      int64 `json:"invoice_paid_amount"`
}

// TransactionManager handles database transactions. Repositories pick the
// transaction up from the context, so a service can compose several
// repository calls into one atomic unit.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
