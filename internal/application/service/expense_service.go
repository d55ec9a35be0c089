package service

import (
	"context"
	"strings"

	"github.com/gilangrmdnii/invoice-backend/internal/application/port"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/approval"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/entity"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/errs"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/event"
	"github.com/gilangrmdnii/invoice-backend/pkg/utils"
)

// CreateExpenseInput is the payload of an expense creation call
type CreateExpenseInput struct {
	ProjectID   int64
	Description string
	Amount      int64
	Category    string
	ReceiptURL  string
}

// ExpenseService manages expenses and their budget side effect
type ExpenseService interface {
	Create(ctx context.Context, actor approval.Actor, in CreateExpenseInput) (*entity.Expense, error)
	Get(ctx context.Context, id int64) (*entity.Expense, error)
	List(ctx context.Context, projectID int64, limit, offset int) ([]*entity.Expense, error)
	Approve(ctx context.Context, actor approval.Actor, id int64, d approval.Decision) (*entity.Expense, error)
	Reject(ctx context.Context, actor approval.Actor, id int64, d approval.Decision) (*entity.Expense, error)
	Delete(ctx context.Context, actor approval.Actor, id int64) error
}

type expenseServiceImpl struct {
	expenseRepo port.ExpenseRepository
	projectRepo port.ProjectRepository
	txManager   port.TransactionManager
	publisher   port.EventPublisher
	logger      Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	expenseRepo port.ExpenseRepository,
	projectRepo port.ProjectRepository,
	txManager port.TransactionManager,
	publisher port.EventPublisher,
	logger Logger,
) ExpenseService {
	return &expenseServiceImpl{
		expenseRepo: expenseRepo,
		projectRepo: projectRepo,
		txManager:   txManager,
		publisher:   publisher,
		logger:      logger,
	}
}

// Create persists a new pending expense
func (s *expenseServiceImpl) Create(ctx context.Context, actor approval.Actor, in CreateExpenseInput) (*entity.Expense, error) {
	rules, err := approval.RulesFor(entity.DocExpense)
	if err != nil {
		return nil, err
	}
	if !rules.CanCreate(actor.Role) {
		return nil, errs.Forbiddenf("role %s may not create expenses", actor.Role)
	}

	if strings.TrimSpace(in.Description) == "" {
		return nil, errs.Validationf("expense description must not be empty")
	}
	if in.Amount <= 0 {
		return nil, errs.Validationf("expense amount must be positive")
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, errs.Validationf("expense category must not be empty")
	}

	project, err := s.projectRepo.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errs.NotFoundf("project %d", in.ProjectID)
	}

	expense := &entity.Expense{
		ProjectID:   in.ProjectID,
		Description: utils.SanitizeString(strings.TrimSpace(in.Description)),
		Amount:      in.Amount,
		Category:    strings.TrimSpace(in.Category),
		ReceiptURL:  in.ReceiptURL,
		Status:      entity.StatusPending,
		CreatedBy:   actor.ID,
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		s.logger.Error("Failed to create expense", "error", err, "project_id", in.ProjectID)
		return nil, err
	}

	s.logger.Info("Expense created", "id", expense.ID, "amount", expense.Amount)
	return expense, nil
}

// Get retrieves an expense by ID
func (s *expenseServiceImpl) Get(ctx context.Context, id int64) (*entity.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, errs.NotFoundf("expense %d", id)
	}
	return expense, nil
}

// List returns expenses, optionally scoped to one project
func (s *expenseServiceImpl) List(ctx context.Context, projectID int64, limit, offset int) ([]*entity.Expense, error) {
	limit, offset = normalizePage(limit, offset)
	return s.expenseRepo.List(ctx, projectID, limit, offset)
}

// Approve moves a pending expense to APPROVED and adds its amount to the
// project's spent total. The status flip and the increment commit
// together or not at all; the status guard makes a second concurrent
// approval fail instead of double-applying.
func (s *expenseServiceImpl) Approve(ctx context.Context, actor approval.Actor, id int64, d approval.Decision) (*entity.Expense, error) {
	expense, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rules, err := approval.RulesFor(entity.DocExpense)
	if err != nil {
		return nil, err
	}
	if err := rules.Approve(approval.State(expense.Status), actor, d); err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		ok, err := s.expenseRepo.Decide(txCtx, id, entity.StatusApproved, actor.ID, strings.TrimSpace(d.ProofURL), "")
		if err != nil {
			return err
		}
		if !ok {
			return errs.Conflictf("expense %d was already decided", id)
		}
		return s.projectRepo.IncrementSpent(txCtx, expense.ProjectID, expense.Amount)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, event.New(event.TypeExpenseApproved, id, expense.ProjectID, actor.ID,
		map[string]interface{}{"amount": expense.Amount, "category": expense.Category}))

	s.logger.Info("Expense approved", "id", id, "amount", expense.Amount, "approver", actor.ID)
	return s.Get(ctx, id)
}

// Reject moves a pending expense to REJECTED; project totals stay put
func (s *expenseServiceImpl) Reject(ctx context.Context, actor approval.Actor, id int64, d approval.Decision) (*entity.Expense, error) {
	expense, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rules, err := approval.RulesFor(entity.DocExpense)
	if err != nil {
		return nil, err
	}
	if err := rules.Reject(approval.State(expense.Status), actor, d); err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		ok, err := s.expenseRepo.Decide(txCtx, id, entity.StatusRejected, actor.ID,
			strings.TrimSpace(d.ProofURL), strings.TrimSpace(d.Notes))
		if err != nil {
			return err
		}
		if !ok {
			return errs.Conflictf("expense %d was already decided", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, event.New(event.TypeExpenseRejected, id, expense.ProjectID, actor.ID,
		map[string]interface{}{"notes": d.Notes}))

	s.logger.Info("Expense rejected", "id", id, "approver", actor.ID)
	return s.Get(ctx, id)
}

// Delete removes a still-pending expense
func (s *expenseServiceImpl) Delete(ctx context.Context, actor approval.Actor, id int64) error {
	expense, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	rules, err := approval.RulesFor(entity.DocExpense)
	if err != nil {
		return err
	}
	if err := rules.Delete(approval.State(expense.Status), actor, expense.CreatedBy); err != nil {
		return err
	}

	return s.expenseRepo.Delete(ctx, id)
}
