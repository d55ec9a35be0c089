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

// CreateBudgetRequestInput is the payload of a budget-request creation
// call. Proof is required already at submission.
type CreateBudgetRequestInput struct {
	ProjectID int64
	Amount    int64
	Reason    string
	ProofURL  string
}

// BudgetRequestService manages budget-increase requests
type BudgetRequestService interface {
	Create(ctx context.Context, actor approval.Actor, in CreateBudgetRequestInput) (*entity.BudgetRequest, error)
	Get(ctx context.Context, id int64) (*entity.BudgetRequest, error)
	List(ctx context.Context, projectID int64, limit, offset int) ([]*entity.BudgetRequest, error)
	Approve(ctx context.Context, actor approval.Actor, id int64, d approval.Decision) (*entity.BudgetRequest, error)
	Reject(ctx context.Context, actor approval.Actor, id int64, d approval.Decision) (*entity.BudgetRequest, error)
	Delete(ctx context.Context, actor approval.Actor, id int64) error
}

type budgetRequestServiceImpl struct {
	requestRepo port.BudgetRequestRepository
	projectRepo port.ProjectRepository
	txManager   port.TransactionManager
	publisher   port.EventPublisher
	logger      Logger
}

// NewBudgetRequestService creates a new BudgetRequestService
func NewBudgetRequestService(
	requestRepo port.BudgetRequestRepository,
	projectRepo port.ProjectRepository,
	txManager port.TransactionManager,
	publisher port.EventPublisher,
	logger Logger,
) BudgetRequestService {
	return &budgetRequestServiceImpl{
		requestRepo: requestRepo,
		projectRepo: projectRepo,
		txManager:   txManager,
		publisher:   publisher,
		logger:      logger,
	}
}

// Create persists a new pending budget request
func (s *budgetRequestServiceImpl) Create(ctx context.Context, actor approval.Actor, in CreateBudgetRequestInput) (*entity.BudgetRequest, error) {
	rules, err := approval.RulesFor(entity.DocBudgetRequest)
	if err != nil {
		return nil, err
	}
	if !rules.CanCreate(actor.Role) {
		return nil, errs.Forbiddenf("role %s may not create budget requests", actor.Role)
	}

	if in.Amount <= 0 {
		return nil, errs.Validationf("budget request amount must be positive")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, errs.Validationf("budget request reason must not be empty")
	}
	if strings.TrimSpace(in.ProofURL) == "" {
		return nil, errs.Validationf("budget request proof is required")
	}

	project, err := s.projectRepo.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errs.NotFoundf("project %d", in.ProjectID)
	}

	request := &entity.BudgetRequest{
		ProjectID:   in.ProjectID,
		Amount:      in.Amount,
		Reason:      utils.SanitizeString(strings.TrimSpace(in.Reason)),
		ProofURL:    strings.TrimSpace(in.ProofURL),
		Status:      entity.StatusPending,
		RequestedBy: actor.ID,
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		s.logger.Error("Failed to create budget request", "error", err, "project_id", in.ProjectID)
		return nil, err
	}

	s.logger.Info("Budget request created", "id", request.ID, "amount", request.Amount)
	return request, nil
}

// Get retrieves a budget request by ID
func (s *budgetRequestServiceImpl) Get(ctx context.Context, id int64) (*entity.BudgetRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, errs.NotFoundf("budget request %d", id)
	}
	return request, nil
}

// List returns budget requests, optionally scoped to one project
func (s *budgetRequestServiceImpl) List(ctx context.Context, projectID int64, limit, offset int) ([]*entity.BudgetRequest, error) {
	limit, offset = normalizePage(limit, offset)
	return s.requestRepo.List(ctx, projectID, limit, offset)
}

// Approve moves a pending request to APPROVED and grows the project's
// budget envelope by the requested amount, atomically with the flip.
func (s *budgetRequestServiceImpl) Approve(ctx context.Context, actor approval.Actor, id int64, d approval.Decision) (*entity.BudgetRequest, error) {
	request, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rules, err := approval.RulesFor(entity.DocBudgetRequest)
	if err != nil {
		return nil, err
	}
	if err := rules.Approve(approval.State(request.Status), actor, d); err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		ok, err := s.requestRepo.Decide(txCtx, id, entity.StatusApproved, actor.ID,
			strings.TrimSpace(d.Notes), strings.TrimSpace(d.ProofURL))
		if err != nil {
			return err
		}
		if !ok {
			return errs.Conflictf("budget request %d was already decided", id)
		}
		return s.projectRepo.IncrementBudget(txCtx, request.ProjectID, request.Amount)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, event.New(event.TypeBudgetRequestApproved, id, request.ProjectID, actor.ID,
		map[string]interface{}{"amount": request.Amount}))

	s.logger.Info("Budget request approved", "id", id, "amount", request.Amount, "approver", actor.ID)
	return s.Get(ctx, id)
}

// Reject moves a pending request to REJECTED; the envelope stays put
func (s *budgetRequestServiceImpl) Reject(ctx context.Context, actor approval.Actor, id int64, d approval.Decision) (*entity.BudgetRequest, error) {
	request, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rules, err := approval.RulesFor(entity.DocBudgetRequest)
	if err != nil {
		return nil, err
	}
	if err := rules.Reject(approval.State(request.Status), actor, d); err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		ok, err := s.requestRepo.Decide(txCtx, id, entity.StatusRejected, actor.ID,
			strings.TrimSpace(d.Notes), strings.TrimSpace(d.ProofURL))
		if err != nil {
			return err
		}
		if !ok {
			return errs.Conflictf("budget request %d was already decided", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, event.New(event.TypeBudgetRequestRejected, id, request.ProjectID, actor.ID,
		map[string]interface{}{"notes": d.Notes}))

	s.logger.Info("Budget request rejected", "id", id, "approver", actor.ID)
	return s.Get(ctx, id)
}

// Delete removes a still-pending budget request
func (s *budgetRequestServiceImpl) Delete(ctx context.Context, actor approval.Actor, id int64) error {
	request, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	rules, err := approval.RulesFor(entity.DocBudgetRequest)
	if err != nil {
		return err
	}
	if err := rules.Delete(approval.State(request.Status), actor, request.RequestedBy); err != nil {
		return err
	}

	return s.requestRepo.Delete(ctx, id)
}
