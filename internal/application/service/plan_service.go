package service

import (
	"context"

	"github.com/gilangrmdnii/invoice-backend/internal/application/port"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/approval"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/entity"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/errs"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/finance"
)

// PlanService manages a project's planning item tree. The plan shares
// the item grammar with invoices but carries no approval lifecycle.
type PlanService interface {
	Get(ctx context.Context, projectID int64) ([]*entity.DocumentItem, error)
	Replace(ctx context.Context, actor approval.Actor, projectID int64, sub finance.Submission) ([]*entity.DocumentItem, error)
}

type planServiceImpl struct {
	itemRepo    port.ItemRepository
	projectRepo port.ProjectRepository
	txManager   port.TransactionManager
	logger      Logger
}

// NewPlanService creates a new PlanService
func NewPlanService(
	itemRepo port.ItemRepository,
	projectRepo port.ProjectRepository,
	txManager port.TransactionManager,
	logger Logger,
) PlanService {
	return &planServiceImpl{
		itemRepo:    itemRepo,
		projectRepo: projectRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Get returns the project's current plan items
func (s *planServiceImpl) Get(ctx context.Context, projectID int64) ([]*entity.DocumentItem, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errs.NotFoundf("project %d", projectID)
	}
	return s.itemRepo.ListByDocument(ctx, entity.DocProjectPlan, projectID)
}

// Replace swaps the project's plan for the submitted tree in full
func (s *planServiceImpl) Replace(ctx context.Context, actor approval.Actor, projectID int64, sub finance.Submission) ([]*entity.DocumentItem, error) {
	if actor.Role != entity.RoleFinance && actor.Role != entity.RoleOwner {
		return nil, errs.Forbiddenf("role %s may not edit the project plan", actor.Role)
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errs.NotFoundf("project %d", projectID)
	}

	tree, err := finance.BuildItemTree(entity.DocProjectPlan, sub)
	if err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.itemRepo.Replace(txCtx, entity.DocProjectPlan, projectID, tree)
	})
	if err != nil {
		s.logger.Error("Failed to replace project plan", "error", err, "project_id", projectID)
		return nil, err
	}

	s.logger.Info("Project plan replaced", "project_id", projectID, "items", len(tree.Leaves()))
	return s.itemRepo.ListByDocument(ctx, entity.DocProjectPlan, projectID)
}
