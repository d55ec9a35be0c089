package service

import (
	"context"
	"strings"

	"github.com/gilangrmdnii/invoice-backend/internal/application/port"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/approval"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/entity"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/errs"
)

// CreateProjectInput is the payload of a project creation call
type CreateProjectInput struct {
	Name        string
	Description string
	TotalBudget int64
}

// ProjectService manages projects and the cross-project dashboard
type ProjectService interface {
	Create(ctx context.Context, actor approval.Actor, in CreateProjectInput) (*entity.Project, error)
	Get(ctx context.Context, id int64) (*entity.Project, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Project, error)
	Summary(ctx context.Context, projectID int64) (*port.DashboardSummary, error)
}

type projectServiceImpl struct {
	projectRepo   port.ProjectRepository
	dashboardRepo port.DashboardRepository
	logger        Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo port.ProjectRepository,
	dashboardRepo port.DashboardRepository,
	logger Logger,
) ProjectService {
	return &projectServiceImpl{
		projectRepo:   projectRepo,
		dashboardRepo: dashboardRepo,
		logger:        logger,
	}
}

// Create persists a new active project
func (s *projectServiceImpl) Create(ctx context.Context, actor approval.Actor, in CreateProjectInput) (*entity.Project, error) {
	if actor.Role != entity.RoleFinance && actor.Role != entity.RoleOwner {
		return nil, errs.Forbiddenf("role %s may not create projects", actor.Role)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, errs.Validationf("project name must not be empty")
	}
	if in.TotalBudget < 0 {
		return nil, errs.Validationf("project budget must not be negative")
	}

	project := &entity.Project{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Status:      entity.ProjectActive,
		TotalBudget: in.TotalBudget,
		CreatedBy:   actor.ID,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		s.logger.Error("Failed to create project", "error", err, "name", in.Name)
		return nil, err
	}

	s.logger.Info("Project created", "id", project.ID, "budget", project.TotalBudget)
	return project, nil
}

// Get retrieves a project by ID
func (s *projectServiceImpl) Get(ctx context.Context, id int64) (*entity.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errs.NotFoundf("project %d", id)
	}
	return project, nil
}

// List returns projects newest first
func (s *projectServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.Project, error) {
	limit, offset = normalizePage(limit, offset)
	return s.projectRepo.List(ctx, limit, offset)
}

// Summary aggregates spending figures, scoped to one project when
// projectID is non-zero.
func (s *projectServiceImpl) Summary(ctx context.Context, projectID int64) (*port.DashboardSummary, error) {
	if projectID != 0 {
		if _, err := s.Get(ctx, projectID); err != nil {
			return nil, err
		}
	}
	return s.dashboardRepo.Summary(ctx, projectID)
}
