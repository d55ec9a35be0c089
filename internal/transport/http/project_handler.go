package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gilangrmdnii/invoice-backend/internal/application/service"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/finance"
)

// ProjectHandler serves the project, plan and dashboard endpoints
type ProjectHandler struct {
	projects service.ProjectService
	plans    service.PlanService
	logger   *zap.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projects service.ProjectService, plans service.PlanService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		plans:    plans,
		logger:   logger,
	}
}

type createProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	TotalBudget int64  `json:"total_budget"`
}

type replacePlanRequest struct {
	Labels []finance.LabelInput `json:"labels"`
	Items  []finance.ItemInput  `json:"items"`
}

// Create handles POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projects.Create(c.Request.Context(), currentActor(c), service.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		TotalBudget: req.TotalBudget,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// Get handles GET /projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// List handles GET /projects
func (h *ProjectHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	projects, err := h.projects.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetPlan handles GET /projects/:id/plan
func (h *ProjectHandler) GetPlan(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	items, err := h.plans.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ReplacePlan handles PUT /projects/:id/plan
func (h *ProjectHandler) ReplacePlan(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req replacePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := h.plans.Replace(c.Request.Context(), currentActor(c), id,
		finance.Submission{Labels: req.Labels, Items: req.Items})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Dashboard handles GET /dashboard
func (h *ProjectHandler) Dashboard(c *gin.Context) {
	var projectID int64
	if raw := c.Query("project_id"); raw != "" {
		var err error
		projectID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || projectID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id parameter"})
			return
		}
	}

	summary, err := h.projects.Summary(c.Request.Context(), projectID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
