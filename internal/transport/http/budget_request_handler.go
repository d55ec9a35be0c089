package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gilangrmdnii/invoice-backend/internal/application/service"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/approval"
)

// BudgetRequestHandler serves the budget-request endpoints
type BudgetRequestHandler struct {
	requests service.BudgetRequestService
	logger   *zap.Logger
}

// NewBudgetRequestHandler creates a new budget request handler
func NewBudgetRequestHandler(requests service.BudgetRequestService, logger *zap.Logger) *BudgetRequestHandler {
	return &BudgetRequestHandler{
		requests: requests,
		logger:   logger,
	}
}

type createBudgetRequestRequest struct {
	ProjectID int64  `json:"project_id" binding:"required"`
	Amount    int64  `json:"amount" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
	ProofURL  string `json:"proof_url" binding:"required"`
}

// Create handles POST /budget-requests
func (h *BudgetRequestHandler) Create(c *gin.Context) {
	var req createBudgetRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.requests.Create(c.Request.Context(), currentActor(c), service.CreateBudgetRequestInput{
		ProjectID: req.ProjectID,
		Amount:    req.Amount,
		Reason:    req.Reason,
		ProofURL:  req.ProofURL,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// Get handles GET /budget-requests/:id
func (h *BudgetRequestHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	request, err := h.requests.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// List handles GET /budget-requests
func (h *BudgetRequestHandler) List(c *gin.Context) {
	projectID, limit, offset, ok := listParams(c)
	if !ok {
		return
	}

	requests, err := h.requests.List(c.Request.Context(), projectID, limit, offset)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget_requests": requests})
}

// Approve handles POST /budget-requests/:id/approve
func (h *BudgetRequestHandler) Approve(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.requests.Approve(c.Request.Context(), currentActor(c), id,
		approval.Decision{Notes: req.Notes, ProofURL: req.ProofURL})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// Reject handles POST /budget-requests/:id/reject
func (h *BudgetRequestHandler) Reject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.requests.Reject(c.Request.Context(), currentActor(c), id,
		approval.Decision{Notes: req.Notes, ProofURL: req.ProofURL})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// Delete handles DELETE /budget-requests/:id
func (h *BudgetRequestHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.requests.Delete(c.Request.Context(), currentActor(c), id); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
