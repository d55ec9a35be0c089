package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gilangrmdnii/invoice-backend/internal/application/service"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/approval"
	"github.com/gilangrmdnii/invoice-backend/internal/export"
)

// ExpenseHandler serves the expense endpoints
type ExpenseHandler struct {
	expenses service.ExpenseService
	exporter *export.Exporter
	logger   *zap.Logger
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenses service.ExpenseService, exporter *export.Exporter, logger *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		expenses: expenses,
		exporter: exporter,
		logger:   logger,
	}
}

type createExpenseRequest struct {
	ProjectID   int64  `json:"project_id" binding:"required"`
	Description string `json:"description" binding:"required"`
	Amount      int64  `json:"amount" binding:"required"`
	Category    string `json:"category"`
	ReceiptURL  string `json:"receipt_url"`
}

// Create handles POST /expenses
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense, err := h.expenses.Create(c.Request.Context(), currentActor(c), service.CreateExpenseInput{
		ProjectID:   req.ProjectID,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		ReceiptURL:  req.ReceiptURL,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// Get handles GET /expenses/:id
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	expense, err := h.expenses.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

// List handles GET /expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	projectID, limit, offset, ok := listParams(c)
	if !ok {
		return
	}

	expenses, err := h.expenses.List(c.Request.Context(), projectID, limit, offset)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// Approve handles POST /expenses/:id/approve
func (h *ExpenseHandler) Approve(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense, err := h.expenses.Approve(c.Request.Context(), currentActor(c), id,
		approval.Decision{Notes: req.Notes, ProofURL: req.ProofURL})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

// Reject handles POST /expenses/:id/reject
func (h *ExpenseHandler) Reject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense, err := h.expenses.Reject(c.Request.Context(), currentActor(c), id,
		approval.Decision{Notes: req.Notes, ProofURL: req.ProofURL})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

// Delete handles DELETE /expenses/:id
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.expenses.Delete(c.Request.Context(), currentActor(c), id); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Export handles GET /exports/expenses
func (h *ExpenseHandler) Export(c *gin.Context) {
	projectID, limit, offset, ok := listParams(c)
	if !ok {
		return
	}

	expenses, err := h.expenses.List(c.Request.Context(), projectID, limit, offset)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	filename := fmt.Sprintf("expenses-%s.xlsx", time.Now().Format(dateLayout))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := h.exporter.WriteExpenses(c.Writer, expenses); err != nil {
		h.logger.Error("Failed to stream expense export", zap.Error(err))
	}
}
