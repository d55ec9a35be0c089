package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gilangrmdnii/invoice-backend/internal/application/service"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/approval"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/finance"
	"github.com/gilangrmdnii/invoice-backend/internal/export"
)

const dateLayout = "2006-01-02"

// InvoiceHandler serves the invoice and payment endpoints
type InvoiceHandler struct {
	invoices service.InvoiceService
	exporter *export.Exporter
	logger   *zap.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoices service.InvoiceService, exporter *export.Exporter, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoices: invoices,
		exporter: exporter,
		logger:   logger,
	}
}

type createInvoiceRequest struct {
	ProjectID        int64               `json:"project_id" binding:"required"`
	InvoiceType      string              `json:"invoice_type" binding:"required"`
	RecipientName    string              `json:"recipient_name" binding:"required"`
	RecipientAddress string              `json:"recipient_address"`
	Attention        string              `json:"attention"`
	PONumber         string              `json:"po_number"`
	InvoiceDate      string              `json:"invoice_date"`
	DueDate          *string             `json:"due_date"`
	DPPercentage     *float64            `json:"dp_percentage"`
	PPNPercentage    float64             `json:"ppn_percentage"`
	PPHPercentage    float64             `json:"pph_percentage"`
	Notes            string              `json:"notes"`
	Language         string              `json:"language"`
	Labels           []finance.LabelInput `json:"labels"`
	Items            []finance.ItemInput  `json:"items"`
}

type decisionRequest struct {
	Notes    string `json:"notes"`
	ProofURL string `json:"proof_url"`
}

type paymentRequest struct {
	Amount        int64  `json:"amount" binding:"required"`
	PaymentDate   string `json:"payment_date"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	ProofURL      string `json:"proof_url"`
	Notes         string `json:"notes"`
}

// Create handles POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := service.CreateInvoiceInput{
		ProjectID:        req.ProjectID,
		InvoiceType:      req.InvoiceType,
		RecipientName:    req.RecipientName,
		RecipientAddress: req.RecipientAddress,
		Attention:        req.Attention,
		PONumber:         req.PONumber,
		DPPercentage:     req.DPPercentage,
		PPNPercentage:    req.PPNPercentage,
		PPHPercentage:    req.PPHPercentage,
		Notes:            req.Notes,
		Language:         req.Language,
		Items:            finance.Submission{Labels: req.Labels, Items: req.Items},
	}

	if req.InvoiceDate != "" {
		date, err := time.Parse(dateLayout, req.InvoiceDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invoice_date must use format " + dateLayout})
			return
		}
		in.InvoiceDate = date
	}
	if req.DueDate != nil {
		date, err := time.Parse(dateLayout, *req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must use format " + dateLayout})
			return
		}
		in.DueDate = &date
	}

	invoice, err := h.invoices.Create(c.Request.Context(), currentActor(c), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// Get handles GET /invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoices.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// List handles GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	projectID, limit, offset, ok := listParams(c)
	if !ok {
		return
	}

	invoices, err := h.invoices.List(c.Request.Context(), projectID, limit, offset)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

// Approve handles POST /invoices/:id/approve
func (h *InvoiceHandler) Approve(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoices.Approve(c.Request.Context(), currentActor(c), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// Reject handles POST /invoices/:id/reject
func (h *InvoiceHandler) Reject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoice, err := h.invoices.Reject(c.Request.Context(), currentActor(c), id,
		approval.Decision{Notes: req.Notes, ProofURL: req.ProofURL})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// Delete handles DELETE /invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.invoices.Delete(c.Request.Context(), currentActor(c), id); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RecordPayment handles POST /invoices/:id/payments
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := service.PaymentInput{
		Amount:   req.Amount,
		Method:   req.PaymentMethod,
		ProofURL: req.ProofURL,
		Notes:    req.Notes,
	}
	if req.PaymentDate != "" {
		date, err := time.Parse(dateLayout, req.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment_date must use format " + dateLayout})
			return
		}
		in.PaymentDate = date
	}

	payment, err := h.invoices.RecordPayment(c.Request.Context(), currentActor(c), id, in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// ListPayments handles GET /invoices/:id/payments
func (h *InvoiceHandler) ListPayments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	payments, err := h.invoices.ListPayments(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// DeletePayment handles DELETE /invoices/:id/payments/:paymentID
func (h *InvoiceHandler) DeletePayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	paymentID, ok := pathID(c, "paymentID")
	if !ok {
		return
	}

	if err := h.invoices.DeletePayment(c.Request.Context(), currentActor(c), id, paymentID); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Export handles GET /exports/invoices
func (h *InvoiceHandler) Export(c *gin.Context) {
	projectID, limit, offset, ok := listParams(c)
	if !ok {
		return
	}

	invoices, err := h.invoices.List(c.Request.Context(), projectID, limit, offset)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	filename := fmt.Sprintf("invoices-%s.xlsx", time.Now().Format(dateLayout))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := h.exporter.WriteInvoices(c.Writer, invoices); err != nil {
		h.logger.Error("Failed to stream invoice export", zap.Error(err))
	}
}

// pathID parses a positive integer path parameter, replying 400 itself
// when the value is unusable.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " parameter"})
		return 0, false
	}
	return id, true
}

// listParams parses the shared list query parameters.
func listParams(c *gin.Context) (projectID int64, limit, offset int, ok bool) {
	var err error
	if raw := c.Query("project_id"); raw != "" {
		projectID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || projectID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id parameter"})
			return 0, 0, 0, false
		}
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return projectID, limit, offset, true
}
