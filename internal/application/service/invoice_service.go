package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gilangrmdnii/invoice-backend/internal/application/port"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/approval"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/entity"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/errs"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/event"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/finance"
)

// CreateInvoiceInput is the payload of an invoice creation call. Totals
// are not part of the input; they are derived from the item submission
// and the declared percentages, then stored.
type CreateInvoiceInput struct {
	ProjectID        int64
	InvoiceType      string
	RecipientName    string
	RecipientAddress string
	Attention        string
	PONumber         string
	InvoiceDate      time.Time
	DueDate          *time.Time
	DPPercentage     *float64
	PPNPercentage    float64
	PPHPercentage    float64
	Notes            string
	Language         string
	Items            finance.Submission
}

// PaymentInput is the payload of a payment recording call.
type PaymentInput struct {
	Amount      int64
	PaymentDate time.Time
	Method      string
	ProofURL    string
	Notes       string
}

// InvoiceService manages invoices and their payment ledger
type InvoiceService interface {
	Create(ctx context.Context, actor approval.Actor, in CreateInvoiceInput) (*entity.Invoice, error)
	Get(ctx context.Context, id int64) (*entity.Invoice, error)
	List(ctx context.Context, projectID int64, limit, offset int) ([]*entity.Invoice, error)
	Approve(ctx context.Context, actor approval.Actor, id int64) (*entity.Invoice, error)
	Reject(ctx context.Context, actor approval.Actor, id int64, d approval.Decision) (*entity.Invoice, error)
	Delete(ctx context.Context, actor approval.Actor, id int64) error

	RecordPayment(ctx context.Context, actor approval.Actor, invoiceID int64, in PaymentInput) (*entity.InvoicePayment, error)
	ListPayments(ctx context.Context, invoiceID int64) ([]*entity.InvoicePayment, error)
	DeletePayment(ctx context.Context, actor approval.Actor, invoiceID, paymentID int64) error
}

type invoiceServiceImpl struct {
	invoiceRepo port.InvoiceRepository
	itemRepo    port.ItemRepository
	paymentRepo port.PaymentRepository
	projectRepo port.ProjectRepository
	txManager   port.TransactionManager
	publisher   port.EventPublisher
	logger      Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo port.InvoiceRepository,
	itemRepo port.ItemRepository,
	paymentRepo port.PaymentRepository,
	projectRepo port.ProjectRepository,
	txManager port.TransactionManager,
	publisher port.EventPublisher,
	logger Logger,
) InvoiceService {
	return &invoiceServiceImpl{
		invoiceRepo: invoiceRepo,
		itemRepo:    itemRepo,
		paymentRepo: paymentRepo,
		projectRepo: projectRepo,
		txManager:   txManager,
		publisher:   publisher,
		logger:      logger,
	}
}

// Create builds the item tree, derives the stored totals and persists the
// invoice with its items in one transaction.
func (s *invoiceServiceImpl) Create(ctx context.Context, actor approval.Actor, in CreateInvoiceInput) (*entity.Invoice, error) {
	rules, err := approval.RulesFor(entity.DocInvoice)
	if err != nil {
		return nil, err
	}
	if !rules.CanCreate(actor.Role) {
		return nil, errs.Forbiddenf("role %s may not create invoices", actor.Role)
	}

	if !entity.IsValidInvoiceType(in.InvoiceType) {
		return nil, errs.Validationf("unknown invoice type %s", in.InvoiceType)
	}
	if strings.TrimSpace(in.RecipientName) == "" {
		return nil, errs.Validationf("recipient name must not be empty")
	}
	if in.DPPercentage != nil && in.InvoiceType != entity.InvoiceTypeDP && in.InvoiceType != entity.InvoiceTypePelunasan {
		return nil, errs.Validationf("dp_percentage only applies to %s and %s invoices",
			entity.InvoiceTypeDP, entity.InvoiceTypePelunasan)
	}

	project, err := s.projectRepo.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errs.NotFoundf("project %d", in.ProjectID)
	}

	tree, err := finance.BuildItemTree(entity.DocInvoice, in.Items)
	if err != nil {
		return nil, err
	}
	totals, err := finance.Compute(tree.Subtotal(), in.PPNPercentage, in.PPHPercentage, in.DPPercentage)
	if err != nil {
		return nil, err
	}

	invoiceDate := in.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}
	language := in.Language
	if language == "" {
		language = "ID"
	}

	invoice := &entity.Invoice{
		ProjectID:        in.ProjectID,
		InvoiceType:      in.InvoiceType,
		RecipientName:    strings.TrimSpace(in.RecipientName),
		RecipientAddress: in.RecipientAddress,
		Attention:        in.Attention,
		PONumber:         in.PONumber,
		InvoiceDate:      invoiceDate,
		DueDate:          in.DueDate,
		DPPercentage:     in.DPPercentage,
		PPNPercentage:    in.PPNPercentage,
		PPHPercentage:    in.PPHPercentage,
		Subtotal:         totals.Subtotal,
		PPNAmount:        totals.PPNAmount,
		PPHAmount:        totals.PPHAmount,
		Amount:           totals.Amount,
		DPAmount:         totals.DPAmount,
		BalanceDue:       totals.BalanceDue,
		Status:           entity.StatusPending,
		PaymentStatus:    entity.PaymentUnpaid,
		Notes:            in.Notes,
		Language:         language,
		CreatedBy:        actor.ID,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		seq, err := s.invoiceRepo.CountByYear(txCtx, invoiceDate.Year())
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = formatInvoiceNumber(invoiceDate, seq+1)

		if err := s.invoiceRepo.Create(txCtx, invoice); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		if err := s.itemRepo.Replace(txCtx, entity.DocInvoice, invoice.ID, tree); err != nil {
			return fmt.Errorf("persist invoice items: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create invoice", "error", err, "project_id", in.ProjectID)
		return nil, err
	}

	s.logger.Info("Invoice created",
		"id", invoice.ID,
		"invoice_number", invoice.InvoiceNumber,
		"amount", invoice.Amount,
	)
	return s.Get(ctx, invoice.ID)
}

// Get retrieves an invoice with its item tree and payments
func (s *invoiceServiceImpl) Get(ctx context.Context, id int64) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, errs.NotFoundf("invoice %d", id)
	}

	items, err := s.itemRepo.ListByDocument(ctx, entity.DocInvoice, id)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListByInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	invoice.Items = items
	invoice.Payments = payments
	return invoice, nil
}

// List returns invoices, optionally scoped to one project (projectID 0
// means all projects)
func (s *invoiceServiceImpl) List(ctx context.Context, projectID int64, limit, offset int) ([]*entity.Invoice, error) {
	limit, offset = normalizePage(limit, offset)
	return s.invoiceRepo.List(ctx, projectID, limit, offset)
}

// Approve moves a pending invoice to APPROVED. Invoices bill the client
// rather than spend budget, so no project totals change.
func (s *invoiceServiceImpl) Approve(ctx context.Context, actor approval.Actor, id int64) (*entity.Invoice, error) {
	invoice, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rules, err := approval.RulesFor(entity.DocInvoice)
	if err != nil {
		return nil, err
	}
	if err := rules.Approve(approval.State(invoice.Status), actor, approval.Decision{}); err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		ok, err := s.invoiceRepo.Decide(txCtx, id, entity.StatusApproved, actor.ID, "")
		if err != nil {
			return err
		}
		if !ok {
			return errs.Conflictf("invoice %d was already decided", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, event.New(event.TypeInvoiceApproved, id, invoice.ProjectID, actor.ID,
		map[string]interface{}{"amount": invoice.Amount, "invoice_number": invoice.InvoiceNumber}))

	s.logger.Info("Invoice approved", "id", id, "approver", actor.ID)
	return s.Get(ctx, id)
}

// Reject moves a pending invoice to REJECTED, keeping the notes
func (s *invoiceServiceImpl) Reject(ctx context.Context, actor approval.Actor, id int64, d approval.Decision) (*entity.Invoice, error) {
	invoice, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rules, err := approval.RulesFor(entity.DocInvoice)
	if err != nil {
		return nil, err
	}
	if err := rules.Reject(approval.State(invoice.Status), actor, d); err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		ok, err := s.invoiceRepo.Decide(txCtx, id, entity.StatusRejected, actor.ID, strings.TrimSpace(d.Notes))
		if err != nil {
			return err
		}
		if !ok {
			return errs.Conflictf("invoice %d was already decided", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, event.New(event.TypeInvoiceRejected, id, invoice.ProjectID, actor.ID,
		map[string]interface{}{"notes": d.Notes}))

	s.logger.Info("Invoice rejected", "id", id, "approver", actor.ID)
	return s.Get(ctx, id)
}

// Delete removes a still-pending invoice with its items
func (s *invoiceServiceImpl) Delete(ctx context.Context, actor approval.Actor, id int64) error {
	invoice, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	rules, err := approval.RulesFor(entity.DocInvoice)
	if err != nil {
		return err
	}
	if err := rules.Delete(approval.State(invoice.Status), actor, invoice.CreatedBy); err != nil {
		return err
	}

	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.itemRepo.DeleteByDocument(txCtx, entity.DocInvoice, id); err != nil {
			return err
		}
		return s.invoiceRepo.Delete(txCtx, id)
	})
}

// RecordPayment appends a payment to an approved invoice. The remaining
// balance is recomputed inside the same transaction that inserts the
// record, so concurrent inserts cannot jointly overpay.
func (s *invoiceServiceImpl) RecordPayment(ctx context.Context, actor approval.Actor, invoiceID int64, in PaymentInput) (*entity.InvoicePayment, error) {
	if actor.Role != entity.RoleFinance && actor.Role != entity.RoleOwner {
		return nil, errs.Forbiddenf("role %s may not record payments", actor.Role)
	}
	if in.Amount <= 0 {
		return nil, errs.Validationf("payment amount must be positive")
	}
	if !entity.IsValidPaymentMethod(in.Method) {
		return nil, errs.Validationf("unknown payment method %s", in.Method)
	}

	payment := &entity.InvoicePayment{
		InvoiceID:     invoiceID,
		Amount:        in.Amount,
		PaymentDate:   in.PaymentDate,
		PaymentMethod: in.Method,
		ProofURL:      in.ProofURL,
		Notes:         in.Notes,
		RecordedBy:    actor.ID,
	}
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = time.Now()
	}

	var projectID int64
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoiceRepo.GetByID(txCtx, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return errs.NotFoundf("invoice %d", invoiceID)
		}
		if invoice.Status != entity.StatusApproved {
			return errs.Conflictf("payments require an approved invoice")
		}
		projectID = invoice.ProjectID

		paid, err := s.paymentRepo.SumByInvoice(txCtx, invoiceID)
		if err != nil {
			return err
		}
		if in.Amount > invoice.Amount-paid {
			return errs.Validationf("payment exceeds remaining balance of %d", invoice.Amount-paid)
		}

		if err := s.paymentRepo.Create(txCtx, payment); err != nil {
			return err
		}

		paid += in.Amount
		return s.invoiceRepo.UpdatePaymentTotals(txCtx, invoiceID, paid, entity.DerivePaymentStatus(paid, invoice.Amount))
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, event.New(event.TypeInvoicePaymentRecorded, invoiceID, projectID, actor.ID,
		map[string]interface{}{"amount": in.Amount, "method": in.Method}))

	s.logger.Info("Payment recorded", "invoice_id", invoiceID, "amount", in.Amount)
	return payment, nil
}

// ListPayments returns the payment records of one invoice
func (s *invoiceServiceImpl) ListPayments(ctx context.Context, invoiceID int64) ([]*entity.InvoicePayment, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, errs.NotFoundf("invoice %d", invoiceID)
	}
	return s.paymentRepo.ListByInvoice(ctx, invoiceID)
}

// DeletePayment removes a payment record and re-derives the invoice's
// paid amount and payment status. Moving the status backwards is the
// intended behavior, not an error.
func (s *invoiceServiceImpl) DeletePayment(ctx context.Context, actor approval.Actor, invoiceID, paymentID int64) error {
	if actor.Role != entity.RoleFinance && actor.Role != entity.RoleOwner {
		return errs.Forbiddenf("role %s may not delete payments", actor.Role)
	}

	var projectID int64
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoiceRepo.GetByID(txCtx, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return errs.NotFoundf("invoice %d", invoiceID)
		}
		projectID = invoice.ProjectID

		payment, err := s.paymentRepo.GetByID(txCtx, paymentID)
		if err != nil {
			return err
		}
		if payment == nil || payment.InvoiceID != invoiceID {
			return errs.NotFoundf("payment %d on invoice %d", paymentID, invoiceID)
		}

		if err := s.paymentRepo.Delete(txCtx, paymentID); err != nil {
			return err
		}

		paid, err := s.paymentRepo.SumByInvoice(txCtx, invoiceID)
		if err != nil {
			return err
		}
		return s.invoiceRepo.UpdatePaymentTotals(txCtx, invoiceID, paid, entity.DerivePaymentStatus(paid, invoice.Amount))
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(ctx, event.New(event.TypeInvoicePaymentDeleted, invoiceID, projectID, actor.ID,
		map[string]interface{}{"payment_id": paymentID}))
	return nil
}

var romanMonths = [...]string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X", "XI", "XII"}

// formatInvoiceNumber renders the external invoice number, e.g.
// INV/2026/VIII/0007. The number is opaque to the engine afterwards.
func formatInvoiceNumber(date time.Time, seq int) string {
	return fmt.Sprintf("INV/%d/%s/%04d", date.Year(), romanMonths[date.Month()-1], seq)
}
