package service

import (
	"context"

	"github.com/gilangrmdnii/invoice-backend/internal/application/port"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/entity"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/event"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/finance"
)

// Hand-rolled mocks with overridable behavior per test case.

type mockProjectRepo struct {
	createFunc          func(ctx context.Context, project *entity.Project) error
	getByIDFunc         func(ctx context.Context, id int64) (*entity.Project, error)
	listFunc            func(ctx context.Context, limit, offset int) ([]*entity.Project, error)
	incrementSpentFunc  func(ctx context.Context, id int64, delta int64) error
	incrementBudgetFunc func(ctx context.Context, id int64, delta int64) error
}

func (m *mockProjectRepo) Create(ctx context.Context, project *entity.Project) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, project)
	}
	return nil
}

func (m *mockProjectRepo) GetByID(ctx context.Context, id int64) (*entity.Project, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Project{ID: id, Name: "Test Project", Status: entity.ProjectActive}, nil
}

func (m *mockProjectRepo) List(ctx context.Context, limit, offset int) ([]*entity.Project, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockProjectRepo) IncrementSpent(ctx context.Context, id int64, delta int64) error {
	if m.incrementSpentFunc != nil {
		return m.incrementSpentFunc(ctx, id, delta)
	}
	return nil
}

func (m *mockProjectRepo) IncrementBudget(ctx context.Context, id int64, delta int64) error {
	if m.incrementBudgetFunc != nil {
		return m.incrementBudgetFunc(ctx, id, delta)
	}
	return nil
}

type mockItemRepo struct {
	replaceFunc        func(ctx context.Context, docType string, docID int64, tree *finance.ItemTree) error
	listByDocumentFunc func(ctx context.Context, docType string, docID int64) ([]*entity.DocumentItem, error)
	deleteByDocFunc    func(ctx context.Context, docType string, docID int64) error
}

func (m *mockItemRepo) Replace(ctx context.Context, docType string, docID int64, tree *finance.ItemTree) error {
	if m.replaceFunc != nil {
		return m.replaceFunc(ctx, docType, docID, tree)
	}
	return nil
}

func (m *mockItemRepo) ListByDocument(ctx context.Context, docType string, docID int64) ([]*entity.DocumentItem, error) {
	if m.listByDocumentFunc != nil {
		return m.listByDocumentFunc(ctx, docType, docID)
	}
	return nil, nil
}

func (m *mockItemRepo) DeleteByDocument(ctx context.Context, docType string, docID int64) error {
	if m.deleteByDocFunc != nil {
		return m.deleteByDocFunc(ctx, docType, docID)
	}
	return nil
}

type mockInvoiceRepo struct {
	createFunc          func(ctx context.Context, invoice *entity.Invoice) error
	getByIDFunc         func(ctx context.Context, id int64) (*entity.Invoice, error)
	listFunc            func(ctx context.Context, projectID int64, limit, offset int) ([]*entity.Invoice, error)
	countByYearFunc     func(ctx context.Context, year int) (int, error)
	decideFunc          func(ctx context.Context, id int64, status string, approvedBy int64, rejectNotes string) (bool, error)
	updateTotalsFunc    func(ctx context.Context, id int64, paidAmount int64, paymentStatus string) error
	deleteFunc          func(ctx context.Context, id int64) error
}

func (m *mockInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, invoice)
	}
	invoice.ID = 1
	return nil
}

func (m *mockInvoiceRepo) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockInvoiceRepo) List(ctx context.Context, projectID int64, limit, offset int) ([]*entity.Invoice, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, projectID, limit, offset)
	}
	return nil, nil
}

func (m *mockInvoiceRepo) CountByYear(ctx context.Context, year int) (int, error) {
	if m.countByYearFunc != nil {
		return m.countByYearFunc(ctx, year)
	}
	return 0, nil
}

func (m *mockInvoiceRepo) Decide(ctx context.Context, id int64, status string, approvedBy int64, rejectNotes string) (bool, error) {
	if m.decideFunc != nil {
		return m.decideFunc(ctx, id, status, approvedBy, rejectNotes)
	}
	return true, nil
}

func (m *mockInvoiceRepo) UpdatePaymentTotals(ctx context.Context, id int64, paidAmount int64, paymentStatus string) error {
	if m.updateTotalsFunc != nil {
		return m.updateTotalsFunc(ctx, id, paidAmount, paymentStatus)
	}
	return nil
}

func (m *mockInvoiceRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockPaymentRepo struct {
	createFunc       func(ctx context.Context, payment *entity.InvoicePayment) error
	getByIDFunc      func(ctx context.Context, id int64) (*entity.InvoicePayment, error)
	listByInvFunc    func(ctx context.Context, invoiceID int64) ([]*entity.InvoicePayment, error)
	sumByInvoiceFunc func(ctx context.Context, invoiceID int64) (int64, error)
	deleteFunc       func(ctx context.Context, id int64) error
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *entity.InvoicePayment) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, payment)
	}
	return nil
}

func (m *mockPaymentRepo) GetByID(ctx context.Context, id int64) (*entity.InvoicePayment, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockPaymentRepo) ListByInvoice(ctx context.Context, invoiceID int64) ([]*entity.InvoicePayment, error) {
	if m.listByInvFunc != nil {
		return m.listByInvFunc(ctx, invoiceID)
	}
	return nil, nil
}

func (m *mockPaymentRepo) SumByInvoice(ctx context.Context, invoiceID int64) (int64, error) {
	if m.sumByInvoiceFunc != nil {
		return m.sumByInvoiceFunc(ctx, invoiceID)
	}
	return 0, nil
}

func (m *mockPaymentRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockExpenseRepo struct {
	createFunc  func(ctx context.Context, expense *entity.Expense) error
	getByIDFunc func(ctx context.Context, id int64) (*entity.Expense, error)
	listFunc    func(ctx context.Context, projectID int64, limit, offset int) ([]*entity.Expense, error)
	decideFunc  func(ctx context.Context, id int64, status string, approvedBy int64, proofURL, rejectNotes string) (bool, error)
	deleteFunc  func(ctx context.Context, id int64) error
}

func (m *mockExpenseRepo) Create(ctx context.Context, expense *entity.Expense) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, expense)
	}
	expense.ID = 1
	return nil
}

func (m *mockExpenseRepo) GetByID(ctx context.Context, id int64) (*entity.Expense, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockExpenseRepo) List(ctx context.Context, projectID int64, limit, offset int) ([]*entity.Expense, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, projectID, limit, offset)
	}
	return nil, nil
}

func (m *mockExpenseRepo) Decide(ctx context.Context, id int64, status string, approvedBy int64, proofURL, rejectNotes string) (bool, error) {
	if m.decideFunc != nil {
		return m.decideFunc(ctx, id, status, approvedBy, proofURL, rejectNotes)
	}
	return true, nil
}

func (m *mockExpenseRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockBudgetRequestRepo struct {
	createFunc  func(ctx context.Context, request *entity.BudgetRequest) error
	getByIDFunc func(ctx context.Context, id int64) (*entity.BudgetRequest, error)
	listFunc    func(ctx context.Context, projectID int64, limit, offset int) ([]*entity.BudgetRequest, error)
	decideFunc  func(ctx context.Context, id int64, status string, approvedBy int64, decisionNotes, decisionProof string) (bool, error)
	deleteFunc  func(ctx context.Context, id int64) error
}

func (m *mockBudgetRequestRepo) Create(ctx context.Context, request *entity.BudgetRequest) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, request)
	}
	request.ID = 1
	return nil
}

func (m *mockBudgetRequestRepo) GetByID(ctx context.Context, id int64) (*entity.BudgetRequest, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBudgetRequestRepo) List(ctx context.Context, projectID int64, limit, offset int) ([]*entity.BudgetRequest, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, projectID, limit, offset)
	}
	return nil, nil
}

func (m *mockBudgetRequestRepo) Decide(ctx context.Context, id int64, status string, approvedBy int64, decisionNotes, decisionProof string) (bool, error) {
	if m.decideFunc != nil {
		return m.decideFunc(ctx, id, status, approvedBy, decisionNotes, decisionProof)
	}
	return true, nil
}

func (m *mockBudgetRequestRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// mockTxManager runs the function without a real transaction so the
// services' composition logic can be exercised in isolation.
type mockTxManager struct{}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockPublisher struct {
	events []*event.Event
}

func (m *mockPublisher) Publish(ctx context.Context, evt *event.Event) {
	m.events = append(m.events, evt)
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

var (
	_ port.ProjectRepository       = (*mockProjectRepo)(nil)
	_ port.ItemRepository          = (*mockItemRepo)(nil)
	_ port.InvoiceRepository       = (*mockInvoiceRepo)(nil)
	_ port.PaymentRepository       = (*mockPaymentRepo)(nil)
	_ port.ExpenseRepository       = (*mockExpenseRepo)(nil)
	_ port.BudgetRequestRepository = (*mockBudgetRequestRepo)(nil)
	_ port.EventPublisher          = (*mockPublisher)(nil)
	_ port.TransactionManager      = (*mockTxManager)(nil)
	_ Logger                       = (*mockLogger)(nil)
)
