package service

import (
	"context"
	"testing"
	"time"

	"github.com/gilangrmdnii/invoice-backend/internal/domain/approval"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/entity"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/errs"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/finance"
)

func newInvoiceService(invoiceRepo *mockInvoiceRepo, itemRepo *mockItemRepo, paymentRepo *mockPaymentRepo, projectRepo *mockProjectRepo, publisher *mockPublisher) InvoiceService {
	return NewInvoiceService(invoiceRepo, itemRepo, paymentRepo, projectRepo, &mockTxManager{}, publisher, &mockLogger{})
}

func sampleSubmission() finance.Submission {
	return finance.Submission{
		Items: []finance.ItemInput{
			{Description: "Mobilisasi", Quantity: 1, Unit: "ls", UnitPrice: 500000},
			{Description: "Pekerjaan galian", Quantity: 12, Unit: "m3", UnitPrice: 150000},
		},
	}
}

func TestInvoiceService_Create(t *testing.T) {
	tests := []struct {
		name    string
		actor   approval.Actor
		in      CreateInvoiceInput
		wantErr func(error) bool
	}{
		{
			name:  "finance creates termin invoice",
			actor: approval.Actor{ID: 2, Role: entity.RoleFinance},
			in: CreateInvoiceInput{
				ProjectID:     1,
				InvoiceType:   entity.InvoiceTypeTermin1,
				RecipientName: "PT Maju Jaya",
				InvoiceDate:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
				PPNPercentage: 11,
				Items:         sampleSubmission(),
			},
		},
		{
			name:  "supervisor may not create invoices",
			actor: approval.Actor{ID: 1, Role: entity.RoleSPV},
			in: CreateInvoiceInput{
				ProjectID:     1,
				InvoiceType:   entity.InvoiceTypeTermin1,
				RecipientName: "PT Maju Jaya",
				Items:         sampleSubmission(),
			},
			wantErr: errs.IsForbidden,
		},
		{
			name:  "unknown invoice type",
			actor: approval.Actor{ID: 2, Role: entity.RoleFinance},
			in: CreateInvoiceInput{
				ProjectID:     1,
				InvoiceType:   "QUARTERLY",
				RecipientName: "PT Maju Jaya",
				Items:         sampleSubmission(),
			},
			wantErr: errs.IsValidation,
		},
		{
			name:  "dp percentage rejected on termin invoice",
			actor: approval.Actor{ID: 2, Role: entity.RoleFinance},
			in: CreateInvoiceInput{
				ProjectID:     1,
				InvoiceType:   entity.InvoiceTypeTermin1,
				RecipientName: "PT Maju Jaya",
				DPPercentage:  floatPtr(50),
				Items:         sampleSubmission(),
			},
			wantErr: errs.IsValidation,
		},
		{
			name:  "empty submission rejected",
			actor: approval.Actor{ID: 2, Role: entity.RoleFinance},
			in: CreateInvoiceInput{
				ProjectID:     1,
				InvoiceType:   entity.InvoiceTypeTermin1,
				RecipientName: "PT Maju Jaya",
				Items:         finance.Submission{},
			},
			wantErr: errs.IsValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stored *entity.Invoice
			invoiceRepo := &mockInvoiceRepo{
				countByYearFunc: func(ctx context.Context, year int) (int, error) { return 6, nil },
				createFunc: func(ctx context.Context, invoice *entity.Invoice) error {
					invoice.ID = 42
					stored = invoice
					return nil
				},
				getByIDFunc: func(ctx context.Context, id int64) (*entity.Invoice, error) { return stored, nil },
			}
			service := newInvoiceService(invoiceRepo, &mockItemRepo{}, &mockPaymentRepo{}, &mockProjectRepo{}, &mockPublisher{})

			invoice, err := service.Create(context.Background(), tt.actor, tt.in)

			if tt.wantErr != nil {
				if err == nil || !tt.wantErr(err) {
					t.Fatalf("Create() error = %v, want matching kind", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if invoice.InvoiceNumber != "INV/2026/III/0007" {
				t.Errorf("Create() invoice number = %s, want INV/2026/III/0007", invoice.InvoiceNumber)
			}
			if invoice.Subtotal != 2300000 {
				t.Errorf("Create() subtotal = %d, want 2300000", invoice.Subtotal)
			}
			if invoice.Amount != 2553000 {
				t.Errorf("Create() amount = %d, want 2553000", invoice.Amount)
			}
			if invoice.Status != entity.StatusPending {
				t.Errorf("Create() status = %s, want PENDING", invoice.Status)
			}
			if invoice.PaymentStatus != entity.PaymentUnpaid {
				t.Errorf("Create() payment status = %s, want UNPAID", invoice.PaymentStatus)
			}
		})
	}
}

func TestInvoiceService_Approve(t *testing.T) {
	pending := func(ctx context.Context, id int64) (*entity.Invoice, error) {
		return &entity.Invoice{ID: id, ProjectID: 1, Status: entity.StatusPending, Amount: 2507000}, nil
	}

	t.Run("owner approves pending invoice", func(t *testing.T) {
		publisher := &mockPublisher{}
		var decided string
		invoiceRepo := &mockInvoiceRepo{
			getByIDFunc: pending,
			decideFunc: func(ctx context.Context, id int64, status string, approvedBy int64, rejectNotes string) (bool, error) {
				decided = status
				return true, nil
			},
		}
		service := newInvoiceService(invoiceRepo, &mockItemRepo{}, &mockPaymentRepo{}, &mockProjectRepo{}, publisher)

		_, err := service.Approve(context.Background(), approval.Actor{ID: 3, Role: entity.RoleOwner}, 1)
		if err != nil {
			t.Fatalf("Approve() error = %v", err)
		}
		if decided != entity.StatusApproved {
			t.Errorf("Approve() decided status = %s, want APPROVED", decided)
		}
		if len(publisher.events) != 1 {
			t.Errorf("Approve() published %d events, want 1", len(publisher.events))
		}
	})

	t.Run("finance may not decide invoices", func(t *testing.T) {
		invoiceRepo := &mockInvoiceRepo{getByIDFunc: pending}
		service := newInvoiceService(invoiceRepo, &mockItemRepo{}, &mockPaymentRepo{}, &mockProjectRepo{}, &mockPublisher{})

		_, err := service.Approve(context.Background(), approval.Actor{ID: 2, Role: entity.RoleFinance}, 1)
		if !errs.IsForbidden(err) {
			t.Fatalf("Approve() error = %v, want forbidden", err)
		}
	})

	t.Run("lost race surfaces as conflict", func(t *testing.T) {
		invoiceRepo := &mockInvoiceRepo{
			getByIDFunc: pending,
			decideFunc: func(ctx context.Context, id int64, status string, approvedBy int64, rejectNotes string) (bool, error) {
				return false, nil
			},
		}
		service := newInvoiceService(invoiceRepo, &mockItemRepo{}, &mockPaymentRepo{}, &mockProjectRepo{}, &mockPublisher{})

		_, err := service.Approve(context.Background(), approval.Actor{ID: 3, Role: entity.RoleOwner}, 1)
		if !errs.IsConflict(err) {
			t.Fatalf("Approve() error = %v, want conflict", err)
		}
	})

	t.Run("already decided invoice conflicts", func(t *testing.T) {
		invoiceRepo := &mockInvoiceRepo{
			getByIDFunc: func(ctx context.Context, id int64) (*entity.Invoice, error) {
				return &entity.Invoice{ID: id, Status: entity.StatusApproved}, nil
			},
		}
		service := newInvoiceService(invoiceRepo, &mockItemRepo{}, &mockPaymentRepo{}, &mockProjectRepo{}, &mockPublisher{})

		_, err := service.Approve(context.Background(), approval.Actor{ID: 3, Role: entity.RoleOwner}, 1)
		if !errs.IsConflict(err) {
			t.Fatalf("Approve() error = %v, want conflict", err)
		}
	})
}

func TestInvoiceService_Reject(t *testing.T) {
	pending := func(ctx context.Context, id int64) (*entity.Invoice, error) {
		return &entity.Invoice{ID: id, ProjectID: 1, Status: entity.StatusPending}, nil
	}

	t.Run("reject requires notes", func(t *testing.T) {
		invoiceRepo := &mockInvoiceRepo{getByIDFunc: pending}
		service := newInvoiceService(invoiceRepo, &mockItemRepo{}, &mockPaymentRepo{}, &mockProjectRepo{}, &mockPublisher{})

		_, err := service.Reject(context.Background(), approval.Actor{ID: 3, Role: entity.RoleOwner}, 1, approval.Decision{})
		if !errs.IsValidation(err) {
			t.Fatalf("Reject() error = %v, want validation", err)
		}
	})

	t.Run("owner rejects with notes", func(t *testing.T) {
		var gotNotes string
		invoiceRepo := &mockInvoiceRepo{
			getByIDFunc: pending,
			decideFunc: func(ctx context.Context, id int64, status string, approvedBy int64, rejectNotes string) (bool, error) {
				gotNotes = rejectNotes
				return true, nil
			},
		}
		service := newInvoiceService(invoiceRepo, &mockItemRepo{}, &mockPaymentRepo{}, &mockProjectRepo{}, &mockPublisher{})

		_, err := service.Reject(context.Background(), approval.Actor{ID: 3, Role: entity.RoleOwner}, 1,
			approval.Decision{Notes: "harga tidak sesuai kontrak"})
		if err != nil {
			t.Fatalf("Reject() error = %v", err)
		}
		if gotNotes != "harga tidak sesuai kontrak" {
			t.Errorf("Reject() stored notes = %q", gotNotes)
		}
	})
}

// Exercises the full ledger lifecycle on one approved invoice: a partial
// payment, a closing payment, then an overpay attempt.
func TestInvoiceService_RecordPayment_Lifecycle(t *testing.T) {
	const amount = 2507000

	var payments []*entity.InvoicePayment
	var lastPaid int64
	var lastStatus string

	invoiceRepo := &mockInvoiceRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Invoice, error) {
			return &entity.Invoice{ID: id, ProjectID: 1, Status: entity.StatusApproved, Amount: amount}, nil
		},
		updateTotalsFunc: func(ctx context.Context, id int64, paidAmount int64, paymentStatus string) error {
			lastPaid = paidAmount
			lastStatus = paymentStatus
			return nil
		},
	}
	paymentRepo := &mockPaymentRepo{
		createFunc: func(ctx context.Context, payment *entity.InvoicePayment) error {
			payment.ID = int64(len(payments) + 1)
			payments = append(payments, payment)
			return nil
		},
		sumByInvoiceFunc: func(ctx context.Context, invoiceID int64) (int64, error) {
			var total int64
			for _, p := range payments {
				total += p.Amount
			}
			return total, nil
		},
	}
	service := newInvoiceService(invoiceRepo, &mockItemRepo{}, paymentRepo, &mockProjectRepo{}, &mockPublisher{})
	financeActor := approval.Actor{ID: 2, Role: entity.RoleFinance}

	if _, err := service.RecordPayment(context.Background(), financeActor, 1, PaymentInput{Amount: 1000000, Method: entity.MethodTransfer}); err != nil {
		t.Fatalf("first payment error = %v", err)
	}
	if lastPaid != 1000000 || lastStatus != entity.PaymentPartialPaid {
		t.Fatalf("after first payment paid = %d status = %s, want 1000000 PARTIAL_PAID", lastPaid, lastStatus)
	}

	if _, err := service.RecordPayment(context.Background(), financeActor, 1, PaymentInput{Amount: 1507000, Method: entity.MethodTransfer}); err != nil {
		t.Fatalf("second payment error = %v", err)
	}
	if lastPaid != amount || lastStatus != entity.PaymentPaid {
		t.Fatalf("after second payment paid = %d status = %s, want %d PAID", lastPaid, lastStatus, amount)
	}

	_, err := service.RecordPayment(context.Background(), financeActor, 1, PaymentInput{Amount: 1, Method: entity.MethodCash})
	if !errs.IsValidation(err) {
		t.Fatalf("overpay error = %v, want validation", err)
	}
	if len(payments) != 2 {
		t.Fatalf("ledger holds %d records, want 2", len(payments))
	}
}

func TestInvoiceService_RecordPayment_Guards(t *testing.T) {
	t.Run("pending invoice takes no payments", func(t *testing.T) {
		invoiceRepo := &mockInvoiceRepo{
			getByIDFunc: func(ctx context.Context, id int64) (*entity.Invoice, error) {
				return &entity.Invoice{ID: id, Status: entity.StatusPending, Amount: 1000000}, nil
			},
		}
		service := newInvoiceService(invoiceRepo, &mockItemRepo{}, &mockPaymentRepo{}, &mockProjectRepo{}, &mockPublisher{})

		_, err := service.RecordPayment(context.Background(), approval.Actor{ID: 2, Role: entity.RoleFinance}, 1,
			PaymentInput{Amount: 500000, Method: entity.MethodTransfer})
		if !errs.IsConflict(err) {
			t.Fatalf("RecordPayment() error = %v, want conflict", err)
		}
	})

	t.Run("supervisor may not record payments", func(t *testing.T) {
		service := newInvoiceService(&mockInvoiceRepo{}, &mockItemRepo{}, &mockPaymentRepo{}, &mockProjectRepo{}, &mockPublisher{})

		_, err := service.RecordPayment(context.Background(), approval.Actor{ID: 1, Role: entity.RoleSPV}, 1,
			PaymentInput{Amount: 500000, Method: entity.MethodTransfer})
		if !errs.IsForbidden(err) {
			t.Fatalf("RecordPayment() error = %v, want forbidden", err)
		}
	})

	t.Run("unknown method rejected", func(t *testing.T) {
		service := newInvoiceService(&mockInvoiceRepo{}, &mockItemRepo{}, &mockPaymentRepo{}, &mockProjectRepo{}, &mockPublisher{})

		_, err := service.RecordPayment(context.Background(), approval.Actor{ID: 2, Role: entity.RoleFinance}, 1,
			PaymentInput{Amount: 500000, Method: "BARTER"})
		if !errs.IsValidation(err) {
			t.Fatalf("RecordPayment() error = %v, want validation", err)
		}
	})
}

func TestInvoiceService_DeletePayment(t *testing.T) {
	var lastPaid int64
	var lastStatus string
	deleted := false

	invoiceRepo := &mockInvoiceRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Invoice, error) {
			return &entity.Invoice{ID: id, ProjectID: 1, Status: entity.StatusApproved, Amount: 2507000}, nil
		},
		updateTotalsFunc: func(ctx context.Context, id int64, paidAmount int64, paymentStatus string) error {
			lastPaid = paidAmount
			lastStatus = paymentStatus
			return nil
		},
	}
	paymentRepo := &mockPaymentRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.InvoicePayment, error) {
			return &entity.InvoicePayment{ID: id, InvoiceID: 1, Amount: 1507000}, nil
		},
		deleteFunc: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
		sumByInvoiceFunc: func(ctx context.Context, invoiceID int64) (int64, error) {
			if deleted {
				return 1000000, nil
			}
			return 2507000, nil
		},
	}
	service := newInvoiceService(invoiceRepo, &mockItemRepo{}, paymentRepo, &mockProjectRepo{}, &mockPublisher{})

	err := service.DeletePayment(context.Background(), approval.Actor{ID: 2, Role: entity.RoleFinance}, 1, 2)
	if err != nil {
		t.Fatalf("DeletePayment() error = %v", err)
	}
	if lastPaid != 1000000 || lastStatus != entity.PaymentPartialPaid {
		t.Errorf("after delete paid = %d status = %s, want 1000000 PARTIAL_PAID", lastPaid, lastStatus)
	}
}

func TestInvoiceService_Delete(t *testing.T) {
	t.Run("originator deletes pending invoice", func(t *testing.T) {
		itemsDeleted := false
		invoiceRepo := &mockInvoiceRepo{
			getByIDFunc: func(ctx context.Context, id int64) (*entity.Invoice, error) {
				return &entity.Invoice{ID: id, Status: entity.StatusPending, CreatedBy: 2}, nil
			},
		}
		itemRepo := &mockItemRepo{
			deleteByDocFunc: func(ctx context.Context, docType string, docID int64) error {
				itemsDeleted = true
				return nil
			},
		}
		service := newInvoiceService(invoiceRepo, itemRepo, &mockPaymentRepo{}, &mockProjectRepo{}, &mockPublisher{})

		err := service.Delete(context.Background(), approval.Actor{ID: 2, Role: entity.RoleFinance}, 1)
		if err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if !itemsDeleted {
			t.Error("Delete() left the item set behind")
		}
	})

	t.Run("approved invoice cannot be deleted", func(t *testing.T) {
		invoiceRepo := &mockInvoiceRepo{
			getByIDFunc: func(ctx context.Context, id int64) (*entity.Invoice, error) {
				return &entity.Invoice{ID: id, Status: entity.StatusApproved, CreatedBy: 2}, nil
			},
		}
		service := newInvoiceService(invoiceRepo, &mockItemRepo{}, &mockPaymentRepo{}, &mockProjectRepo{}, &mockPublisher{})

		err := service.Delete(context.Background(), approval.Actor{ID: 2, Role: entity.RoleFinance}, 1)
		if !errs.IsConflict(err) {
			t.Fatalf("Delete() error = %v, want conflict", err)
		}
	})
}

func floatPtr(v float64) *float64 { return &v }
