package service

import (
	"context"
	"testing"

	"github.com/gilangrmdnii/invoice-backend/internal/domain/approval"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/entity"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/errs"
)

func newExpenseService(expenseRepo *mockExpenseRepo, projectRepo *mockProjectRepo, publisher *mockPublisher) ExpenseService {
	return NewExpenseService(expenseRepo, projectRepo, &mockTxManager{}, publisher, &mockLogger{})
}

func TestExpenseService_Create(t *testing.T) {
	tests := []struct {
		name    string
		actor   approval.Actor
		in      CreateExpenseInput
		wantErr func(error) bool
	}{
		{
			name:  "supervisor creates expense",
			actor: approval.Actor{ID: 1, Role: entity.RoleSPV},
			in:    CreateExpenseInput{ProjectID: 1, Description: "Sewa scaffolding", Amount: 2000000, Category: "EQUIPMENT"},
		},
		{
			name:    "finance may not create expenses",
			actor:   approval.Actor{ID: 2, Role: entity.RoleFinance},
			in:      CreateExpenseInput{ProjectID: 1, Description: "Sewa scaffolding", Amount: 2000000},
			wantErr: errs.IsForbidden,
		},
		{
			name:    "amount must be positive",
			actor:   approval.Actor{ID: 1, Role: entity.RoleSPV},
			in:      CreateExpenseInput{ProjectID: 1, Description: "Sewa scaffolding", Amount: 0},
			wantErr: errs.IsValidation,
		},
		{
			name:    "description must not be empty",
			actor:   approval.Actor{ID: 1, Role: entity.RoleSPV},
			in:      CreateExpenseInput{ProjectID: 1, Description: "  ", Amount: 2000000},
			wantErr: errs.IsValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newExpenseService(&mockExpenseRepo{}, &mockProjectRepo{}, &mockPublisher{})

			expense, err := service.Create(context.Background(), tt.actor, tt.in)

			if tt.wantErr != nil {
				if err == nil || !tt.wantErr(err) {
					t.Fatalf("Create() error = %v, want matching kind", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if expense.Status != entity.StatusPending {
				t.Errorf("Create() status = %s, want PENDING", expense.Status)
			}
		})
	}
}

// Approving an expense books its amount against the project inside the
// same transaction that flips the status. A second decision must fail
// without touching the budget again.
func TestExpenseService_Approve(t *testing.T) {
	pendingExpense := func(ctx context.Context, id int64) (*entity.Expense, error) {
		return &entity.Expense{ID: id, ProjectID: 1, Amount: 2000000, Status: entity.StatusPending, CreatedBy: 1}, nil
	}

	t.Run("approval without proof fails", func(t *testing.T) {
		var spent int64
		projectRepo := &mockProjectRepo{
			incrementSpentFunc: func(ctx context.Context, id int64, delta int64) error {
				spent += delta
				return nil
			},
		}
		service := newExpenseService(&mockExpenseRepo{getByIDFunc: pendingExpense}, projectRepo, &mockPublisher{})

		_, err := service.Approve(context.Background(), approval.Actor{ID: 2, Role: entity.RoleFinance}, 1, approval.Decision{})
		if !errs.IsValidation(err) {
			t.Fatalf("Approve() error = %v, want validation", err)
		}
		if spent != 0 {
			t.Errorf("Approve() booked %d against the project despite failing", spent)
		}
	})

	t.Run("approval with proof books the amount once", func(t *testing.T) {
		var spent int64
		decidedOnce := false
		projectRepo := &mockProjectRepo{
			incrementSpentFunc: func(ctx context.Context, id int64, delta int64) error {
				spent += delta
				return nil
			},
		}
		expenseRepo := &mockExpenseRepo{
			getByIDFunc: func(ctx context.Context, id int64) (*entity.Expense, error) {
				e, _ := pendingExpense(ctx, id)
				if decidedOnce {
					e.Status = entity.StatusApproved
				}
				return e, nil
			},
			decideFunc: func(ctx context.Context, id int64, status string, approvedBy int64, proofURL, rejectNotes string) (bool, error) {
				if decidedOnce {
					return false, nil
				}
				decidedOnce = true
				return true, nil
			},
		}
		publisher := &mockPublisher{}
		service := newExpenseService(expenseRepo, projectRepo, publisher)
		decision := approval.Decision{ProofURL: "https://files/expense-receipt.pdf"}

		if _, err := service.Approve(context.Background(), approval.Actor{ID: 2, Role: entity.RoleFinance}, 1, decision); err != nil {
			t.Fatalf("Approve() error = %v", err)
		}
		if spent != 2000000 {
			t.Fatalf("Approve() booked %d, want 2000000", spent)
		}
		if len(publisher.events) != 1 {
			t.Errorf("Approve() published %d events, want 1", len(publisher.events))
		}

		_, err := service.Approve(context.Background(), approval.Actor{ID: 3, Role: entity.RoleOwner}, 1, decision)
		if !errs.IsConflict(err) {
			t.Fatalf("second Approve() error = %v, want conflict", err)
		}
		if spent != 2000000 {
			t.Errorf("second Approve() changed the booked amount to %d", spent)
		}
	})

	t.Run("supervisor may not decide expenses", func(t *testing.T) {
		service := newExpenseService(&mockExpenseRepo{getByIDFunc: pendingExpense}, &mockProjectRepo{}, &mockPublisher{})

		_, err := service.Approve(context.Background(), approval.Actor{ID: 1, Role: entity.RoleSPV}, 1,
			approval.Decision{ProofURL: "https://files/proof.pdf"})
		if !errs.IsForbidden(err) {
			t.Fatalf("Approve() error = %v, want forbidden", err)
		}
	})
}

func TestExpenseService_Reject(t *testing.T) {
	pendingExpense := func(ctx context.Context, id int64) (*entity.Expense, error) {
		return &entity.Expense{ID: id, ProjectID: 1, Amount: 2000000, Status: entity.StatusPending, CreatedBy: 1}, nil
	}

	t.Run("rejection requires notes and proof", func(t *testing.T) {
		service := newExpenseService(&mockExpenseRepo{getByIDFunc: pendingExpense}, &mockProjectRepo{}, &mockPublisher{})

		_, err := service.Reject(context.Background(), approval.Actor{ID: 2, Role: entity.RoleFinance}, 1,
			approval.Decision{Notes: "kuitansi tidak lengkap"})
		if !errs.IsValidation(err) {
			t.Fatalf("Reject() without proof error = %v, want validation", err)
		}

		_, err = service.Reject(context.Background(), approval.Actor{ID: 2, Role: entity.RoleFinance}, 1,
			approval.Decision{ProofURL: "https://files/proof.pdf"})
		if !errs.IsValidation(err) {
			t.Fatalf("Reject() without notes error = %v, want validation", err)
		}
	})

	t.Run("rejection leaves the budget untouched", func(t *testing.T) {
		var spent int64
		projectRepo := &mockProjectRepo{
			incrementSpentFunc: func(ctx context.Context, id int64, delta int64) error {
				spent += delta
				return nil
			},
		}
		service := newExpenseService(&mockExpenseRepo{getByIDFunc: pendingExpense}, projectRepo, &mockPublisher{})

		_, err := service.Reject(context.Background(), approval.Actor{ID: 2, Role: entity.RoleFinance}, 1,
			approval.Decision{Notes: "kuitansi tidak lengkap", ProofURL: "https://files/proof.pdf"})
		if err != nil {
			t.Fatalf("Reject() error = %v", err)
		}
		if spent != 0 {
			t.Errorf("Reject() booked %d against the project", spent)
		}
	})
}

func TestExpenseService_Delete(t *testing.T) {
	t.Run("stranger may not delete", func(t *testing.T) {
		expenseRepo := &mockExpenseRepo{
			getByIDFunc: func(ctx context.Context, id int64) (*entity.Expense, error) {
				return &entity.Expense{ID: id, Status: entity.StatusPending, CreatedBy: 1}, nil
			},
		}
		service := newExpenseService(expenseRepo, &mockProjectRepo{}, &mockPublisher{})

		err := service.Delete(context.Background(), approval.Actor{ID: 9, Role: entity.RoleSPV}, 1)
		if !errs.IsForbidden(err) {
			t.Fatalf("Delete() error = %v, want forbidden", err)
		}
	})

	t.Run("originator deletes pending expense", func(t *testing.T) {
		expenseRepo := &mockExpenseRepo{
			getByIDFunc: func(ctx context.Context, id int64) (*entity.Expense, error) {
				return &entity.Expense{ID: id, Status: entity.StatusPending, CreatedBy: 1}, nil
			},
		}
		service := newExpenseService(expenseRepo, &mockProjectRepo{}, &mockPublisher{})

		if err := service.Delete(context.Background(), approval.Actor{ID: 1, Role: entity.RoleSPV}, 1); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
	})
}
