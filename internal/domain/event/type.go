package event

// Type identifies the type of domain event
type Type string

const (
	TypeInvoiceApproved        Type = "invoice.approved"
	TypeInvoiceRejected        Type = "invoice.rejected"
	TypeInvoicePaymentRecorded Type = "invoice.payment_recorded"
	TypeInvoicePaymentDeleted  Type = "invoice.payment_deleted"
	TypeExpenseApproved        Type = "expense.approved"
	TypeExpenseRejected        Type = "expense.rejected"
	TypeBudgetRequestApproved  Type = "budget_request.approved"
	TypeBudgetRequestRejected  Type = "budget_request.rejected"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeInvoiceApproved,
		TypeInvoiceRejected,
		TypeInvoicePaymentRecorded,
		TypeInvoicePaymentDeleted,
		TypeExpenseApproved,
		TypeExpenseRejected,
		TypeBudgetRequestApproved,
		TypeBudgetRequestRejected:
		return true
	}
	return false
}
