package entity

// Document status constants shared by Invoice, Expense and BudgetRequest
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Actor role constants
const (
	RoleSPV     = "SPV"
	RoleFinance = "FINANCE"
	RoleOwner   = "OWNER"
)

// Project status constants
const (
	ProjectActive    = "ACTIVE"
	ProjectCompleted = "COMPLETED"
	ProjectArchived  = "ARCHIVED"
)

// Invoice type constants (staged billing events)
const (
	InvoiceTypeDP        = "DP"        // down payment
	InvoiceTypePelunasan = "PELUNASAN" // balance due / final payment
	InvoiceTypeTermin1   = "TERMIN_1"  // installment 1
	InvoiceTypeTermin2   = "TERMIN_2"  // installment 2
	InvoiceTypeTermin3   = "TERMIN_3"  // installment 3
	InvoiceTypeMakan     = "MAKAN"     // meals
	InvoiceTypeTambahan  = "TAMBAHAN"  // additional work
)

// Payment status constants (meaningful once an invoice is APPROVED)
const (
	PaymentUnpaid      = "UNPAID"
	PaymentPartialPaid = "PARTIAL_PAID"
	PaymentPaid        = "PAID"
)

// Payment method constants
const (
	MethodTransfer = "TRANSFER"
	MethodCash     = "CASH"
	MethodGiro     = "GIRO"
	MethodCheque   = "CHEQUE"
	MethodOther    = "OTHER"
)

// Document type constants, used to scope line items and approval policy
const (
	DocInvoice       = "INVOICE"
	DocProjectPlan   = "PROJECT_PLAN"
	DocExpense       = "EXPENSE"
	DocBudgetRequest = "BUDGET_REQUEST"
)

var validInvoiceTypes = map[string]bool{
	InvoiceTypeDP:        true,
	InvoiceTypePelunasan: true,
	InvoiceTypeTermin1:   true,
	InvoiceTypeTermin2:   true,
	InvoiceTypeTermin3:   true,
	InvoiceTypeMakan:     true,
	InvoiceTypeTambahan:  true,
}

// IsValidInvoiceType reports whether t names a known billing stage.
func IsValidInvoiceType(t string) bool {
	return validInvoiceTypes[t]
}

var validPaymentMethods = map[string]bool{
	MethodTransfer: true,
	MethodCash:     true,
	MethodGiro:     true,
	MethodCheque:   true,
	MethodOther:    true,
}

// IsValidPaymentMethod reports whether m names a known payment method.
func IsValidPaymentMethod(m string) bool {
	return validPaymentMethods[m]
}
