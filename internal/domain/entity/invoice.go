package entity

import "time"

// Invoice is a client-facing billing document. All monetary figures are
// integer rupiah, computed once at creation from the item tree and the
// declared percentages, then stored for audit stability.
//
// DPAmount/BalanceDue are nil unless a down-payment percentage was
// declared; a zero DP and an absent DP are distinct states.
type Invoice struct {
	ID               int64      `json:"id"`
	ProjectID        int64      `json:"project_id"`
	InvoiceNumber    string     `json:"invoice_number"`
	InvoiceType      string     `json:"invoice_type"`
	RecipientName    string     `json:"recipient_name"`
	RecipientAddress string     `json:"recipient_address"`
	Attention        string     `json:"attention"`
	PONumber         string     `json:"po_number"`
	InvoiceDate      time.Time  `json:"invoice_date"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	DPPercentage     *float64   `json:"dp_percentage,omitempty"`
	PPNPercentage    float64    `json:"ppn_percentage"`
	PPHPercentage    float64    `json:"pph_percentage"`
	Subtotal         int64      `json:"subtotal"`
	PPNAmount        int64      `json:"ppn_amount"`
	PPHAmount        int64      `json:"pph_amount"`
	Amount           int64      `json:"amount"`
	DPAmount         *int64     `json:"dp_amount,omitempty"`
	BalanceDue       *int64     `json:"balance_due,omitempty"`
	PaidAmount       int64      `json:"paid_amount"`
	Status           string     `json:"status"`
	PaymentStatus    string     `json:"payment_status"`
	RejectNotes      string     `json:"reject_notes,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	Language         string     `json:"language"`
	CreatedBy        int64      `json:"created_by"`
	ApprovedBy       *int64     `json:"approved_by,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Items    []*DocumentItem   `json:"items,omitempty"`
	Payments []*InvoicePayment `json:"payments,omitempty"`
}

// RemainingBalance returns the unpaid part of the grand total.
func (i *Invoice) RemainingBalance() int64 {
	return i.Amount - i.PaidAmount
}

// InvoicePayment is one discrete payment recorded against an approved
// invoice. The payments of one invoice never sum past its amount.
type InvoicePayment struct {
	ID            int64     `json:"id"`
	InvoiceID     int64     `json:"invoice_id"`
	Amount        int64     `json:"amount"`
	PaymentDate   time.Time `json:"payment_date"`
	PaymentMethod string    `json:"payment_method"`
	ProofURL      string    `json:"proof_url,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	RecordedBy    int64     `json:"recorded_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// DerivePaymentStatus maps a cumulative paid amount to the payment status
// of an invoice with the given grand total. Pure; callers re-derive after
// every payment insert or delete.
func DerivePaymentStatus(paid, amount int64) string {
	switch {
	case paid <= 0:
		return PaymentUnpaid
	case paid >= amount:
		return PaymentPaid
	default:
		return PaymentPartialPaid
	}
}
