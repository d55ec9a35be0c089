package entity

import "time"

// Expense is a cost incurred against a project's budget. Approving it
// increments the project's spent amount exactly once.
type Expense struct {
	ID          int64     `json:"id"`
	ProjectID   int64     `json:"project_id"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	Category    string    `json:"category"`
	ReceiptURL  string    `json:"receipt_url,omitempty"`
	Status      string    `json:"status"`
	ProofURL    string    `json:"proof_url,omitempty"`
	RejectNotes string    `json:"reject_notes,omitempty"`
	CreatedBy   int64     `json:"created_by"`
	ApprovedBy  *int64    `json:"approved_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
