package entity

import "time"

// BudgetRequest asks for an increase of a project's budget envelope.
// Submission requires proof; approval and rejection both require proof
// plus notes. Approving it increments the project's total budget
// exactly once.
type BudgetRequest struct {
	ID            int64     `json:"id"`
	ProjectID     int64     `json:"project_id"`
	Amount        int64     `json:"amount"`
	Reason        string    `json:"reason"`
	ProofURL      string    `json:"proof_url"`
	Status        string    `json:"status"`
	DecisionNotes string    `json:"decision_notes,omitempty"`
	DecisionProof string    `json:"decision_proof,omitempty"`
	RequestedBy   int64     `json:"requested_by"`
	ApprovedBy    *int64    `json:"approved_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
