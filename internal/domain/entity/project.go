package entity

import "time"

// Project holds the budget envelope all financial documents bill against.
// SpentAmount only grows through expense approvals and TotalBudget only
// grows through budget-request approvals; neither is ever decremented.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	TotalBudget int64     `json:"total_budget"`
	SpentAmount int64     `json:"spent_amount"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RemainingBudget returns the unspent part of the envelope.
func (p *Project) RemainingBudget() int64 {
	return p.TotalBudget - p.SpentAmount
}
