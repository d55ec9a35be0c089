package entity

import "time"

// DocumentItem is one node of a document's two-level line-item hierarchy.
// A node with IsLabel set is a group heading and carries no price of its
// own; its children reference it through ParentID. Depth never exceeds
// label -> child, so cycles are impossible by construction.
//
// Amounts are integer rupiah. Subtotal is fixed at write time as
// round(quantity * unit_price) and never mutated independently.
type DocumentItem struct {
	ID           int64     `json:"id"`
	DocumentType string    `json:"document_type"`
	DocumentID   int64     `json:"document_id"`
	ParentID     *int64    `json:"parent_id,omitempty"`
	IsLabel      bool      `json:"is_label"`
	Description  string    `json:"description"`
	Quantity     float64   `json:"quantity"`
	Unit         string    `json:"unit"`
	UnitPrice    int64     `json:"unit_price"`
	Subtotal     int64     `json:"subtotal"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
}
