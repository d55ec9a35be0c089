// Package finance holds the pure numeric core: normalizing submitted
// line items into the two-level label/item hierarchy and deriving a
// document's taxed totals from it.
package finance

import (
	"math"
	"strings"

	"github.com/gilangrmdnii/invoice-backend/internal/domain/entity"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/errs"
)

// ItemInput is one submitted leaf line item.
type ItemInput struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   int64   `json:"unit_price"`
}

// LabelInput is one submitted named group with child items.
type LabelInput struct {
	Description string      `json:"description"`
	Items       []ItemInput `json:"items"`
}

// Submission is the item payload of a document create/replace call:
// named groups plus standalone items, either of which may be empty.
type Submission struct {
	Labels []LabelInput `json:"labels"`
	Items  []ItemInput  `json:"items"`
}

// ItemGroup is a normalized label node with its children. The label's
// effective total is never stored; it is always re-derived from the
// children so stored and displayed figures cannot drift.
type ItemGroup struct {
	Label    entity.DocumentItem
	Children []entity.DocumentItem
}

// Total sums the children's subtotals.
func (g *ItemGroup) Total() int64 {
	var sum int64
	for _, c := range g.Children {
		sum += c.Subtotal
	}
	return sum
}

// ItemTree is the normalized two-level hierarchy of one document.
type ItemTree struct {
	Groups     []ItemGroup
	Standalone []entity.DocumentItem
}

// Leaves returns every priced item of the tree, label children first.
func (t *ItemTree) Leaves() []entity.DocumentItem {
	leaves := make([]entity.DocumentItem, 0, len(t.Standalone))
	for _, g := range t.Groups {
		leaves = append(leaves, g.Children...)
	}
	return append(leaves, t.Standalone...)
}

// Subtotal sums the subtotals of every leaf in the tree.
func (t *ItemTree) Subtotal() int64 {
	var sum int64
	for _, leaf := range t.Leaves() {
		sum += leaf.Subtotal
	}
	return sum
}

// BuildItemTree normalizes a submission for the given document type;
// the owning document id is stamped at persist time. Items
// that fail leaf validation are skipped, as are unnamed groups and
// groups left with no valid children; an empty group carries no
// information. The whole submission fails only when no leaf survives.
func BuildItemTree(docType string, sub Submission) (*ItemTree, error) {
	tree := &ItemTree{}
	order := 0

	for _, label := range sub.Labels {
		name := strings.TrimSpace(label.Description)
		children := make([]entity.DocumentItem, 0, len(label.Items))
		for _, in := range label.Items {
			item, ok := buildLeaf(docType, in)
			if !ok {
				continue
			}
			children = append(children, item)
		}
		if name == "" || len(children) == 0 {
			continue
		}

		group := ItemGroup{
			Label: entity.DocumentItem{
				DocumentType: docType,
				IsLabel:      true,
				Description:  name,
				SortOrder:    order,
			},
		}
		order++
		for i := range children {
			children[i].SortOrder = order
			order++
		}
		group.Children = children
		tree.Groups = append(tree.Groups, group)
	}

	for _, in := range sub.Items {
		item, ok := buildLeaf(docType, in)
		if !ok {
			continue
		}
		item.SortOrder = order
		order++
		tree.Standalone = append(tree.Standalone, item)
	}

	if len(tree.Leaves()) == 0 {
		return nil, errs.Validationf("document must contain at least one item")
	}

	return tree, nil
}

func buildLeaf(docType string, in ItemInput) (entity.DocumentItem, bool) {
	desc := strings.TrimSpace(in.Description)
	unit := strings.TrimSpace(in.Unit)
	if desc == "" || unit == "" || in.Quantity <= 0 || in.UnitPrice <= 0 {
		return entity.DocumentItem{}, false
	}

	return entity.DocumentItem{
		DocumentType: docType,
		Description:  desc,
		Quantity:     in.Quantity,
		Unit:         unit,
		UnitPrice:    in.UnitPrice,
		Subtotal:     RoundRupiah(in.Quantity * float64(in.UnitPrice)),
	}, true
}

// RoundRupiah rounds to the nearest integer rupiah, halves away from zero.
func RoundRupiah(v float64) int64 {
	return int64(math.Round(v))
}
