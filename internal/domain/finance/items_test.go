package finance

import (
	"testing"

	"github.com/gilangrmdnii/invoice-backend/internal/domain/entity"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/errs"
)

func TestBuildItemTree_GroupsAndStandalone(t *testing.T) {
	sub := Submission{
		Labels: []LabelInput{
			{
				Description: "Phase 1",
				Items: []ItemInput{
					{Description: "Design", Quantity: 2, Unit: "unit", UnitPrice: 500000},
					{Description: "Install", Quantity: 1, Unit: "unit", UnitPrice: 1000000},
				},
			},
		},
		Items: []ItemInput{
			{Description: "Cable", Quantity: 3, Unit: "pcs", UnitPrice: 100000},
		},
	}

	tree, err := BuildItemTree(entity.DocInvoice, sub)
	if err != nil {
		t.Fatalf("BuildItemTree() error = %v", err)
	}

	if len(tree.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(tree.Groups))
	}
	group := tree.Groups[0]
	if !group.Label.IsLabel || group.Label.Description != "Phase 1" {
		t.Errorf("label node = %+v", group.Label)
	}
	if group.Label.UnitPrice != 0 || group.Label.Subtotal != 0 {
		t.Errorf("label node carries price semantics: %+v", group.Label)
	}
	if got := group.Total(); got != 2000000 {
		t.Errorf("group total = %d, want 2000000", got)
	}

	if len(tree.Standalone) != 1 {
		t.Fatalf("got %d standalone items, want 1", len(tree.Standalone))
	}
	if tree.Standalone[0].Subtotal != 300000 {
		t.Errorf("standalone subtotal = %d, want 300000", tree.Standalone[0].Subtotal)
	}

	if got := tree.Subtotal(); got != 2300000 {
		t.Errorf("tree subtotal = %d, want 2300000", got)
	}
	if got := len(tree.Leaves()); got != 3 {
		t.Errorf("got %d leaves, want 3", got)
	}
}

func TestBuildItemTree_DropsInvalid(t *testing.T) {
	tests := []struct {
		name       string
		sub        Submission
		wantLeaves int
		wantGroups int
	}{
		{
			name: "invalid items filtered, group survives",
			sub: Submission{
				Labels: []LabelInput{{
					Description: "Work",
					Items: []ItemInput{
						{Description: "", Quantity: 1, Unit: "unit", UnitPrice: 100},
						{Description: "ok", Quantity: 1, Unit: "unit", UnitPrice: 100},
						{Description: "free", Quantity: 1, Unit: "unit", UnitPrice: 0},
					},
				}},
			},
			wantLeaves: 1,
			wantGroups: 1,
		},
		{
			name: "group with only invalid items dropped",
			sub: Submission{
				Labels: []LabelInput{{
					Description: "Empty",
					Items:       []ItemInput{{Description: "x", Quantity: 0, Unit: "unit", UnitPrice: 100}},
				}},
				Items: []ItemInput{{Description: "ok", Quantity: 1, Unit: "pcs", UnitPrice: 100}},
			},
			wantLeaves: 1,
			wantGroups: 0,
		},
		{
			name: "unnamed group dropped",
			sub: Submission{
				Labels: []LabelInput{{
					Description: "  ",
					Items:       []ItemInput{{Description: "x", Quantity: 1, Unit: "unit", UnitPrice: 100}},
				}},
				Items: []ItemInput{{Description: "ok", Quantity: 1, Unit: "pcs", UnitPrice: 100}},
			},
			wantLeaves: 1,
			wantGroups: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := BuildItemTree(entity.DocInvoice, tt.sub)
			if err != nil {
				t.Fatalf("BuildItemTree() error = %v", err)
			}
			if got := len(tree.Leaves()); got != tt.wantLeaves {
				t.Errorf("got %d leaves, want %d", got, tt.wantLeaves)
			}
			if got := len(tree.Groups); got != tt.wantGroups {
				t.Errorf("got %d groups, want %d", got, tt.wantGroups)
			}
		})
	}
}

func TestBuildItemTree_Empty(t *testing.T) {
	tests := []struct {
		name string
		sub  Submission
	}{
		{"no input at all", Submission{}},
		{"only invalid items", Submission{
			Items: []ItemInput{{Description: "", Quantity: 1, Unit: "unit", UnitPrice: 100}},
		}},
		{"only empty groups", Submission{
			Labels: []LabelInput{{Description: "Work"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildItemTree(entity.DocInvoice, tt.sub)
			if !errs.IsValidation(err) {
				t.Errorf("BuildItemTree() error = %v, want validation error", err)
			}
		})
	}
}

func TestBuildItemTree_FractionalQuantityRounds(t *testing.T) {
	sub := Submission{
		Items: []ItemInput{{Description: "half day", Quantity: 1.5, Unit: "day", UnitPrice: 333333}},
	}
	tree, err := BuildItemTree(entity.DocProjectPlan, sub)
	if err != nil {
		t.Fatalf("BuildItemTree() error = %v", err)
	}
	if got := tree.Standalone[0].Subtotal; got != 500000 {
		t.Errorf("subtotal = %d, want 500000", got)
	}
}
