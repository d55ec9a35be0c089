package approval

import (
	"strings"

	"github.com/gilangrmdnii/invoice-backend/internal/domain/entity"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/errs"
)

// Actor identifies the already-authenticated caller of a mutating
// operation. Authentication itself happens outside this engine.
type Actor struct {
	ID   int64
	Role string
}

// Decision carries the evidence supplied with an approve or reject call.
type Decision struct {
	Notes    string
	ProofURL string
}

// minRejectNotes is the shortest rejection reason accepted; near-empty
// reasons carry no information for the originator.
const minRejectNotes = 3

// Rules is the per-document-type approval policy: which roles may move a
// document out of PENDING and what evidence each transition requires.
type Rules struct {
	DocumentType string
	CreateRoles  []string
	DecideRoles  []string // roles allowed to approve or reject

	ApproveNeedsProof bool
	RejectNeedsProof  bool
}

// policies holds the configured policy table. Invoices are created by
// finance and decided by the owner; expenses and budget requests are
// raised by supervisors and decided by finance or the owner.
var policies = map[string]Rules{
	entity.DocInvoice: {
		DocumentType: entity.DocInvoice,
		CreateRoles:  []string{entity.RoleFinance},
		DecideRoles:  []string{entity.RoleOwner},
	},
	entity.DocExpense: {
		DocumentType:      entity.DocExpense,
		CreateRoles:       []string{entity.RoleSPV},
		DecideRoles:       []string{entity.RoleFinance, entity.RoleOwner},
		ApproveNeedsProof: true,
		RejectNeedsProof:  true,
	},
	entity.DocBudgetRequest: {
		DocumentType:      entity.DocBudgetRequest,
		CreateRoles:       []string{entity.RoleSPV},
		DecideRoles:       []string{entity.RoleFinance, entity.RoleOwner},
		ApproveNeedsProof: true,
		RejectNeedsProof:  true,
	},
}

// RulesFor returns the policy for the given document type.
func RulesFor(docType string) (Rules, error) {
	r, ok := policies[docType]
	if !ok {
		return Rules{}, errs.Validationf("no approval policy for document type %s", docType)
	}
	return r, nil
}

// CanCreate reports whether the role may originate this document type.
func (r Rules) CanCreate(role string) bool {
	return containsRole(r.CreateRoles, role)
}

// Approve validates the PENDING -> APPROVED transition for the actor and
// evidence. It returns a state-conflict error from terminal states, a
// forbidden error for the wrong role, and a validation error for missing
// proof. The caller applies the state change and its budget side effect
// in one transaction.
func (r Rules) Approve(current State, actor Actor, d Decision) error {
	if err := r.guard(current, actor); err != nil {
		return err
	}
	if r.ApproveNeedsProof && strings.TrimSpace(d.ProofURL) == "" {
		return errs.Validationf("approval proof is required for %s", r.DocumentType)
	}
	return nil
}

// Reject validates the PENDING -> REJECTED transition. Rejection notes
// are always required; some document types additionally require proof.
func (r Rules) Reject(current State, actor Actor, d Decision) error {
	if err := r.guard(current, actor); err != nil {
		return err
	}
	if len(strings.TrimSpace(d.Notes)) < minRejectNotes {
		return errs.Validationf("rejection notes are required for %s", r.DocumentType)
	}
	if r.RejectNeedsProof && strings.TrimSpace(d.ProofURL) == "" {
		return errs.Validationf("rejection proof is required for %s", r.DocumentType)
	}
	return nil
}

// Delete validates removal of a document: only while PENDING, and only by
// the originator or the owner.
func (r Rules) Delete(current State, actor Actor, originatorID int64) error {
	if current.IsTerminal() {
		return errs.Conflictf("%s is already %s", r.DocumentType, current)
	}
	if actor.ID != originatorID && actor.Role != entity.RoleOwner {
		return errs.Forbiddenf("only the originator may delete a pending %s", r.DocumentType)
	}
	return nil
}

func (r Rules) guard(current State, actor Actor) error {
	if current.IsTerminal() {
		return errs.Conflictf("%s is already %s", r.DocumentType, current)
	}
	if current != StatePending {
		return errs.Conflictf("%s is not pending", r.DocumentType)
	}
	if !containsRole(r.DecideRoles, actor.Role) {
		return errs.Forbiddenf("role %s may not decide a %s", actor.Role, r.DocumentType)
	}
	return nil
}

func containsRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
