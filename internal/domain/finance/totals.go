package finance

import (
	"github.com/gilangrmdnii/invoice-backend/internal/domain/errs"
)

// Totals holds the derived money figures of one document. DPAmount and
// BalanceDue stay nil when no down-payment percentage was declared; an
// absent DP and a zero DP are different states.
type Totals struct {
	Subtotal   int64  `json:"subtotal"`
	PPNAmount  int64  `json:"ppn_amount"`
	PPHAmount  int64  `json:"pph_amount"`
	Amount     int64  `json:"amount"`
	DPAmount   *int64 `json:"dp_amount,omitempty"`
	BalanceDue *int64 `json:"balance_due,omitempty"`
}

// Compute derives the taxed totals from an item subtotal and the declared
// percentages. PPN adds on top of the subtotal, PPh withholds from it.
// The computation refuses a withholding that would push the grand total
// negative instead of clamping silently.
func Compute(subtotal int64, ppnPct, pphPct float64, dpPct *float64) (Totals, error) {
	if subtotal < 0 {
		return Totals{}, errs.Validationf("subtotal must not be negative")
	}
	if err := validatePercentage("ppn_percentage", ppnPct); err != nil {
		return Totals{}, err
	}
	if err := validatePercentage("pph_percentage", pphPct); err != nil {
		return Totals{}, err
	}
	if dpPct != nil {
		if err := validatePercentage("dp_percentage", *dpPct); err != nil {
			return Totals{}, err
		}
	}

	t := Totals{
		Subtotal:  subtotal,
		PPNAmount: RoundRupiah(float64(subtotal) * ppnPct / 100),
		PPHAmount: RoundRupiah(float64(subtotal) * pphPct / 100),
	}

	if t.PPHAmount > t.Subtotal+t.PPNAmount {
		return Totals{}, errs.Validationf("withholding exceeds taxable total")
	}
	t.Amount = t.Subtotal + t.PPNAmount - t.PPHAmount

	if dpPct != nil {
		dp := RoundRupiah(float64(t.Amount) * *dpPct / 100)
		balance := t.Amount - dp
		t.DPAmount = &dp
		t.BalanceDue = &balance
	}

	return t, nil
}

func validatePercentage(name string, v float64) error {
	if v < 0 || v > 100 {
		return errs.Validationf("%s must be between 0 and 100", name)
	}
	return nil
}
