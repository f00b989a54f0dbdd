// Package ledger holds the pure computations over a payment plan: validating
// that recorded payments never overpay a debt, and recomputing each debt's
// outstanding flag from its installment history.
package ledger

import (
	"fmt"

	"github.com/glav/paymeback/internal/models"
)

// ValidationError reports a plan that would persist inconsistent monetary
// state. Field identifies the offending debt when there is one.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidatePlan rejects a nil plan and any debt owed to the plan owner whose
// initial payment plus installments exceeds the total amount owed.
//
// Only DebtsOwedToMe is checked: debts the owner owes to others are validated
// by the counterparty's own plan.
func ValidatePlan(plan *models.UserPaymentPlan) error {
	if plan == nil {
		return &ValidationError{Message: "payment plan is empty"}
	}
	for i, d := range plan.DebtsOwedToMe {
		if d.TotalPaid().GreaterThan(d.TotalAmountOwed) {
			return &ValidationError{
				Field:   fmt.Sprintf("debts_owed_to_me[%d]", i),
				Message: "amount paid off exceeds total debt",
			}
		}
	}
	return nil
}

// Recompute returns a new slice in which every debt paid off exactly has its
// Outstanding flag cleared. The flag is only ever cleared here: a debt edited
// back below full payment keeps whatever flag it carried in. The input slice
// and its installments are never mutated.
func Recompute(debts []models.Debt) []models.Debt {
	out := make([]models.Debt, 0, len(debts))
	for _, d := range debts {
		c := d.Clone()
		if c.TotalPaid().Equal(c.TotalAmountOwed) {
			c.Outstanding = false
		}
		out = append(out, c)
	}
	return out
}
