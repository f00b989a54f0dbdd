package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentInstallment is a single repayment recorded against a debt.
type PaymentInstallment struct {
	// ID is the unique identifier for the installment (UUID format).
	ID string `json:"id"`

	// AmountPaid is the amount this installment pays off.
	AmountPaid decimal.Decimal `json:"amount_paid"`

	// PaidAt is when the installment was made.
	PaidAt time.Time `json:"paid_at"`
}

// Debt is a directed monetary obligation. DebtorID identifies the user who
// owes the debt; the other party is the owner of the plan the debt sits in.
type Debt struct {
	// ID is the unique identifier for the debt (UUID format).
	ID string `json:"id"`

	// DebtorID is the user obligated to pay this debt.
	DebtorID string `json:"debtor_id"`

	// TotalAmountOwed is the full amount of the obligation.
	TotalAmountOwed decimal.Decimal `json:"total_amount_owed"`

	// InitialPayment is the amount paid up front when the debt was recorded.
	InitialPayment decimal.Decimal `json:"initial_payment"`

	// Installments are the repayments made so far, ordered by PaidAt.
	Installments []PaymentInstallment `json:"installments"`

	// Outstanding is true while the debt has not been fully paid off. It is
	// derived by the ledger recomputation, never set directly by callers.
	Outstanding bool `json:"outstanding"`
}

// TotalPaid returns the initial payment plus the sum of all installments.
func (d Debt) TotalPaid() decimal.Decimal {
	total := d.InitialPayment
	for _, p := range d.Installments {
		total = total.Add(p.AmountPaid)
	}
	return total
}

// Clone returns a deep copy of the debt so recomputation and plan edits never
// alias caller-held installment slices.
func (d Debt) Clone() Debt {
	c := d
	if d.Installments != nil {
		c.Installments = make([]PaymentInstallment, len(d.Installments))
		copy(c.Installments, d.Installments)
	}
	return c
}
