package models

import "time"

// PaymentPlanDetail is the raw persisted shape of a payment plan: the owning
// user plus one flat list of debt records. The ledger store reads and writes
// this shape, and it is what the cache holds per user.
type PaymentPlanDetail struct {
	// ID is the unique identifier for the plan (UUID format). Empty means the
	// plan has never been persisted.
	ID string `json:"id"`

	// User is the plan owner.
	User *User `json:"user"`

	// DateCreated is when the plan was first persisted.
	DateCreated time.Time `json:"date_created"`

	// Debts is the flat list of all debts on the plan, regardless of
	// direction.
	Debts []Debt `json:"debts"`
}

// UserPaymentPlan is the assembled aggregate handed to callers: the flat debt
// list split into debts owed to the plan owner and debts the owner owes.
// An empty ID means the plan has never been persisted.
type UserPaymentPlan struct {
	ID                string    `json:"id"`
	User              *User     `json:"user"`
	DateCreated       time.Time `json:"date_created"`
	DebtsOwedToMe     []Debt    `json:"debts_owed_to_me"`
	DebtsOwedToOthers []Debt    `json:"debts_owed_to_others"`
}

// PlanFromDetail assembles a plan for userID from its raw record. The flat
// debt list is partitioned by debtor: a debt whose debtor is not userID is
// owed to the plan owner, a debt whose debtor is userID is owed to someone
// else. Every debt lands in exactly one of the two lists.
//
// Debts are deep-copied so plan edits never reach back into the record, which
// may be shared with the cache.
func PlanFromDetail(userID string, detail *PaymentPlanDetail) *UserPaymentPlan {
	plan := &UserPaymentPlan{
		ID:                detail.ID,
		User:              detail.User,
		DateCreated:       detail.DateCreated,
		DebtsOwedToMe:     []Debt{},
		DebtsOwedToOthers: []Debt{},
	}
	for _, d := range detail.Debts {
		if d.DebtorID == userID {
			plan.DebtsOwedToOthers = append(plan.DebtsOwedToOthers, d.Clone())
		} else {
			plan.DebtsOwedToMe = append(plan.DebtsOwedToMe, d.Clone())
		}
	}
	return plan
}

// Detail flattens the plan back into its persisted shape.
func (p *UserPaymentPlan) Detail() *PaymentPlanDetail {
	detail := &PaymentPlanDetail{
		ID:          p.ID,
		User:        p.User,
		DateCreated: p.DateCreated,
		Debts:       make([]Debt, 0, len(p.DebtsOwedToMe)+len(p.DebtsOwedToOthers)),
	}
	detail.Debts = append(detail.Debts, p.DebtsOwedToMe...)
	detail.Debts = append(detail.Debts, p.DebtsOwedToOthers...)
	return detail
}
