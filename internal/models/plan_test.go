package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPlanFromDetail_Partition(t *testing.T) {
	owner := &User{ID: "owner", Email: "owner@example.com"}
	detail := &PaymentPlanDetail{
		ID:          "plan-1",
		User:        owner,
		DateCreated: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Debts: []Debt{
			{ID: "d1", DebtorID: "alice", TotalAmountOwed: decimal.NewFromInt(100)},
			{ID: "d2", DebtorID: "owner", TotalAmountOwed: decimal.NewFromInt(50)},
			{ID: "d3", DebtorID: "bob", TotalAmountOwed: decimal.NewFromInt(25)},
		},
	}

	plan := PlanFromDetail("owner", detail)

	if plan.ID != "plan-1" {
		t.Errorf("ID = %q, want plan-1", plan.ID)
	}
	if plan.User != owner {
		t.Error("User not carried over")
	}
	if !plan.DateCreated.Equal(detail.DateCreated) {
		t.Errorf("DateCreated = %v, want %v", plan.DateCreated, detail.DateCreated)
	}

	if got := len(plan.DebtsOwedToMe); got != 2 {
		t.Fatalf("DebtsOwedToMe has %d debts, want 2", got)
	}
	if got := len(plan.DebtsOwedToOthers); got != 1 {
		t.Fatalf("DebtsOwedToOthers has %d debts, want 1", got)
	}
	if plan.DebtsOwedToOthers[0].ID != "d2" {
		t.Errorf("owner's own debt should be owed to others, got %s", plan.DebtsOwedToOthers[0].ID)
	}

	// Partition, not filter: every debt lands in exactly one list.
	if total := len(plan.DebtsOwedToMe) + len(plan.DebtsOwedToOthers); total != len(detail.Debts) {
		t.Errorf("partition dropped debts: %d != %d", total, len(detail.Debts))
	}
}

func TestDetail_RoundTrip(t *testing.T) {
	plan := &UserPaymentPlan{
		ID:   "plan-1",
		User: &User{ID: "owner"},
		DebtsOwedToMe: []Debt{
			{ID: "d1", DebtorID: "alice"},
		},
		DebtsOwedToOthers: []Debt{
			{ID: "d2", DebtorID: "owner"},
		},
	}

	detail := plan.Detail()
	if len(detail.Debts) != 2 {
		t.Fatalf("Detail has %d debts, want 2", len(detail.Debts))
	}

	back := PlanFromDetail("owner", detail)
	if len(back.DebtsOwedToMe) != 1 || back.DebtsOwedToMe[0].ID != "d1" {
		t.Error("DebtsOwedToMe lost in round trip")
	}
	if len(back.DebtsOwedToOthers) != 1 || back.DebtsOwedToOthers[0].ID != "d2" {
		t.Error("DebtsOwedToOthers lost in round trip")
	}
}

func TestDebt_TotalPaidAndClone(t *testing.T) {
	d := Debt{
		InitialPayment:  decimal.NewFromInt(40),
		TotalAmountOwed: decimal.NewFromInt(100),
		Installments: []PaymentInstallment{
			{AmountPaid: decimal.NewFromInt(30)},
			{AmountPaid: decimal.RequireFromString("10.50")},
		},
	}

	if want := decimal.RequireFromString("80.50"); !d.TotalPaid().Equal(want) {
		t.Errorf("TotalPaid = %s, want %s", d.TotalPaid(), want)
	}

	c := d.Clone()
	c.Installments[0].AmountPaid = decimal.NewFromInt(999)
	if !d.Installments[0].AmountPaid.Equal(decimal.NewFromInt(30)) {
		t.Error("Clone shares installment backing array with original")
	}
}
