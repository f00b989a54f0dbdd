package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/glav/paymeback/internal/cache"
	"github.com/glav/paymeback/internal/models"
	"github.com/glav/paymeback/internal/storage"
	"github.com/glav/paymeback/internal/storage/sqlite"
)

// countingStore wraps a real store so tests can assert whether the write
// operation was ever invoked.
type countingStore struct {
	storage.Store
	updates int
}

func (c *countingStore) UpdatePaymentPlan(ctx context.Context, detail *models.PaymentPlanDetail) error {
	c.updates++
	return c.Store.UpdatePaymentPlan(ctx, detail)
}

func newTestService(t *testing.T) (*PaymentPlanService, *countingStore) {
	t.Helper()

	sqlStore, err := sqlite.New(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { sqlStore.Close() })

	planCache, err := cache.New[*models.PaymentPlanDetail](cache.Config{
		Capacity:           100,
		NumShards:          2,
		TTL:                time.Minute,
		EvictionPercentage: 10,
	})
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	store := &countingStore{Store: sqlStore}
	return NewPaymentPlanService(store, planCache), store
}

func createUser(t *testing.T, store storage.Store, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, FirstNames: "Test", Surname: "User"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func newDebt(debtorID string, total, initial int64, installments ...int64) models.Debt {
	d := models.Debt{
		DebtorID:        debtorID,
		TotalAmountOwed: decimal.NewFromInt(total),
		InitialPayment:  decimal.NewFromInt(initial),
		Outstanding:     true,
	}
	for _, amount := range installments {
		d.Installments = append(d.Installments, models.PaymentInstallment{
			AmountPaid: decimal.NewFromInt(amount),
			PaidAt:     time.Now().UTC(),
		})
	}
	return d
}

func TestGetPaymentPlan_NeverPersisted(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	user := createUser(t, store, "fresh@example.com")

	plan, err := svc.GetPaymentPlan(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetPaymentPlan failed: %v", err)
	}

	if plan.ID != "" {
		t.Errorf("fresh plan should have empty ID, got %q", plan.ID)
	}
	if plan.DateCreated.IsZero() {
		t.Error("fresh plan should carry a creation timestamp")
	}
	if plan.User == nil || plan.User.ID != user.ID {
		t.Errorf("fresh plan user = %+v, want %s", plan.User, user.ID)
	}
	if len(plan.DebtsOwedToMe) != 0 || len(plan.DebtsOwedToOthers) != 0 {
		t.Error("fresh plan should have empty debt lists")
	}
}

func TestGetPaymentPlan_UnknownUserPropagatesStoreError(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetPaymentPlan(context.Background(), "no-such-user")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("error = %v, want wrapped storage.ErrNotFound", err)
	}
}

func TestAddDebtOwed_CopiesAllFields(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner@example.com")
	debtor := createUser(t, store, "debtor@example.com")

	// The incoming debt's monetary fields must survive onto the stored entry.
	// (The system this replaces linked only the counterparty and dropped the
	// amounts; that was evidently unintended.)
	result, err := svc.AddDebtOwed(ctx, owner.ID, newDebt(debtor.ID, 100, 40, 30))
	if err != nil {
		t.Fatalf("AddDebtOwed failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("AddDebtOwed result = %+v", result)
	}

	plan, err := svc.GetPaymentPlan(ctx, owner.ID)
	if err != nil {
		t.Fatalf("GetPaymentPlan failed: %v", err)
	}
	if plan.ID == "" {
		t.Error("plan should be durable after first update")
	}
	if len(plan.DebtsOwedToMe) != 1 {
		t.Fatalf("DebtsOwedToMe has %d debts, want 1", len(plan.DebtsOwedToMe))
	}

	got := plan.DebtsOwedToMe[0]
	if got.DebtorID != debtor.ID {
		t.Errorf("DebtorID = %s, want %s", got.DebtorID, debtor.ID)
	}
	if !got.TotalAmountOwed.Equal(decimal.NewFromInt(100)) {
		t.Errorf("TotalAmountOwed = %s, want 100", got.TotalAmountOwed)
	}
	if !got.InitialPayment.Equal(decimal.NewFromInt(40)) {
		t.Errorf("InitialPayment = %s, want 40", got.InitialPayment)
	}
	if len(got.Installments) != 1 || !got.Installments[0].AmountPaid.Equal(decimal.NewFromInt(30)) {
		t.Errorf("installments not carried: %+v", got.Installments)
	}
}

func TestAddDebtOwing_PartitionsToOthers(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	owner := createUser(t, store, "owing@example.com")

	result, err := svc.AddDebtOwing(ctx, owner.ID, newDebt("", 50, 0))
	if err != nil {
		t.Fatalf("AddDebtOwing failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("AddDebtOwing result = %+v", result)
	}

	plan, err := svc.GetPaymentPlan(ctx, owner.ID)
	if err != nil {
		t.Fatalf("GetPaymentPlan failed: %v", err)
	}
	if len(plan.DebtsOwedToOthers) != 1 {
		t.Fatalf("DebtsOwedToOthers has %d debts, want 1", len(plan.DebtsOwedToOthers))
	}
	if got := plan.DebtsOwedToOthers[0].DebtorID; got != owner.ID {
		t.Errorf("DebtorID = %s, want plan owner %s", got, owner.ID)
	}
	if len(plan.DebtsOwedToMe) != 0 {
		t.Error("debt leaked into DebtsOwedToMe")
	}
}

func TestUpdatePaymentPlan_SettlementLifecycle(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	owner := createUser(t, store, "lifecycle@example.com")
	debtor := createUser(t, store, "lifecycle-debtor@example.com")

	// total=100, initial=40, one installment of 30: 70 paid, still owing.
	result, err := svc.AddDebtOwed(ctx, owner.ID, newDebt(debtor.ID, 100, 40, 30))
	if err != nil || !result.Success {
		t.Fatalf("AddDebtOwed = %+v, %v", result, err)
	}

	plan, err := svc.GetPaymentPlan(ctx, owner.ID)
	if err != nil {
		t.Fatalf("GetPaymentPlan failed: %v", err)
	}
	if !plan.DebtsOwedToMe[0].Outstanding {
		t.Fatal("debt at 70/100 should remain outstanding")
	}

	// A further installment of 30 pays the debt off exactly.
	plan.DebtsOwedToMe[0].Installments = append(plan.DebtsOwedToMe[0].Installments,
		models.PaymentInstallment{AmountPaid: decimal.NewFromInt(30), PaidAt: time.Now().UTC()})
	if result := svc.UpdatePaymentPlan(ctx, plan); !result.Success {
		t.Fatalf("UpdatePaymentPlan = %+v", result)
	}

	plan, err = svc.GetPaymentPlan(ctx, owner.ID)
	if err != nil {
		t.Fatalf("GetPaymentPlan failed: %v", err)
	}
	if plan.DebtsOwedToMe[0].Outstanding {
		t.Error("debt at 100/100 should be settled")
	}
}

func TestUpdatePaymentPlan_OverpaymentRejectedBeforeWrite(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	owner := createUser(t, store, "overpay@example.com")
	debtor := createUser(t, store, "overpay-debtor@example.com")

	result, err := svc.AddDebtOwed(ctx, owner.ID, newDebt(debtor.ID, 100, 40, 30))
	if err != nil || !result.Success {
		t.Fatalf("AddDebtOwed = %+v, %v", result, err)
	}
	writesBefore := store.updates

	plan, err := svc.GetPaymentPlan(ctx, owner.ID)
	if err != nil {
		t.Fatalf("GetPaymentPlan failed: %v", err)
	}

	// 70 paid + 40 would exceed the 100 owed.
	plan.DebtsOwedToMe[0].Installments = append(plan.DebtsOwedToMe[0].Installments,
		models.PaymentInstallment{AmountPaid: decimal.NewFromInt(40), PaidAt: time.Now().UTC()})

	result = svc.UpdatePaymentPlan(ctx, plan)
	if result.Success {
		t.Fatal("overpaying update must fail validation")
	}
	if len(result.FieldErrors) != 1 || result.FieldErrors[0].Message != "amount paid off exceeds total debt" {
		t.Errorf("unexpected failure detail: %+v", result)
	}
	if store.updates != writesBefore {
		t.Errorf("store write invoked %d times after validation failure", store.updates-writesBefore)
	}

	// Previous persisted state is unchanged.
	plan, err = svc.GetPaymentPlan(ctx, owner.ID)
	if err != nil {
		t.Fatalf("GetPaymentPlan failed: %v", err)
	}
	if got := len(plan.DebtsOwedToMe[0].Installments); got != 1 {
		t.Errorf("persisted installments = %d, want 1", got)
	}
}

func TestUpdatePaymentPlan_InvalidatesCache(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	owner := createUser(t, store, "coherence@example.com")
	debtor := createUser(t, store, "coherence-debtor@example.com")

	result, err := svc.AddDebtOwed(ctx, owner.ID, newDebt(debtor.ID, 100, 0))
	if err != nil || !result.Success {
		t.Fatalf("AddDebtOwed = %+v, %v", result, err)
	}

	// Warm the cache, then write through the service.
	if _, err := svc.GetPaymentPlan(ctx, owner.ID); err != nil {
		t.Fatalf("GetPaymentPlan failed: %v", err)
	}
	result, err = svc.AddDebtOwed(ctx, owner.ID, newDebt(debtor.ID, 50, 0))
	if err != nil || !result.Success {
		t.Fatalf("second AddDebtOwed = %+v, %v", result, err)
	}

	// A read immediately after the update must not serve the stale entry.
	plan, err := svc.GetPaymentPlan(ctx, owner.ID)
	if err != nil {
		t.Fatalf("GetPaymentPlan failed: %v", err)
	}
	if got := len(plan.DebtsOwedToMe); got != 2 {
		t.Errorf("read after update returned %d debts, want 2", got)
	}
}

func TestUpdatePaymentPlan_NilPlan(t *testing.T) {
	svc, store := newTestService(t)

	result := svc.UpdatePaymentPlan(context.Background(), nil)
	if result.Success {
		t.Fatal("nil plan must fail validation")
	}
	if result.Message != "payment plan is empty" {
		t.Errorf("Message = %q, want %q", result.Message, "payment plan is empty")
	}
	if store.updates != 0 {
		t.Error("store write invoked for nil plan")
	}
}

func TestRemoveDebt_NotImplemented(t *testing.T) {
	svc, store := newTestService(t)
	owner := createUser(t, store, "remove@example.com")

	err := svc.RemoveDebt(context.Background(), owner.ID, models.Debt{ID: "any"})
	if !errors.Is(err, ErrNotImplemented) {
		t.Errorf("RemoveDebt error = %v, want ErrNotImplemented", err)
	}
}
