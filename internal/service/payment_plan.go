package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/glav/paymeback/internal/cache"
	"github.com/glav/paymeback/internal/ledger"
	"github.com/glav/paymeback/internal/metrics"
	"github.com/glav/paymeback/internal/models"
	"github.com/glav/paymeback/internal/storage"
)

// ErrNotImplemented is returned by operations the service permanently does not
// support. Callers must treat it as a capability gap, not a retryable failure.
var ErrNotImplemented = errors.New("removing individual debts is not implemented")

// PlanCache is the get-or-populate / invalidate surface the service needs from
// the cache provider. The cached value is the raw plan record, not the
// assembled plan.
type PlanCache interface {
	GetOrFetch(ctx context.Context, key string, fetch func(context.Context) (*models.PaymentPlanDetail, error)) (*models.PaymentPlanDetail, error)
	Invalidate(ctx context.Context, key string) error
}

// PaymentPlanService assembles, validates and persists user payment plans. It
// owns the cache-aside read path and the invalidate-then-write update path.
type PaymentPlanService struct {
	store storage.Store
	cache PlanCache
}

// NewPaymentPlanService creates a PaymentPlanService over the given store and
// cache.
func NewPaymentPlanService(store storage.Store, planCache PlanCache) *PaymentPlanService {
	return &PaymentPlanService{store: store, cache: planCache}
}

// GetPaymentPlan returns the assembled plan for userID. On a cache miss the
// raw record is read from the ledger store and cached for the configured
// expiry. A user with no persisted plan gets a fresh in-memory plan with an
// empty ID and empty debt lists; that miss is never cached.
//
// Read failures propagate unmodified. Only the write path reports through
// DataAccessResult.
func (s *PaymentPlanService) GetPaymentPlan(ctx context.Context, userID string) (*models.UserPaymentPlan, error) {
	detail, err := s.cache.GetOrFetch(ctx, cache.PlanKey(userID).String(), func(ctx context.Context) (*models.PaymentPlanDetail, error) {
		metrics.PlanStoreReads.Inc()
		d, err := s.store.GetPaymentPlanDetail(ctx, userID)
		if err != nil {
			return nil, err
		}
		if d == nil {
			return nil, cache.ErrNotFound
		}
		return d, nil
	})
	if err != nil && !errors.Is(err, cache.ErrNotFound) {
		return nil, err
	}

	if detail == nil || detail.ID == "" {
		user, err := s.store.GetUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &models.UserPaymentPlan{
			User:              user,
			DateCreated:       time.Now().UTC(),
			DebtsOwedToMe:     []models.Debt{},
			DebtsOwedToOthers: []models.Debt{},
		}, nil
	}

	return models.PlanFromDetail(userID, detail), nil
}

// AddDebtOwed appends a debt that a counterparty owes the plan owner and
// persists the plan. Every field of debt is carried onto the new entry,
// including its debtor; the plan owner is the implicit creditor.
//
// The returned error covers only the read path (fetching the current plan);
// write failures are reported in the DataAccessResult.
func (s *PaymentPlanService) AddDebtOwed(ctx context.Context, userID string, debt models.Debt) (models.DataAccessResult, error) {
	plan, err := s.GetPaymentPlan(ctx, userID)
	if err != nil {
		return models.DataAccessResult{}, err
	}

	plan.DebtsOwedToMe = append(plan.DebtsOwedToMe, debt.Clone())
	return s.UpdatePaymentPlan(ctx, plan), nil
}

// AddDebtOwing appends a debt the plan owner owes a counterparty and persists
// the plan. The entry's debtor is forced to the plan owner so the debt
// partitions into DebtsOwedToOthers on subsequent reads.
func (s *PaymentPlanService) AddDebtOwing(ctx context.Context, userID string, debt models.Debt) (models.DataAccessResult, error) {
	plan, err := s.GetPaymentPlan(ctx, userID)
	if err != nil {
		return models.DataAccessResult{}, err
	}

	entry := debt.Clone()
	entry.DebtorID = userID
	plan.DebtsOwedToOthers = append(plan.DebtsOwedToOthers, entry)
	return s.UpdatePaymentPlan(ctx, plan), nil
}

// UpdatePaymentPlan validates the plan, recomputes aggregate debt state and
// persists the result in one transactional store write.
//
// The plan owner's cache entry is invalidated first, unconditionally: a failed
// write must never leave a stale cached copy visible, and a reader racing the
// write sees either prior durable state or a forced store read. Validation and
// store failures are captured in the result, never returned as errors.
func (s *PaymentPlanService) UpdatePaymentPlan(ctx context.Context, plan *models.UserPaymentPlan) models.DataAccessResult {
	if plan != nil && plan.User != nil {
		key := cache.PlanKey(plan.User.ID).String()
		if err := s.cache.Invalidate(ctx, key); err != nil {
			slog.Warn("cache invalidation failed", "key", key, "error", err)
		}
	}

	if err := ledger.ValidatePlan(plan); err != nil {
		slog.Warn("payment plan rejected", "error", err)
		metrics.PlanUpdates.WithLabelValues("validation_failed").Inc()
		return resultFromError(err)
	}

	plan.DebtsOwedToMe = ledger.Recompute(plan.DebtsOwedToMe)

	detail := plan.Detail()
	if err := s.store.UpdatePaymentPlan(ctx, detail); err != nil {
		slog.Error("payment plan write failed", "error", err)
		metrics.PlanUpdates.WithLabelValues("store_error").Inc()
		return resultFromError(err)
	}

	// The store assigns identity on first persist.
	plan.ID = detail.ID
	plan.DateCreated = detail.DateCreated

	metrics.PlanUpdates.WithLabelValues("ok").Inc()
	return models.DataAccessResult{Success: true}
}

// RemoveDebt is a documented capability gap: it always fails with
// ErrNotImplemented.
func (s *PaymentPlanService) RemoveDebt(ctx context.Context, userID string, debt models.Debt) error {
	return ErrNotImplemented
}

func resultFromError(err error) models.DataAccessResult {
	var verr *ledger.ValidationError
	if errors.As(err, &verr) {
		return models.DataAccessResult{
			FieldErrors: []models.FieldError{{Field: verr.Field, Message: verr.Message}},
			Message:     verr.Message,
		}
	}
	return models.DataAccessResult{Message: err.Error()}
}
