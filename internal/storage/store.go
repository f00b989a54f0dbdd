// Package storage provides abstractions for the durable ledger store.
package storage

import (
	"context"
	"errors"

	"github.com/glav/paymeback/internal/models"
)

// ErrNotFound is wrapped by store implementations when a requested record does
// not exist.
var ErrNotFound = errors.New("record not found")

// Store is durable storage for user records and payment plan records. This
// abstraction allows swapping storage backends without changing the service
// layer.
type Store interface {
	// GetPaymentPlanDetail returns the raw plan record for userID, or nil when
	// the user has never persisted a plan.
	GetPaymentPlanDetail(ctx context.Context, userID string) (*models.PaymentPlanDetail, error)

	// UpdatePaymentPlan persists a full plan snapshot in a single transaction,
	// replacing any previously stored debts for the plan. IDs and DateCreated
	// are assigned when the plan has never been persisted.
	UpdatePaymentPlan(ctx context.Context, detail *models.PaymentPlanDetail) error

	// GetUser retrieves a user by ID. The error wraps ErrNotFound when no such
	// user exists.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// GetUserByEmail retrieves a user by email address. The error wraps
	// ErrNotFound when no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// CreateUser persists a new user. The user.ID field is populated when
	// empty.
	CreateUser(ctx context.Context, user *models.User) error

	// Close releases any resources held by the store.
	Close() error
}
