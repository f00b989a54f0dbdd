package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glav/paymeback/internal/models"
)

// GetPaymentPlanDetail retrieves the raw plan record for a user, including all
// debts and their installments. Returns nil (and no error) when the user has
// never persisted a plan.
func (s *SQLiteStore) GetPaymentPlanDetail(ctx context.Context, userID string) (*models.PaymentPlanDetail, error) {
	var (
		planID    string
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, created_at FROM payment_plans WHERE user_id = ?",
		userID,
	).Scan(&planID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment plan: %w", err)
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	debts, err := s.loadDebts(ctx, planID)
	if err != nil {
		return nil, err
	}

	return &models.PaymentPlanDetail{
		ID:          planID,
		User:        user,
		DateCreated: time.Unix(createdAt, 0).UTC(),
		Debts:       debts,
	}, nil
}

func (s *SQLiteStore) loadDebts(ctx context.Context, planID string) ([]models.Debt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, debtor_user_id, total_amount_owed, initial_payment, is_outstanding
		 FROM debts WHERE plan_id = ? ORDER BY id`,
		planID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get debts: %w", err)
	}
	defer rows.Close()

	var debts []models.Debt
	for rows.Next() {
		var (
			debt           models.Debt
			total, initial string
		)
		if err := rows.Scan(&debt.ID, &debt.DebtorID, &total, &initial, &debt.Outstanding); err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		if debt.TotalAmountOwed, err = parseAmount(total); err != nil {
			return nil, err
		}
		if debt.InitialPayment, err = parseAmount(initial); err != nil {
			return nil, err
		}
		debts = append(debts, debt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}

	for i := range debts {
		installments, err := s.loadInstallments(ctx, debts[i].ID)
		if err != nil {
			return nil, err
		}
		debts[i].Installments = installments
	}

	return debts, nil
}

func (s *SQLiteStore) loadInstallments(ctx context.Context, debtID string) ([]models.PaymentInstallment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, amount_paid, paid_at FROM payment_installments
		 WHERE debt_id = ? ORDER BY paid_at, id`,
		debtID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get installments: %w", err)
	}
	defer rows.Close()

	var installments []models.PaymentInstallment
	for rows.Next() {
		var (
			inst   models.PaymentInstallment
			amount string
			paidAt int64
		)
		if err := rows.Scan(&inst.ID, &amount, &paidAt); err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		if inst.AmountPaid, err = parseAmount(amount); err != nil {
			return nil, err
		}
		inst.PaidAt = time.Unix(paidAt, 0).UTC()
		installments = append(installments, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate installments: %w", err)
	}

	return installments, nil
}

// UpdatePaymentPlan persists a full plan snapshot, replacing any previously
// stored debts for the plan in a single transaction. A plan already persisted
// for the user keeps its stored identity regardless of what the snapshot
// carries; IDs and DateCreated are generated only for never-persisted plans.
//
// SQLite transactions are serializable, which is stronger than the
// read-committed floor the write path requires.
func (s *SQLiteStore) UpdatePaymentPlan(ctx context.Context, detail *models.PaymentPlanDetail) error {
	if detail == nil || detail.User == nil {
		return fmt.Errorf("payment plan detail requires a user")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Plans are keyed by owner. Resolve the persisted identity before
	// deciding to mint a new one, so a snapshot arriving without its ID
	// updates the existing plan instead of no-opping on the user_id
	// constraint.
	var (
		existingID      string
		existingCreated int64
	)
	err = tx.QueryRowContext(ctx,
		"SELECT id, created_at FROM payment_plans WHERE user_id = ?",
		detail.User.ID,
	).Scan(&existingID, &existingCreated)
	switch {
	case err == sql.ErrNoRows:
		if detail.ID == "" {
			detail.ID = uuid.New().String()
		}
		if detail.DateCreated.IsZero() {
			detail.DateCreated = time.Now().UTC()
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO payment_plans (id, user_id, created_at) VALUES (?, ?, ?)",
			detail.ID, detail.User.ID, detail.DateCreated.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment plan: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to resolve payment plan: %w", err)
	default:
		detail.ID = existingID
		detail.DateCreated = time.Unix(existingCreated, 0).UTC()
	}

	// Full snapshot: drop the previous debts, installments cascade.
	if _, err := tx.ExecContext(ctx, "DELETE FROM debts WHERE plan_id = ?", detail.ID); err != nil {
		return fmt.Errorf("failed to clear debts: %w", err)
	}

	for i := range detail.Debts {
		debt := &detail.Debts[i]
		if debt.ID == "" {
			debt.ID = uuid.New().String()
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO debts (id, plan_id, debtor_user_id, total_amount_owed, initial_payment, is_outstanding)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			debt.ID, detail.ID, debt.DebtorID,
			debt.TotalAmountOwed.String(), debt.InitialPayment.String(), debt.Outstanding,
		)
		if err != nil {
			return fmt.Errorf("failed to insert debt: %w", err)
		}

		for j := range debt.Installments {
			inst := &debt.Installments[j]
			if inst.ID == "" {
				inst.ID = uuid.New().String()
			}
			if inst.PaidAt.IsZero() {
				inst.PaidAt = time.Now().UTC()
			}

			_, err = tx.ExecContext(ctx,
				"INSERT INTO payment_installments (id, debt_id, amount_paid, paid_at) VALUES (?, ?, ?, ?)",
				inst.ID, debt.ID, inst.AmountPaid.String(), inst.PaidAt.Unix(),
			)
			if err != nil {
				return fmt.Errorf("failed to insert installment: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse amount %q: %w", s, err)
	}
	return d, nil
}
