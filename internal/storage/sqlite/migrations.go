package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database. It runs on
// startup to ensure tables exist. Monetary columns are TEXT holding decimal
// strings so amounts round-trip without float drift.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    first_names TEXT NOT NULL,
    surname TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS payment_plans (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL UNIQUE,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS debts (
    id TEXT PRIMARY KEY,
    plan_id TEXT NOT NULL,
    debtor_user_id TEXT NOT NULL,
    total_amount_owed TEXT NOT NULL,
    initial_payment TEXT NOT NULL,
    is_outstanding INTEGER NOT NULL DEFAULT 1,
    FOREIGN KEY (plan_id) REFERENCES payment_plans(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS payment_installments (
    id TEXT PRIMARY KEY,
    debt_id TEXT NOT NULL,
    amount_paid TEXT NOT NULL,
    paid_at INTEGER NOT NULL,
    FOREIGN KEY (debt_id) REFERENCES debts(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_debts_plan_id ON debts(plan_id);
CREATE INDEX IF NOT EXISTS idx_installments_debt_id ON payment_installments(debt_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
