package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the CasperFlow store (SQLite).
var Migrations = migrate.NewGroup("casperflow")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_casperflow_accounts",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS casperflow_accounts (
    owner         TEXT PRIMARY KEY,
    principal     INTEGER NOT NULL DEFAULT 0,
    rewards       INTEGER NOT NULL DEFAULT 0,
    rewards_spent INTEGER NOT NULL DEFAULT 0,
    enabled       INTEGER NOT NULL DEFAULT 0,
    last_update   TEXT NOT NULL DEFAULT (datetime('now')),
    created_at    TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at    TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_casperflow_accounts_enabled ON casperflow_accounts (enabled);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS casperflow_accounts`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_casperflow_plans",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS casperflow_plans (
    id                    TEXT PRIMARY KEY,
    merchant              TEXT NOT NULL DEFAULT '',
    name                  TEXT NOT NULL DEFAULT '',
    description           TEXT NOT NULL DEFAULT '',
    base_price            INTEGER NOT NULL DEFAULT 0,
    usage_price           INTEGER NOT NULL DEFAULT 0,
    billing_cycle_seconds INTEGER NOT NULL DEFAULT 0,
    status                TEXT NOT NULL DEFAULT 'active',
    recorders             TEXT NOT NULL DEFAULT '[]',
    created_at            TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at            TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_casperflow_plans_merchant ON casperflow_plans (merchant);
CREATE INDEX IF NOT EXISTS idx_casperflow_plans_status ON casperflow_plans (merchant, status);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS casperflow_plans`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_casperflow_subscriptions",
			Version: "20240101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS casperflow_subscriptions (
    id                   TEXT PRIMARY KEY,
    subscriber           TEXT NOT NULL DEFAULT '',
    plan_id              TEXT NOT NULL DEFAULT '',
    status               TEXT NOT NULL DEFAULT 'active',
    current_period_start TEXT NOT NULL DEFAULT (datetime('now')),
    auto_renew           INTEGER NOT NULL DEFAULT 1,
    canceled_at          TEXT,
    created_at           TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at           TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_casperflow_subs_subscriber ON casperflow_subscriptions (subscriber);
CREATE INDEX IF NOT EXISTS idx_casperflow_subs_plan ON casperflow_subscriptions (plan_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_casperflow_subs_active ON casperflow_subscriptions (subscriber, plan_id) WHERE status = 'active';
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS casperflow_subscriptions`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_casperflow_usage_records",
			Version: "20240101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS casperflow_usage_records (
    id              TEXT PRIMARY KEY,
    subscription_id TEXT NOT NULL DEFAULT '',
    recorder        TEXT NOT NULL DEFAULT '',
    units           INTEGER NOT NULL DEFAULT 0,
    recorded_at     TEXT NOT NULL DEFAULT (datetime('now')),
    period_start    TEXT NOT NULL DEFAULT (datetime('now')),
    metadata        TEXT NOT NULL DEFAULT '{}',
    created_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_casperflow_usage_sub_time ON casperflow_usage_records (subscription_id, recorded_at);
CREATE INDEX IF NOT EXISTS idx_casperflow_usage_recorded ON casperflow_usage_records (recorded_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS casperflow_usage_records`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_casperflow_periods",
			Version: "20240101000005",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS casperflow_periods (
    subscription_id TEXT NOT NULL,
    period_start    TEXT NOT NULL,
    period_end      TEXT NOT NULL DEFAULT (datetime('now')),
    units           INTEGER NOT NULL DEFAULT 0,
    closed          INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (subscription_id, period_start)
);

CREATE INDEX IF NOT EXISTS idx_casperflow_periods_open ON casperflow_periods (subscription_id, closed);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS casperflow_periods`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_casperflow_invoices",
			Version: "20240101000006",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS casperflow_invoices (
    id              TEXT PRIMARY KEY,
    subscription_id TEXT NOT NULL DEFAULT '',
    subscriber      TEXT NOT NULL DEFAULT '',
    merchant        TEXT NOT NULL DEFAULT '',
    status          TEXT NOT NULL DEFAULT 'pending',
    base_amount     INTEGER NOT NULL DEFAULT 0,
    usage_amount    INTEGER NOT NULL DEFAULT 0,
    total           INTEGER NOT NULL DEFAULT 0,
    units           INTEGER NOT NULL DEFAULT 0,
    period_start    TEXT NOT NULL DEFAULT (datetime('now')),
    period_end      TEXT NOT NULL DEFAULT (datetime('now')),
    paid_at         TEXT,
    failed_at       TEXT,
    method          TEXT NOT NULL DEFAULT '',
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_casperflow_invoices_sub ON casperflow_invoices (subscription_id);
CREATE INDEX IF NOT EXISTS idx_casperflow_invoices_subscriber ON casperflow_invoices (subscriber, status);
CREATE INDEX IF NOT EXISTS idx_casperflow_invoices_merchant ON casperflow_invoices (merchant, status);
CREATE INDEX IF NOT EXISTS idx_casperflow_invoices_period ON casperflow_invoices (subscription_id, period_start, period_end);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS casperflow_invoices`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_casperflow_payments",
			Version: "20240101000007",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS casperflow_payments (
    id              TEXT PRIMARY KEY,
    invoice_id      TEXT NOT NULL DEFAULT '',
    subscription_id TEXT NOT NULL DEFAULT '',
    payer           TEXT NOT NULL DEFAULT '',
    merchant        TEXT NOT NULL DEFAULT '',
    method          TEXT NOT NULL DEFAULT '',
    total           INTEGER NOT NULL DEFAULT 0,
    fee             INTEGER NOT NULL DEFAULT 0,
    merchant_amount INTEGER NOT NULL DEFAULT 0,
    from_rewards    INTEGER NOT NULL DEFAULT 0,
    from_principal  INTEGER NOT NULL DEFAULT 0,
    settled_at      TEXT NOT NULL DEFAULT (datetime('now')),
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_casperflow_payments_invoice ON casperflow_payments (invoice_id);
CREATE INDEX IF NOT EXISTS idx_casperflow_payments_merchant ON casperflow_payments (merchant, settled_at);
CREATE INDEX IF NOT EXISTS idx_casperflow_payments_payer ON casperflow_payments (payer, settled_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS casperflow_payments`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_casperflow_registers",
			Version: "20240101000008",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS casperflow_registers (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL DEFAULT '{}'
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS casperflow_registers`)
				return err
			},
		},
	)
}
