package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the CasperFlow store.
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
    principal     BIGINT NOT NULL DEFAULT 0,
    rewards       BIGINT NOT NULL DEFAULT 0,
    rewards_spent BIGINT NOT NULL DEFAULT 0,
    enabled       BOOLEAN NOT NULL DEFAULT FALSE,
    last_update   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
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
    base_price            BIGINT NOT NULL DEFAULT 0,
    usage_price           BIGINT NOT NULL DEFAULT 0,
    billing_cycle_seconds BIGINT NOT NULL DEFAULT 0,
    status                TEXT NOT NULL DEFAULT 'active',
    recorders             JSONB NOT NULL DEFAULT '[]',
    created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
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
    current_period_start TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    auto_renew           BOOLEAN NOT NULL DEFAULT TRUE,
    canceled_at          TIMESTAMPTZ,
    created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
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
    units           BIGINT NOT NULL DEFAULT 0,
    recorded_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    period_start    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    metadata        JSONB NOT NULL DEFAULT '{}',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
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
    period_start    TIMESTAMPTZ NOT NULL,
    period_end      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    units           BIGINT NOT NULL DEFAULT 0,
    closed          BOOLEAN NOT NULL DEFAULT FALSE,
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
    base_amount     BIGINT NOT NULL DEFAULT 0,
    usage_amount    BIGINT NOT NULL DEFAULT 0,
    total           BIGINT NOT NULL DEFAULT 0,
    units           BIGINT NOT NULL DEFAULT 0,
    period_start    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    period_end      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    paid_at         TIMESTAMPTZ,
    failed_at       TIMESTAMPTZ,
    method          TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
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
    total           BIGINT NOT NULL DEFAULT 0,
    fee             BIGINT NOT NULL DEFAULT 0,
    merchant_amount BIGINT NOT NULL DEFAULT 0,
    from_rewards    BIGINT NOT NULL DEFAULT 0,
    from_principal  BIGINT NOT NULL DEFAULT 0,
    settled_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
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
    value JSONB NOT NULL DEFAULT '{}'
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
