package extension

import (
	"github.com/xraph/grove"

	casperflow "github.com/Abhishekgoyal007/CasperFlow"
	"github.com/Abhishekgoyal007/CasperFlow/plugin"
	"github.com/Abhishekgoyal007/CasperFlow/store"
)

// Option configures the CasperFlow Forge extension.
type Option func(*Extension)

// WithStore sets the store for the ledger engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithGroveDB supplies the grove.DB used to construct the SQL or mongo
// store backend named by Config.Driver.
func WithGroveDB(db *grove.DB) Option {
	return func(e *Extension) {
		e.groveDB = db
	}
}

// WithDriver selects the store backend: "memory", "sqlite", "postgres",
// or "mongo".
func WithDriver(driver string) Option {
	return func(e *Extension) { e.config.Driver = driver }
}

// WithLedgerOption passes a casperflow.Option through to the underlying engine.
func WithLedgerOption(opt casperflow.Option) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, opt)
	}
}

// WithPlugin registers a ledger plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, casperflow.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithOwner sets the protocol owner address seeded on first start.
func WithOwner(owner string) Option {
	return func(e *Extension) { e.config.Owner = owner }
}

// WithFeeRecipient sets the protocol fee recipient address seeded on
// first start.
func WithFeeRecipient(recipient string) Option {
	return func(e *Extension) { e.config.FeeRecipient = recipient }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
