// Package extension provides the Forge extension adapter for CasperFlow.
//
// It implements the forge.Extension interface to integrate CasperFlow
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.casperflow" or
// "casperflow" keys.
package extension

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/forge"
	"github.com/xraph/grove"
	"github.com/xraph/vessel"

	casperflow "github.com/Abhishekgoyal007/CasperFlow"
	"github.com/Abhishekgoyal007/CasperFlow/store"
	"github.com/Abhishekgoyal007/CasperFlow/store/memory"
	mongostore "github.com/Abhishekgoyal007/CasperFlow/store/mongo"
	pgstore "github.com/Abhishekgoyal007/CasperFlow/store/postgres"
	sqlitestore "github.com/Abhishekgoyal007/CasperFlow/store/sqlite"
	"github.com/Abhishekgoyal007/CasperFlow/types"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "casperflow"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Stake-to-pay metered subscription billing engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts CasperFlow as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *casperflow.Ledger
	store      store.Store
	groveDB    *grove.DB
	ledgerOpts []casperflow.Option
}

// New creates a new CasperFlow Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Ledger instance.
// This is nil until Register is called.
func (e *Extension) Engine() *casperflow.Ledger { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the ledger engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Construct the store if one was not provided programmatically.
	if e.store == nil {
		s, err := e.buildStore()
		if err != nil {
			return err
		}
		e.store = s
	}

	// Build ledger options from resolved config.
	opts := e.buildLedgerOpts()

	eng := casperflow.New(e.store, opts...)
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*casperflow.Ledger, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("casperflow: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("casperflow: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildStore constructs the store backend named by the resolved config.
// A grove.DB must have been supplied via WithGroveDB for the SQL and
// mongo drivers.
func (e *Extension) buildStore() (store.Store, error) {
	switch e.config.Driver {
	case "", "memory":
		return memory.New(), nil
	case "sqlite":
		if e.groveDB == nil {
			return nil, errors.New("casperflow: driver sqlite requires a grove.DB (use WithGroveDB)")
		}
		return sqlitestore.New(e.groveDB), nil
	case "postgres":
		if e.groveDB == nil {
			return nil, errors.New("casperflow: driver postgres requires a grove.DB (use WithGroveDB)")
		}
		return pgstore.New(e.groveDB), nil
	case "mongo":
		if e.groveDB == nil {
			return nil, errors.New("casperflow: driver mongo requires a grove.DB (use WithGroveDB)")
		}
		return mongostore.New(e.groveDB), nil
	default:
		return nil, fmt.Errorf("casperflow: unknown store driver %q", e.config.Driver)
	}
}

// buildLedgerOpts constructs casperflow.Option values from the resolved config.
func (e *Extension) buildLedgerOpts() []casperflow.Option {
	opts := make([]casperflow.Option, 0, len(e.ledgerOpts)+2)

	if e.config.Owner != "" {
		opts = append(opts, casperflow.WithOwner(types.Address(e.config.Owner)))
	}
	if e.config.FeeRecipient != "" {
		opts = append(opts, casperflow.WithFeeRecipient(types.Address(e.config.FeeRecipient)))
	}

	// Append any pass-through ledger options.
	opts = append(opts, e.ledgerOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("casperflow: configuration is required but not found in config files; " +
				"ensure 'extensions.casperflow' or 'casperflow' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("casperflow: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("driver", e.config.Driver),
		forge.F("owner", e.config.Owner),
		forge.F("fee_recipient", e.config.FeeRecipient),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.casperflow" first (namespaced pattern).
	if cm.IsSet("extensions.casperflow") {
		if err := cm.Bind("extensions.casperflow", &cfg); err == nil {
			e.Logger().Debug("casperflow: loaded config from file",
				forge.F("key", "extensions.casperflow"),
			)
			return cfg, true
		}
		e.Logger().Warn("casperflow: failed to bind extensions.casperflow config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "casperflow" key.
	if cm.IsSet("casperflow") {
		if err := cm.Bind("casperflow", &cfg); err == nil {
			e.Logger().Debug("casperflow: loaded config from file",
				forge.F("key", "casperflow"),
			)
			return cfg, true
		}
		e.Logger().Warn("casperflow: failed to bind casperflow config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.Driver == "" {
		cfg.Driver = defaults.Driver
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.Driver == "" && programmaticConfig.Driver != "" {
		yamlConfig.Driver = programmaticConfig.Driver
	}
	if yamlConfig.Owner == "" && programmaticConfig.Owner != "" {
		yamlConfig.Owner = programmaticConfig.Owner
	}
	if yamlConfig.FeeRecipient == "" && programmaticConfig.FeeRecipient != "" {
		yamlConfig.FeeRecipient = programmaticConfig.FeeRecipient
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
