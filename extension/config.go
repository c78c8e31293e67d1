package extension

// Config holds the CasperFlow extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.casperflow" or "casperflow" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// Driver selects the store backend to construct when a grove.DB is
	// provided via WithGroveDB: "postgres", "sqlite", or "mongo".
	// "memory" (the default) ignores any provided database.
	Driver string `json:"driver" mapstructure:"driver" yaml:"driver"`

	// Owner is the protocol owner address seeded into the store on first
	// start. Only the owner may change protocol parameters afterwards.
	Owner string `json:"owner" mapstructure:"owner" yaml:"owner"`

	// FeeRecipient is the address that receives the protocol fee cut of
	// every settled invoice. Seeded on first start.
	FeeRecipient string `json:"fee_recipient" mapstructure:"fee_recipient" yaml:"fee_recipient"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Driver: "memory",
	}
}
