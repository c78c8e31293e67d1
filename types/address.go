package types

// Address identifies an on-ledger party: a subscriber, merchant,
// recorder backend, or the fee recipient. The core treats it as an
// opaque identity supplied by the host (typically an account-hash hex
// string) and never derives or verifies it.
type Address string

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool { return a == "" }

// String returns the raw address string.
func (a Address) String() string { return string(a) }
