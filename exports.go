package casperflow

import "github.com/Abhishekgoyal007/CasperFlow/types"

// Re-export common types for convenience so users don't have to import types package.

// Amount is re-exported from types package.
type Amount = types.Amount

// Address is re-exported from types package.
type Address = types.Address

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export Amount constructors
var (
	Motes = types.Motes
	CSPR  = types.CSPR
	Sum   = types.Sum
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
