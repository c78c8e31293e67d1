package casperflow

import "github.com/Abhishekgoyal007/CasperFlow/id"

// ID is the primary identifier type for all CasperFlow entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
