package types

import "time"

// Entity is the base type for stored CasperFlow entities with
// creation/update timestamps. Embed it in domain types; callers stamp
// it from the ledger clock so stored state stays deterministic under
// replay.
type Entity struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEntity creates an Entity stamped with the given time.
func NewEntity(now time.Time) Entity {
	return Entity{CreatedAt: now, UpdatedAt: now}
}

// Touch updates the UpdatedAt timestamp.
func (e *Entity) Touch(now time.Time) {
	e.UpdatedAt = now
}

// Age returns how long ago the entity was created, as of now.
func (e Entity) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}
