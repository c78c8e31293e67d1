package casperflow

import (
	"sync"

	"github.com/Abhishekgoyal007/CasperFlow/types"
)

// keyedMutex serializes operations per address. Balance-changing
// operations for one subscriber must not interleave, while unrelated
// addresses proceed in parallel.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[types.Address]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[types.Address]*sync.Mutex)}
}

func (k *keyedMutex) lock(addr types.Address) func() {
	k.mu.Lock()
	m, ok := k.locks[addr]
	if !ok {
		m = &sync.Mutex{}
		k.locks[addr] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
