// Package memory provides a Persister that keeps the record in process
// memory. It backs tests and ephemeral sessions.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/folio/pkg/core"
)

// Persister holds a single envelope in memory.
type Persister struct {
	mu    sync.RWMutex
	env   *core.Envelope
	saves int
}

// New returns an empty in-memory persister.
func New() *Persister {
	return &Persister{}
}

// Save stores a deep copy of env.
func (p *Persister) Save(ctx context.Context, env core.Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := core.Envelope{State: env.State.Clone(), Version: env.Version}
	p.env = &cp
	p.saves++
	return nil
}

// Load returns a deep copy of the stored envelope, or the empty state.
func (p *Persister) Load(ctx context.Context) (core.Envelope, error) {
	if err := ctx.Err(); err != nil {
		return core.Envelope{}, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.env == nil {
		return core.Envelope{State: core.EmptyState()}, nil
	}
	return core.Envelope{State: p.env.State.Clone(), Version: p.env.Version}, nil
}

// PersisterState exposes internal state for observability.
type PersisterState struct {
	Saves  int  `json:"saves"`
	Stored bool `json:"stored"`
}

// State implements introspection.Introspectable.
func (p *Persister) State() any {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return PersisterState{Saves: p.saves, Stored: p.env != nil}
}

// ComponentType implements introspection.Component.
func (p *Persister) ComponentType() string {
	return "memory"
}

var (
	_ core.Persister               = (*Persister)(nil)
	_ introspection.Introspectable = (*Persister)(nil)
	_ introspection.Component      = (*Persister)(nil)
)
