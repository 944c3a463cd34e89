package fs

import (
	"time"

	"github.com/aretw0/introspection"
	"github.com/cespare/xxhash/v2"
)

// PersisterState exposes internal state for observability.
type PersisterState struct {
	Path          string     `json:"path"`
	Format        string     `json:"format"`
	Versioning    bool       `json:"versioning"`
	Saves         int        `json:"saves"`
	WatcherActive bool       `json:"watcher_active"`
	LastSave      *time.Time `json:"last_save,omitempty"`
}

// State implements introspection.Introspectable.
func (p *Persister) State() any {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return PersisterState{
		Path:          p.Path,
		Format:        p.codec.Name(),
		Versioning:    p.config.Versioning,
		Saves:         p.saves,
		WatcherActive: p.watcherActive,
		LastSave:      p.lastSave,
	}
}

// ComponentType implements introspection.Component.
func (p *Persister) ComponentType() string {
	return "fs"
}

var _ introspection.Introspectable = (*Persister)(nil)
var _ introspection.Component = (*Persister)(nil)

func (p *Persister) setWatcherActive(active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.watcherActive = active
}

// remember records externally written content so repeated events for the
// same bytes are reported once.
func (p *Persister) remember(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastHash = xxhash.Sum64(data)
}
