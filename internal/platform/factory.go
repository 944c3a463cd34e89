package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/folio/pkg/core"
)

// Workspace is an opened folio: the store plus the persister behind it.
type Workspace struct {
	Store     *core.Store
	Persister core.Persister
	// Path is the resolved state location; empty for memory.
	Path    string
	Backend string
}

// Open initializes the persister for uri, loads the store and returns the
// workspace.
//
//	ws, err := folio.Open(ctx, ".folio", folio.WithVersioning(true))
func Open(ctx context.Context, uri string, opts ...Option) (*Workspace, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	p, path, err := initPersister(ctx, uri, o)
	if err != nil {
		return nil, err
	}

	var storeOpts []core.StoreOption
	if o.logger != nil {
		storeOpts = append(storeOpts, core.WithLogger(o.logger))
	}
	if o.clock != nil {
		storeOpts = append(storeOpts, core.WithClock(o.clock))
	}
	if o.idGenerator != nil {
		storeOpts = append(storeOpts, core.WithIDGenerator(o.idGenerator))
	}
	if o.version != 0 {
		storeOpts = append(storeOpts, core.WithVersion(o.version))
	}

	store := core.NewStore(p, storeOpts...)
	if err := store.Load(ctx); err != nil {
		closePersister(p)
		return nil, err
	}

	backend := o.backend
	if backend == "" && o.persister == nil {
		backend = InferBackend(uri)
	}

	return &Workspace{
		Store:     store,
		Persister: p,
		Path:      path,
		Backend:   backend,
	}, nil
}

// Watch streams external changes of the state. It fails for backends that
// cannot be watched.
func (w *Workspace) Watch(ctx context.Context) (<-chan core.Event, error) {
	watchable, ok := w.Persister.(core.Watchable)
	if !ok {
		return nil, fmt.Errorf("backend %q does not support watching", w.Backend)
	}
	return watchable.Watch(ctx)
}

// History returns recent versions of the state when the backend keeps them.
func (w *Workspace) History(ctx context.Context, n int) ([]string, error) {
	h, ok := w.Persister.(interface {
		History(ctx context.Context, n int) ([]string, error)
	})
	if !ok {
		return nil, nil
	}
	return h.History(ctx, n)
}

// Close releases the persister if it holds resources.
func (w *Workspace) Close() error {
	if c, ok := w.Persister.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func closePersister(p core.Persister) {
	if c, ok := p.(io.Closer); ok {
		_ = c.Close()
	}
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	return nil
}
