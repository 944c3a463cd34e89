package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/adapters/memory"
	"github.com/aretw0/folio/pkg/adapters/sqlite"
	"github.com/aretw0/folio/pkg/core"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// InferBackend guesses the backend from a URI: a known file extension picks
// its backend, anything else is a directory holding a JSON state file.
func InferBackend(uri string) string {
	if uri == ":memory:" {
		return BackendMemory
	}
	switch strings.ToLower(filepath.Ext(uri)) {
	case ".db", ".sqlite", ".sqlite3":
		return BackendSQLite
	case ".yaml", ".yml":
		return BackendYAML
	default:
		return BackendJSON
	}
}

// StatePath maps a URI to the state file of a file backend. A URI without
// the backend's extension is treated as a directory.
func StatePath(uri, backend string) string {
	ext := "." + backend
	switch strings.ToLower(filepath.Ext(uri)) {
	case ".json", ".yaml", ".yml":
		return uri
	}
	return filepath.Join(uri, core.StorageKey+ext)
}

// Init resolves the backend for uri and returns an initialized persister.
// The 'uri' argument is backend-specific: a directory or state file for
// json/yaml, a database path or DSN for sqlite, ignored for memory.
func Init(ctx context.Context, uri string, opts ...Option) (core.Persister, string, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initPersister(ctx, uri, o)
}

func initPersister(ctx context.Context, uri string, o *options) (core.Persister, string, error) {
	if o.persister != nil {
		return o.persister, "", nil
	}

	backend := o.backend
	if backend == "" {
		backend = InferBackend(uri)
	}

	switch backend {
	case BackendJSON, BackendYAML:
		return initFS(ctx, uri, backend, o)
	case BackendSQLite:
		return initSQLite(ctx, uri, o)
	case BackendMemory:
		return memory.New(), "", nil
	default:
		return nil, "", fmt.Errorf("unknown backend: %s", backend)
	}
}

// resolve applies dev safety to a filesystem path.
func resolve(path string, o *options) string {
	useTemp := o.forceTemp || (IsDevRun() && o.devSafety)
	resolved := ResolveStatePath(path, useTemp)

	if IsDevRun() && o.logger != nil {
		if o.devSafety {
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		} else {
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		}
	}
	return resolved
}

// initFS handles the initialization logic for the file backends.
func initFS(ctx context.Context, uri, backend string, o *options) (core.Persister, string, error) {
	file := StatePath(uri, backend)
	dir := resolve(filepath.Dir(file), o)
	path := filepath.Join(dir, filepath.Base(file))

	p, err := fs.NewPersister(fs.Config{
		Path:         path,
		Versioning:   o.versioning,
		AutoInit:     o.autoInit,
		Logger:       o.logger,
		ErrorHandler: o.errorHandler,
	})
	if err != nil {
		return nil, "", err
	}
	if err := p.Initialize(ctx); err != nil {
		return nil, "", err
	}
	return p, path, nil
}

func initSQLite(ctx context.Context, uri string, o *options) (core.Persister, string, error) {
	path := uri
	if uri != ":memory:" && !strings.HasPrefix(uri, "file:") {
		path = filepath.Join(resolve(filepath.Dir(uri), o), filepath.Base(uri))
		if o.autoInit {
			if err := ensureDir(filepath.Dir(path)); err != nil {
				return nil, "", err
			}
		}
	}
	p, err := sqlite.Open(ctx, path, sqlite.WithLogger(o.logger))
	if err != nil {
		return nil, "", err
	}
	return p, path, nil
}
