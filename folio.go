package folio

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/folio/internal/platform"
	"github.com/aretw0/folio/pkg/core"
)

// --- Types ---

// Workspace is an opened folio: the note store and its persister.
type Workspace = platform.Workspace

// Backends accepted by WithBackend.
const (
	BackendJSON   = platform.BackendJSON
	BackendYAML   = platform.BackendYAML
	BackendSQLite = platform.BackendSQLite
	BackendMemory = platform.BackendMemory
)

// --- Configuration ---

// Option defines a functional option for configuring Folio.
type Option = platform.Option

// WithBackend selects the storage backend by name.
func WithBackend(name string) Option {
	return platform.WithBackend(name)
}

// WithAutoInit enables automatic creation of the state directory (and git
// repository when versioning).
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithVersioning enables or disables git history for file backends.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the temp sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithLogger sets the logger for the store and persister.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithPersister allows injecting a custom storage adapter.
func WithPersister(p core.Persister) Option {
	return platform.WithPersister(p)
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithIDGenerator overrides the generator of note and annotation ids.
func WithIDGenerator(gen func() string) Option {
	return platform.WithIDGenerator(gen)
}

// WithWatcherErrorHandler receives runtime failures of the file watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// Open initializes storage at uri and loads the note store.
func Open(ctx context.Context, uri string, opts ...Option) (*Workspace, error) {
	return platform.Open(ctx, uri, opts...)
}

// InferBackend guesses the backend for uri from its extension.
func InferBackend(uri string) string {
	return platform.InferBackend(uri)
}

// --- Safety & Utils ---

// ResolveStatePath determines the actual state path based on safety rules.
func ResolveStatePath(userPath string, forceTemp bool) string {
	return platform.ResolveStatePath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot recursively looks upwards for a workspace root indicator.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
