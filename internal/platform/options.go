package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/folio/pkg/core"
)

// options holds the internal configuration for a folio workspace.
type options struct {
	persister    core.Persister
	logger       *slog.Logger
	backend      string
	versioning   bool
	autoInit     bool
	forceTemp    bool
	devSafety    bool
	clock        func() time.Time
	idGenerator  func() string
	version      int
	errorHandler func(error)
}

// Option defines a functional option for configuring a workspace.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		autoInit:  true,
		devSafety: true,
	}
}

// WithBackend selects the storage backend: "json", "yaml", "sqlite" or
// "memory". When unset it is inferred from the URI.
func WithBackend(name string) Option {
	return func(o *options) {
		o.backend = name
	}
}

// WithLogger sets the logger shared by the store and its persister.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithVersioning commits every save of a file backend to git.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.versioning = enabled
	}
}

// WithAutoInit creates missing directories (and the git repository when
// versioning). Enabled by default.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.autoInit = auto
	}
}

// WithForceTemp re-roots file backends under the system temp directory.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or
// `go test`: by default file state is redirected to a temp directory.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithClock overrides the store's time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithIDGenerator overrides the store's id generator.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) {
		o.idGenerator = gen
	}
}

// WithSchemaVersion sets the version tag written with the state.
func WithSchemaVersion(v int) Option {
	return func(o *options) {
		o.version = v
	}
}

// WithPersister injects a custom persister. Backend selection is skipped.
func WithPersister(p core.Persister) Option {
	return func(o *options) {
		o.persister = p
	}
}

// WithWatcherErrorHandler receives runtime failures of the file watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
