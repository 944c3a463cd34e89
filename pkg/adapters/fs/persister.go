// Package fs persists the folio state record as a single JSON or YAML file,
// optionally versioned with git and watched for external edits.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/git"
)

// Config holds the configuration for the file persister.
type Config struct {
	// Path is the state file. Its extension selects the codec.
	Path string
	// Versioning commits every save to a git repository in the file's
	// directory.
	Versioning bool
	// AutoInit creates the directory (and git repository when versioning)
	// if missing.
	AutoInit bool
	Logger   *slog.Logger
	// Codecs overrides DefaultCodecs.
	Codecs map[string]Codec
	// ErrorHandler receives watcher failures. Optional.
	ErrorHandler func(error)
}

// Persister implements core.Persister on top of a single file.
type Persister struct {
	Path  string
	dir   string
	codec Codec
	git   *git.Client

	config Config

	mu            sync.RWMutex
	lastHash      uint64
	lastSave      *time.Time
	saves         int
	watcherActive bool
}

// NewPersister creates a file persister. It fails when the extension of
// config.Path has no codec.
func NewPersister(config Config) (*Persister, error) {
	if config.Path == "" {
		return nil, errors.New("state file path is required")
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	codecs := config.Codecs
	if codecs == nil {
		codecs = DefaultCodecs()
	}
	ext := filepath.Ext(config.Path)
	codec, ok := codecs[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported state file extension %q", ext)
	}

	dir := filepath.Dir(config.Path)
	return &Persister{
		Path:   config.Path,
		dir:    dir,
		codec:  codec,
		git:    git.NewClient(dir, git.DefaultLockName, config.Logger),
		config: config,
	}, nil
}

// Initialize prepares the directory and, when versioning, the git repository.
func (p *Persister) Initialize(ctx context.Context) error {
	info, err := os.Stat(p.dir)
	switch {
	case os.IsNotExist(err):
		if !p.config.AutoInit {
			return fmt.Errorf("state directory does not exist: %s", p.dir)
		}
		if err := os.MkdirAll(p.dir, 0755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to stat state directory: %w", err)
	case !info.IsDir():
		return fmt.Errorf("state path is not a directory: %s", p.dir)
	}

	if !p.config.Versioning {
		return nil
	}
	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}
	if !p.git.IsRepo() {
		if !p.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", p.dir)
		}
		if err := p.git.Init(ctx); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		p.config.Logger.Info("initialized state repository", "dir", p.dir)
	}
	return nil
}

// Save encodes env and replaces the state file atomically. With versioning
// enabled the new content is committed; when the commit fails the previous
// file is put back so disk and caller agree on the last saved state.
func (p *Persister) Save(ctx context.Context, env core.Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := p.codec.Encode(env)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	if !p.config.Versioning {
		p.remember(data)
		if err := writeFileAtomic(p.Path, data, 0644); err != nil {
			return fmt.Errorf("failed to write state: %w", err)
		}
		p.recordSave()
		return nil
	}

	unlock, err := p.git.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	prev, err := os.ReadFile(p.Path)
	existed := err == nil
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read state: %w", err)
	}

	p.remember(data)
	if err := writeFileAtomic(p.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := p.commit(ctx); err != nil {
		if rerr := p.restore(prev, existed); rerr != nil {
			p.config.Logger.Error("failed to restore state after commit failure", "path", p.Path, "error", rerr)
			return errors.Join(err, rerr)
		}
		return err
	}
	p.recordSave()
	return nil
}

func (p *Persister) commit(ctx context.Context) error {
	if err := p.git.Add(ctx, filepath.Base(p.Path)); err != nil {
		return fmt.Errorf("failed to git add: %w", err)
	}
	subject := "update " + core.StorageKey
	if op, ok := core.Operation(ctx); ok {
		subject = op
	}
	msg := git.FormatCommitMessage(git.CommitTypeChore, "state", subject, "")
	if err := p.git.Commit(ctx, msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	return nil
}

// restore puts back the file content seen before a failed save.
func (p *Persister) restore(prev []byte, existed bool) error {
	if !existed {
		if err := os.Remove(p.Path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	p.remember(prev)
	return writeFileAtomic(p.Path, prev, 0644)
}

func (p *Persister) recordSave() {
	now := time.Now()
	p.mu.Lock()
	p.lastSave = &now
	p.saves++
	p.mu.Unlock()
}

// Load reads and decodes the state file. A missing file is the empty state.
func (p *Persister) Load(ctx context.Context) (core.Envelope, error) {
	if err := ctx.Err(); err != nil {
		return core.Envelope{}, err
	}
	data, err := os.ReadFile(p.Path)
	if os.IsNotExist(err) {
		return core.Envelope{State: core.EmptyState()}, nil
	}
	if err != nil {
		return core.Envelope{}, fmt.Errorf("failed to read state: %w", err)
	}

	env, err := p.codec.Decode(data)
	if err != nil {
		return core.Envelope{}, fmt.Errorf("%s: %w", p.Path, err)
	}

	p.mu.Lock()
	p.lastHash = xxhash.Sum64(data)
	p.mu.Unlock()
	return env, nil
}

// History returns up to n recent versions of the state file, newest first.
// It is empty when versioning is off.
func (p *Persister) History(ctx context.Context, n int) ([]string, error) {
	if !p.config.Versioning {
		return nil, nil
	}
	return p.git.Log(ctx, n)
}

// ownWrite reports whether data is what this persister last wrote or read.
func (p *Persister) ownWrite(data []byte) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastHash != 0 && p.lastHash == xxhash.Sum64(data)
}

var _ core.Persister = (*Persister)(nil)
var _ core.Watchable = (*Persister)(nil)
