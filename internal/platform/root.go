package platform

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/aretw0/folio/pkg/config"
)

// SystemDir is the hidden directory holding file-backed state.
const SystemDir = ".folio"

// RootEnv names an explicit workspace root that skips the upward search.
const RootEnv = "FOLIO_ROOT"

// ErrNoRoot is returned when no workspace marker is found.
var ErrNoRoot = errors.New("no folio workspace found")

// rootMarkers identify a workspace root. A .folio file or a folio.yaml
// directory does not count.
var rootMarkers = []struct {
	name string
	dir  bool
}{
	{SystemDir, true},
	{config.FileName, false},
}

// FindRoot returns the workspace root for startDir: the directory named by
// FOLIO_ROOT when set, else the nearest ancestor (startDir included) holding
// a .folio directory or a folio.yaml file.
func FindRoot(startDir string) (string, error) {
	if env := os.Getenv(RootEnv); env != "" {
		info, err := os.Stat(env)
		if err != nil || !info.IsDir() {
			return "", errors.Join(ErrNoRoot, errors.New(RootEnv+" is not a directory: "+env))
		}
		return filepath.Abs(env)
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if isRoot(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoRoot
		}
		dir = parent
	}
}

func isRoot(dir string) bool {
	for _, m := range rootMarkers {
		info, err := os.Stat(filepath.Join(dir, m.name))
		if err == nil && info.IsDir() == m.dir {
			return true
		}
	}
	return false
}
