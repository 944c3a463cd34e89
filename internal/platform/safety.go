package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	// SandboxDirName is the directory under the system temp dir that holds
	// sandboxed workspaces.
	SandboxDirName = "folio-dev"

	// DevEnv overrides dev run detection when set to a boolean.
	DevEnv = "FOLIO_DEV"
)

// IsDevRun reports whether folio runs from a `go run` or `go test` build.
// FOLIO_DEV=0 or FOLIO_DEV=1 takes precedence over the detection.
func IsDevRun() bool {
	if v, ok := os.LookupEnv(DevEnv); ok {
		if dev, err := strconv.ParseBool(v); err == nil {
			return dev
		}
	}

	exe, err := os.Executable()
	if err != nil {
		return false
	}
	if strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe") {
		return true
	}
	return within(os.TempDir(), exe)
}

// ResolveStatePath returns the directory state should live in. Unforced
// paths are used as given. Forced paths outside the temp dir are mapped to
// a sandbox named after the base name plus a hash of the absolute path, so
// two workspaces sharing a base name never share a sandbox.
func ResolveStatePath(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	clean := filepath.Clean(userPath)
	if within(os.TempDir(), clean) {
		return clean
	}

	abs, err := filepath.Abs(clean)
	if err != nil {
		abs = clean
	}
	name := filepath.Base(abs)
	if name == "." || name == string(os.PathSeparator) {
		name = "default"
	}
	return filepath.Join(os.TempDir(), SandboxDirName, sandboxName(name, abs))
}

func sandboxName(name, abs string) string {
	return fmt.Sprintf("%s-%08x", name, uint32(xxhash.Sum64String(abs)))
}

// within reports whether path is base or lies below it.
func within(base, path string) bool {
	if !filepath.IsAbs(path) {
		return false
	}
	rel, err := filepath.Rel(base, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}
