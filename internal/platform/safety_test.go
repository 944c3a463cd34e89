package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStatePath(t *testing.T) {
	sandbox := filepath.Join(os.TempDir(), SandboxDirName)
	insideTemp := filepath.Join(os.TempDir(), "folio-check", ".folio")
	wd, err := os.Getwd()
	require.NoError(t, err)

	abs := func(p string) string {
		a, err := filepath.Abs(p)
		require.NoError(t, err)
		return a
	}

	tests := []struct {
		name      string
		path      string
		forceTemp bool
		want      string
	}{
		{"Kept When Not Forced", ".folio", false, ".folio"},
		{"Empty Is Current Dir", "", false, "."},
		{"Absolute Kept When Not Forced", "/srv/notes", false, "/srv/notes"},
		{"Forced Empty Names Working Dir", "", true, filepath.Join(sandbox, sandboxName(filepath.Base(wd), wd))},
		{"Forced Keeps Base Name", "projects/.folio", true, filepath.Join(sandbox, sandboxName(".folio", abs("projects/.folio")))},
		{"Forced Escaping Path", "../../library", true, filepath.Join(sandbox, sandboxName("library", abs("../../library")))},
		{"Forced Root", "/", true, filepath.Join(sandbox, sandboxName("default", "/"))},
		{"Already In Temp", insideTemp, true, insideTemp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveStatePath(tt.path, tt.forceTemp))
		})
	}
}

func TestResolveStatePath_DistinctSandboxes(t *testing.T) {
	a := ResolveStatePath("/srv/alice/.folio", true)
	b := ResolveStatePath("/srv/bob/.folio", true)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, ResolveStatePath("/srv/alice/.folio", true))
}

func TestIsDevRun(t *testing.T) {
	t.Run("Test Binary", func(t *testing.T) {
		t.Setenv(DevEnv, "")
		assert.True(t, IsDevRun())
	})

	t.Run("Env Disables", func(t *testing.T) {
		t.Setenv(DevEnv, "0")
		assert.False(t, IsDevRun())
	})

	t.Run("Env Enables", func(t *testing.T) {
		t.Setenv(DevEnv, "true")
		assert.True(t, IsDevRun())
	})
}

func TestWithin(t *testing.T) {
	base := filepath.Join(os.TempDir(), "x")
	assert.True(t, within(base, base))
	assert.True(t, within(base, filepath.Join(base, "y")))
	assert.False(t, within(base, filepath.Join(os.TempDir(), "xy")))
	assert.False(t, within(base, os.TempDir()))
	assert.False(t, within(base, "relative"))
}
