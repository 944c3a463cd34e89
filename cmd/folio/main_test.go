package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/pkg/core"
)

// resetFlags restores every flag to its default between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// folioCLI runs commands against a private workspace.
type folioCLI struct {
	t    *testing.T
	dir  string
	args []string
}

func newCLI(t *testing.T, backend string) *folioCLI {
	dir := t.TempDir()
	path := filepath.Join(dir, ".folio")
	if backend == "sqlite" {
		path = filepath.Join(dir, "folio.db")
	}
	return &folioCLI{
		t:   t,
		dir: dir,
		args: []string{
			"--config", filepath.Join(dir, "folio.yaml"),
			"--backend", backend,
			"--path", path,
		},
	}
}

func (c *folioCLI) run(args ...string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append(append([]string{}, c.args...), args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func (c *folioCLI) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "folio %s", strings.Join(args, " "))
	return out
}

func TestCLI_NoteLifecycle(t *testing.T) {
	for _, backend := range []string{"json", "yaml", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			cli := newCLI(t, backend)

			id := strings.TrimSpace(cli.mustRun("new", "--title", "Fox", "--content", "The quick brown fox and the quick cat"))
			require.NotEmpty(t, id)

			assert.Contains(t, cli.mustRun("list"), id)
			assert.Equal(t, "# Fox\n\nThe quick brown fox and the quick cat", cli.mustRun("show", "--raw"))

			annID := strings.TrimSpace(cli.mustRun("annotate", "quick", "--occurrence", "2", "--color", "green", "--tag", "speed"))
			require.NotEmpty(t, annID)

			var anns []core.Annotation
			require.NoError(t, json.Unmarshal([]byte(cli.mustRun("annotations", "--json")), &anns))
			require.Len(t, anns, 1)
			assert.Equal(t, "highlight-green", anns[0].Class())
			assert.Equal(t, 28, anns[0].StartOffset)
			assert.Equal(t, 33, anns[0].EndOffset)
			assert.Equal(t, []string{"speed"}, anns[0].Tags)

			html := cli.mustRun("render")
			assert.Contains(t, html, `data-annotation-id="`+annID+`"`)
			assert.Contains(t, html, "highlight-green")

			cli.mustRun("tag", "add", annID, "  animals ", "speed")
			assert.Equal(t, "speed\nanimals\n", cli.mustRun("tag", "list"))
			cli.mustRun("tag", "rm", annID, "speed")

			out := cli.mustRun("suggest", annID, "SPE")
			assert.Contains(t, out, "create tag:")

			cli.mustRun("recolor", annID, "blue")
			_, err := cli.run("recolor", annID, "red")
			assert.Error(t, err, "red is not a highlight color")

			cli.mustRun("unannotate", annID)
			require.NoError(t, json.Unmarshal([]byte(cli.mustRun("annotations", "--json")), &anns))
			assert.Empty(t, anns)

			cli.mustRun("delete", id)
			_, err = cli.run("show")
			assert.Error(t, err)
		})
	}
}

func TestCLI_Errors(t *testing.T) {
	cli := newCLI(t, "json")

	t.Run("Annotate Missing Text", func(t *testing.T) {
		cli.mustRun("new", "--content", "alpha")
		_, err := cli.run("annotate", "omega")
		assert.Error(t, err)
	})

	t.Run("Page On Markdown Note", func(t *testing.T) {
		_, err := cli.run("page", "next")
		assert.Error(t, err)
	})

	t.Run("Reset Needs Confirmation", func(t *testing.T) {
		_, err := cli.run("reset")
		assert.Error(t, err)
		cli.mustRun("reset", "--yes")
		assert.Empty(t, cli.mustRun("list"))
	})

	t.Run("Import Without Matches", func(t *testing.T) {
		_, err := cli.run("import", filepath.Join(cli.dir, "*.pdf"))
		assert.Error(t, err)
	})

	t.Run("Unknown Backend", func(t *testing.T) {
		_, err := cli.run("list", "--backend", "toml")
		assert.Error(t, err)
	})
}

func TestCLI_Status(t *testing.T) {
	cli := newCLI(t, "json")
	cli.mustRun("new")

	var report statusReport
	require.NoError(t, json.Unmarshal([]byte(cli.mustRun("status", "--json")), &report))
	assert.Equal(t, "json", report.Backend)
	assert.Contains(t, report.Components, "store")
	assert.Contains(t, report.Components, "fs")
}

func TestFindOccurrence(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		text       string
		n          int
		start, end int
		ok         bool
	}{
		{"First", "a cat a cat", "cat", 1, 2, 5, true},
		{"Second", "a cat a cat", "cat", 2, 8, 11, true},
		{"Missing", "a cat", "dog", 1, 0, 0, false},
		{"Too Far", "a cat", "cat", 2, 0, 0, false},
		{"Runes", "été été", "été", 2, 4, 7, true},
		{"Empty", "abc", "", 1, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := findOccurrence(tt.source, tt.text, tt.n)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "a b", truncate("a\n  b", 10))
	assert.Equal(t, "abc…", truncate("abcdefg", 4))
}
