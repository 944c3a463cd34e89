package main

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/annotate"
	"github.com/aretw0/folio/pkg/core"
)

var (
	showRaw  bool
	showJSON bool
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a note in the terminal",
	Long: `Show renders a note's markdown for the terminal. PDF notes show their current page.
Without an id the active note is shown. Use --raw for the source or --json for the record.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(cmd.Context())
		if err != nil {
			return err
		}
		defer ws.Close()

		note, err := resolveNote(ws.Store, optionalArg(args, 0))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if showJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(note)
		}

		source := showSource(note)
		if showRaw {
			fmt.Fprint(out, source)
			return nil
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(terminalWidth()),
		)
		if err != nil {
			return fmt.Errorf("failed to create terminal renderer: %w", err)
		}
		rendered, err := renderer.Render(source)
		if err != nil {
			return fmt.Errorf("failed to render note: %w", err)
		}
		fmt.Fprint(out, rendered)
		return nil
	},
}

// showSource is the markdown displayed for a note: its content, or the
// current page of a PDF note.
func showSource(n core.Note) string {
	if !n.IsPDF {
		return "# " + n.Title + "\n\n" + n.Content
	}
	if len(n.Pages) == 0 {
		return "# " + n.Title + "\n\n" + annotate.NoPagesText + "\n"
	}
	page := n.Page()
	return fmt.Sprintf("# %s\n\n## Page %d of %d\n\n%s\n", n.Title, page, len(n.Pages), n.PageText(page))
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the markdown source")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output the note record as JSON")
}
