package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/annotate"
)

var pageCmd = &cobra.Command{
	Use:   "page [id] <n|next|prev>",
	Short: "Navigate the pages of a PDF note",
	Long: `Page moves a PDF note's reader to page n (1-based), or to the next or previous page.
Out of range pages are ignored. Without an id the active note is used.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ws, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer ws.Close()

		id, target := "", args[0]
		if len(args) == 2 {
			id, target = args[0], args[1]
		}
		note, err := resolveNote(ws.Store, id)
		if err != nil {
			return err
		}
		if !note.IsPDF {
			return fmt.Errorf("note %s is not a PDF document", note.ID)
		}

		engine := newEngine(ws.Store, note, true)
		defer engine.Close()

		switch target {
		case "next":
			err = engine.NextPage(ctx)
		case "prev":
			err = engine.PrevPage(ctx)
		default:
			n, convErr := strconv.Atoi(target)
			if convErr != nil {
				return fmt.Errorf("invalid page %q", target)
			}
			err = engine.GoToPage(ctx, n)
		}
		if err != nil {
			return fmt.Errorf("failed to change page: %w", err)
		}

		note, _ = ws.Store.Note(note.ID)
		if len(note.Pages) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), annotate.NoPagesText)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Page %d of %d\n", note.Page(), len(note.Pages))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pageCmd)
}
