package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/pdfimport"
)

var importQuiet bool

var importCmd = &cobra.Command{
	Use:   "import [pattern...]",
	Short: "Import PDF files as paginated notes",
	Long: `Import extracts the text of each page of the matching PDF files into a new note.
Patterns use doublestar syntax, e.g. "papers/**/*.pdf". A file that fails to
import is reported and the rest of the batch continues.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ws, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer ws.Close()

		errOut := cmd.ErrOrStderr()
		opts := []pdfimport.Option{pdfimport.WithLogger(slog.Default())}
		if !importQuiet {
			opts = append(opts, pdfimport.WithProgress(func(percent int) {
				fmt.Fprintf(errOut, "\r%3d%%", percent)
				if percent == 100 {
					fmt.Fprintln(errOut)
				}
			}))
		}
		importer := pdfimport.NewImporter(ws.Store, opts...)

		out := cmd.OutOrStdout()
		failed := 0
		matched := 0
		for _, pattern := range args {
			results, err := importer.ImportGlob(ctx, pattern)
			if err != nil {
				return err
			}
			matched += len(results)
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(errOut, "Failed to import %s: %v\n", r.Path, r.Err)
					continue
				}
				fmt.Fprintf(out, "%s %s (%d pages)\n", r.Note.ID, r.Note.Title, len(r.Note.Pages))
			}
		}

		if matched == 0 {
			return fmt.Errorf("no files match %v", args)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed to import", failed, matched)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVarP(&importQuiet, "quiet", "q", false, "Do not report progress")
}
