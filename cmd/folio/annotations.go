package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/core"
)

var (
	annotationsJSON bool
	annotationsTag  string
	annotationsPage int
)

var annotationsCmd = &cobra.Command{
	Use:   "annotations [id]",
	Short: "List the annotations of a note",
	Long: `Annotations lists a note's highlights and underlines with their tags.
Without an id the active note is used.`,
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

		anns := note.Annotations
		if cmd.Flags().Changed("page") {
			anns = note.PageAnnotations(annotationsPage)
		}
		filtered := []core.Annotation{}
		for _, a := range anns {
			if annotationsTag != "" && !a.HasTag(annotationsTag) {
				continue
			}
			filtered = append(filtered, a)
		}

		out := cmd.OutOrStdout()
		if annotationsJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(filtered)
		}

		width := terminalWidth()
		for _, a := range filtered {
			where := fmt.Sprintf("%d-%d", a.StartOffset, a.EndOffset)
			if a.Page != 0 {
				where = fmt.Sprintf("p%d %s", a.Page, where)
			}
			fmt.Fprintf(out, "%s %s %s %s\n",
				a.ID,
				mutedStyle.Render(a.Class()),
				annotationStyle(a).Render(truncate(a.Text, width/2)),
				mutedStyle.Render(where))
			if len(a.Tags) > 0 {
				fmt.Fprintf(out, "    %s\n", chips(a.Tags))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(annotationsCmd)
	annotationsCmd.Flags().BoolVar(&annotationsJSON, "json", false, "Output in JSON format")
	annotationsCmd.Flags().StringVar(&annotationsTag, "tag", "", "Only annotations carrying this tag")
	annotationsCmd.Flags().IntVar(&annotationsPage, "page", 0, "Only annotations of this PDF page")
}
