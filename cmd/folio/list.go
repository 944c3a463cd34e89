package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/core"
)

var (
	listJSON  bool
	filterTag string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(cmd.Context())
		if err != nil {
			return err
		}
		defer ws.Close()

		snapshot := ws.Store.Snapshot()
		var filtered []core.Note
		for _, note := range snapshot.Notes {
			if filterTag != "" && !hasTag(note, filterTag) {
				continue
			}
			filtered = append(filtered, note)
		}

		out := cmd.OutOrStdout()
		if listJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			if filtered == nil {
				filtered = []core.Note{}
			}
			return encoder.Encode(filtered)
		}

		for _, note := range filtered {
			marker := " "
			if note.ID == snapshot.ActiveNoteID {
				marker = activeStyle.Render("*")
			}
			kind := ""
			if note.IsPDF {
				kind = mutedStyle.Render(fmt.Sprintf(" [pdf %d/%d]", note.Page(), len(note.Pages)))
			}
			fmt.Fprintf(out, "%s %s %s%s %s\n", marker, note.ID, titleStyle.Render(note.Title), kind,
				mutedStyle.Render(fmt.Sprintf("(%d annotations)", len(note.Annotations))))
		}
		return nil
	},
}

func hasTag(n core.Note, tag string) bool {
	for _, a := range n.Annotations {
		if a.HasTag(tag) {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&filterTag, "tag", "", "Only notes with an annotation carrying this tag")
}
