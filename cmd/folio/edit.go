package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/core"
)

var (
	editTitle   string
	editContent string
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Change the title or content of a note",
	Long: `Edit updates a note's title and/or content. Use --content - to read the new
content from stdin. Existing annotations are kept and re-matched by their text.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ws, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer ws.Close()

		if _, err := resolveNote(ws.Store, args[0]); err != nil {
			return err
		}

		var patch core.NotePatch
		if cmd.Flags().Changed("title") {
			patch.Title = &editTitle
		}
		if cmd.Flags().Changed("content") {
			content, err := readContent(editContent)
			if err != nil {
				return err
			}
			patch.Content = &content
		}
		if patch.Title == nil && patch.Content == nil {
			return fmt.Errorf("nothing to change: pass --title or --content")
		}

		if err := ws.Store.UpdateNote(ctx, args[0], patch); err != nil {
			return fmt.Errorf("failed to update note: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Note updated: %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editContent, "content", "", "New markdown content, or - to read stdin")
}
