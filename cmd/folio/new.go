package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/core"
)

var (
	newTitle   string
	newContent string
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a note and make it active",
	Long:  `Create a blank note titled "Untitled Note". Use --title and --content (or --content - for stdin) to fill it in.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ws, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer ws.Close()

		note, err := ws.Store.CreateNote(ctx)
		if err != nil {
			return fmt.Errorf("failed to create note: %w", err)
		}

		var patch core.NotePatch
		if cmd.Flags().Changed("title") {
			patch.Title = &newTitle
		}
		if cmd.Flags().Changed("content") {
			content, err := readContent(newContent)
			if err != nil {
				return err
			}
			patch.Content = &content
		}
		if patch.Title != nil || patch.Content != nil {
			if err := ws.Store.UpdateNote(ctx, note.ID, patch); err != nil {
				return fmt.Errorf("failed to update note: %w", err)
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), note.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVar(&newTitle, "title", "", "Note title")
	newCmd.Flags().StringVar(&newContent, "content", "", "Markdown content, or - to read stdin")
}
