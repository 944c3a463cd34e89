package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Long:  `Delete permanently removes a note and its annotations. Deleting the active note leaves no note active.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ws, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer ws.Close()

		id := args[0]
		if _, err := resolveNote(ws.Store, id); err != nil {
			return err
		}
		if err := ws.Store.DeleteNote(ctx, id); err != nil {
			return fmt.Errorf("failed to delete note: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Note deleted: %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
