package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open [id]",
	Short: "Make a note the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ws, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer ws.Close()

		note, err := resolveNote(ws.Store, args[0])
		if err != nil {
			return err
		}
		if err := ws.Store.SetActiveNote(ctx, note.ID); err != nil {
			return fmt.Errorf("failed to open note: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Active note: %s %s\n", note.ID, note.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
