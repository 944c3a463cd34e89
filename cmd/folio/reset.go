package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every note and annotation",
	Long:  `Reset overwrites the stored state with an empty one. It requires --yes.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			return fmt.Errorf("refusing to reset without --yes")
		}
		ctx := cmd.Context()
		ws, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer ws.Close()

		if err := ws.Store.Reset(ctx); err != nil {
			return fmt.Errorf("failed to reset: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All notes deleted")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Confirm the reset")
}
