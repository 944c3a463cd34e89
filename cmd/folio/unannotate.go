package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unannotateCmd = &cobra.Command{
	Use:   "unannotate [annotation-id]",
	Short: "Remove an annotation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ws, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer ws.Close()

		engine, err := openEditPopup(ctx, ws.Store, args[0])
		if err != nil {
			return err
		}
		defer engine.Close()

		if err := engine.Popup().Delete(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Annotation deleted: %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unannotateCmd)
}
