package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var recolorCmd = &cobra.Command{
	Use:   "recolor [annotation-id] [color]",
	Short: "Change the color of an annotation",
	Long:  `Recolor picks another palette color of the annotation's type. The type itself cannot change.`,
	Args:  cobra.ExactArgs(2),
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

		a, _ := engine.Popup().Annotation()
		if err := engine.Popup().Apply(ctx, a.Type, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Annotation %s is now %s-%s\n", a.ID, a.Type, args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recolorCmd)
}
