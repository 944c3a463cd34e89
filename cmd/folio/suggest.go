package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [annotation-id] [input]",
	Short: "Suggest existing tags for an annotation",
	Long: `Suggest lists known tags containing the input (case-insensitive) that the
annotation does not carry yet. When nothing matches, the input is offered as a new tag.`,
	Args: cobra.ExactArgs(2),
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

		popup := engine.Popup()
		popup.SetInput(args[1])

		out := cmd.OutOrStdout()
		for _, s := range popup.Suggestions() {
			fmt.Fprintln(out, s)
		}
		if offer, ok := popup.CreateTagOffer(); ok {
			fmt.Fprintf(out, "%s %s\n", mutedStyle.Render("create tag:"), tagStyle.Render(offer))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}
