package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/core"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage the tags of an annotation",
}

var tagAddCmd = &cobra.Command{
	Use:   "add [annotation-id] [tag...]",
	Short: "Attach tags to an annotation",
	Long:  `Add trims each tag and ignores blanks and tags already present.`,
	Args:  cobra.MinimumNArgs(2),
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

		if err := addTags(ctx, engine, args[0], args[1:]); err != nil {
			return err
		}
		a, _ := engine.Popup().Annotation()
		printTags(cmd, a)
		return nil
	},
}

var tagRmCmd = &cobra.Command{
	Use:     "rm [annotation-id] [tag...]",
	Aliases: []string{"remove"},
	Short:   "Detach tags from an annotation",
	Args:    cobra.MinimumNArgs(2),
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

		for _, tag := range args[1:] {
			if err := engine.Popup().RemoveTag(ctx, tag); err != nil {
				return err
			}
		}
		a, _ := engine.Popup().Annotation()
		printTags(cmd, a)
		return nil
	},
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every tag in use, in first-seen order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(cmd.Context())
		if err != nil {
			return err
		}
		defer ws.Close()

		for _, t := range ws.Store.Tags() {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
		return nil
	},
}

func printTags(cmd *cobra.Command, a core.Annotation) {
	if len(a.Tags) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s has no tags\n", a.ID)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", a.ID, strings.Join(a.Tags, ", "))
}

func init() {
	rootCmd.AddCommand(tagCmd)
	tagCmd.AddCommand(tagAddCmd, tagRmCmd, tagListCmd)
}
