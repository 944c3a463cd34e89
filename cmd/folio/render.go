package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	folioLifecycle "github.com/aretw0/folio/pkg/adapters/lifecycle"
	"github.com/aretw0/folio/pkg/annotate"
)

var renderWatch bool

var renderCmd = &cobra.Command{
	Use:   "render [id]",
	Short: "Render a note to HTML with its annotations applied",
	Long: `Render prints the note's HTML with every annotation wrapped in a marker element.
PDF notes render their current page. With --watch the output is re-rendered whenever
the state file changes on disk (file backends only).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ws, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer ws.Close()

		note, err := resolveNote(ws.Store, optionalArg(args, 0))
		if err != nil {
			return err
		}
		engine := newEngine(ws.Store, note, true)
		defer engine.Close()

		out := cmd.OutOrStdout()
		if err := renderTo(ctx, out, engine); err != nil {
			return err
		}
		if !renderWatch {
			return nil
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()

		events, err := ws.Watch(ctx)
		if err != nil {
			return err
		}
		source := folioLifecycle.NewSource(events)
		if err := source.Start(ctx); err != nil {
			return err
		}

		slog.Info("watching for changes", "path", ws.Path)
		for e := range source.Events() {
			slog.Debug("state changed", "event", e.String())
			if err := ws.Store.Reload(ctx); err != nil {
				slog.Error("failed to reload state", "error", err)
				continue
			}
			if err := renderTo(ctx, out, engine); err != nil {
				return err
			}
		}
		return nil
	},
}

func renderTo(ctx context.Context, w io.Writer, engine *annotate.Engine) error {
	html, err := engine.Render(ctx)
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	fmt.Fprintln(w, html)
	return nil
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().BoolVarP(&renderWatch, "watch", "w", false, "Re-render when the state changes")
}
