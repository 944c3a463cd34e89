package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"
)

var (
	statusJSON    bool
	statusHistory int
)

// statusReport gathers the introspection state of the opened components.
type statusReport struct {
	Backend    string         `json:"backend"`
	Path       string         `json:"path,omitempty"`
	Components map[string]any `json:"components"`
	History    []string       `json:"history,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the store and its persister",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ws, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer ws.Close()

		report := statusReport{
			Backend:    ws.Backend,
			Path:       ws.Path,
			Components: map[string]any{},
		}
		for _, c := range []any{ws.Store, ws.Persister} {
			comp, ok := c.(introspection.Component)
			if !ok {
				continue
			}
			if in, ok := c.(introspection.Introspectable); ok {
				report.Components[comp.ComponentType()] = in.State()
			}
		}
		if statusHistory > 0 {
			report.History, err = ws.History(ctx, statusHistory)
			if err != nil {
				return fmt.Errorf("failed to read history: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		if statusJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(report)
		}

		fmt.Fprintf(out, "%s %s\n", titleStyle.Render("backend:"), report.Backend)
		if report.Path != "" {
			fmt.Fprintf(out, "%s %s\n", titleStyle.Render("path:"), report.Path)
		}
		for name, state := range report.Components {
			data, err := json.Marshal(state)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s\n", titleStyle.Render(name+":"), data)
		}
		for _, line := range report.History {
			fmt.Fprintf(out, "  %s\n", mutedStyle.Render(line))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
	statusCmd.Flags().IntVar(&statusHistory, "history", 5, "Number of versions to list when versioning is on")
}
