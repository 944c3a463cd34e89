package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a folio workspace in the current directory",
	Long: `Init writes folio.yaml with the selected backend and creates the storage
(and the git repository when --versioning is set).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}

		path := filepath.Join(cwd, config.FileName)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}

		file := cfg
		if rel, err := filepath.Rel(cwd, cfg.Storage.Path); err == nil && filepath.IsLocal(rel) {
			file.Storage.Path = rel
		}
		if err := file.Save(path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		ws, err := openWorkspace(cmd.Context())
		if err != nil {
			return err
		}
		defer ws.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty folio (%s) in %s\n", ws.Backend, cwd)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
