package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/pkg/config"
)

var (
	verbose    bool
	configPath string
	backend    string
	storePath  string
	versioning bool

	cfg config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Notes and PDF documents with highlights, underlines and tags",
	Long: `Folio keeps markdown notes and imported PDFs in a single state record.
Passages can be highlighted or underlined in a color and tagged; annotations
are re-applied every time a note is rendered.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(resolveConfigPath())
		if err != nil {
			return err
		}
		cfg = loaded

		flags := cmd.Flags()
		if flags.Changed("backend") {
			cfg.Storage.Backend = backend
		}
		if flags.Changed("path") {
			cfg.Storage.Path = storePath
		}
		if flags.Changed("versioning") {
			cfg.Storage.Versioning = versioning
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		level, err := config.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
		if cfg.Log.Format == "json" {
			handler = slog.NewJSONHandler(os.Stderr, opts)
		}
		slog.SetDefault(slog.New(handler))
		return nil
	},
}

// resolveConfigPath picks --config, else folio.yaml at the workspace root,
// else folio.yaml in the working directory.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.FileName
	}
	if root, err := folio.FindRoot(wd); err == nil {
		return filepath.Join(root, config.FileName)
	}
	return filepath.Join(wd, config.FileName)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to folio.yaml")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Storage backend (json, yaml, sqlite, memory)")
	rootCmd.PersistentFlags().StringVar(&storePath, "path", "", "State directory, file or database")
	rootCmd.PersistentFlags().BoolVar(&versioning, "versioning", false, "Commit every save to git (file backends)")
}
