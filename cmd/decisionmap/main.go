package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"decisionmap/internal/config"
	"decisionmap/internal/logging"
	"decisionmap/internal/store"
)

var (
	// Global flags
	verbose    bool
	configPath string
	dbPath     string

	cfg    config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "decisionmap",
	Short: "decisionmap - behavioral context engine for campaign planning",
	Long: `decisionmap turns a structured campaign record into a validated Decision Map
and a planner-facing narrative brief, then files the pair into an append-only,
searchable case library.

Generation runs as two passes: Pass A reasons the campaign into a strict
Decision Map schema, Pass B renders the brief from that map alone. Backends
are selectable (offline, gemini, openai); the offline backend is deterministic
and needs no credentials.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DBPath = dbPath
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// openStore opens the case library at the configured path.
func openStore() (*store.Store, error) {
	return store.Open(cfg.DBPath, logger)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (optional)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Case library path (overrides config and BCE_DB_PATH)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
