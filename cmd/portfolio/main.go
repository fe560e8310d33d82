package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/portfolio/internal/model"
)

var (
	// Global flags
	configPath string
	dbPath     string
	inMemory   bool
	verbose    bool

	// Set by PersistentPreRunE for commands that need the store.
	env *environment
)

// noEnv marks commands that run without opening the store.
const noEnv = "no-env"

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal project and task tracker",
	Long: `portfolio keeps projects and their items in a local SQLite database,
awards achievements as you add and complete items, and schedules a daily
reminder per project.

Free installs may keep 3 projects; run 'portfolio unlock' for more.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[noEnv] == "true" {
			return nil
		}

		cfg, err := model.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Database.Path = dbPath
		}
		if inMemory {
			cfg.Database.InMemory = true
		}
		if verbose {
			cfg.Log.Level = "debug"
		}

		env, err = openEnvironment(cfg)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if env == nil {
			return
		}
		if err := env.Close(); err != nil {
			env.logger.Warn("closing environment failed", zap.Error(err))
		}
		_ = env.logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", model.DefaultConfigPath(), "Config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file (overrides database.path)")
	rootCmd.PersistentFlags().BoolVar(&inMemory, "memory", false, "Use a throwaway in-memory database")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(itemCmd)
	rootCmd.AddCommand(awardsCmd)
	rootCmd.AddCommand(remindersCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
