package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/portfolio/internal/app"
	"github.com/nhle/portfolio/internal/model"
)

var (
	lockAgain      bool
	searchLimit    int
	sampleProjects int
	sampleItems    int
	resetYes       bool
	forceConfig    bool
)

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Unlock the full version (unlimited projects)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := env.controller.SetFullVersionUnlocked(!lockAgain); err != nil {
			return err
		}
		if lockAgain {
			fmt.Fprintln(cmd.OutOrStdout(), "Back to the free version.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Full version unlocked. Thank you!")
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search item titles and descriptions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		records, err := env.index.Search(ctx, args[0], searchLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No matches.")
			return nil
		}
		for _, r := range records {
			it, ok := env.controller.ItemWithIdentifier(ctx, r.ID)
			if !ok {
				// Stale record; the item is gone.
				continue
			}
			fmt.Fprintf(out, "%s  %s  %s\n", shortID(it.ID), it.DisplayTitle(), r.Content)
		}
		return nil
	},
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Fill the database with sample projects and items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := env.controller.CreateSampleData(cmd.Context(), sampleProjects, sampleItems); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %d projects with %d items each.\n", sampleProjects, sampleItems)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every project and item",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			confirmed := false
			err := huh.NewConfirm().
				Title("Delete every project and item?").
				Description("This cannot be undone.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&confirmed).
				Run()
			if err != nil {
				return err
			}
			if !confirmed {
				return nil
			}
		}
		if err := env.controller.DeleteAll(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All projects and items deleted.")
		return nil
	},
}

var launchCmd = &cobra.Command{
	Use:    "launch",
	Short:  "Run the app-launch hooks (review prompt)",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env.controller.AppLaunched(cmd.Context())
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a configuration file with the defaults",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{noEnv: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !forceConfig {
			return fmt.Errorf("%s already exists; pass --force to overwrite", configPath)
		}
		if err := model.SaveConfig(configPath, model.DefaultAppConfig()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
		return nil
	},
}

func init() {
	unlockCmd.Flags().BoolVar(&lockAgain, "lock", false, "Return to the free version")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "Maximum results")
	sampleCmd.Flags().IntVar(&sampleProjects, "projects", app.SampleProjects, "Projects to create")
	sampleCmd.Flags().IntVar(&sampleItems, "items", app.SampleItemsPerProject, "Items per project")
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Do not ask for confirmation")
	configInitCmd.Flags().BoolVarP(&forceConfig, "force", "f", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
}
