package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/portfolio/internal/award"
	"github.com/nhle/portfolio/internal/keys"
	"github.com/nhle/portfolio/internal/theme"
	awardsui "github.com/nhle/portfolio/internal/ui/awards"
)

var awardsTUI bool

var awardsCmd = &cobra.Command{
	Use:   "awards",
	Short: "Show which awards you have earned",
	Args:  cobra.NoArgs,
	RunE:  runAwards,
}

func init() {
	awardsCmd.Flags().BoolVar(&awardsTUI, "tui", false, "Browse awards in an interactive grid")
}

func runAwards(cmd *cobra.Command, args []string) error {
	if awardsTUI {
		return runAwardsTUI(cmd)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	statuses := env.controller.AwardStatuses(ctx)

	earned := 0
	for _, s := range statuses {
		if s.Earned {
			earned++
		}
	}
	fmt.Fprintln(out, theme.HeaderStyle.Render(fmt.Sprintf("Awards %d/%d", earned, len(statuses))))

	for _, s := range statuses {
		color := award.ColorName(s.Award, s.Earned)
		mark := lipgloss.NewStyle().Foreground(theme.PaletteColor(color)).Render("●")
		title, message := award.Alert(s.Award, s.Earned)
		fmt.Fprintf(out, "%s %-28s %s\n", mark, title, theme.HelpStyle.Render(message))
	}
	return nil
}

func runAwardsTUI(cmd *cobra.Command) error {
	ctx := cmd.Context()
	m := awardsui.New(env.controller, keys.DefaultKeyMap(), 80, 24)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if env.cfg.Database.WatchChanges {
		stop, err := env.watch(ctx)
		if err != nil {
			env.logger.Warn("watching database failed", zap.Error(err))
		} else {
			defer stop()
		}
	}

	changes, unsubscribe := env.controller.Subscribe()
	defer unsubscribe()
	go func() {
		for range changes {
			program.Send(awardsui.RefreshMsg{})
		}
	}()

	_, err := program.Run()
	return err
}
