package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/portfolio/internal/model"
)

var remindersCmd = &cobra.Command{
	Use:     "reminders",
	Aliases: []string{"reminder"},
	Short:   "Turn a project's daily reminder on or off",
}

var remindersEnableCmd = &cobra.Command{
	Use:   "enable [project-id]",
	Short: "Schedule the project's daily reminder",
	Long: `Schedules a repeating notification at the project's reminder time, or at
the current time of day when the project has none. Asks for notification
permission the first time.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemindersEnable,
}

var remindersDisableCmd = &cobra.Command{
	Use:   "disable [project-id]",
	Short: "Remove the project's daily reminder",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemindersDisable,
}

var remindersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show scheduled reminders",
	Args:  cobra.NoArgs,
	RunE:  runRemindersList,
}

func init() {
	remindersCmd.AddCommand(remindersEnableCmd)
	remindersCmd.AddCommand(remindersDisableCmd)
	remindersCmd.AddCommand(remindersListCmd)
}

// enableAndWait enables the reminder in the background and services the
// main queue until its completion has run there.
func enableAndWait(ctx context.Context, p model.Project) bool {
	var scheduled, finished bool
	env.controller.EnableRemindersAsync(ctx, p, func(ok bool) {
		scheduled = ok
		finished = true
	})
	for !finished && env.queue.Next(ctx) {
	}
	return scheduled
}

func runRemindersEnable(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, err := resolveProject(ctx, args[0])
	if err != nil {
		return err
	}
	if !enableAndWait(ctx, p) {
		return fmt.Errorf("reminder for %s not scheduled: notifications are not allowed", p.DisplayTitle())
	}

	at := "now"
	if p.ReminderTime != nil {
		at = p.ReminderTime.String()
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Reminder for %s scheduled daily at %s\n", p.DisplayTitle(), at)
	return nil
}

func runRemindersDisable(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, err := resolveProject(ctx, args[0])
	if err != nil {
		return err
	}
	env.controller.DisableReminders(ctx, p)
	fmt.Fprintf(cmd.OutOrStdout(), "Reminder for %s removed\n", p.DisplayTitle())
	return nil
}

func runRemindersList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pending, err := env.center.Pending(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(pending) == 0 {
		fmt.Fprintln(out, "No reminders scheduled.")
		return nil
	}
	for _, req := range pending {
		fmt.Fprintf(out, "%02d:%02d  %s\n", req.Trigger.Hour, req.Trigger.Minute, req.Content.Title)
	}
	return nil
}
