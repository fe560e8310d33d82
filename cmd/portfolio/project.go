package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nhle/portfolio/internal/model"
	"github.com/nhle/portfolio/internal/store"
	"github.com/nhle/portfolio/internal/theme"
)

// projectFields are the editable project flags shared by add and edit.
type projectFields struct {
	title      string
	detail     string
	color      string
	reminder   string
	noReminder bool
}

var (
	addProjectFields  projectFields
	editProjectFields projectFields
	interactiveAdd    bool
	listClosed        bool
	listOpen          bool
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects", "p"},
	Short:   "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a project",
	Long: `Creates an open project. Without the full version at most 3 projects
may exist at once.`,
	Args: cobra.NoArgs,
	RunE: runProjectAdd,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects, newest first",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectCloseCmd = &cobra.Command{
	Use:   "close [project-id]",
	Short: "Close an open project, or reopen a closed one",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectClose,
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete [project-id]",
	Short: "Delete a project and all of its items",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectDelete,
}

var projectEditCmd = &cobra.Command{
	Use:   "edit [project-id]",
	Short: "Change a project's title, detail, color or reminder",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectEdit,
}

func init() {
	bindProjectFields(projectAddCmd, &addProjectFields)
	projectAddCmd.Flags().BoolVarP(&interactiveAdd, "interactive", "i", false, "Fill in the project with a form")

	bindProjectFields(projectEditCmd, &editProjectFields)
	projectEditCmd.Flags().BoolVar(&editProjectFields.noReminder, "no-reminder", false, "Turn the daily reminder off")

	projectListCmd.Flags().BoolVar(&listClosed, "closed", false, "Only closed projects")
	projectListCmd.Flags().BoolVar(&listOpen, "open", false, "Only open projects")
	projectListCmd.MarkFlagsMutuallyExclusive("closed", "open")

	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectCloseCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	projectCmd.AddCommand(projectEditCmd)
}

func bindProjectFields(cmd *cobra.Command, f *projectFields) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Project title")
	cmd.Flags().StringVarP(&f.detail, "detail", "d", "", "Project description")
	cmd.Flags().StringVar(&f.color, "color", "", "Palette color: "+strings.Join(model.ProjectColors, ", "))
	cmd.Flags().StringVar(&f.reminder, "reminder", "", "Daily reminder time, HH:MM")
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c := env.controller

	if !c.CanCreateProject(ctx) {
		return fmt.Errorf("the free version keeps %d projects; run 'portfolio unlock' for more",
			env.cfg.Gating.FreeProjectLimit)
	}

	f := addProjectFields
	if interactiveAdd {
		if err := projectForm(&f).RunWithContext(ctx); err != nil {
			return fmt.Errorf("project form: %w", err)
		}
	}

	p, ok := c.AddProject(ctx)
	if !ok {
		return fmt.Errorf("project not created")
	}
	changed, err := applyProjectFields(&p, f)
	if err != nil {
		// Leave the new project in place with defaults.
		return err
	}
	if changed {
		if err := c.UpdateProject(ctx, p); err != nil {
			return err
		}
	}
	syncReminder(ctx, cmd, p, f)

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s\n",
		shortID(p.ID), theme.ProjectStyle(p).Render(p.DisplayTitle()))
	return nil
}

// projectForm is the interactive `project add` form.
func projectForm(f *projectFields) *huh.Form {
	colors := make([]huh.Option[string], 0, len(model.ProjectColors))
	for _, name := range model.ProjectColors {
		colors = append(colors, huh.NewOption(name, name))
	}
	if f.color == "" {
		f.color = model.DefaultProjectColor
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("New Project").
				Value(&f.title),
			huh.NewText().
				Title("Description").
				Placeholder("Optional description").
				Value(&f.detail),
			huh.NewSelect[string]().
				Title("Color").
				Options(colors...).
				Value(&f.color),
			huh.NewInput().
				Title("Daily reminder").
				Placeholder("HH:MM, blank for none").
				Value(&f.reminder).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					_, err := model.ParseTimeOfDay(s)
					return err
				}),
		),
	)
}

// applyProjectFields copies the set fields onto p and reports whether any changed.
func applyProjectFields(p *model.Project, f projectFields) (bool, error) {
	changed := false
	if f.title != "" {
		p.Title = f.title
		changed = true
	}
	if f.detail != "" {
		p.Detail = f.detail
		changed = true
	}
	if f.color != "" {
		if !model.IsProjectColor(f.color) {
			return false, fmt.Errorf("unknown color %q; choose one of %s",
				f.color, strings.Join(model.ProjectColors, ", "))
		}
		p.Color = f.color
		changed = true
	}
	switch {
	case f.noReminder:
		if p.ReminderTime != nil {
			p.ReminderTime = nil
			changed = true
		}
	case f.reminder != "":
		t, err := model.ParseTimeOfDay(f.reminder)
		if err != nil {
			return false, err
		}
		p.ReminderTime = &t
		changed = true
	}
	return changed, nil
}

// syncReminder places or removes the reminder to match the flags.
func syncReminder(ctx context.Context, cmd *cobra.Command, p model.Project, f projectFields) {
	switch {
	case f.noReminder:
		env.controller.DisableReminders(ctx, p)
	case f.reminder != "":
		if !enableAndWait(ctx, p) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Reminder not scheduled: notifications are not allowed.")
		}
	}
}

func runProjectList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c := env.controller

	filter := store.ProjectFilter{}
	switch {
	case listClosed:
		filter.Closed = store.Ptr(true)
	case listOpen:
		filter.Closed = store.Ptr(false)
	}

	projects, err := c.Projects(ctx, filter)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(projects) == 0 {
		fmt.Fprintln(out, theme.HelpStyle.Render("No projects. Create one with 'portfolio project add'."))
		return nil
	}

	dim := lipgloss.NewStyle().Foreground(theme.ColorGray)
	for _, p := range projects {
		items, err := c.Items(ctx, store.ItemFilter{ProjectID: store.Ptr(p.ID)})
		if err != nil {
			return err
		}
		state := "open"
		if p.Closed {
			state = "closed"
		}
		reminder := ""
		if p.ReminderTime != nil {
			reminder = " ⏰ " + p.ReminderTime.String()
		}
		fmt.Fprintf(out, "%s  %s  %s%s\n",
			dim.Render(shortID(p.ID)),
			theme.ProjectStyle(p).Render(p.DisplayTitle()),
			dim.Render(fmt.Sprintf("%s, %d items, %.0f%% done", state, len(items), model.CompletionAmount(items)*100)),
			reminder)
	}
	return nil
}

func runProjectClose(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, err := resolveProject(ctx, args[0])
	if err != nil {
		return err
	}
	p, err = env.controller.ToggleClosed(ctx, p.ID)
	if err != nil {
		return err
	}
	verb := "Reopened"
	if p.Closed {
		verb = "Closed"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, p.DisplayTitle())
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, err := resolveProject(ctx, args[0])
	if err != nil {
		return err
	}
	if err := env.controller.DeleteProject(ctx, p.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", p.DisplayTitle())
	return nil
}

func runProjectEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, err := resolveProject(ctx, args[0])
	if err != nil {
		return err
	}

	f := editProjectFields
	changed, err := applyProjectFields(&p, f)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to change.")
		return nil
	}
	if err := env.controller.UpdateProject(ctx, p); err != nil {
		return err
	}
	syncReminder(ctx, cmd, p, f)
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", theme.ProjectStyle(p).Render(p.DisplayTitle()))
	return nil
}
