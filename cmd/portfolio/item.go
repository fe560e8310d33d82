package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nhle/portfolio/internal/model"
	"github.com/nhle/portfolio/internal/store"
	"github.com/nhle/portfolio/internal/theme"
)

var (
	itemTitle     string
	itemDetail    string
	itemPriority  string
	itemProject   string
	itemCompleted bool
	itemOpen      bool
	itemSort      string
	itemQuery     string
)

var itemCmd = &cobra.Command{
	Use:     "item",
	Aliases: []string{"items", "i"},
	Short:   "Manage the items of a project",
}

var itemAddCmd = &cobra.Command{
	Use:   "add [project-id]",
	Short: "Add an item to a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemAdd,
}

var itemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List items",
	Args:  cobra.NoArgs,
	RunE:  runItemList,
}

var itemToggleCmd = &cobra.Command{
	Use:   "toggle [item-id]",
	Short: "Mark an item completed, or open again",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemToggle,
}

var itemDeleteCmd = &cobra.Command{
	Use:   "delete [item-id]",
	Short: "Delete an item",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemDelete,
}

func init() {
	itemAddCmd.Flags().StringVarP(&itemTitle, "title", "t", "", "Item title")
	itemAddCmd.Flags().StringVarP(&itemDetail, "detail", "d", "", "Item description")
	itemAddCmd.Flags().StringVarP(&itemPriority, "priority", "p", "low", "low, medium or high")

	itemListCmd.Flags().StringVar(&itemProject, "project", "", "Only items of this project")
	itemListCmd.Flags().BoolVar(&itemCompleted, "completed", false, "Only completed items")
	itemListCmd.Flags().BoolVar(&itemOpen, "open", false, "Only open items")
	itemListCmd.Flags().StringVar(&itemSort, "sort", "priority", "Sort by creation_date, priority or title")
	itemListCmd.Flags().StringVarP(&itemQuery, "query", "q", "", "Title or detail contains")
	itemListCmd.MarkFlagsMutuallyExclusive("completed", "open")

	itemCmd.AddCommand(itemAddCmd)
	itemCmd.AddCommand(itemListCmd)
	itemCmd.AddCommand(itemToggleCmd)
	itemCmd.AddCommand(itemDeleteCmd)
}

func runItemAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c := env.controller

	priority, err := model.ParsePriority(itemPriority)
	if err != nil {
		return err
	}
	p, err := resolveProject(ctx, args[0])
	if err != nil {
		return err
	}

	it, err := c.AddItem(ctx, p.ID)
	if err != nil {
		return err
	}
	it.Title = itemTitle
	it.Detail = itemDetail
	it.Priority = priority
	if err := c.UpdateItem(ctx, it); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s to %s\n",
		shortID(it.ID), it.DisplayTitle(), p.DisplayTitle())
	return nil
}

func runItemList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c := env.controller

	filter := store.ItemFilter{SortBy: itemSort, SortDesc: itemSort == "priority"}
	if itemProject != "" {
		p, err := resolveProject(ctx, itemProject)
		if err != nil {
			return err
		}
		filter.ProjectID = store.Ptr(p.ID)
	}
	switch {
	case itemCompleted:
		filter.Completed = store.Ptr(true)
	case itemOpen:
		filter.Completed = store.Ptr(false)
	}
	if itemQuery != "" {
		filter.Query = store.Ptr(itemQuery)
	}

	items, err := c.Items(ctx, filter)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, theme.HelpStyle.Render("No items."))
		return nil
	}

	dim := lipgloss.NewStyle().Foreground(theme.ColorGray)
	for _, it := range items {
		check := "[ ]"
		if it.Completed {
			check = "[x]"
		}
		fmt.Fprintf(out, "%s  %s %s  %s\n",
			dim.Render(shortID(it.ID)),
			check,
			it.DisplayTitle(),
			theme.PriorityStyle(it.Priority).Render(it.Priority.String()))
	}
	return nil
}

func runItemToggle(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	it, err := resolveItem(ctx, args[0])
	if err != nil {
		return err
	}
	it, err = env.controller.ToggleCompleted(ctx, it.ID)
	if err != nil {
		return err
	}
	verb := "Reopened"
	if it.Completed {
		verb = "Completed"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, it.DisplayTitle())
	return nil
}

func runItemDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	it, err := resolveItem(ctx, args[0])
	if err != nil {
		return err
	}
	if err := env.controller.DeleteItem(ctx, it.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", it.DisplayTitle())
	return nil
}
