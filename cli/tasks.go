package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"taskboard/app"
	"taskboard/model"
)

func newAddCommand(s *session) *cobra.Command {
	var (
		description string
		priority    string
		due         string
		category    string
		tags        []string
	)
	cmd := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := app.TaskInput{
				Title:       strings.Join(args, " "),
				Description: description,
				Tags:        tags,
			}
			if priority != "" {
				p, err := parsePriority(priority)
				if err != nil {
					return err
				}
				in.Priority = p
			}
			if due != "" {
				d, err := parseDue(due, s.svc.Now(), s.svc.Location())
				if err != nil {
					return err
				}
				in.DueDate = &d
			}
			if category != "" {
				id, err := resolveCategoryID(s.svc, category)
				if err != nil {
					return err
				}
				in.CategoryID = &id
			}
			task, err := s.svc.AddTask(in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", shortID(task.ID), task.Title)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "desc", "d", "", "description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "priority: low, medium, high or critical")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD, today, tomorrow)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category name or id")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tag (repeatable)")
	return cmd
}

func newListCommand(s *session) *cobra.Command {
	var (
		filter     string
		sortBy     string
		direction  string
		search     string
		tags       []string
		categories []string
		custom     bool
		overdue    bool
		today      bool
		week       bool
		reset      bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks using the saved view",
		Long: `List tasks. --filter, --sort, --dir, --tag and --category update the
saved view, so later runs show the same list; --reset clears it.
--search applies to this run only.`,
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := s.svc
			out := cmd.OutOrStdout()
			if reset {
				svc.ClearAllFilters()
			}
			if filter != "" {
				f, err := parseFilter(filter)
				if err != nil {
					return err
				}
				if err := svc.SetFilter(f); err != nil {
					return err
				}
			}
			if sortBy != "" {
				f, err := parseSortField(sortBy)
				if err != nil {
					return err
				}
				if err := svc.SetSortBy(f); err != nil {
					return err
				}
			}
			if direction != "" {
				d, err := parseSortDirection(direction)
				if err != nil {
					return err
				}
				if err := svc.SetSortDirection(d); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("tag") {
				svc.SetTagFilters(tags)
			}
			if cmd.Flags().Changed("category") {
				ids := make([]string, 0, len(categories))
				for _, c := range categories {
					id, err := resolveCategoryID(svc, c)
					if err != nil {
						return fmt.Errorf("%s: %w", c, err)
					}
					ids = append(ids, id)
				}
				svc.SetCategoryFilters(ids)
			}
			svc.SetSearchQuery(search)

			var tasks []model.Task
			switch {
			case overdue:
				tasks = svc.GetOverdueTasks()
			case today:
				tasks = svc.GetTasksDueToday()
			case week:
				tasks = svc.GetTasksDueThisWeek()
			case custom:
				tasks = svc.GetTasksInCustomOrder()
			default:
				tasks = svc.GetVisibleTasks()
			}
			renderTaskList(out, svc, tasks)
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "status filter: all, active or completed")
	cmd.Flags().StringVarP(&sortBy, "sort", "s", "", "sort by: created, priority, title or due")
	cmd.Flags().StringVar(&direction, "dir", "", "sort direction: asc or desc")
	cmd.Flags().StringVarP(&search, "search", "q", "", "search title and description")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "show tasks with any of these tags")
	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "show tasks in any of these categories (none = uncategorized)")
	cmd.Flags().BoolVar(&custom, "custom", false, "manual order instead of the saved sort")
	cmd.Flags().BoolVar(&overdue, "overdue", false, "only overdue tasks")
	cmd.Flags().BoolVar(&today, "today", false, "only tasks due today")
	cmd.Flags().BoolVar(&week, "week", false, "only tasks due within seven days")
	cmd.Flags().BoolVar(&reset, "reset", false, "clear saved filters first")
	return cmd
}

func newShowCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(s.svc, args[0])
			if err != nil {
				return err
			}
			task, err := s.svc.GetTask(id)
			if err != nil {
				return err
			}
			renderTaskDetail(cmd.OutOrStdout(), s.svc, task)
			return nil
		},
	}
}

func newEditCommand(s *session) *cobra.Command {
	var (
		title       string
		description string
		priority    string
		due         string
		category    string
	)
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(s.svc, args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			var patch app.TaskPatch
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("desc") {
				patch.Description = &description
			}
			if flags.Changed("priority") {
				p, err := parsePriority(priority)
				if err != nil {
					return err
				}
				patch.Priority = &p
			}
			if flags.Changed("due") && !strings.EqualFold(due, "none") {
				d, err := parseDue(due, s.svc.Now(), s.svc.Location())
				if err != nil {
					return err
				}
				patch.DueDate = &d
			}
			if flags.Changed("category") {
				catID, err := resolveCategoryID(s.svc, category)
				if err != nil {
					return err
				}
				patch.CategoryID = &catID
			}
			task, err := s.svc.UpdateTask(id, patch)
			if err != nil {
				return err
			}
			if flags.Changed("due") && strings.EqualFold(due, "none") {
				s.svc.ClearDueDate(id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", shortID(task.ID), task.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&description, "desc", "d", "", "new description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "new priority")
	cmd.Flags().StringVar(&due, "due", "", "new due date, or none to clear")
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category, or none to clear")
	return cmd
}

func newDoneCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Toggle a task between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(s.svc, args[0])
			if err != nil {
				return err
			}
			task, ok := s.svc.ToggleTaskComplete(id)
			if !ok {
				return app.ErrTaskNotFound
			}
			verb := "Reopened"
			if task.IsCompleted() {
				verb = "Completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", verb, shortID(task.ID), task.Title)
			return nil
		},
	}
}

func newRemoveCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID...",
		Short:   "Delete tasks",
		Aliases: []string{"delete"},
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := resolveTaskIDs(s.svc, args)
			if err != nil {
				return err
			}
			removed := 0
			for _, id := range ids {
				if s.svc.DeleteTask(id) {
					removed++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d task(s)\n", removed)
			return nil
		},
	}
}

func newPriorityCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "priority ID LEVEL",
		Short: "Set task priority (low, medium, high, critical)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(s.svc, args[0])
			if err != nil {
				return err
			}
			p, err := parsePriority(args[1])
			if err != nil {
				return err
			}
			task, err := s.svc.SetPriority(id, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", shortID(task.ID), task.Priority)
			return nil
		},
	}
}

func newDueCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "due ID DATE|none",
		Short: "Set or clear a due date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(s.svc, args[0])
			if err != nil {
				return err
			}
			if strings.EqualFold(args[1], "none") {
				s.svc.ClearDueDate(id)
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared due date on %s\n", shortID(id))
				return nil
			}
			d, err := parseDue(args[1], s.svc.Now(), s.svc.Location())
			if err != nil {
				return err
			}
			task, err := s.svc.SetDueDate(id, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s due %s\n", shortID(task.ID), task.DueDate.In(s.svc.Location()).Format("2006-01-02"))
			return nil
		},
	}
}

func newOrderCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "order ID POSITION",
		Short: "Move a task to a position in the manual order (0-based)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(s.svc, args[0])
			if err != nil {
				return err
			}
			pos, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[1])
			}
			if err := s.svc.MoveTask(id, pos); err != nil {
				return err
			}
			renderTaskList(cmd.OutOrStdout(), s.svc, s.svc.GetTasksInCustomOrder())
			return nil
		},
	}
}
