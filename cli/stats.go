package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskboard/model"
)

func newStatsCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := s.svc.GetStats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total:      %d\n", st.Total)
			fmt.Fprintf(out, "Active:     %d\n", st.Active)
			fmt.Fprintf(out, "Completed:  %d\n", st.Completed)
			fmt.Fprintf(out, "Overdue:    %d\n", st.Overdue)
			fmt.Fprintf(out, "Due today:  %d\n", len(s.svc.GetTasksDueToday()))
			fmt.Fprintf(out, "Due 7 days: %d\n", len(s.svc.GetTasksDueThisWeek()))
			for _, p := range model.Priorities {
				fmt.Fprintf(out, "%s %d\n", renderPriority(p), st.ByPriority[p])
			}
			return nil
		},
	}
}

func newPrefsCommand(s *session) *cobra.Command {
	var sortBy, direction string
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change the saved sort preference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sortBy != "" {
				f, err := parseSortField(sortBy)
				if err != nil {
					return err
				}
				if err := s.svc.SetSortBy(f); err != nil {
					return err
				}
			}
			if direction != "" {
				d, err := parseSortDirection(direction)
				if err != nil {
					return err
				}
				if err := s.svc.SetSortDirection(d); err != nil {
					return err
				}
			}
			q := s.svc.Query()
			fmt.Fprintf(cmd.OutOrStdout(), "sort: %s %s\n", q.SortBy, q.SortDirection)
			return nil
		},
	}
	cmd.Flags().StringVarP(&sortBy, "sort", "s", "", "sort by: created, priority, title or due")
	cmd.Flags().StringVar(&direction, "dir", "", "sort direction: asc or desc")
	return cmd
}

func newTUICommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(s.svc, s.status)
		},
	}
}
