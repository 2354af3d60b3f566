package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTagCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add ID TAG",
			Short: "Add a tag to a task",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := resolveTaskID(s.svc, args[0])
				if err != nil {
					return err
				}
				task, err := s.svc.AddTagToTask(id, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTaskLine(s.svc, task))
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm ID TAG",
			Short: "Remove a tag from a task",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := resolveTaskID(s.svc, args[0])
				if err != nil {
					return err
				}
				task, err := s.svc.RemoveTagFromTask(id, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTaskLine(s.svc, task))
				return nil
			},
		},
		&cobra.Command{
			Use:   "set ID [TAG...]",
			Short: "Replace every tag on a task",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := resolveTaskID(s.svc, args[0])
				if err != nil {
					return err
				}
				task, err := s.svc.SetTaskTags(id, args[1:])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTaskLine(s.svc, task))
				return nil
			},
		},
		&cobra.Command{
			Use:   "rename OLD NEW",
			Short: "Rename a tag on every task",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := s.svc.RenameTag(args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed tag on %d task(s)\n", n)
				return nil
			},
		},
		&cobra.Command{
			Use:   "merge TARGET SOURCE...",
			Short: "Replace source tags with the target tag",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := s.svc.MergeTags(args[1:], args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Merged tags on %d task(s)\n", n)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete TAG",
			Short: "Remove a tag from every task",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n := s.svc.DeleteTag(args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "Removed tag from %d task(s)\n", n)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List tags by usage",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				counts := s.svc.GetTagsWithCount()
				if len(counts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No tags"))
					return nil
				}
				for _, tc := range counts {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %d\n", tagStyle.Render("#"+tc.Tag), tc.Count)
				}
				return nil
			},
		},
	)
	return cmd
}
