package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskboard/model"
)

func newBulkCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Apply one change to several tasks",
	}
	report := func(cmd *cobra.Command, n int) {
		fmt.Fprintf(cmd.OutOrStdout(), "Changed %d task(s)\n", n)
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "complete ID...",
			Short: "Mark tasks completed",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := resolveTaskIDs(s.svc, args)
				if err != nil {
					return err
				}
				report(cmd, s.svc.BulkCompleteTasks(ids))
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete ID...",
			Short: "Delete tasks",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := resolveTaskIDs(s.svc, args)
				if err != nil {
					return err
				}
				report(cmd, s.svc.BulkDeleteTasks(ids))
				return nil
			},
		},
		&cobra.Command{
			Use:   "category CATEGORY|none ID...",
			Short: "Move tasks into a category",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				var target *string
				if catID, err := resolveCategoryID(s.svc, args[0]); err != nil {
					return err
				} else if catID != model.NoCategory {
					target = &catID
				}
				ids, err := resolveTaskIDs(s.svc, args[1:])
				if err != nil {
					return err
				}
				report(cmd, s.svc.BulkChangeCategory(ids, target))
				return nil
			},
		},
		&cobra.Command{
			Use:   "priority LEVEL ID...",
			Short: "Set priority on tasks",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := parsePriority(args[0])
				if err != nil {
					return err
				}
				ids, err := resolveTaskIDs(s.svc, args[1:])
				if err != nil {
					return err
				}
				n, err := s.svc.BulkSetPriority(ids, p)
				if err != nil {
					return err
				}
				report(cmd, n)
				return nil
			},
		},
		&cobra.Command{
			Use:   "tag TAG ID...",
			Short: "Add a tag to tasks",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := resolveTaskIDs(s.svc, args[1:])
				if err != nil {
					return err
				}
				n, err := s.svc.BulkAddTag(ids, args[0])
				if err != nil {
					return err
				}
				report(cmd, n)
				return nil
			},
		},
	)
	return cmd
}
