package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"taskboard/app"
)

func newCategoryCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Short:   "Manage categories",
		Aliases: []string{"cat"},
	}

	var color string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.svc.AddCategory(app.CategoryInput{Name: args[0], Color: color})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added category %s %s\n", shortID(c.ID), c.Name)
			return nil
		},
	}
	add.Flags().StringVar(&color, "color", "", "display color (default "+app.DefaultCategoryColor+")")

	var newName, newColor string
	edit := &cobra.Command{
		Use:   "edit CATEGORY",
		Short: "Rename or recolor a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveCategoryID(s.svc, args[0])
			if err != nil {
				return err
			}
			var patch app.CategoryPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &newName
			}
			if cmd.Flags().Changed("color") {
				patch.Color = &newColor
			}
			c, err := s.svc.UpdateCategory(id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated category %s %s\n", shortID(c.ID), c.Name)
			return nil
		},
	}
	edit.Flags().StringVar(&newName, "name", "", "new name")
	edit.Flags().StringVar(&newColor, "color", "", "new color")

	cmd.AddCommand(
		add,
		edit,
		&cobra.Command{
			Use:   "list",
			Short: "List categories with task counts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cats := s.svc.Categories()
				if len(cats) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No categories"))
					return nil
				}
				for _, c := range cats {
					swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("■")
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s  %d\n", shortID(c.ID), swatch, c.Name, s.svc.GetCategoryTaskCount(c.ID))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm CATEGORY",
			Short: "Delete a category (tasks keep their reference)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := resolveCategoryID(s.svc, args[0])
				if err != nil {
					return err
				}
				if !s.svc.DeleteCategory(id) {
					return app.ErrCategoryNotFound
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s\n", shortID(id))
				return nil
			},
		},
	)
	return cmd
}
