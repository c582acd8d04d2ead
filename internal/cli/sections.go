package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"lms-admin/internal/curriculum"
	"lms-admin/internal/form"
	"lms-admin/internal/model"
)

// loadTree fetches a course's curriculum into a fully expanded tree.
func loadTree(ctx context.Context, app *App, courseID string) (*curriculum.Tree, error) {
	cur, err := app.sync.FetchCurriculum(ctx, courseID)
	if err != nil {
		return nil, err
	}
	t := curriculum.NewTree(courseID)
	t.ReplaceOnFetch(cur.Sections, cur.Contents)
	t.ExpandAll()
	return t, nil
}

func newSectionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sections",
		Aliases: []string{"section"},
		Short:   "Curriculum section commands",
	}
	cmd.AddCommand(newSectionsListCmd(app))
	cmd.AddCommand(newSectionsCreateCmd(app))
	cmd.AddCommand(newSectionsRenameCmd(app))
	cmd.AddCommand(newSectionsDeleteCmd(app))
	cmd.AddCommand(newSectionsMoveCmd(app))
	return cmd
}

func newSectionsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <course-id>",
		Short: "List a course's sections in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTree(cmd.Context(), app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			out := make([]model.Section, 0, t.Len())
			for _, n := range t.Sections() {
				out = append(out, n.Section)
			}
			return writeOut(cmd, app, map[string]any{"data": out, "meta": map[string]any{"count": len(out)}})
		},
	}
}

func newSectionsCreateCmd(app *App) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "create <course-id>",
		Short: "Append a section to a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clean, err := form.SectionInput{Title: title}.Validate()
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := loadTree(cmd.Context(), app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := app.sync.CreateSection(cmd.Context(), args[0], model.NewSection{Title: clean, Order: t.NextSectionOrder()})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": s})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Section title")
	return cmd
}

// sectionInCourse loads the course tree and checks the section belongs to it.
func sectionInCourse(ctx context.Context, app *App, courseID, sectionID string) (*curriculum.Tree, error) {
	t, err := loadTree(ctx, app, courseID)
	if err != nil {
		return nil, err
	}
	if _, ok := t.Section(sectionID); !ok {
		return nil, wrongParentError{kind: "section", id: sectionID, parent: "course " + courseID}
	}
	return t, nil
}

func newSectionsRenameCmd(app *App) *cobra.Command {
	var courseID string
	var title string
	cmd := &cobra.Command{
		Use:   "rename <section-id>",
		Short: "Rename a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clean, err := form.SectionInput{Title: title}.Validate()
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := sectionInCourse(cmd.Context(), app, courseID, args[0]); err != nil {
				return writeErr(cmd, err)
			}
			s, err := app.sync.UpdateSection(cmd.Context(), courseID, args[0], model.SectionPatch{Title: clean})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": s})
		},
	}
	cmd.Flags().StringVar(&courseID, "course", "", "Course id")
	cmd.Flags().StringVar(&title, "title", "", "New title")
	_ = cmd.MarkFlagRequired("course")
	return cmd
}

func newSectionsDeleteCmd(app *App) *cobra.Command {
	var courseID string
	cmd := &cobra.Command{
		Use:   "delete <section-id>",
		Short: "Delete a section and its chapters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := sectionInCourse(cmd.Context(), app, courseID, args[0]); err != nil {
				return writeErr(cmd, err)
			}
			if err := app.sync.DeleteSection(cmd.Context(), courseID, args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}
	cmd.Flags().StringVar(&courseID, "course", "", "Course id")
	_ = cmd.MarkFlagRequired("course")
	return cmd
}

func newSectionsMoveCmd(app *App) *cobra.Command {
	var courseID string
	var onto string
	cmd := &cobra.Command{
		Use:   "move <section-id>",
		Short: "Move a section to the position of another (like a drag and drop)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := sectionInCourse(cmd.Context(), app, courseID, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			drop, err := curriculum.NewController(t).Move(curriculum.DragPayload{Kind: curriculum.DragSection, ID: args[0]}, strings.TrimSpace(onto))
			if err != nil {
				return writeErr(cmd, err)
			}
			return applyDrop(cmd, app, t, drop)
		},
	}
	cmd.Flags().StringVar(&courseID, "course", "", "Course id")
	cmd.Flags().StringVar(&onto, "onto", "", "Section (or chapter of a section) to drop onto")
	_ = cmd.MarkFlagRequired("course")
	_ = cmd.MarkFlagRequired("onto")
	return cmd
}

// applyDrop sends the drop's reorder (if any) and prints the resulting order.
func applyDrop(cmd *cobra.Command, app *App, t *curriculum.Tree, drop curriculum.Drop) error {
	if err := app.sync.ApplyDrop(cmd.Context(), t.CourseID, drop); err != nil {
		return writeErr(cmd, err)
	}
	data := map[string]any{"moved": drop.Moved}
	if drop.Moved {
		data["request"] = drop.Request
	}
	return writeOut(cmd, app, map[string]any{"data": data})
}
