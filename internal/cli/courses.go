package cli

import (
	"github.com/spf13/cobra"

	"lms-admin/internal/form"
	"lms-admin/internal/publish"
)

func newCoursesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "courses",
		Aliases: []string{"course"},
		Short:   "Course commands",
	}
	cmd.AddCommand(newCoursesListCmd(app))
	cmd.AddCommand(newCoursesShowCmd(app))
	cmd.AddCommand(newCoursesCreateCmd(app))
	cmd.AddCommand(newCoursesUpdateCmd(app))
	cmd.AddCommand(newCoursesDeleteCmd(app))
	cmd.AddCommand(newCoursesExportCmd(app))
	return cmd
}

func newCoursesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app.sync.Courses(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": out, "meta": map[string]any{"count": len(out)}})
		},
	}
}

func newCoursesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <course-id>",
		Short: "Show a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.sync.Course(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}
}

func courseFlags(cmd *cobra.Command, in *form.CourseInput) {
	cmd.Flags().StringVar(&in.Title, "title", "", "Title")
	cmd.Flags().StringVar(&in.Slug, "slug", "", "URL slug")
	cmd.Flags().StringVar(&in.Description, "description", "", "Description (markdown)")
	cmd.Flags().StringVar(&in.ThumbnailURL, "thumbnail-url", "", "Thumbnail URL")
	cmd.Flags().StringVar(&in.StartDate, "start-date", "", "Start date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&in.EndDate, "end-date", "", "End date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&in.Price, "price", "", "Price")
	cmd.Flags().StringVar(&in.DiscountedPrice, "discounted-price", "", "Discounted price")
	cmd.Flags().StringVar(&in.Currency, "currency", "", "ISO currency code")
	cmd.Flags().StringVar(&in.Status, "status", "", "Status (private|live|inProgress|completed)")
}

func newCoursesCreateCmd(app *App) *cobra.Command {
	var in form.CourseInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a course",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := in.CoursePatch()
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := app.sync.CreateCourse(cmd.Context(), p)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}
	courseFlags(cmd, &in)
	return cmd
}

func newCoursesUpdateCmd(app *App) *cobra.Command {
	in := form.CourseInput{Partial: true}
	cmd := &cobra.Command{
		Use:   "update <course-id>",
		Short: "Update course fields given as flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := in.CoursePatch()
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := app.sync.UpdateCourse(cmd.Context(), args[0], p)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}
	courseFlags(cmd, &in)
	return cmd
}

func newCoursesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <course-id>",
		Short: "Delete a course with its curriculum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.sync.DeleteCourse(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}
}

func newCoursesExportCmd(app *App) *cobra.Command {
	var to string
	var opt publish.WriteOptions
	cmd := &cobra.Command{
		Use:   "export <course-id>",
		Short: "Write the course and its curriculum as markdown pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.sync.Course(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := loadTree(cmd.Context(), app, c.ID)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := publish.WriteCourse(c, t, to, opt)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res, "meta": map[string]any{"count": len(res.Written)}})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output directory")
	cmd.Flags().BoolVar(&opt.IncludeBody, "include-body", false, "Include chapter bodies")
	cmd.Flags().BoolVar(&opt.Overwrite, "overwrite", false, "Replace existing files")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
