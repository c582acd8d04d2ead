package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"lms-admin/internal/api"
)

func newEnrollmentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "enrollments",
		Aliases: []string{"enrollment"},
		Short:   "Enrollment commands (read-only)",
	}
	cmd.AddCommand(newEnrollmentsListCmd(app))
	cmd.AddCommand(newEnrollmentsShowCmd(app))
	return cmd
}

func newEnrollmentsListCmd(app *App) *cobra.Command {
	var f api.EnrollmentFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List enrollments",
		Example: strings.TrimSpace(`
  lmsadmin enrollments list --course <course-id>
  lmsadmin enrollments list --user <user-id>
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.CourseID = strings.TrimSpace(f.CourseID)
			f.UserID = strings.TrimSpace(f.UserID)
			out, err := app.sync.Enrollments(cmd.Context(), f)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": out, "meta": map[string]any{"count": len(out)}})
		},
	}
	cmd.Flags().StringVar(&f.CourseID, "course", "", "Only enrollments in this course")
	cmd.Flags().StringVar(&f.UserID, "user", "", "Only enrollments of this user")
	return cmd
}

func newEnrollmentsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <enrollment-id>",
		Short: "Show an enrollment with its progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.sync.Enrollment(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": e})
		},
	}
}
