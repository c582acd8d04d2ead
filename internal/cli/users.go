package cli

import (
	"github.com/spf13/cobra"

	"lms-admin/internal/api"
	"lms-admin/internal/form"
	"lms-admin/internal/model"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "User commands",
	}
	cmd.AddCommand(newUsersListCmd(app))
	cmd.AddCommand(newUsersShowCmd(app))
	cmd.AddCommand(newUsersSetCmd(app, "set-role", "role", "Change a user's role (student|admin|instructor|operations)"))
	cmd.AddCommand(newUsersSetCmd(app, "set-status", "status", "Change a user's status (active|banned|suspended)"))
	return cmd
}

func newUsersListCmd(app *App) *cobra.Command {
	var role, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Reuse the user form so filter values are checked like edits are.
			if _, err := (form.UserInput{Role: role, Status: status}).UserPatch(); err != nil {
				return writeErr(cmd, err)
			}
			out, err := app.sync.Users(cmd.Context(), api.UserFilter{Role: model.UserRole(role), Status: model.UserStatus(status)})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": out, "meta": map[string]any{"count": len(out)}})
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "Only users with this role")
	cmd.Flags().StringVar(&status, "status", "", "Only users with this status")
	return cmd
}

func newUsersShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <user-id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.sync.User(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": u})
		},
	}
}

func newUsersSetCmd(app *App, use, field, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <user-id> <" + field + ">",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in form.UserInput
			if field == "role" {
				in.Role = args[1]
			} else {
				in.Status = args[1]
			}
			p, err := in.UserPatch()
			if err != nil {
				return writeErr(cmd, err)
			}
			u, err := app.sync.UpdateUser(cmd.Context(), args[0], p)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": u})
		},
	}
}
