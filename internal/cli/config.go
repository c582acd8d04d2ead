package cli

import (
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := app.cfg
			secret := ""
			if c.DevSecret != "" {
				secret = "********"
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"dir":     c.Dir,
				"session": c.SessionPath(),
				"api":     map[string]any{"url": c.APIURL, "timeout": c.APITimeout.String()},
				"auth":    map[string]any{"url": c.AuthURL},
				"log":     map[string]any{"level": c.LogLevel, "format": c.LogFormat, "file": c.LogFile},
				"output":  map[string]any{"format": app.Format},
				"devserver": map[string]any{
					"addr":   c.DevAddr,
					"driver": c.DevDriver,
					"dsn":    c.DevDSN,
					"secret": secret,
				},
			}})
		},
	})
	return cmd
}
