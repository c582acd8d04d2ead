package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lms-admin/internal/session"
)

func newLoginCmd(app *App) *cobra.Command {
	var email string
	var password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and cache the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			if strings.TrimSpace(email) == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Email: ")
				line, err := in.ReadString('\n')
				if err != nil && line == "" {
					return writeErr(cmd, errors.New("missing --email"))
				}
				email = strings.TrimSpace(line)
			}
			if passwordStdin {
				line, err := in.ReadString('\n')
				if err != nil && line == "" {
					return writeErr(cmd, errors.New("no password on stdin"))
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				p, err := readPassword(cmd)
				if err != nil {
					return writeErr(cmd, err)
				}
				password = p
			}

			auth := session.NewAuthenticator(app.cfg.AuthURL, app.cfg.APITimeout)
			s, err := auth.Login(cmd.Context(), email, password)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.sessions.Save(s); err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info("signed in")
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"email":     s.Email,
				"expiresAt": s.ExpiresAt,
				"session":   app.sessions.Path(),
			}})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

func readPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("missing password; pass --password or --password-stdin")
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the cached session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.sessions.Clear(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"loggedOut": true}})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.client.Me(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			meta := map[string]any{}
			if s, err := app.sessions.Current(); err == nil {
				if exp, ok := s.Expiry(); ok {
					meta["expiresAt"] = exp
				}
			}
			return writeOut(cmd, app, map[string]any{"data": u, "meta": meta})
		},
	}
}
