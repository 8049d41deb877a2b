package cmd

import (
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/imagej/ijc/internal/app"
)

func newLoginCmd(c *cli) *cobra.Command {
	var (
		token   string
		headers []string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a bearer token and request headers for the server",
		Long: `Store credentials for the configured server.

The token is kept in the OS keychain; extra headers are kept in the
server's profile file under the user config directory. Without --token
and --header, the token is prompted for on a terminal.

Examples:
  ijc login --server https://imagej.example.org --token $TOKEN
  ijc login --header "X-Lab: cell-imaging"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hdrs, err := app.ParseHeaders(headers)
			if err != nil {
				return usageError(err.Error())
			}
			if token == "" && len(hdrs) == 0 && stdinIsTTY() {
				if token, err = promptToken(c.cfg.Server); err != nil {
					return app.ExitResult{Code: 1, Message: err.Error(), ToStderr: true}
				}
			}
			return app.Login(app.LoginInput{Server: c.cfg.Server, Token: token, Headers: hdrs})
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "bearer token")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, `extra request header "Name: value" (repeatable)`)

	return cmd
}

// promptToken asks for the token without echoing it.
func promptToken(server string) (string, error) {
	var token string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Token").
				Description("Bearer token for " + server).
				EchoMode(huh.EchoModePassword).
				Value(&token),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return token, nil
}

func newLogoutCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored token and headers for the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Logout(c.cfg.Server)
		},
	}
	return cmd
}
