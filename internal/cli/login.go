package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"hearline-admin/internal/api"
	"hearline-admin/internal/store"
)

func newLoginCmd(app *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the admin token",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.stateStore()
			if err != nil {
				return err
			}
			cfg, err := app.loadConfig(s)
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.ServerURL) == "" {
				return errors.New("no server configured; pass --server <url>")
			}

			if strings.TrimSpace(email) == "" {
				email, err = promptLine(cmd, "Email: ")
				if err != nil {
					return err
				}
			}
			password, err := promptPassword(cmd, "Password: ")
			if err != nil {
				return err
			}

			// Unauthenticated client: the login call itself needs no token.
			client := api.New(&store.Session{URL: cfg.ServerURL})
			token, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			if err := s.SaveToken(cmd.Context(), token); err != nil {
				return err
			}
			// Remember the server so plain `hearline` works next time.
			if err := s.SaveConfig(cfg); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email (prompted when omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored admin token",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.stateStore()
			if err != nil {
				return err
			}
			if err := s.ClearToken(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func promptLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	r := bufio.NewReader(cmd.InOrStdin())
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	// Piped input (tests, scripts): read a plain line.
	return promptLine(cmd, "")
}
