package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newLoginCmd(opts *options) *cobra.Command {
	var (
		username      string
		password      string
		passwordStdin bool
	)

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session in the profile",
		Long: `Signs in against the backend's /auth/login endpoint and stores the returned token
and user record in the selected profile.

Use --password-stdin to avoid leaving the password in shell history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if passwordStdin {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password from stdin: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if strings.TrimSpace(username) == "" || password == "" {
				return errors.New("username and password are required")
			}

			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				user, err := s.client.Login(ctx, username, password)
				if err != nil {
					return fmt.Errorf("login failed: %w", err)
				}
				pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Logged in as %s (%s) on profile %q",
					user.Username, roleLabel(string(user.Role)), opts.profile)
				return nil
			})
		},
	}

	loginCmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	loginCmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return loginCmd
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the profile's session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				if err := s.client.Logout(ctx); err != nil {
					return fmt.Errorf("logout: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully")
				return nil
			})
		},
	}
}

func newWhoamiCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user as the backend sees it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				user, err := s.client.Me(ctx)
				if err != nil {
					return notSignedIn(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", user.Username, roleLabel(string(user.Role)))
				return nil
			})
		},
	}
}

func roleLabel(role string) string {
	if role == "" {
		return "no role"
	}
	return role
}
