package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newOpenCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Navigate to a dashboard route with the profile's session",
		Long: `Navigates to a dashboard path the way the browser app does: the session gate runs
before the route is committed and may redirect to the login page or the dashboard home.
Prints the route that was finally committed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				m, err := s.nav.Navigate(ctx, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if m.Path != args[0] {
					pterm.Warning.WithWriter(out).Printfln("%s redirected to %s", args[0], m.Path)
				}
				fmt.Fprintf(out, "%s\t%s\n", m.Route.Name, m.Path)
				return nil
			})
		},
	}
}

func newRoutesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List dashboard routes and whether the profile may open them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				sess := s.gate.LoadSession(ctx, s.store)

				data := pterm.TableData{{"NAME", "PATH", "REQUIRES", "ACCESS"}}
				for _, r := range s.nav.Routes() {
					requires := "-"
					switch {
					case r.Requirement.RequiresRole != "":
						requires = string(r.Requirement.RequiresRole)
					case r.Requirement.RequiresAuth:
						requires = "auth"
					}
					access := "yes"
					if target, redirected := s.gate.EvaluateNavigation(r.Requirement, sess, "").Redirect(); redirected {
						access = "-> " + target
					}
					data = append(data, []string{r.Name, r.Pattern, requires, access})
				}
				return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(cmd.OutOrStdout()).Render()
			})
		},
	}
}

func newGetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <api-path>",
		Short: "GET an API path with the profile's token and print the JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				var body any
				if err := s.client.GetJSON(ctx, args[0], &body); err != nil {
					return notSignedIn(err)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(body)
			})
		},
	}
}

func newProfilesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List stored profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				names, err := s.db.Profiles()
				if err != nil {
					return err
				}
				sort.Strings(names)

				data := pterm.TableData{{"", "PROFILE", "USER", "ROLE", "SIGNED IN"}}
				for _, name := range names {
					sess := s.gate.LoadSession(ctx, s.db.Scope(name))
					marker := ""
					if name == opts.profile {
						marker = "*"
					}
					signedIn := "no"
					if sess.HasToken() {
						signedIn = "yes"
					}
					data = append(data, []string{marker, name, sess.User.Username, string(sess.User.Role), signedIn})
				}
				return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(cmd.OutOrStdout()).Render()
			})
		},
	}
}
