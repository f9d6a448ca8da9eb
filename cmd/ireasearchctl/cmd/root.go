// Package cmd implements the ireasearchctl commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/notrick-no/iReasearch/config"
	"github.com/notrick-no/iReasearch/internal/adapters/boltstore"
	"github.com/notrick-no/iReasearch/internal/apiclient"
	"github.com/notrick-no/iReasearch/internal/ports"
	"github.com/notrick-no/iReasearch/internal/router"
	"github.com/notrick-no/iReasearch/internal/service"
	"github.com/spf13/cobra"
)

const serverEnv = "IREASEARCH_SERVER"

// options are the persistent flags shared by every command.
type options struct {
	serverURL string
	profile   string
	dbPath    string
	verbose   bool
}

// session is one command's view of a profile: its store, the gate, a router guarded by
// the gate and an API client whose transport calls the gate on every exchange.
type session struct {
	db     *boltstore.DB
	store  ports.SessionStore
	gate   *service.Gate
	nav    *router.Router
	client *apiclient.Client
	logger *slog.Logger
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "ireasearchctl",
		Short: "iResearch CLI - sign in and browse the research dashboard API",
		Long: `ireasearchctl signs in to the iResearch backend, keeps the session in a local
profile and lets you navigate dashboard routes and call the API with it. A session the
backend rejects is cleared from the profile automatically.`,
		SilenceUsage: true,
	}

	defaultServer := os.Getenv(serverEnv)
	if defaultServer == "" {
		defaultServer = apiclient.DefaultBaseURL
	}
	rootCmd.PersistentFlags().StringVar(&opts.serverURL, "server", defaultServer, "Backend API base URL (also set via "+serverEnv+")")
	rootCmd.PersistentFlags().StringVar(&opts.profile, "profile", "default", "Profile holding the session")
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Profile database path (defaults to the user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log gate decisions to stderr")

	rootCmd.AddCommand(
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newOpenCmd(opts),
		newRoutesCmd(opts),
		newGetCmd(opts),
		newProfilesCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withSession opens the profile database for the duration of fn.
func withSession(cmd *cobra.Command, opts *options, fn func(ctx context.Context, s *session) error) (err error) {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.db.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close profile database: %w", cerr))
		}
	}()
	return fn(cmd.Context(), s)
}

func openSession(cmd *cobra.Command, opts *options) (*session, error) {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	authCfg, err := config.ParseAuthEnv()
	if err != nil {
		return nil, err
	}

	path := opts.dbPath
	if path == "" {
		p, err := boltstore.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	db, err := boltstore.Open(path)
	if err != nil {
		return nil, err
	}

	s := &session{db: db, store: db.Scope(opts.profile), logger: logger}
	s.gate = service.NewGate(service.GateOptions{
		LoginPath:       authCfg.LoginPath,
		HomePath:        authCfg.HomePath,
		LoginRouteName:  authCfg.LoginRouteName,
		RoleImpliesAuth: authCfg.RoleImpliesAuth,
		Logger:          logger,
	})

	if s.nav, err = router.New(router.Options{Logger: logger}); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	s.nav.BeforeEach(router.GateGuard(s.gate, s.store))

	s.client, err = apiclient.New(apiclient.Options{
		BaseURL:   opts.serverURL,
		Gate:      s.gate,
		Store:     s.store,
		Navigator: s.nav,
		TokenPath: authCfg.TokenPath,
		UserPath:  authCfg.UserPath,
		Logger:    logger,
	})
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return s, nil
}

// notSignedIn turns a rejected session into a hint.
func notSignedIn(err error) error {
	if errors.Is(err, apiclient.ErrUnauthorized) {
		return fmt.Errorf("not signed in or session expired; run `ireasearchctl login`: %w", err)
	}
	return err
}
