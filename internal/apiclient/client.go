package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	domainauth "github.com/notrick-no/iReasearch/internal/domain/auth"
	"github.com/notrick-no/iReasearch/internal/ports"
	"github.com/notrick-no/iReasearch/internal/service"
)

// Client defaults match the dashboard's backend contract.
const (
	DefaultBaseURL   = "http://localhost:5000/api"
	DefaultTimeout   = 10 * time.Second
	DefaultTokenPath = "token"
	DefaultUserPath  = "user"
)

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Gate    *service.Gate
	// Store and Navigator bind the client to one caller's session. Either may be nil.
	Store     ports.SessionStore
	Navigator ports.Navigator
	// Base is the underlying transport; http.DefaultTransport when nil.
	Base http.RoundTripper
	// TokenPath and UserPath are JMESPath expressions applied to the login response.
	TokenPath string
	UserPath  string
	Logger    *slog.Logger
}

// Client talks to the backend REST API on behalf of one session.
type Client struct {
	opts Options
	http *http.Client
}

// New validates opts and builds a Client.
func New(opts Options) (*Client, error) {
	if opts.Gate == nil {
		return nil, errors.New("apiclient: gate is required")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.TokenPath == "" {
		opts.TokenPath = DefaultTokenPath
	}
	if opts.UserPath == "" {
		opts.UserPath = DefaultUserPath
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	for _, expr := range []string{opts.TokenPath, opts.UserPath} {
		if _, err := jmespath.Compile(expr); err != nil {
			return nil, fmt.Errorf("apiclient: invalid login expression %q: %w", expr, err)
		}
	}

	return &Client{
		opts: opts,
		http: &http.Client{
			Timeout: opts.Timeout,
			Transport: &Transport{
				Base:      opts.Base,
				Gate:      opts.Gate,
				Store:     opts.Store,
				Navigator: opts.Navigator,
				Logger:    opts.Logger,
			},
		},
	}, nil
}

// WithSession returns a client sharing this one's configuration but bound to another
// caller's store and navigator.
func (c *Client) WithSession(store ports.SessionStore, nav ports.Navigator) *Client {
	opts := c.opts
	opts.Store = store
	opts.Navigator = nav
	// Options were validated by New.
	cc, _ := New(opts)
	return cc
}

// BaseURL returns the normalized backend base URL.
func (c *Client) BaseURL() string { return c.opts.BaseURL }

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates against the backend and persists the returned token and user
// record together. The stored user is kept exactly as the backend sent it.
func (c *Client) Login(ctx context.Context, username, password string) (domainauth.User, error) {
	var payload any
	if err := c.Do(ctx, http.MethodPost, "/auth/login", loginRequest{Username: username, Password: password}, &payload); err != nil {
		return domainauth.User{}, err
	}

	stored, err := c.extractSession(payload)
	if err != nil {
		return domainauth.User{}, err
	}

	if c.opts.Store != nil {
		if err := c.opts.Store.Set(ctx, stored); err != nil {
			return domainauth.User{}, fmt.Errorf("persist session: %w", err)
		}
	}
	return domainauth.DecodeUser(stored.User), nil
}

func (c *Client) extractSession(payload any) (domainauth.StoredSession, error) {
	rawToken, err := jmespath.Search(c.opts.TokenPath, payload)
	if err != nil {
		return domainauth.StoredSession{}, fmt.Errorf("extract token: %w", err)
	}
	token, _ := rawToken.(string)
	if token == "" {
		return domainauth.StoredSession{}, ErrMissingToken
	}

	rawUser, err := jmespath.Search(c.opts.UserPath, payload)
	if err != nil {
		return domainauth.StoredSession{}, fmt.Errorf("extract user: %w", err)
	}
	var user string
	if rawUser != nil {
		b, err := json.Marshal(rawUser)
		if err != nil {
			return domainauth.StoredSession{}, fmt.Errorf("encode user: %w", err)
		}
		user = string(b)
	}
	return domainauth.StoredSession{Token: token, User: user}, nil
}

// Me fetches the authenticated user from the backend.
func (c *Client) Me(ctx context.Context) (domainauth.User, error) {
	var raw json.RawMessage
	if err := c.GetJSON(ctx, "/auth/me", &raw); err != nil {
		return domainauth.User{}, err
	}
	return domainauth.DecodeUser(string(raw)), nil
}

// Logout clears the persisted session. The backend keeps no session state.
func (c *Client) Logout(ctx context.Context) error {
	if c.opts.Store == nil {
		return nil
	}
	if err := c.opts.Store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// GetJSON issues a GET to path (relative to the base URL) and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Do sends in as a JSON body (when non-nil) and decodes a 2xx body into out (when non-nil).
// Non-2xx responses are returned as *APIError.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) url(path string) string {
	return c.opts.BaseURL + "/" + strings.TrimLeft(path, "/")
}
