// Package router is the dashboard's navigation engine: it resolves paths against the
// declared routes and runs before-each guards ahead of every committed transition.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/go-chi/chi/v5"
	domainauth "github.com/notrick-no/iReasearch/internal/domain/auth"
	"github.com/notrick-no/iReasearch/internal/ports"
)

var (
	// ErrRouteNotFound is returned when a path matches no declared route.
	ErrRouteNotFound = errors.New("route not found")
	// ErrRedirectLoop is returned when guards keep redirecting past the hop limit.
	ErrRedirectLoop = errors.New("too many navigation redirects")
)

// DefaultMaxRedirects bounds guard redirect chains within one Push.
const DefaultMaxRedirects = 5

// Guard decides a transition from one match to another. Guards run in registration order;
// the first redirect wins.
type Guard func(ctx context.Context, to, from Match) domainauth.Verdict

// Authorizer is the slice of the session gate the router needs.
type Authorizer interface {
	Authorize(
		ctx context.Context,
		store ports.SessionStore,
		req domainauth.RouteRequirement,
		currentRouteName string,
	) domainauth.Verdict
}

// GateGuard adapts a session gate reading store into a Guard.
func GateGuard(a Authorizer, store ports.SessionStore) Guard {
	return func(ctx context.Context, to, from Match) domainauth.Verdict {
		return a.Authorize(ctx, store, to.Route.Requirement, from.Route.Name)
	}
}

// Options configures a Router.
type Options struct {
	Routes       []Route
	Guards       []Guard
	MaxRedirects int
	Logger       *slog.Logger
}

// Router resolves and commits navigations. It implements ports.Navigator.
type Router struct {
	mux          *chi.Mux
	byPattern    map[string]Route
	routes       []Route
	guards       []Guard
	maxRedirects int
	logger       *slog.Logger

	mu      sync.RWMutex
	current Match
	history []string
}

var _ ports.Navigator = (*Router)(nil)

// New builds a Router over opts.Routes (DashboardRoutes when empty).
func New(opts Options) (*Router, error) {
	routes := opts.Routes
	if len(routes) == 0 {
		routes = DashboardRoutes()
	}
	r := &Router{
		mux:          chi.NewRouter(),
		byPattern:    make(map[string]Route, len(routes)),
		routes:       append([]Route(nil), routes...),
		guards:       append([]Guard(nil), opts.Guards...),
		maxRedirects: opts.MaxRedirects,
		logger:       opts.Logger,
	}
	if r.maxRedirects <= 0 {
		r.maxRedirects = DefaultMaxRedirects
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	names := make(map[string]bool, len(routes))
	for _, rt := range routes {
		if rt.Name == "" || rt.Pattern == "" {
			return nil, fmt.Errorf("route %q: name and pattern are required", rt.Pattern)
		}
		if names[rt.Name] {
			return nil, fmt.Errorf("duplicate route name %q", rt.Name)
		}
		if _, dup := r.byPattern[rt.Pattern]; dup {
			return nil, fmt.Errorf("duplicate route pattern %q", rt.Pattern)
		}
		names[rt.Name] = true
		r.byPattern[rt.Pattern] = rt
		r.mux.Get(rt.Pattern, func(http.ResponseWriter, *http.Request) {})
	}
	return r, nil
}

// BeforeEach appends a guard. Not safe to call concurrently with Push.
func (r *Router) BeforeEach(g Guard) {
	r.guards = append(r.guards, g)
}

// Routes returns the declared routes in declaration order.
func (r *Router) Routes() []Route {
	return append([]Route(nil), r.routes...)
}

// Resolve matches a path (query and fragment ignored) against the declared routes.
func (r *Router) Resolve(path string) (Match, bool) {
	u, err := url.Parse(path)
	if err != nil {
		return Match{}, false
	}
	p := u.Path
	if p == "" {
		p = "/"
	}

	rctx := chi.NewRouteContext()
	if !r.mux.Match(rctx, http.MethodGet, p) {
		return Match{}, false
	}
	rt, ok := r.byPattern[rctx.RoutePattern()]
	if !ok {
		return Match{}, false
	}

	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, k := range rctx.URLParams.Keys {
		params[k] = rctx.URLParams.Values[i]
	}
	return Match{Route: rt, Path: p, Params: params}, true
}

// Current returns the committed location. The zero Match means nothing has been committed.
func (r *Router) Current() Match {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// CurrentRouteName returns the committed route's name.
func (r *Router) CurrentRouteName() string {
	return r.Current().Route.Name
}

// History returns the committed paths, oldest first.
func (r *Router) History() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.history...)
}

// Push navigates to path. Guards are evaluated before anything is committed; a redirect
// verdict restarts the navigation at the redirect target.
func (r *Router) Push(ctx context.Context, path string) error {
	_, err := r.Navigate(ctx, path)
	return err
}

// Navigate is Push returning the committed match.
func (r *Router) Navigate(ctx context.Context, path string) (Match, error) {
	from := r.Current()
	target := path

	for hop := 0; hop <= r.maxRedirects; hop++ {
		if err := ctx.Err(); err != nil {
			return Match{}, err
		}

		to, ok := r.Resolve(target)
		if !ok {
			return Match{}, fmt.Errorf("%w: %s", ErrRouteNotFound, target)
		}

		redirect, redirected := r.runGuards(ctx, to, from).Redirect()
		if !redirected {
			r.commit(to)
			return to, nil
		}

		r.logger.DebugContext(ctx, "navigation redirected", "from", target, "to", redirect)
		target = redirect
	}

	return Match{}, fmt.Errorf("%w: started at %s", ErrRedirectLoop, path)
}

func (r *Router) runGuards(ctx context.Context, to, from Match) domainauth.Verdict {
	for _, g := range r.guards {
		if v := g(ctx, to, from); !v.IsProceed() {
			return v
		}
	}
	return domainauth.Proceed()
}

func (r *Router) commit(m Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = m
	r.history = append(r.history, m.Path)
}
