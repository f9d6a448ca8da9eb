package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	domainauth "github.com/notrick-no/iReasearch/internal/domain/auth"
	"github.com/notrick-no/iReasearch/internal/ports"
	"github.com/notrick-no/iReasearch/internal/router"
	"github.com/notrick-no/iReasearch/internal/service"
)

// DefaultSessionCookie names the cookie carrying the caller's session scope id.
const DefaultSessionCookie = "session_id"

// GateService is the part of the session gate the HTTP layer depends on.
type GateService interface {
	Authorize(
		ctx context.Context,
		store ports.SessionStore,
		req domainauth.RouteRequirement,
		currentRouteName string,
	) domainauth.Verdict
	LoadSession(ctx context.Context, store ports.SessionStore) domainauth.Session
	DecorateRequest(sess domainauth.Session, r *http.Request)
	OnResponse(
		ctx context.Context,
		store ports.SessionStore,
		nav ports.Navigator,
		resp *http.Response,
	) (service.ResponseOutcome, error)
	LoginPath() string
	LoginRouteName() string
}

var _ GateService = (*service.Gate)(nil)

// RouteResolver maps a browser path to a dashboard route.
type RouteResolver interface {
	Resolve(path string) (router.Match, bool)
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Flush keeps streaming proxy responses working through the logger.
func (w *respWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionScope copies the session cookie value into the request context.
func SessionScope(cookieName string) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
				r = r.WithContext(SetScopeInContext(r.Context(), c.Value))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// storeFor returns the caller's session store, nil when the request carries no scope.
func storeFor(ctx context.Context, stores ports.SessionStores) ports.SessionStore {
	scope := ScopeFromContext(ctx)
	if scope == "" || stores == nil {
		return nil
	}
	return stores.Scope(scope)
}

// LoadSession decodes the caller's session into the request context.
func LoadSession(gate GateService, stores ports.SessionStores) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := gate.LoadSession(r.Context(), storeFor(r.Context(), stores))
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), &sess)))
		})
	}
}

// browserRequestKey is an unexported context key type for browser request detection.
type browserRequestKey struct{}

// BrowserDetection returns a middleware that detects browser requests vs API requests.
// Downstream handlers use it to choose between redirects and JSON responses.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			isBrowser := isBrowserRequest(r)
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowser)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest returns true if the current request is from a browser.
func IsBrowserRequest(r *http.Request) bool {
	if val := r.Context().Value(browserRequestKey{}); val != nil {
		if isBrowser, ok := val.(bool); ok {
			return isBrowser
		}
	}
	// Fallback to direct detection if middleware wasn't used
	return isBrowserRequest(r)
}

// isBrowserRequest determines if a request is from a browser based on:
// 1. Path prefix - API routes start with /api/
// 2. Accept header - browsers typically accept text/html.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/assets/") {
		return false
	}
	if strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest") {
		return false
	}

	accept := r.Header.Get("Accept")
	if accept == "" {
		// No Accept header, assume browser for non-API routes
		return true
	}
	return strings.Contains(accept, "text/html")
}

// PageGuardOptions configures RequireRoute.
type PageGuardOptions struct {
	Gate   GateService
	Stores ports.SessionStores
	Routes RouteResolver
	Logger *slog.Logger
}

// RequireRoute treats every page request as a navigation attempt. The request path is
// resolved to a dashboard route and the gate decides it before anything is served.
// Browsers get a 303 to the verdict's target; other clients get a JSON body naming it.
// Paths that match no dashboard route pass through untouched.
func RequireRoute(opts PageGuardOptions) func(http.Handler) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m, ok := opts.Routes.Resolve(r.URL.Path)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			v := opts.Gate.Authorize(ctx, storeFor(ctx, opts.Stores), m.Route.Requirement, refererRouteName(r, opts.Routes))
			target, redirected := v.Redirect()
			if !redirected {
				next.ServeHTTP(w, r.WithContext(SetMatchInContext(ctx, m)))
				return
			}

			toLogin := target == opts.Gate.LoginPath()
			if toLogin {
				target = loginURL(target, r.URL.RequestURI())
			}
			logger.DebugContext(ctx, "page navigation redirected",
				"route", m.Route.Name,
				"redirect_to", target,
			)

			if IsBrowserRequest(r) {
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			code := http.StatusForbidden
			if toLogin {
				code = http.StatusUnauthorized
			}
			WriteJSON(w, code, map[string]string{
				"error":       "navigation_redirected",
				"redirect_to": target,
			})
		})
	}
}

// loginURL appends the originally requested location so login can return to it.
func loginURL(loginPath, requested string) string {
	requested = safeRedirectPath(requested)
	if requested == "/" || strings.HasPrefix(requested, loginPath) {
		return loginPath
	}
	return loginPath + "?redirect_uri=" + url.QueryEscape(requested)
}

// refererRouteName reports which dashboard route the browser is navigating from. A
// Referer on another host names no route here.
func refererRouteName(r *http.Request, routes RouteResolver) string {
	raw := r.Header.Get("Referer")
	if u, err := url.Parse(raw); err != nil || (u.IsAbs() && !strings.EqualFold(u.Host, r.Host)) {
		return ""
	}
	from := safeRedirectFromURL(raw)
	if from == "" || routes == nil {
		return ""
	}
	if m, ok := routes.Resolve(from); ok {
		return m.Route.Name
	}
	return ""
}

func safeRedirectFromURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	// Reject scheme-relative or host-only references.
	if u.Host != "" && !u.IsAbs() {
		return ""
	}

	// For absolute URLs, use just the path/query portion to keep redirects within the app.
	if u.IsAbs() {
		return safeRedirectPath(u.RequestURI())
	}

	return safeRedirectPath(raw)
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(candidate, "//") {
		return "/"
	}
	return candidate
}
