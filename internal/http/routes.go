package httpx

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/notrick-no/iReasearch/internal/observability/metrics"
	"github.com/notrick-no/iReasearch/internal/ports"
)

// RouterServices holds everything the console router needs.
type RouterServices struct {
	Gate   GateService
	Stores ports.SessionStores
	Routes RouteResolver
	Auth   Authenticator
	// API handles /api/*; usually NewAPIProxy.
	API     http.Handler
	Assets  fs.FS
	Cookies CookieOptions

	CORSOrigins []string
	// CompressionLevel enables gzip for text responses when in 1..9.
	CompressionLevel int

	// Optional instrumentation.
	Metrics        *metrics.HTTP
	MetricsHandler http.Handler
	// MetricsPath defaults to /metrics.
	MetricsPath string
	ReadyChecks    map[string]ReadyCheck

	Logger *slog.Logger
}

var compressibleTypes = []string{
	"text/html",
	"text/css",
	"text/plain",
	"text/javascript",
	"application/javascript",
	"application/json",
	"image/svg+xml",
}

// DefaultCORSOptions returns the development CORS policy for the dashboard dev server.
func DefaultCORSOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{RedirectHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

// NewRouter assembles the console: guarded dashboard pages, auth endpoints, the backend
// API proxy and operational endpoints.
func NewRouter(s RouterServices) (http.Handler, error) {
	if s.Gate == nil || s.Stores == nil || s.Routes == nil {
		return nil, errors.New("router: gate, stores and routes are required")
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	spa, err := NewSPAHandler(s.Assets)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Recover(logger))
	r.Use(Logging(logger))
	if s.Metrics != nil {
		r.Use(s.Metrics.Middleware)
	}
	r.Use(cors.Handler(DefaultCORSOptions(s.CORSOrigins)))
	if s.CompressionLevel > 0 {
		r.Use(middleware.Compress(s.CompressionLevel, compressibleTypes...))
	}
	r.Use(BrowserDetection())
	r.Use(SessionScope(s.Cookies.Name))

	r.Get("/healthz", healthHandler)
	r.Head("/healthz", healthHandler)
	if len(s.ReadyChecks) > 0 {
		r.Get("/readyz", readyHandler(s.ReadyChecks, logger))
	}
	if s.MetricsHandler != nil {
		path := s.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, s.MetricsHandler)
	}

	auth := &AuthHandlers{Gate: s.Gate, Stores: s.Stores, Auth: s.Auth, Cookies: s.Cookies, Logger: logger}
	r.Route("/auth", func(r chi.Router) {
		if s.Auth != nil {
			r.Post("/login", auth.Login)
		}
		r.Post("/logout", auth.Logout)
		r.With(LoadSession(s.Gate, s.Stores)).Get("/session", auth.Session)
	})

	if s.API != nil {
		r.Handle("/api/*", s.API)
	}

	r.Handle("/assets/*", spa)
	r.With(RequireRoute(PageGuardOptions{
		Gate:   s.Gate,
		Stores: s.Stores,
		Routes: s.Routes,
		Logger: logger,
	})).Get("/*", spa.ServeHTTP)

	return r, nil
}
