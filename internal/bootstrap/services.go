package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/notrick-no/iReasearch/config"
	"github.com/notrick-no/iReasearch/internal/adapters/devbackend"
	"github.com/notrick-no/iReasearch/internal/adapters/memory"
	redisstore "github.com/notrick-no/iReasearch/internal/adapters/redis"
	"github.com/notrick-no/iReasearch/internal/apiclient"
	httpx "github.com/notrick-no/iReasearch/internal/http"
	"github.com/notrick-no/iReasearch/internal/observability/metrics"
	"github.com/notrick-no/iReasearch/internal/ports"
	"github.com/notrick-no/iReasearch/internal/router"
	"github.com/notrick-no/iReasearch/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// ServiceContainer holds the assembled components of every enabled service.
type ServiceContainer struct {
	Gate   *service.Gate
	Stores ports.SessionStores
	Routes *router.Router
	Client *apiclient.Client

	// Console is nil unless the console service is enabled.
	Console http.Handler
	// DevBackend is nil unless the dev-backend service is enabled.
	DevBackend http.Handler
}

// ServiceDeps contains dependencies for building services.
type ServiceDeps struct {
	Config *config.AppConfig
	// Redis is required when sessions are stored in Redis.
	Redis redis.UniversalClient
	// Assets holds index.html and assets/ for the dashboard shell.
	Assets fs.FS
	// Registry receives the metrics collectors; a fresh registry is created when nil.
	Registry *prometheus.Registry
	Logger   *slog.Logger
}

// NewServices assembles the gate, session stores, navigation routes, API client and the
// HTTP handlers of the enabled services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reg := deps.Registry
	if reg == nil {
		reg = newRegistry()
	}

	enabled, err := cfg.GetEnabledServices()
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("determine enabled services: %w", err)
	}

	var sc ServiceContainer
	if enabled[config.ServiceModeDevBackend] {
		if sc.DevBackend, err = buildDevBackend(cfg.DevBackend, logger); err != nil {
			return ServiceContainer{}, err
		}
	}
	if !enabled[config.ServiceModeConsole] {
		return sc, nil
	}

	gateMetrics, err := metrics.NewGate(reg)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("register gate metrics: %w", err)
	}
	sc.Gate = service.NewGate(service.GateOptions{
		LoginPath:       cfg.Auth.LoginPath,
		HomePath:        cfg.Auth.HomePath,
		LoginRouteName:  cfg.Auth.LoginRouteName,
		RoleImpliesAuth: cfg.Auth.RoleImpliesAuth,
		Metrics:         gateMetrics,
		Logger:          logger,
	})

	if sc.Stores, err = newSessionStores(cfg.Session, deps.Redis); err != nil {
		return ServiceContainer{}, err
	}
	if sc.Routes, err = router.New(router.Options{Logger: logger}); err != nil {
		return ServiceContainer{}, fmt.Errorf("build routes: %w", err)
	}
	if sc.Client, err = apiclient.New(apiclient.Options{
		BaseURL:   cfg.Backend.URL,
		Timeout:   cfg.Backend.Timeout,
		Gate:      sc.Gate,
		TokenPath: cfg.Auth.TokenPath,
		UserPath:  cfg.Auth.UserPath,
		Logger:    logger,
	}); err != nil {
		return ServiceContainer{}, fmt.Errorf("build api client: %w", err)
	}

	sc.Console, err = buildConsole(consoleDeps{
		cfg:      cfg,
		sc:       &sc,
		redis:    deps.Redis,
		assets:   deps.Assets,
		registry: reg,
		logger:   logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}
	return sc, nil
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

//nolint:ireturn // callers only need the port.
func newSessionStores(cfg config.SessionConfig, client redis.UniversalClient) (ports.SessionStores, error) {
	switch cfg.Store {
	case config.SessionStoreRedis:
		if client == nil {
			return nil, errors.New("redis session store selected but no redis client configured")
		}
		return redisstore.NewSessionStoresWithPrefix(client, cfg.KeyPrefix, cfg.TTL), nil
	case config.SessionStoreMemory, "":
		return memory.NewSessionStores(cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}

type consoleDeps struct {
	cfg      *config.AppConfig
	sc       *ServiceContainer
	redis    redis.UniversalClient
	assets   fs.FS
	registry *prometheus.Registry
	logger   *slog.Logger
}

func buildConsole(d consoleDeps) (http.Handler, error) {
	cfg := d.cfg
	cookies := httpx.CookieOptions{
		Name:   cfg.Session.CookieName,
		Domain: cfg.HTTP.CookieDomain,
		MaxAge: cfg.Session.TTL,
	}

	target, err := url.Parse(cfg.Backend.URL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	api, err := httpx.NewAPIProxy(httpx.ProxyOptions{
		Target:  target,
		Prefix:  "/api",
		Gate:    d.sc.Gate,
		Stores:  d.sc.Stores,
		Routes:  d.sc.Routes,
		Cookies: cookies,
		Timeout: cfg.Backend.Timeout,
		Logger:  d.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build api proxy: %w", err)
	}

	services := httpx.RouterServices{
		Gate:             d.sc.Gate,
		Stores:           d.sc.Stores,
		Routes:           d.sc.Routes,
		Auth:             httpx.ClientAuthenticator{Client: d.sc.Client},
		API:              api,
		Assets:           d.assets,
		Cookies:          cookies,
		CORSOrigins:      cfg.HTTP.CORSOrigins,
		CompressionLevel: cfg.HTTP.CompressionLevelOrOff(),
		ReadyChecks:      readyChecks(d.redis),
		Logger:           d.logger,
	}
	if cfg.Observability.Metrics.Enabled {
		httpMetrics, err := metrics.NewHTTP(d.registry)
		if err != nil {
			return nil, fmt.Errorf("register http metrics: %w", err)
		}
		services.Metrics = httpMetrics
		services.MetricsHandler = promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{})
		services.MetricsPath = cfg.Observability.Metrics.Path
	}

	if cfg.HTTP.CompressionEnabled {
		d.logger.Info("HTTP compression enabled", "level", cfg.HTTP.CompressionLevel)
	}
	h, err := httpx.NewRouter(services)
	if err != nil {
		return nil, fmt.Errorf("build console router: %w", err)
	}
	return h, nil
}

func readyChecks(client redis.UniversalClient) map[string]httpx.ReadyCheck {
	if client == nil {
		return nil
	}
	return map[string]httpx.ReadyCheck{
		"redis": func(ctx context.Context) error { return client.Ping(ctx).Err() },
	}
}

func buildDevBackend(cfg config.DevBackendConfig, logger *slog.Logger) (http.Handler, error) {
	srv, err := devbackend.New(devbackend.Options{
		Secret:   []byte(cfg.Secret),
		TokenTTL: cfg.TokenTTL,
		Logger:   logger.With("service", string(config.ServiceModeDevBackend)),
	})
	if err != nil {
		return nil, fmt.Errorf("build dev backend: %w", err)
	}
	// Order: Recover -> Logging -> Router
	return httpx.Recover(logger)(httpx.Logging(logger)(srv.Handler())), nil
}

// ServiceOrchestrationConfig contains everything needed to run the enabled services.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

type managedServer struct {
	name   string
	server *http.Server
	// ln is optional; when nil the server binds its Addr.
	ln net.Listener
}

// RunServicesWithShutdown starts all enabled servers and blocks until a shutdown signal
// is received or a server fails.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var servers []managedServer
	if cfg.Services.Console != nil {
		servers = append(servers, managedServer{
			name:   string(config.ServiceModeConsole),
			server: newServer(cfg.Config.HTTP.Addr, cfg.Services.Console),
		})
	}
	if cfg.Services.DevBackend != nil {
		servers = append(servers, managedServer{
			name:   string(config.ServiceModeDevBackend),
			server: newServer(cfg.Config.DevBackend.Addr, cfg.Services.DevBackend),
		})
	}
	if len(servers) == 0 {
		return errors.New("no services enabled")
	}

	return runServers(ctx, servers, cfg.Config.HTTP.ShutdownTimeout, logger)
}

// runServers serves every server until ctx is done or one of them fails, then shuts
// them all down.
func runServers(ctx context.Context, servers []managedServer, timeout time.Duration, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, s := range servers {
		g.Go(func() error {
			logger.InfoContext(gctx, "starting HTTP server", "server", s.name, "addr", s.server.Addr)
			if err := serve(s.server, s.ln); err != nil {
				return fmt.Errorf("%s server: %w", s.name, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down services...")
		var errs []error
		for _, s := range servers {
			if err := ShutdownHTTPServer(ShutdownConfig{
				Context: gctx,
				Server:  s.server,
				Name:    s.name,
				Timeout: timeout,
				Logger:  logger,
			}); err != nil {
				errs = append(errs, fmt.Errorf("shutdown %s: %w", s.name, err))
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
