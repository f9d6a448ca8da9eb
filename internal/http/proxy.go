package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/notrick-no/iReasearch/internal/ports"
	"github.com/notrick-no/iReasearch/internal/service"
)

// RedirectHeader tells the dashboard shell where to navigate after a proxied call.
const RedirectHeader = "X-Redirect-To"

// ProxyOptions configures the backend API proxy.
type ProxyOptions struct {
	// Target is the backend API base, e.g. http://localhost:5000/api.
	Target *url.URL
	// Prefix is stripped from incoming paths before joining them to Target.
	Prefix    string
	Gate      GateService
	Stores    ports.SessionStores
	Routes    RouteResolver
	Cookies   CookieOptions
	Transport http.RoundTripper
	Timeout   time.Duration
	Logger    *slog.Logger
}

// headerNavigator turns a redirect into a response header. The browser is the real
// navigator; the header tells it where to go.
type headerNavigator struct {
	header  http.Header
	current string
}

func (n *headerNavigator) CurrentRouteName() string { return n.current }

func (n *headerNavigator) Push(_ context.Context, path string) error {
	n.header.Set(RedirectHeader, path)
	n.current = ""
	return nil
}

var _ ports.Navigator = (*headerNavigator)(nil)

type proxyCallKey struct{}

// proxyCall carries inbound request facts to ModifyResponse.
type proxyCall struct {
	fromRoute string
	secure    bool
}

// NewAPIProxy returns a reverse proxy that forwards the caller's token to the backend and
// invalidates the caller's session when the backend answers 401.
func NewAPIProxy(opts ProxyOptions) (http.Handler, error) {
	if opts.Target == nil || opts.Target.Scheme == "" || opts.Target.Host == "" {
		return nil, errors.New("api proxy: absolute target URL is required")
	}
	if opts.Gate == nil {
		return nil, errors.New("api proxy: gate is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	target := *opts.Target
	target.Path = strings.TrimRight(target.Path, "/")

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	rp := &httputil.ReverseProxy{
		Transport: transport,
		Rewrite: func(pr *httputil.ProxyRequest) {
			ctx := pr.In.Context()
			pr.Out.URL.Path = strings.TrimPrefix(pr.In.URL.Path, opts.Prefix)
			pr.Out.URL.RawPath = ""
			pr.SetURL(&target)
			pr.SetXForwarded()

			// The gateway is the only source of credentials; browser cookies stay here.
			pr.Out.Header.Del("Authorization")
			pr.Out.Header.Del("Cookie")
			opts.Gate.DecorateRequest(opts.Gate.LoadSession(ctx, storeFor(ctx, opts.Stores)), pr.Out)
		},
		ModifyResponse: func(resp *http.Response) error {
			ctx := resp.Request.Context()
			call, _ := ctx.Value(proxyCallKey{}).(proxyCall)
			nav := &headerNavigator{header: resp.Header, current: call.fromRoute}

			outcome, err := opts.Gate.OnResponse(ctx, storeFor(ctx, opts.Stores), nav, resp)
			if err != nil {
				logger.WarnContext(ctx, "session invalidation incomplete", "error", err)
			}
			if outcome == service.SessionInvalidated {
				resp.Header.Add("Set-Cookie", expiredSessionCookie(opts.Cookies, call.secure).String())
			}
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			code := http.StatusBadGateway
			if errors.Is(err, context.DeadlineExceeded) {
				code = http.StatusGatewayTimeout
			}
			logger.ErrorContext(r.Context(), "backend request failed",
				"method", r.Method,
				"path", r.URL.Path,
				"error", err,
			)
			WriteError(w, ErrorParams{Code: code, ErrCode: "backend_unavailable", Err: errors.New("backend unavailable")})
		},
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), proxyCallKey{}, proxyCall{
			fromRoute: refererRouteName(r, opts.Routes),
			secure:    isSecureRequest(r),
		})
		if opts.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
			defer cancel()
		}
		rp.ServeHTTP(w, r.WithContext(ctx))
	}), nil
}
