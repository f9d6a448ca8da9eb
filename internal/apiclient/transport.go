// Package apiclient is the backend REST client. Every request it sends carries the
// caller's session token, and every 401 it receives invalidates that session before
// the error reaches the caller.
package apiclient

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/notrick-no/iReasearch/internal/ports"
	"github.com/notrick-no/iReasearch/internal/service"
)

// Transport is an http.RoundTripper that applies the session gate around each exchange.
type Transport struct {
	Base      http.RoundTripper
	Gate      *service.Gate
	Store     ports.SessionStore
	Navigator ports.Navigator
	Logger    *slog.Logger
}

// RoundTrip decorates a clone of req with the stored token, sends it, and hands the
// response to the gate. Gate side effects finish before RoundTrip returns.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Gate == nil {
		return nil, errors.New("apiclient: transport has no gate")
	}
	ctx := req.Context()

	out := req.Clone(ctx)
	t.Gate.DecorateRequest(t.Gate.LoadSession(ctx, t.Store), out)

	resp, err := t.base().RoundTrip(out)
	if err != nil {
		return nil, err
	}

	outcome, gerr := t.Gate.OnResponse(ctx, t.Store, t.Navigator, resp)
	if gerr != nil {
		t.logger().WarnContext(ctx, "session invalidation incomplete",
			"method", req.Method,
			"path", req.URL.Path,
			"error", gerr,
		)
	}
	if outcome == service.SessionInvalidated {
		t.logger().InfoContext(ctx, "backend rejected session", "method", req.Method, "path", req.URL.Path)
	}
	return resp, nil
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}
