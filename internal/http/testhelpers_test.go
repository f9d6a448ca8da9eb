package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/notrick-no/iReasearch/internal/apiclient"
	domainauth "github.com/notrick-no/iReasearch/internal/domain/auth"
	mocks "github.com/notrick-no/iReasearch/internal/mocks/auth"
	"github.com/notrick-no/iReasearch/internal/ports"
	"github.com/notrick-no/iReasearch/internal/router"
	"github.com/notrick-no/iReasearch/internal/service"
	"github.com/stretchr/testify/require"
)

const testShell = "<!doctype html><title>shell</title>"

// fakeAuthenticator accepts username==password and stores a session carrying the
// username as role.
type fakeAuthenticator struct {
	err error
}

func (f fakeAuthenticator) Login(
	ctx context.Context,
	store ports.SessionStore,
	username, password string,
) (domainauth.User, error) {
	if f.err != nil {
		return domainauth.User{}, f.err
	}
	if username != password {
		if err := store.Clear(ctx); err != nil {
			return domainauth.User{}, err
		}
		return domainauth.User{}, &apiclient.APIError{Status: http.StatusUnauthorized, Code: "invalid_credentials"}
	}
	u := domainauth.User{ID: 1, Username: username, Role: domainauth.ParseRole(username)}
	raw, err := domainauth.EncodeUser(u)
	if err != nil {
		return domainauth.User{}, err
	}
	if err := store.Set(ctx, domainauth.StoredSession{Token: "tok-" + username, User: raw}); err != nil {
		return domainauth.User{}, err
	}
	return u, nil
}

type testEnv struct {
	stores  *mocks.MemorySessionStores
	gate    *service.Gate
	routes  *router.Router
	handler http.Handler
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAssets() fstest.MapFS {
	return fstest.MapFS{
		"index.html":    {Data: []byte(testShell)},
		"assets/app.js": {Data: []byte("console.log('ok')")},
	}
}

func newTestEnv(t *testing.T, api http.Handler) testEnv {
	t.Helper()
	stores := mocks.NewMemorySessionStores()
	gate := service.NewGate(service.GateOptions{RoleImpliesAuth: true, Logger: discardLogger()})
	routes, err := router.New(router.Options{})
	require.NoError(t, err)

	h, err := NewRouter(RouterServices{
		Gate:   gate,
		Stores: stores,
		Routes: routes,
		Auth:   fakeAuthenticator{},
		API:    api,
		Assets: testAssets(),
		Logger: discardLogger(),
	})
	require.NoError(t, err)
	return testEnv{stores: stores, gate: gate, routes: routes, handler: h}
}

// seed stores a session for role under scope and returns the matching cookie.
func (e testEnv) seed(t *testing.T, scope string, role domainauth.Role) *http.Cookie {
	t.Helper()
	raw, err := domainauth.EncodeUser(domainauth.User{Username: string(role), Role: role})
	require.NoError(t, err)
	require.NoError(t, e.stores.Scope(scope).Set(context.Background(), domainauth.StoredSession{Token: "tok", User: raw}))
	return &http.Cookie{Name: DefaultSessionCookie, Value: scope}
}

func (e testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func browserGet(path string, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
