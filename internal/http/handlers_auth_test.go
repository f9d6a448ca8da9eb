package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/notrick-no/iReasearch/internal/apiclient"
	domainauth "github.com/notrick-no/iReasearch/internal/domain/auth"
	mocks "github.com/notrick-no/iReasearch/internal/mocks/auth"
	"github.com/notrick-no/iReasearch/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLogin(body string, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func TestLogin_JSONStartsScope(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(jsonLogin(`{"username":"editor","password":"editor","redirect_uri":"/concepts"}`, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		User       domainauth.User `json:"user"`
		RedirectTo string          `json:"redirect_to"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domainauth.RoleEditor, body.User.Role)
	assert.Equal(t, "/concepts", body.RedirectTo)

	cookie := findCookie(rec.Result(), DefaultSessionCookie)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "tok-editor", env.stores.Store(cookie.Value).Snapshot().Token)

	// The new cookie now opens editor pages.
	rec = env.do(browserGet("/concepts", cookie))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_FormRedirectsSafely(t *testing.T) {
	env := newTestEnv(t, nil)

	form := url.Values{"username": {"admin"}, "password": {"admin"}, "redirect_uri": {"https://evil.example/"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")

	rec := env.do(req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.NotNil(t, findCookie(rec.Result(), DefaultSessionCookie))
}

func TestLogin_ReplacesPreviousScope(t *testing.T) {
	env := newTestEnv(t, nil)
	old := env.seed(t, "old-scope", domainauth.RoleViewer)

	rec := env.do(jsonLogin(`{"username":"admin","password":"admin"}`, old))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.True(t, env.stores.Store("old-scope").Snapshot().Empty())
	cookie := findCookie(rec.Result(), DefaultSessionCookie)
	require.NotNil(t, cookie)
	assert.NotEqual(t, "old-scope", cookie.Value)
}

func TestLogin_Failures(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(jsonLogin(`{"username":"admin","password":"wrong"}`, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_credentials")
	assert.Nil(t, findCookie(rec.Result(), DefaultSessionCookie))

	rec = env.do(jsonLogin(`{"username":"admin"}`, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(jsonLogin(`{not json`, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	form := url.Values{"username": {"admin"}, "password": {"nope"}, "redirect_uri": {"/users"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	rec = env.do(req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?error=invalid_credentials&redirect_uri=%2Fusers", rec.Header().Get("Location"))
}

func TestLogin_BackendUnavailable(t *testing.T) {
	stores := mocks.NewMemorySessionStores()
	h := &AuthHandlers{
		Gate:   service.NewGate(service.GateOptions{}),
		Stores: stores,
		Auth:   fakeAuthenticator{err: errors.New("dial tcp: connection refused")},
		Logger: discardLogger(),
	}
	rec := httptest.NewRecorder()
	h.Login(rec, jsonLogin(`{"username":"a","password":"a"}`, nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "backend_unavailable")
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie := env.seed(t, "s1", domainauth.RoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","redirect_to":"/login"}`, rec.Body.String())
	assert.True(t, env.stores.Store("s1").Snapshot().Empty())

	cleared := findCookie(rec.Result(), DefaultSessionCookie)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)

	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Accept", "text/html")
	rec = env.do(req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestSessionEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	rec := env.do(req)
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())

	cookie := env.seed(t, "s2", domainauth.RoleEditor)
	req = httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req.AddCookie(cookie)
	rec = env.do(req)
	assert.JSONEq(t, `{"authenticated":true,"user":{"username":"editor","role":"editor"}}`, rec.Body.String())
}

func TestClientAuthenticator(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"abc","user":{"id":7,"username":"ada","role":"admin"}}`))
	}))
	defer backend.Close()

	client, err := apiclient.New(apiclient.Options{
		BaseURL: backend.URL + "/api",
		Gate:    service.NewGate(service.GateOptions{Logger: discardLogger()}),
	})
	require.NoError(t, err)

	store := mocks.NewMemorySessionStore(domainauth.StoredSession{})
	u, err := ClientAuthenticator{Client: client}.Login(context.Background(), store, "ada", "pw")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, u.Role)
	assert.Equal(t, "abc", store.Snapshot().Token)
}
