package devbackend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domainauth "github.com/notrick-no/iReasearch/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T, now func() time.Time) *Server {
	t.Helper()
	s, err := New(Options{Secret: []byte("test-secret"), HashCost: bcrypt.MinCost, Now: now})
	require.NoError(t, err)
	return s
}

func login(t *testing.T, h http.Handler, username, password string) (int, loginResponse) {
	t.Helper()
	body := `{"username":"` + username + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp loginResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec.Code, resp
}

func call(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	code, resp := login(t, h, "editor", "editor")
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, domainauth.RoleEditor, resp.User.Role)
	assert.Equal(t, "editor", resp.User.Username)
	assert.Empty(t, resp.User.Email)

	code, _ = login(t, h, "editor", "wrong")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = login(t, h, "nobody", "x")
	assert.Equal(t, http.StatusUnauthorized, code)

	rec := call(h, http.MethodPost, "/api/auth/login", "", `{"username":"editor"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMe(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	_, resp := login(t, h, "viewer", "viewer")

	rec := call(h, http.MethodGet, "/api/auth/me", resp.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var u domainauth.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, domainauth.RoleViewer, u.Role)
}

func TestRoleEnforcement(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	tokens := map[string]string{}
	for _, name := range []string{"admin", "editor", "viewer"} {
		_, resp := login(t, h, name, name)
		tokens[name] = resp.Token
	}

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   int
	}{
		{name: "no token", method: http.MethodGet, path: "/api/companies", want: http.StatusUnauthorized},
		{name: "garbage token", method: http.MethodGet, path: "/api/companies", token: "garbage", want: http.StatusUnauthorized},
		{name: "viewer companies", method: http.MethodGet, path: "/api/companies", token: tokens["viewer"], want: http.StatusOK},
		{name: "viewer users", method: http.MethodGet, path: "/api/users", token: tokens["viewer"], want: http.StatusForbidden},
		{name: "editor users", method: http.MethodGet, path: "/api/users", token: tokens["editor"], want: http.StatusForbidden},
		{name: "admin users", method: http.MethodGet, path: "/api/users", token: tokens["admin"], want: http.StatusOK},
		{
			name: "viewer create concept", method: http.MethodPost, path: "/api/concepts",
			token: tokens["viewer"], body: `{"name":"x"}`, want: http.StatusForbidden,
		},
		{
			name: "editor create concept", method: http.MethodPost, path: "/api/concepts",
			token: tokens["editor"], body: `{"name":"Graphs"}`, want: http.StatusCreated,
		},
		{
			name: "admin satisfies editor", method: http.MethodPost, path: "/api/concepts",
			token: tokens["admin"], body: `{"name":"Agents"}`, want: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(h, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	rec := call(h, http.MethodGet, "/api/concepts", tokens["viewer"], "")
	require.Equal(t, http.StatusOK, rec.Code)
	var concepts []Concept
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &concepts))
	assert.Len(t, concepts, 4)
}

func TestExpiredToken(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newTestServer(t, func() time.Time { return now })
	h := s.Handler()

	_, resp := login(t, h, "admin", "admin")
	require.Equal(t, http.StatusOK, call(h, http.MethodGet, "/api/auth/me", resp.Token, "").Code)

	now = now.Add(DefaultTokenTTL + time.Minute)
	assert.Equal(t, http.StatusUnauthorized, call(h, http.MethodGet, "/api/auth/me", resp.Token, "").Code)
}

func TestTokenFromOtherSecretRejected(t *testing.T) {
	other, err := New(Options{Secret: []byte("other"), HashCost: bcrypt.MinCost})
	require.NoError(t, err)
	tok, err := other.IssueToken(domainauth.User{ID: 1, Username: "admin", Role: domainauth.RoleAdmin})
	require.NoError(t, err)

	h := newTestServer(t, nil).Handler()
	assert.Equal(t, http.StatusUnauthorized, call(h, http.MethodGet, "/api/users", tok, "").Code)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)

	_, err = New(Options{Secret: []byte("s"), HashCost: bcrypt.MinCost, Accounts: []Account{
		{ID: 1, Username: "x", Password: "x", Role: "owner"},
	}})
	require.Error(t, err)
}

func TestErrorBodies(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	_, resp := login(t, h, "editor", "editor")

	tests := []struct {
		name    string
		path    string
		token   string
		body    string
		want    int
		errCode string
	}{
		{name: "missing token", path: "/api/concepts", body: `{"name":"x"}`, want: http.StatusUnauthorized, errCode: "missing_token"},
		{name: "trailing data", path: "/api/concepts", token: resp.Token, body: `{"name":"x"}{}`, want: http.StatusBadRequest, errCode: "invalid_json"},
		{name: "unknown field", path: "/api/concepts", token: resp.Token, body: `{"title":"x"}`, want: http.StatusBadRequest, errCode: "invalid_json"},
		{name: "blank name", path: "/api/concepts", token: resp.Token, body: `{"name":"  "}`, want: http.StatusBadRequest, errCode: "invalid_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(h, http.MethodPost, tt.path, tt.token, tt.body)
			require.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.errCode, body["error"])
			assert.NotEmpty(t, body["message"])
		})
	}
}
