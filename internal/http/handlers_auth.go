package httpx

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/notrick-no/iReasearch/internal/apiclient"
	domainauth "github.com/notrick-no/iReasearch/internal/domain/auth"
	"github.com/notrick-no/iReasearch/internal/ports"
)

// Authenticator exchanges credentials for a session persisted into store.
type Authenticator interface {
	Login(ctx context.Context, store ports.SessionStore, username, password string) (domainauth.User, error)
}

// ClientAuthenticator logs in through the backend API client.
type ClientAuthenticator struct {
	Client *apiclient.Client
}

// Login binds the client to store for the duration of one login call.
func (a ClientAuthenticator) Login(
	ctx context.Context,
	store ports.SessionStore,
	username, password string,
) (domainauth.User, error) {
	return a.Client.WithSession(store, nil).Login(ctx, username, password)
}

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Name   string
	Domain string
	MaxAge time.Duration
}

func (c CookieOptions) name() string {
	if c.Name == "" {
		return DefaultSessionCookie
	}
	return c.Name
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Gate    GateService
	Stores  ports.SessionStores
	Auth    Authenticator
	Cookies CookieOptions
	Logger  *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type credentials struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	RedirectURI string `json:"redirect_uri,omitempty"`
}

// Login authenticates against the backend and starts a fresh session scope.
// POST /auth/login (form or JSON).
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	creds, ok := readCredentials(w, r)
	if !ok {
		return
	}
	if creds.Username == "" || creds.Password == "" {
		h.loginFailed(w, r, creds, errors.New("username and password are required"))
		return
	}

	ctx := r.Context()
	scope := uuid.NewString()
	user, err := h.Auth.Login(ctx, h.Stores.Scope(scope), creds.Username, creds.Password)
	if err != nil {
		h.loginFailed(w, r, creds, err)
		return
	}

	// A new scope per login keeps a pre-login cookie from being reused.
	if old := ScopeFromContext(ctx); old != "" {
		if err := h.Stores.Scope(old).Clear(ctx); err != nil {
			h.logger().WarnContext(ctx, "clearing previous session failed", "error", err)
		}
	}
	h.setSessionCookie(w, r, scope)
	h.logger().InfoContext(ctx, "login succeeded", "username", user.Username, "role", string(user.Role))

	redirect := safeRedirectPath(creds.RedirectURI)
	if IsBrowserRequest(r) {
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"user":        user,
		"redirect_to": redirect,
	})
}

func readCredentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	var creds credentials
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if !DecodeJSON(w, r, &creds) {
			return credentials{}, false
		}
		return creds, true
	}

	if err := r.ParseForm(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
		return credentials{}, false
	}
	creds.Username = strings.TrimSpace(r.PostFormValue("username"))
	creds.Password = r.PostFormValue("password")
	creds.RedirectURI = r.FormValue("redirect_uri")
	return creds, true
}

func (h *AuthHandlers) loginFailed(w http.ResponseWriter, r *http.Request, creds credentials, err error) {
	code, errCode := http.StatusBadGateway, "backend_unavailable"
	var apiErr *apiclient.APIError
	switch {
	case creds.Username == "" || creds.Password == "":
		code, errCode = http.StatusBadRequest, "invalid_request"
	case errors.Is(err, apiclient.ErrUnauthorized):
		code, errCode = http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, apiclient.ErrMissingToken):
		errCode = "invalid_login_response"
	case errors.As(err, &apiErr):
		errCode = "backend_error"
	}
	if code >= http.StatusInternalServerError {
		h.logger().ErrorContext(r.Context(), "login failed", "error", err)
	}

	if IsBrowserRequest(r) {
		q := url.Values{}
		q.Set("error", errCode)
		if creds.RedirectURI != "" {
			q.Set("redirect_uri", safeRedirectPath(creds.RedirectURI))
		}
		http.Redirect(w, r, h.Gate.LoginPath()+"?"+q.Encode(), http.StatusSeeOther)
		return
	}
	WriteError(w, ErrorParams{Code: code, ErrCode: errCode, Err: err})
}

// Logout clears the caller's session scope and cookie.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if store := storeFor(ctx, h.Stores); store != nil {
		if err := store.Clear(ctx); err != nil {
			h.logger().WarnContext(ctx, "logout failed", "error", err)
		}
	}
	h.clearCookie(w, r)

	loginPath := h.Gate.LoginPath()
	if IsBrowserRequest(r) {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":      "success",
		"redirect_to": loginPath,
	})
}

// Session reports the caller's decoded session for the dashboard shell.
// GET /auth/session; expects LoadSession upstream.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r.Context())
	if !ok || !sess.HasToken() {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          sess.User,
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// setSessionCookie writes the session scope cookie.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, scope string) {
	c := &http.Cookie{
		Name:     h.Cookies.name(),
		Value:    scope,
		Path:     "/",
		Domain:   h.Cookies.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
	if h.Cookies.MaxAge > 0 {
		c.MaxAge = int(h.Cookies.MaxAge.Seconds())
	}
	http.SetCookie(w, c)
}

// clearCookie expires the session cookie. It mirrors the attributes used when setting it
// so browsers match and delete it.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, expiredSessionCookie(h.Cookies, isSecureRequest(r)))
}

func expiredSessionCookie(opts CookieOptions, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     opts.name(),
		Value:    "",
		Path:     "/",
		Domain:   opts.Domain,
		HttpOnly: true,
		Secure:   secure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	}
}
