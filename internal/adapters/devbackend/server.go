// Package devbackend is an in-memory stand-in for the dashboard REST backend. It issues
// HS256 tokens and enforces the same 401/403 rules as the real service, which makes it
// useful for local development and end-to-end tests of the console.
package devbackend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	domainauth "github.com/notrick-no/iReasearch/internal/domain/auth"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL matches the backend's token lifetime.
const DefaultTokenTTL = 24 * time.Hour

// Account is a configured backend user.
type Account struct {
	ID       int64
	Username string
	Email    string
	Password string
	Role     domainauth.Role
}

// Options configures the dev backend.
type Options struct {
	Secret   []byte
	TokenTTL time.Duration
	Accounts []Account
	// HashCost is the bcrypt cost used for configured passwords.
	HashCost int
	Now      func() time.Time
	Logger   *slog.Logger
}

// Claims is the token payload.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type account struct {
	user domainauth.User
	hash []byte
}

// Concept is a sample editor-managed resource.
type Concept struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Server is the dev backend.
type Server struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	accounts map[string]account

	mu       sync.Mutex
	concepts []Concept
	nextID   int64
}

// DefaultAccounts returns one account per role; passwords equal usernames.
func DefaultAccounts() []Account {
	return []Account{
		{ID: 1, Username: "admin", Email: "admin@example.com", Password: "admin", Role: domainauth.RoleAdmin},
		{ID: 2, Username: "editor", Email: "editor@example.com", Password: "editor", Role: domainauth.RoleEditor},
		{ID: 3, Username: "viewer", Email: "viewer@example.com", Password: "viewer", Role: domainauth.RoleViewer},
	}
}

// New hashes the configured passwords and builds a Server.
func New(opts Options) (*Server, error) {
	if len(opts.Secret) == 0 {
		return nil, errors.New("devbackend: signing secret is required")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = DefaultTokenTTL
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Accounts == nil {
		opts.Accounts = DefaultAccounts()
	}

	s := &Server{
		secret:   opts.Secret,
		ttl:      opts.TokenTTL,
		now:      opts.Now,
		logger:   opts.Logger,
		accounts: make(map[string]account, len(opts.Accounts)),
		concepts: []Concept{{ID: 1, Name: "Retrieval"}, {ID: 2, Name: "Ranking"}},
		nextID:   3,
	}
	for _, a := range opts.Accounts {
		role := domainauth.ParseRole(string(a.Role))
		if !role.Known() {
			return nil, fmt.Errorf("devbackend: account %q has unknown role %q", a.Username, a.Role)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), opts.HashCost)
		if err != nil {
			return nil, fmt.Errorf("devbackend: hash password for %q: %w", a.Username, err)
		}
		s.accounts[a.Username] = account{
			user: domainauth.User{ID: a.ID, Username: a.Username, Email: a.Email, Role: role},
			hash: hash,
		}
	}
	return s, nil
}

// Handler returns the backend's routes, all under /api.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireRole(domainauth.RoleNone))
			r.Get("/auth/me", s.handleMe)
			r.Get("/companies", s.handleCompanies)
			r.Get("/concepts", s.handleListConcepts)
		})
		r.Group(func(r chi.Router) {
			r.Use(s.requireRole(domainauth.RoleEditor))
			r.Post("/concepts", s.handleCreateConcept)
		})
		r.Group(func(r chi.Router) {
			r.Use(s.requireRole(domainauth.RoleAdmin))
			r.Get("/users", s.handleUsers)
		})
	})
	return r
}

// IssueToken signs a token for u valid for the configured TTL.
func (s *Server) IssueToken(u domainauth.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   u.ID,
		Username: u.Username,
		Role:     string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) parseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

type claimsKey struct{}

func claimsFrom(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey{}).(*Claims)
	return c
}

// requireRole rejects requests without a valid token (401) or whose role does not
// satisfy required (403). RoleNone only requires a valid token.
func (s *Server) requireRole(required domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing_token", "missing bearer token")
				return
			}
			claims, err := s.parseToken(token)
			if err != nil {
				s.logger.DebugContext(r.Context(), "rejected token", "error", err)
				writeError(w, http.StatusUnauthorized, "invalid_token", "invalid or expired token")
				return
			}
			if !domainauth.ParseRole(claims.Role).Satisfies(required) {
				writeError(w, http.StatusForbidden, "forbidden", fmt.Sprintf("%s role required", required))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}
	token := value[len(bearer):]
	if token == "" {
		return "", false
	}
	return token, true
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string          `json:"token"`
	User  domainauth.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}

	acct, ok := s.accounts[req.Username]
	if !ok || bcrypt.CompareHashAndPassword(acct.hash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "incorrect username or password")
		return
	}

	token, err := s.IssueToken(acct.user)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "sign token", "error", err)
		writeError(w, http.StatusInternalServerError, "login_failed", err.Error())
		return
	}

	// The login payload omits email, matching the backend.
	u := acct.user
	u.Email = ""
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: u})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	c := claimsFrom(r.Context())
	writeJSON(w, http.StatusOK, domainauth.User{
		ID:       c.UserID,
		Username: c.Username,
		Role:     domainauth.ParseRole(c.Role),
	})
}

func (s *Server) handleUsers(w http.ResponseWriter, _ *http.Request) {
	users := make([]domainauth.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		users = append(users, a.user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCompanies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, []map[string]any{
		{"id": 1, "name": "Acme Research"},
		{"id": 2, "name": "Globex Labs"},
	})
}

func (s *Server) handleListConcepts(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := append([]Concept(nil), s.concepts...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateConcept(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	s.mu.Lock()
	c := Concept{ID: s.nextID, Name: strings.TrimSpace(in.Name)}
	s.nextID++
	s.concepts = append(s.concepts, c)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, c)
}
