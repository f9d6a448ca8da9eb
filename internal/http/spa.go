package httpx

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
)

// SPAHandler serves the dashboard shell for resolved page routes and static files
// under /assets/.
type SPAHandler struct {
	index  []byte
	static http.Handler
}

// NewSPAHandler loads index.html from files, which must hold the built dashboard.
func NewSPAHandler(files fs.FS) (*SPAHandler, error) {
	if files == nil {
		return nil, errors.New("spa: asset filesystem is required")
	}
	index, err := fs.ReadFile(files, "index.html")
	if err != nil {
		return nil, fmt.Errorf("spa: read index.html: %w", err)
	}
	return &SPAHandler{index: index, static: http.FileServer(http.FS(files))}, nil
}

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/assets/") {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		h.static.ServeHTTP(w, r)
		return
	}

	m, ok := MatchFromContext(r.Context())
	if !ok {
		if IsBrowserRequest(r) {
			http.NotFound(w, r)
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("page not found")})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Route-Name", m.Route.Name)
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(h.index)
}
