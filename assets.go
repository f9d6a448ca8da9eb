// Package ireasearch provides embedded assets for production builds.
package ireasearch

import (
	"embed"
	"io/fs"
	"os"
)

// Embedded dashboard shell and static assets.
// In dev mode (IsDev=true), assets are loaded from disk for hot reloading.
// In production mode (IsDev=false), assets are served from the embedded filesystem.

//go:embed all:web
var WebFS embed.FS

// Assets returns the dashboard files rooted at web/.
func Assets(isDev bool) (fs.FS, error) {
	if isDev {
		if _, err := os.Stat("web/index.html"); err == nil {
			return os.DirFS("web"), nil
		}
	}
	return fs.Sub(WebFS, "web")
}
