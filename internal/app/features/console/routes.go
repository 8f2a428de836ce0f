// internal/app/features/console/routes.go
package console

import (
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes registers every pattern in the console table. Mount it at "/".
// A trailing slash is ignored, as it is by Table.Resolve.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.StripSlashes)
	for _, p := range h.Table.Patterns() {
		r.Get(chiPattern(p), h.Serve)
	}
	r.NotFound(h.NotFound)
	return r
}

// chiPattern rewrites ":name" segments as "{name}".
func chiPattern(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		if strings.HasPrefix(s, ":") {
			segs[i] = "{" + s[1:] + "}"
		}
	}
	return strings.Join(segs, "/")
}
