package stub

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs a chi-based http.Handler with base middleware and
// the stub routes. Extra middleware (observability, rate limiting) is
// applied after the base chain.
func NewRouter(h *Handlers, extra ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))
	for _, m := range extra {
		r.Use(m)
	}

	r.Post("/auth", h.AuthPost)
	r.Get("/auth", h.AuthGet)
	r.Get("/orders", h.OrdersGet)
	r.Post("/orders", h.OrdersPost)
	r.Put("/orders", h.OrdersPut)
	r.Get("/ping", h.Ping)
	r.NotFound(http.HandlerFunc(h.NotFound))

	return r
}
