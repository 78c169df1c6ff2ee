// Package httpx is the HTTP router contract the front door is built on.
package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Router is the minimal HTTP router contract steeze-fn depends on.
type Router interface {
	Get(path string, h http.Handler)
	Post(path string, h http.Handler)
	// Fallback receives every request no registered route accepts, whether
	// the path is unknown or the method is not registered for it.
	Fallback(h http.Handler)
	Mux() http.Handler
	Use(mw ...func(http.Handler) http.Handler)
}

// chiRouter is our default Router backed by github.com/go-chi/chi/v5.
type chiRouter struct{ r *chi.Mux }

// NewChi returns a Chi-backed Router.
func NewChi() Router { return &chiRouter{r: chi.NewRouter()} }

func (c *chiRouter) Get(path string, h http.Handler)           { c.r.Method(http.MethodGet, path, h) }
func (c *chiRouter) Post(path string, h http.Handler)          { c.r.Method(http.MethodPost, path, h) }
func (c *chiRouter) Mux() http.Handler                         { return c.r }
func (c *chiRouter) Use(mw ...func(http.Handler) http.Handler) { c.r.Use(mw...) }

func (c *chiRouter) Fallback(h http.Handler) {
	c.r.NotFound(h.ServeHTTP)
	c.r.MethodNotAllowed(h.ServeHTTP)
}
