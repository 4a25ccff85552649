// internal/adapters/in/http/router.go
package http

import (
	"log"
	"net/http"

	"drip/internal/adapters/in/http/middleware"
)

// Deps is the buyer-facing handler set.
type Deps struct {
	Item http.Handler
	Cart http.Handler

	Auth *middleware.AuthMiddleware

	// AllowedOrigin feeds the CORS layer ("*" for development).
	AllowedOrigin string
}

// handleSafe registers pattern with h.
// If h is nil, it logs and registers NotFoundHandler instead.
func handleSafe(mux *http.ServeMux, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	mux.Handle(pattern, h)
}

// NewRouter assembles the route table with the middleware chain
// CORS -> Recover -> Auth (healthz stays outside auth).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	handleSafe(mux, "/items", deps.Item, "Item")
	handleSafe(mux, "/items/", deps.Item, "Item")

	handleSafe(mux, "/cart", deps.Cart, "Cart")
	handleSafe(mux, "/cart/", deps.Cart, "Cart")

	var protected http.Handler = mux
	if deps.Auth != nil {
		protected = deps.Auth.Handler(mux)
	} else {
		log.Printf("[router] WARN: auth middleware is nil; routes are unauthenticated")
	}

	outer := http.NewServeMux()
	outer.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	outer.Handle("/", protected)

	cors := middleware.CORS(deps.AllowedOrigin)
	return cors(middleware.Recover(outer))
}
