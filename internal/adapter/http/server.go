package adapthttp

import (
	"context"
	"log/slog"
	"net/http"

	"portions/internal/app"
)

// SSOProvider runs the authorization code flow against an identity provider.
type SSOProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	catalog     *app.CatalogService
	portions    *app.PortionService
	authSvc     *app.AuthService
	sso         SSOProvider
	logger      *slog.Logger
	disableAuth bool
}

// New creates a Server wired to the given application services.
func New(cs *app.CatalogService, ps *app.PortionService, as *app.AuthService) *Server {
	return &Server{catalog: cs, portions: ps, authSvc: as, logger: slog.Default()}
}

// WithSSO enables the single sign-on routes.
func (s *Server) WithSSO(p SSOProvider) *Server {
	s.sso = p
	return s
}

// WithLogger sets the request logger.
func (s *Server) WithLogger(l *slog.Logger) *Server {
	if l != nil {
		s.logger = l
	}
	return s
}

// WithoutAuth disables authentication. Tests only.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/auth/config", s.handleConfig)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)
	api.HandleFunc("/auth/logout", s.handleLogout)

	api.Handle("/foods", s.authMiddleware(http.HandlerFunc(s.handleFoods)))
	api.Handle("/foods/lookup", s.authMiddleware(http.HandlerFunc(s.handleFoodLookup)))
	api.Handle("/foods/{id}", s.authMiddleware(http.HandlerFunc(s.handleFoodByID)))

	api.Handle("/portions/estimate", s.authMiddleware(http.HandlerFunc(s.handlePortionEstimate)))
	api.Handle("/portions/suggestions", s.authMiddleware(http.HandlerFunc(s.handlePortionSuggestions)))
	api.Handle("/servings/parse", s.authMiddleware(http.HandlerFunc(s.handleServingParse)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	return withNoCache(s.loggingMiddleware(root))
}
