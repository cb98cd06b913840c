package adapthttp

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"portions/internal/app"
	"portions/internal/domain"
)

type contextKey string

const principalContextKey contextKey = "principal"

const idTokenCookie = "id_token"

// principalFrom returns the authenticated caller, if any.
func principalFrom(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(*domain.Principal)
	return p, ok && p != nil
}

// authMiddleware accepts an API key or an OpenID Connect id token, from the
// Authorization header or the SSO cookie.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.disableAuth || s.authSvc == nil || !s.authSvc.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		var (
			p   *domain.Principal
			err = app.ErrUnauthorized
		)
		if key := r.Header.Get("X-API-Key"); key != "" {
			p, err = s.authSvc.ValidateAPIKey(key)
		} else if raw := bearerToken(r); raw != "" {
			p, err = s.authSvc.ValidateIDToken(r.Context(), raw)
		}
		if err != nil {
			writeError(w, http.StatusUnauthorized, app.ErrUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if raw, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(raw)
		}
	}
	if c, err := r.Cookie(idTokenCookie); err == nil {
		return c.Value
	}
	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.LogAttrs(r.Context(), level, "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)))
	})
}
