package handler

import (
	"context"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/vasapolrittideah/auth-api/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/auth-api/shared/payload"
	"github.com/vasapolrittideah/auth-api/shared/ratelimit"
)

const healthCheckTimeout = 2 * time.Second

// Options configures the HTTP surface of the auth service.
type Options struct {
	// AllowedOrigins lists the origins allowed by CORS. "*" allows any.
	AllowedOrigins []string

	// TrustedProxies are the peers whose forwarding headers name the
	// client. Everyone else is identified by the connection address.
	TrustedProxies []netip.Prefix

	RegisterLimit   int
	LoginLimit      int
	RateLimitWindow time.Duration

	// HealthCheck reports whether the user store is reachable.
	HealthCheck func(context.Context) error
}

type authHTTPHandler struct {
	logger      *zerolog.Logger
	authUsecase usecase.AuthUsecase
	limiter     ratelimit.Limiter
	opts        Options
}

// NewRouter wires the auth endpoints to the usecase.
func NewRouter(
	logger *zerolog.Logger,
	authUsecase usecase.AuthUsecase,
	limiter ratelimit.Limiter,
	opts Options,
) http.Handler {
	h := &authHTTPHandler{
		logger:      logger,
		authUsecase: authUsecase,
		limiter:     limiter,
		opts:        opts,
	}

	r := chi.NewRouter()
	r.Use(hlog.NewHandler(*logger))
	r.Use(hlog.RequestIDHandler("request_id", "X-Request-ID"))
	r.Use(hlog.AccessHandler(logAccess))
	r.Use(middleware.Recoverer)
	r.Use(cors(opts.AllowedOrigins))

	r.With(h.rateLimit("register", opts.RegisterLimit)).Post("/users", h.register)
	r.With(h.rateLimit("login", opts.LoginLimit)).Post("/sessions", h.login)
	r.With(h.requireAuth).Get("/secrets", h.secrets)
	r.Get("/healthz", h.health)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

func logAccess(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request handled")
}

func (h *authHTTPHandler) health(w http.ResponseWriter, r *http.Request) {
	if h.opts.HealthCheck != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := h.opts.HealthCheck(ctx); err != nil {
			h.logger.Error().Err(err).Msg("health check failed")
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}

	writeJSON(w, http.StatusOK, payload.HealthResponse{Status: "ok"})
}
