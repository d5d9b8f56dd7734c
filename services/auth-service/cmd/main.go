package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/auth-api/services/auth-service/internal/config"
	"github.com/vasapolrittideah/auth-api/services/auth-service/internal/handler"
	"github.com/vasapolrittideah/auth-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/auth-api/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/auth-api/shared/database"
	"github.com/vasapolrittideah/auth-api/shared/logger"
	"github.com/vasapolrittideah/auth-api/shared/ratelimit"
	"github.com/vasapolrittideah/auth-api/shared/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logger.New("production", "info")
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongo, err := database.NewMongo(ctx, cfg.Mongo.URL, cfg.Mongo.Database, cfg.Mongo.Timeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := mongo.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	limiter := newRateLimiter(ctx, log, cfg.RateLimit)
	defer limiter.Close()

	v, err := validator.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create validator")
	}

	trustedProxies, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid trusted proxies")
	}

	userRepo := repository.NewUserMongoRepository(ctx, log, mongo.Database())
	authUsecase := usecase.NewAuthUsecase(userRepo, v)

	router := handler.NewRouter(log, authUsecase, limiter, handler.Options{
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		TrustedProxies:  trustedProxies,
		RegisterLimit:   cfg.RateLimit.Register,
		LoginLimit:      cfg.RateLimit.Login,
		RateLimitWindow: cfg.RateLimit.Window,
		HealthCheck:     mongo.Ping,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("auth service listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down auth service")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server stopped")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shut down http server")
	}
}

func newRateLimiter(ctx context.Context, log *zerolog.Logger, cfg config.RateLimitConfig) ratelimit.Limiter {
	if cfg.RedisAddr == "" {
		return ratelimit.NewMemory()
	}

	limiter, err := ratelimit.NewRedis(ctx, log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, using in-memory rate limiter")
		return ratelimit.NewMemory()
	}

	log.Info().Str("addr", cfg.RedisAddr).Msg("using redis rate limiter")
	return limiter
}
