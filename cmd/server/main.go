package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/brixwork/portal-server/internal/config"
	"github.com/brixwork/portal-server/internal/database"
	"github.com/brixwork/portal-server/internal/handler"
	"github.com/brixwork/portal-server/internal/jobs"
	"github.com/brixwork/portal-server/internal/live"
	"github.com/brixwork/portal-server/internal/middleware"
	"github.com/brixwork/portal-server/internal/redis"
	"github.com/brixwork/portal-server/internal/repository"
	"github.com/brixwork/portal-server/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("APP_ENV") == "production"
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	// Redis is optional: without it live updates fan out within this
	// instance only.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected")
	}

	contactRepo := repository.NewContactRepository(db.DB)
	quoteRepo := repository.NewQuoteRepository(db.DB)
	contractRepo := repository.NewContractRepository(db.DB)
	invoiceRepo := repository.NewInvoiceRepository(db.DB)
	jobRepo := repository.NewJobRepository(db.DB)
	fileRepo := repository.NewJobFileRepository(db.DB)
	msgRepo := repository.NewJobMessageRepository(db.DB)
	noteRepo := repository.NewJobNoteRepository(db.DB)
	tokenRepo := repository.NewAccessTokenRepository(db.DB)
	sessionRepo := repository.NewPortalSessionRepository(db.DB)

	hub := live.NewHub(redisClient)
	defer hub.Close()

	tokenService := service.NewTokenService(tokenRepo, jobRepo)
	authService := service.NewAuthService(contactRepo, sessionRepo, cfg.PortalSessionSecret, cfg.SessionTTL())
	portalService := service.NewPortalService(
		tokenService, contactRepo, quoteRepo, contractRepo, jobRepo, fileRepo, invoiceRepo,
	)
	jobService := service.NewJobService(jobRepo, fileRepo, msgRepo, noteRepo, hub)
	contactService := service.NewContactService(contactRepo, sessionRepo)

	sessionMiddleware := middleware.NewPortalSessionMiddleware(sessionRepo, cfg.PortalSessionSecret)
	staffKeyMiddleware := middleware.NewStaffKeyMiddleware(cfg.StaffAPIKey)
	csrfMiddleware := middleware.NewCSRFMiddleware(isProduction)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(isProduction)

	portalHandler := handler.NewPortalHandler(portalService, authService, sessionMiddleware, isProduction)
	liveHandler := handler.NewLiveHandler(hub, originPatterns(cfg.PortalBaseURL))
	staffHandler := handler.NewStaffHandler(
		tokenService, contactService, jobService, cfg.TokenTTL(), cfg.PortalBaseURL,
	)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(bodyLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/portal", func(r chi.Router) {
		// The websocket endpoint sits outside the CSRF/header/timeout stack:
		// the connection is long-lived and the browser cannot attach custom
		// headers to a websocket upgrade.
		r.Get("/api/live", liveHandler.Serve)

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
			r.Use(securityHeadersMiddleware.Handler)
			r.Use(csrfMiddleware.Handler)
			r.Mount("/", portalHandler.Routes())
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
		r.Use(staffKeyMiddleware.Handler)
		r.Mount("/", staffHandler.Routes())
	})

	cleanupJob := jobs.NewCleanupJob(tokenRepo, sessionRepo, config.CleanupJobInterval)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func originPatterns(baseURL string) []string {
	if baseURL == "" {
		return nil
	}
	host := strings.TrimPrefix(strings.TrimPrefix(baseURL, "https://"), "http://")
	host = strings.TrimSuffix(host, "/")
	if host == "" {
		return nil
	}
	return []string{host}
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
