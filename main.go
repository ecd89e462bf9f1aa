// main.go
// TollDesk admin API
// Role-scoped toll record browsing, filtering and export for toll-network administrators

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"tolldesk/audit"
	"tolldesk/auth"
	"tolldesk/config"
	"tolldesk/db"
	"tolldesk/handlers"
	"tolldesk/logger"
	"tolldesk/metrics"
	"tolldesk/middleware"
	"tolldesk/models"
	"tolldesk/session"
	"tolldesk/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(cfg.Logging)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("backend", cfg.Data.Backend).
		Str("timezone", cfg.Dashboard.Timezone).
		Msg("starting TollDesk API server")

	ctx := context.Background()

	source, err := openSource(ctx, cfg.Data, cfg.Dashboard.Location)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Data.Backend).Msg("failed to open data backend")
	}
	defer source.Close()

	kv, closeKV, err := openKV(ctx, cfg.Session)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open session store")
	}
	defer closeKV()

	jwtManager := auth.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.Expiration,
		cfg.JWT.RefreshTokenExpiration,
	)
	sessions := session.NewManager(kv, store.NewLoader(source), cfg.Session.TTL, cfg.Dashboard.Location)
	trail := audit.NewTrail(0)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	stopCleanup := make(chan struct{})
	rateLimiter.CleanupOldLimiters(stopCleanup)
	sessions.PruneExpired(10*time.Minute, stopCleanup)

	mux := routes(
		handlers.NewAuthHandler(auth.NewAuthenticator(source), sessions, jwtManager, trail),
		handlers.NewRecordsHandler(trail),
		handlers.NewEntitiesHandler(),
		handlers.NewDataHandler(sessions),
		handlers.NewAuditHandler(trail),
		middleware.AuthMiddleware(jwtManager, sessions),
	)

	handler := middleware.CORSMiddleware(cfg.CORS.AllowedOrigins)(mux)
	handler = rateLimiter.Middleware()(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	close(stopCleanup)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped gracefully")
}

func routes(
	authHandler *handlers.AuthHandler,
	recordsHandler *handlers.RecordsHandler,
	entitiesHandler *handlers.EntitiesHandler,
	dataHandler *handlers.DataHandler,
	auditHandler *handlers.AuditHandler,
	authMiddleware func(http.Handler) http.Handler,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("/health", handleHealth)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/api/login", authHandler.Login)
	mux.HandleFunc("/api/refresh", authHandler.RefreshToken)

	protected := func(h http.HandlerFunc) http.Handler { return authMiddleware(h) }

	// Session
	mux.Handle("/api/logout", protected(authHandler.Logout))
	mux.Handle("/api/me", protected(handlers.Me))
	mux.Handle("/api/tab", protected(handlers.SwitchTab))
	mux.Handle("/api/data/reload", protected(dataHandler.Reload))

	// Records
	mux.Handle("/api/records", protected(recordsHandler.List))
	mux.Handle("/api/records/reset", protected(recordsHandler.Reset))
	mux.Handle("/api/records/export", protected(recordsHandler.Export))

	// Reference collections; companies and stations are hidden from station admins
	companyLevel := middleware.RequireRole(models.RoleSuperAdmin, models.RoleCompanyAdmin)
	mux.Handle("/api/companies", authMiddleware(companyLevel(http.HandlerFunc(entitiesHandler.Companies))))
	mux.Handle("/api/stations", authMiddleware(companyLevel(http.HandlerFunc(entitiesHandler.Stations))))
	mux.Handle("/api/groups", protected(entitiesHandler.Groups))
	mux.Handle("/api/collectors", protected(entitiesHandler.Collectors))
	mux.Handle("/api/monitors", protected(entitiesHandler.Monitors))
	mux.Handle("/api/shifts", protected(entitiesHandler.Shifts))
	mux.Handle("/api/users", protected(entitiesHandler.Users))

	// Audit trail
	superAdmin := middleware.RequireRole(models.RoleSuperAdmin)
	mux.Handle("/api/audit", authMiddleware(superAdmin(http.HandlerFunc(auditHandler.List))))

	return mux
}

func openSource(ctx context.Context, cfg config.DataConfig, loc *time.Location) (db.Source, error) {
	switch cfg.Backend {
	case config.BackendFirestore:
		fs, err := db.NewFirestoreDB(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsPath)
		if err != nil {
			return nil, err
		}
		return fs.Source(loc), nil
	case config.BackendPostgres:
		pg, err := db.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return pg.Source(loc), nil
	case config.BackendMemory:
		log.Warn().Msg("using the in-memory demo dataset")
		return db.NewMemoryDB(db.DemoDataset(time.Now().In(loc))), nil
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.Backend)
	}
}

func openKV(ctx context.Context, cfg config.SessionConfig) (session.KV, func(), error) {
	if cfg.RedisURL == "" {
		return session.NewMemoryKV(), func() {}, nil
	}
	kv, err := session.NewRedisKV(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return kv, func() {
		if err := kv.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis connection")
		}
	}, nil
}

// Health check endpoint
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":%d,"version":"1.0.0"}`, time.Now().Unix())
}
