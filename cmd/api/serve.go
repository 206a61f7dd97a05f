package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/csdesk/internal/api/middleware"
	"github.com/linskybing/csdesk/internal/api/routes"
	"github.com/linskybing/csdesk/internal/application"
	"github.com/linskybing/csdesk/internal/auth"
	"github.com/linskybing/csdesk/internal/authz"
	"github.com/linskybing/csdesk/internal/config"
	"github.com/linskybing/csdesk/internal/config/db"
	"github.com/linskybing/csdesk/internal/logger"
	"github.com/linskybing/csdesk/internal/realtime"
	"github.com/linskybing/csdesk/internal/repository"
	"github.com/linskybing/csdesk/internal/storage"
	"github.com/linskybing/csdesk/internal/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", true, "Run schema migration before serving")
	return cmd
}

func serve(autoMigrate bool) error {
	log, err := bootstrap()
	if err != nil {
		return err
	}
	if autoMigrate {
		if err := db.Migrate(db.DB); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions, closeSessions, err := newSessionStore(ctx)
	if err != nil {
		return err
	}
	defer closeSessions()

	store, err := storage.NewMinioStore(ctx, storage.Options{
		Endpoint:      config.MinioEndpoint,
		AccessKey:     config.MinioAccessKey,
		SecretKey:     config.MinioSecretKey,
		UseSSL:        config.MinioUseSSL,
		Bucket:        config.MinioBucket,
		PublicBaseURL: config.MinioPublicURL,
		Presign:       config.AttachmentPresign,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize object store: %w", err)
	}

	enforcer, err := authz.NewEnforcer()
	if err != nil {
		return err
	}

	hub := realtime.NewHub()
	defer hub.Close()

	repos := repository.NewRepositories(db.DB)
	tokens := auth.NewTokenManager(config.JwtSecret, config.Issuer)
	authSvc := auth.NewService(repos.Identity, sessions, tokens, hub, config.SessionTTL)
	services := application.New(repos, application.Deps{
		Auth:           authSvc,
		Store:          store,
		MaxUploadBytes: config.AttachmentMaxBytes,
	})

	pages, err := web.Load()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	if config.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	routes.RegisterRoutes(router, routes.Options{
		Services:     services,
		Enforcer:     enforcer,
		Hub:          hub,
		Pages:        pages,
		Metrics:      metrics,
		LoginLimiter: middleware.NewRateLimiter(config.LoginRatePerSec, config.LoginRateBurst),
		Origins:      config.CorsOrigins,
		Logger:       logger.WithComponent("http"),
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	srv := &http.Server{
		Addr:              ":" + config.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting API server", "addr", srv.Addr, "env", config.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server exited")
	return nil
}

// newSessionStore picks Redis when configured and falls back to memory.
func newSessionStore(ctx context.Context) (auth.SessionStore, func(), error) {
	if config.RedisAddr == "" {
		slog.Warn("REDIS_ADDR not set, sessions are kept in memory")
		return auth.NewMemorySessionStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	slog.Info("redis session store connected", "addr", config.RedisAddr)
	return auth.NewRedisSessionStore(client), func() { _ = client.Close() }, nil
}
