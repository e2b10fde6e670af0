package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"job-portal-api/internal/auth"
	"job-portal-api/internal/cache"
	"job-portal-api/internal/config"
	"job-portal-api/internal/database"
	"job-portal-api/internal/handlers"
	"job-portal-api/internal/logger"
	"job-portal-api/internal/metrics"
	"job-portal-api/internal/realtime"
	"job-portal-api/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:           "job-portal-api",
		Short:         "Job portal API with an in-memory read cache",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "YAML config file (env CONFIG_PATH)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithEnv(configPath, ".env")
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}

	var userID, username, role string
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithEnv(configPath, ".env")
			if err != nil {
				return err
			}
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			if username == "" {
				username = userID
			}
			token, err := newTokenManager(cfg).GenerateToken(userID, username, auth.Role(role))
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&userID, "user", "", "User id to put in the token")
	tokenCmd.Flags().StringVar(&username, "username", "", "Username (defaults to the user id)")
	tokenCmd.Flags().StringVar(&role, "role", string(auth.RoleCandidate), "candidate|employer|placement_officer|admin")

	root.AddCommand(serveCmd, tokenCmd)
	// no subcommand means serve
	root.RunE = serveCmd.RunE

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newTokenManager(cfg *config.Config) *auth.TokenManager {
	return auth.NewTokenManager(auth.Config{
		Secret:   cfg.Auth.Secret,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		TTL:      cfg.Auth.TokenTTL,
	})
}

func serve(cfg *config.Config) error {
	log, err := logger.New(cfg.Log, os.Stdout)
	if err != nil {
		return err
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Init database
	db, err := database.Open(cfg.Database.Path, logger.GormLevel(cfg.Database.LogLevel))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	// The entry gauge reads the store, which needs the recorder first.
	var store *cache.Store
	var rec *metrics.Recorder
	reg := prometheus.NewRegistry()
	if cfg.Metrics.Enabled {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		rec, err = metrics.New(reg, func() float64 { return float64(store.Len()) })
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
	}
	storeOpts := cache.StoreOptions{DefaultTTL: cfg.Cache.DefaultTTL}
	if rec != nil {
		storeOpts.Recorder = rec
	}
	store = cache.NewStore(storeOpts)

	hub := realtime.NewHub()
	inv := cache.NewInvalidator(store, hub, log.With().Str("component", "cache").Logger())

	deps := routes.Deps{
		Handler: handlers.New(db, store, inv, hub, cfg.Cache, log),
		Tokens:  newTokenManager(cfg),
		Log:     log,
	}
	if rec != nil {
		deps.Metrics = rec
		deps.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
		deps.MetricsPath = cfg.Metrics.Path
	}
	ginRoutes := routes.SetupRoutes(deps)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      ginRoutes,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("env", cfg.Environment).
			Dur("default_ttl", cfg.Cache.DefaultTTL).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Int("cache_entries", store.Len()).Msg("server stopped")
	return nil
}
