package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/auth"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/cloudapi"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/config"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/core"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/db"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/logging"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/provider"
)

const serviceName = "cloud-integrations"

func main() {
	if len(os.Args) >= 2 && os.Args[1] == "create-token" {
		createToken(os.Args[2:])
		return
	}

	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
	migrateDirFlag := flag.String("migrate-dir", "migrations", "Migration files directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.ServiceName = serviceName

	if err := cfg.Validate(serviceName); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	if *migrateFlag {
		if cfg.DatabaseURL == "" {
			logger.Fatal().Msg("DATABASE_URL is required for -migrate")
		}
		logger.Info().Str("dir", *migrateDirFlag).Msg("running database migrations")
		if err := db.RunMigrations(cfg.DatabaseURL, *migrateDirFlag); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if pool != nil {
		defer pool.Close()
	} else {
		logger.Warn().Msg("no DATABASE_URL set, connections are kept in memory only")
	}

	var aws provider.Provider = provider.NewAWSFixture()
	if cfg.AWSLiveMode {
		aws = provider.NewAWSLive()
		logger.Info().Msg("AWS live mode enabled")
	}
	registry := provider.NewRegistry(aws, provider.NewAzureFixture(), provider.NewGCPFixture())

	var coreDB core.DB
	if pool != nil {
		coreDB = pool
	}
	services := core.NewCloudServices(coreDB, registry)
	if err := services.Connection.Load(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to load stored connections")
	}

	srv := cloudapi.NewServer(logger, services, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.CloudIntegrationsPort,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("starting cloud integrations server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}

func createToken(args []string) {
	fs := flag.NewFlagSet("create-token", flag.ExitOnError)
	user := fs.String("user", "", "User ID for the token (required)")
	email := fs.String("email", "", "Email claim")
	role := fs.String("role", "user", "Role claim")
	fs.Parse(args)

	if *user == "" {
		fmt.Fprintln(os.Stderr, "error: --user is required")
		fmt.Fprintln(os.Stderr, "usage: cloud-integrations create-token --user <id> [--email <email>] [--role <role>]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "error: JWT_SECRET is required")
		os.Exit(1)
	}

	token, err := auth.IssueToken(cfg.JWTSecret, *user, *email, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to issue token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Token for %s (valid %s):\n\n%s\n", *user, auth.TokenExpiry, token)
}
