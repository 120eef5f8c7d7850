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
	"github.com/reachskumar/ai-ops-guardian-angel/internal/compliance"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/config"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/core"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/db"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/logging"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/monitor"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/scanner"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/securityapi"
)

const serviceName = "security-services"

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
	defer pool.Close()

	engine, err := scanner.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load scan rule catalog")
	}
	checker, err := compliance.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load compliance standards")
	}

	services := core.NewSecurityServices(pool, engine, checker)

	hub := monitor.NewHub(logger, monitor.DefaultInterval)
	go hub.Run(ctx)

	srv := securityapi.NewServer(logger, services, hub, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.SecurityServicesPort,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("starting security services server")
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
		fmt.Fprintln(os.Stderr, "usage: security-services create-token --user <id> [--email <email>] [--role <role>]")
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
