package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/iudanet/cartkeeper/internal/server"
	"github.com/iudanet/cartkeeper/internal/server/catalog"
	"github.com/iudanet/cartkeeper/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const (
	envJWTSecret = "CARTKEEPER_JWT_SECRET"
	envDB        = "CARTKEEPER_DB"
	envAddr      = "CARTKEEPER_ADDR"
)

type options struct {
	addr        string
	db          string
	jwtSecret   string
	admins      string
	catalogPath string
	logLevel    string
	tokenTTL    time.Duration
	rateLimit   int
	authLimit   int
	showVersion bool
}

func main() {
	opts := parseFlags()

	if opts.showVersion {
		printVersion()
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.addr, "addr", envOr(envAddr, ":8080"), "listen address")
	flag.StringVar(&opts.db, "db", envOr(envDB, "cartkeeper.db"), "path to SQLite database")
	flag.StringVar(&opts.jwtSecret, "jwt-secret", os.Getenv(envJWTSecret), "JWT signing secret (or $"+envJWTSecret+")")
	flag.StringVar(&opts.admins, "admins", "", "comma-separated usernames that get the admin role on registration")
	flag.StringVar(&opts.catalogPath, "catalog", "", "YAML file with items to load on startup")
	flag.StringVar(&opts.logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	flag.DurationVar(&opts.tokenTTL, "token-ttl", 24*time.Hour, "access token lifetime")
	flag.IntVar(&opts.rateLimit, "rate-limit", 120, "requests per minute per IP (0 disables)")
	flag.IntVar(&opts.authLimit, "auth-rate-limit", 10, "login/register requests per minute per IP")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version information")
	flag.Parse()
	return opts
}

func run(ctx context.Context, opts options) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", opts.logLevel, err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if opts.jwtSecret == "" {
		return errors.New("jwt secret is required: use -jwt-secret or $" + envJWTSecret)
	}

	store, err := sqlite.New(ctx, opts.db, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	if opts.catalogPath != "" {
		items, err := catalog.Load(opts.catalogPath)
		if err != nil {
			return err
		}
		if err := catalog.Seed(ctx, store, items); err != nil {
			return err
		}
		logger.Info("catalog loaded", "path", opts.catalogPath, "items", len(items))
	}

	srv, err := server.New(server.Config{
		Addr:          opts.addr,
		JWTSecret:     opts.jwtSecret,
		Version:       Version,
		Admins:        splitList(opts.admins),
		TokenTTL:      opts.tokenTTL,
		RateLimit:     opts.rateLimit,
		RateWindow:    time.Minute,
		AuthRateLimit: opts.authLimit,
	}, store, logger)
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printVersion() {
	fmt.Printf("cartkeeper server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
