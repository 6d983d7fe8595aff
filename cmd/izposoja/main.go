package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/izposoja/internal/api"
	"github.com/erazemk/izposoja/internal/auth"
	"github.com/erazemk/izposoja/internal/clock"
	"github.com/erazemk/izposoja/internal/db"
	"github.com/erazemk/izposoja/internal/metrics"
	"github.com/erazemk/izposoja/internal/service"
	"github.com/erazemk/izposoja/internal/store"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. If logPath is non-empty, all
// levels are also appended to that file. The returned cleanup may be nil.
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

// config holds the settings shared by every subcommand.
type config struct {
	dsn     string
	driver  string
	addr    string
	logPath string
	userID  int64
}

// envOr returns the environment variable key, or def when it is unset.
func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

const usage = `Usage: izposoja [token] [flags]

Commands:
  (none)                  serve the HTTP API
  token -user <id>        print a bearer token for a user

Flags:
  -d, -db <dsn>           SQLite path or Postgres DSN (env IZPOSOJA_DB, default: izposoja.sqlite3,
                          or postgres://localhost/izposoja?sslmode=disable with -driver postgres)
      -driver <name>      sqlite or postgres (env IZPOSOJA_DRIVER, default: sqlite)
  -a, -addr <host:port>   listen address (env IZPOSOJA_ADDR, default: :8080)
  -l, -log <path>         log file path (env IZPOSOJA_LOG, default: stdout/stderr only)
  -h, -help               show this help and exit
`

func parseFlags(name string, args []string) (config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stdout, usage) }

	var cfg config
	dsn := envOr("IZPOSOJA_DB", "")
	fs.StringVar(&cfg.dsn, "db", dsn, "")
	fs.StringVar(&cfg.dsn, "d", dsn, "")

	fs.StringVar(&cfg.driver, "driver", envOr("IZPOSOJA_DRIVER", db.DriverSQLite), "")

	addr := envOr("IZPOSOJA_ADDR", ":8080")
	fs.StringVar(&cfg.addr, "addr", addr, "")
	fs.StringVar(&cfg.addr, "a", addr, "")

	logPath := envOr("IZPOSOJA_LOG", "")
	fs.StringVar(&cfg.logPath, "log", logPath, "")
	fs.StringVar(&cfg.logPath, "l", logPath, "")

	if name == "token" {
		fs.Int64Var(&cfg.userID, "user", 0, "")
		fs.Int64Var(&cfg.userID, "u", 0, "")
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return cfg, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	if cfg.dsn == "" {
		cfg.dsn = db.DefaultDSN(cfg.driver)
	}
	return cfg, nil
}

func main() {
	name, args := "serve", os.Args[1:]
	if len(args) > 0 && args[0] == "token" {
		name, args = "token", args[1:]
	}

	cfg, err := parseFlags(name, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := setupLogger(cfg.logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	database, st, err := openStore(cfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Load JWT secret from database (auto-generated on first run).
	jwtSecret, err := st.GetJWTSecret(context.Background())
	if err != nil {
		slog.Error("failed to get JWT secret", "error", err)
		os.Exit(1)
	}

	if name == "token" {
		if err := printToken(st, jwtSecret, cfg.userID); err != nil {
			slog.Error("failed to issue token", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := serve(cfg, st, jwtSecret); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped, closing database")
}

// openStore opens the database, ensures the schema and wraps it in a store.
func openStore(cfg config) (*sql.DB, *store.Store, error) {
	database, err := db.Open(cfg.driver, cfg.dsn)
	if err != nil {
		return nil, nil, err
	}

	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(database, cfg.driver); err != nil {
		database.Close()
		return nil, nil, err
	}

	st, err := store.New(database, cfg.driver)
	if err != nil {
		database.Close()
		return nil, nil, err
	}

	slog.Info("database ready", "driver", cfg.driver)
	return database, st, nil
}

// printToken writes a bearer token for an existing user to stdout.
func printToken(st *store.Store, secret string, userID int64) error {
	ok, err := st.UserExists(context.Background(), userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %d does not exist", userID)
	}

	token, err := auth.GenerateToken(secret, userID, time.Now())
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func serve(cfg config, st *store.Store, jwtSecret string) error {
	m := metrics.New()
	svc := service.New(st, clock.System{}, m)

	server := &http.Server{
		Addr:              cfg.addr,
		Handler:           api.LoggingMiddleware(m)(api.NewRouter(svc, jwtSecret, m)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
