package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/danielhkuo/quickly-fund/cliparse"
	"github.com/danielhkuo/quickly-fund/db"
	"github.com/danielhkuo/quickly-fund/handlers"
	"github.com/danielhkuo/quickly-fund/middleware"
	"github.com/danielhkuo/quickly-fund/models"
	"github.com/danielhkuo/quickly-fund/pbear"
	"github.com/danielhkuo/quickly-fund/report"
	"github.com/danielhkuo/quickly-fund/router"
)

func main() {
	var err error

	// A missing .env is fine; anything else is worth knowing about
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg.LogLevel))

	os.Exit(run(cfg))
}

// run serves or allocates once and returns the exit code. Deferred cleanup
// happens here because os.Exit would skip it.
func run(cfg cliparse.Config) int {
	store, err := openStore(cfg)
	if err != nil {
		slog.Error("run archive unavailable", "error", err)
		return 1
	}
	defer store.Close()

	if cfg.InputFile != "" {
		if err := runOnce(cfg, store); err != nil {
			slog.Error("allocation failed", "file", cfg.InputFile, "code", pbear.Code(err), "error", err)
			return 1
		}
		return 0
	}

	// Create router
	mux := router.NewRouter(store, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "archive", store != nil)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
		return 1
	}
	slog.Info("Server closed", "error", err)
	return 0
}

// newLogger writes text to a terminal and JSON otherwise
func newLogger(level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// openStore returns nil when no database is configured
func openStore(cfg cliparse.Config) (*db.RunStore, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}

	conn, err := db.Connect(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	store, err := db.NewRunStore(conn, cfg.DatabaseType)
	if err != nil {
		conn.Close()
		return nil, err
	}
	slog.Info("Run archive ready", "type", cfg.DatabaseType)
	return store, nil
}

// runOnce allocates the instance in cfg.InputFile and prints the outcome
func runOnce(cfg cliparse.Config, store *db.RunStore) error {
	f, err := os.Open(cfg.InputFile)
	if err != nil {
		return err
	}
	defer f.Close()

	var req models.AllocateRequest
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return fmt.Errorf("failed to parse %s: %w", cfg.InputFile, err)
	}

	ctx := context.Background()
	if cfg.Limits.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Limits.Timeout)
		defer cancel()
	}

	resp, err := handlers.Compute(ctx, req, cfg.Limits, slog.Default())
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.SaveRun(ctx, handlers.NewRun(req, resp)); err != nil {
			slog.Error("failed to archive run", "run_id", resp.RunID, "error", err)
		}
	}

	if cfg.OutputFile != "" {
		if err := exportWorkbook(cfg.OutputFile, resp); err != nil {
			return err
		}
		slog.Info("workbook written", "file", cfg.OutputFile)
	}

	if isatty.IsTerminal(os.Stdout.Fd()) {
		return report.FormatOutcome(os.Stdout, resp)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func exportWorkbook(path string, resp models.AllocateResponse) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteWorkbook(f, resp); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
