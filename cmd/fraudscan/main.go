package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"fraud_report/internal/api"
	"fraud_report/internal/config"
	"fraud_report/internal/output"
	"fraud_report/internal/processor"
	"fraud_report/pkg/crypto"
	"fraud_report/pkg/metrics"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

const (
	appName = "fraudscan"
)

const usage = `usage:
  fraudscan serve [-config file]
  fraudscan scan  [-config file] [-in file] [-format json|yaml]`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	// A missing .env is fine; the environment and config file still apply.
	_ = godotenv.Load()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "scan":
		err = runScan(os.Args[2:], os.Stdin, os.Stdout)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

func setupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}

	handler := slog.NewJSONHandler(w, opts)
	return slog.New(handler)
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg, os.Stdout)
	logger.Info("Starting application",
		slog.String("name", appName),
		slog.Int("workers", cfg.Workers))

	metricsCollector := metrics.NewMetricsCollector(logger)
	signer := crypto.NewSigner(cfg.SigningKey, logger)
	engine := processor.NewRuleEngine(logger, processor.DefaultRules()...)
	txProcessor := processor.NewTransactionProcessor(engine, metricsCollector, cfg.Workers, logger)
	apiHandler := api.NewAPIHandler(txProcessor, signer, cfg.MaxBatchSize, logger)

	metricsServer := metricsCollector.StartMetricsServer(cfg.MetricsAddr)
	httpServer := startHTTPServer(cfg, apiHandler, logger)
	waitForShutdown(logger, httpServer, metricsServer, metricsCollector)
	logger.Info("Application shutdown complete")
	return nil
}

func runScan(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	inPath := fs.String("in", "", "records file, one record per line (default stdin)")
	formatName := fs.String("format", string(output.FormatJSON), "report format: json or yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	format, err := output.ParseFormat(*formatName)
	if err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// stdout carries the report, so logs go to stderr.
	logger := setupLogger(cfg, os.Stderr)

	in := stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	records, err := processor.ReadRecords(in)
	if err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}

	engine := processor.NewRuleEngine(logger, processor.DefaultRules()...)
	txProcessor := processor.NewTransactionProcessor(engine, nil, cfg.Workers, logger)
	result := txProcessor.Process(context.Background(), records)

	return output.Encode(stdout, result.Report, format)
}

func startHTTPServer(cfg *config.Config, apiHandler *api.APIHandler, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	apiHandler.RegisterRoutes(mux)

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"name": "%s", "status": "ok"}`, appName)
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	return server
}

func waitForShutdown(
	logger *slog.Logger,
	httpServer *http.Server,
	metricsServer *http.Server,
	metricsCollector *metrics.MetricsCollector,
) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.Error("Metrics server shutdown failed", slog.String("error", err.Error()))
	}

	if err := metricsCollector.Shutdown(ctx); err != nil {
		logger.Error("Metrics collector shutdown failed", slog.String("error", err.Error()))
	}
}
