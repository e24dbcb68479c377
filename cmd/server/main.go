package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"investchat/internal/api"
	"investchat/internal/config"
	"investchat/internal/logging"
	"investchat/pkg/advisor"
	"investchat/pkg/mockanalysis"
)

type flagOverrides struct {
	configPath string
	dataDir    string
	port       int
	host       string
	webDir     string
	mode       string
	endpoint   string
}

func main() {
	var flags flagOverrides
	flag.StringVar(&flags.configPath, "config", "", "Path to config.json (optional)")
	flag.StringVar(&flags.dataDir, "data-dir", "", "Directory for logs and application data")
	flag.IntVar(&flags.port, "port", 0, "Port to run the server on (default 8000)")
	flag.StringVar(&flags.host, "host", "", "Host to bind the server to (default 127.0.0.1)")
	flag.StringVar(&flags.webDir, "web-dir", "", "Directory for SPA static files (optional)")
	flag.StringVar(&flags.mode, "mode", "", "Relay mode: mock, http or llm")
	flag.StringVar(&flags.endpoint, "endpoint", "", "Analysis service endpoint for http mode")
	flag.Parse()

	cfg, err := loadConfig(flags)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	if flags.dataDir != "" {
		config.SetRuntimeDataDir(flags.dataDir)
	}

	resolvedDataDir, err := config.GetDataDir(cfg)
	if err != nil {
		slog.Error("failed to resolve data directory", "err", err)
		os.Exit(1)
	}
	logger, writer, err := logging.NewLogger(logging.Options{
		Dir:           filepath.Join(resolvedDataDir, "logs"),
		Level:         logging.ParseLevel(cfg.Log.Level, slog.LevelInfo),
		RetentionDays: cfg.Log.RetentionDays,
	})
	if err != nil {
		slog.Error("failed to initialize logger", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("failed to close log writer", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	handler, err := buildHandler(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize analysis relay", "mode", cfg.Relay.Mode, "err", err)
		os.Exit(1)
	}
	if resolvedWebDir := resolveWebDir(cfg.Server.WebDir); resolvedWebDir != "" {
		logger.Info("serving SPA", "web_dir", resolvedWebDir)
		handler = api.WithSPA(handler, resolvedWebDir)
	}
	handler = middleware.Compress(5)(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("server starting", "addr", addr, "mode", cfg.Relay.Mode, "log_file", writer.Path())
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "err", err)
	}
}

// loadConfig reads layered configuration, applies command-line overrides and
// validates the result.
func loadConfig(flags flagOverrides) (config.Config, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{ConfigPath: flags.configPath})
	if err != nil {
		return cfg, err
	}
	if flags.host != "" {
		cfg.Server.Host = flags.host
	}
	if flags.port > 0 {
		cfg.Server.Port = flags.port
	}
	if flags.webDir != "" {
		cfg.Server.WebDir = flags.webDir
	}
	if flags.endpoint != "" {
		cfg.Relay.Endpoint = flags.endpoint
		if flags.mode == "" && cfg.Relay.Mode == config.ModeMock {
			cfg.Relay.Mode = ""
		}
	}
	if flags.mode != "" {
		cfg.Relay.Mode = flags.mode
	}
	cfg.Normalize()
	return cfg, cfg.Validate()
}

func buildHandler(ctx context.Context, cfg config.Config, logger *slog.Logger) (http.Handler, error) {
	analyzer := mockanalysis.New(mockanalysis.Options{})
	transport, err := buildTransport(ctx, cfg, analyzer, logger)
	if err != nil {
		return nil, err
	}
	service := advisor.NewService(transport, advisor.ServiceOptions{
		Logger:  logger,
		Timeout: relayTimeout(cfg),
	})
	return api.NewRouter(api.Options{
		Service:        service,
		Analyzer:       analyzer,
		Mode:           cfg.Relay.Mode,
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}), nil
}

func buildTransport(ctx context.Context, cfg config.Config, analyzer *mockanalysis.Analyzer, logger *slog.Logger) (advisor.Transport, error) {
	switch cfg.Relay.Mode {
	case config.ModeMock:
		return advisor.NewMockTransport(analyzer), nil
	case config.ModeHTTP:
		transport, err := advisor.NewHTTPTransport(advisor.HTTPTransportOptions{
			Endpoint: cfg.Relay.Endpoint,
			APIKey:   cfg.Relay.APIKey,
			Timeout:  relayTimeout(cfg),
			Logger:   logger,
		})
		if err != nil {
			return nil, err
		}
		return transport, nil
	case config.ModeLLM:
		transport, err := advisor.NewLLMTransport(ctx, advisor.LLMOptions{
			Provider: advisor.LLMProvider(cfg.LLM.Provider),
			BaseURL:  cfg.LLM.BaseURL,
			APIKey:   cfg.LLM.APIKey,
			Model:    cfg.LLM.Model,
			Timeout:  relayTimeout(cfg),
			Logger:   logger,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("llm relay ready", "provider", transport.Provider(), "model", cfg.LLM.Model)
		return transport, nil
	default:
		return nil, fmt.Errorf("unknown relay mode: %s", cfg.Relay.Mode)
	}
}

func relayTimeout(cfg config.Config) time.Duration {
	return time.Duration(cfg.Relay.TimeoutSeconds) * time.Second
}

func resolveWebDir(input string) string {
	if input != "" {
		if dirExists(input) {
			return input
		}
		return ""
	}

	candidates := []string{"static", "../static"}
	for _, candidate := range candidates {
		if dirExists(candidate) {
			return candidate
		}
	}
	if exe, err := os.Executable(); err == nil {
		base := filepath.Dir(exe)
		for _, candidate := range candidates {
			path := filepath.Join(base, candidate)
			if dirExists(path) {
				return path
			}
		}
	}
	return ""
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
