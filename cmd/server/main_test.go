package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"investchat/internal/config"
	"investchat/pkg/advisor"
	"investchat/pkg/mockanalysis"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

// isolateConfig keeps the developer's environment and config files out of the test.
func isolateConfig(t *testing.T) string {
	t.Helper()
	for _, name := range []string{
		"INVEST_CHAT_HOST", "INVEST_CHAT_PORT", "INVEST_CHAT_WEB_DIR", "INVEST_CHAT_RELAY_MODE",
		"INVEST_CHAT_ANALYSIS_ENDPOINT", "INVEST_CHAT_ANALYSIS_API_KEY", "INVEST_CHAT_LLM_PROVIDER",
		"INVEST_CHAT_LLM_BASE_URL", "INVEST_CHAT_LLM_API_KEY", "INVEST_CHAT_LLM_MODEL",
		"INVEST_CHAT_DATA_DIR", "INVEST_CHAT_LOG_LEVEL", "INVEST_CHAT_LOG_FORMAT",
		"INVEST_CHAT_ALLOWED_ORIGINS", "INVEST_CHAT_TIMEOUT_SECONDS", "INVEST_CHAT_LOG_RETENTION_DAYS",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	return filepath.Join(t.TempDir(), "config.json")
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	if !dirExists(dir) {
		t.Fatalf("expected dir to exist")
	}
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if dirExists(file) {
		t.Fatalf("expected file to not be dir")
	}
	if dirExists(filepath.Join(dir, "missing")) {
		t.Fatalf("expected missing path to be false")
	}
}

func TestResolveWebDir(t *testing.T) {
	tmp := t.TempDir()
	staticDir := filepath.Join(tmp, "static")
	if err := os.MkdirAll(staticDir, 0o755); err != nil {
		t.Fatalf("mkdir static: %v", err)
	}

	if got := resolveWebDir(staticDir); got != staticDir {
		t.Fatalf("expected input dir, got %q", got)
	}
	if got := resolveWebDir(filepath.Join(tmp, "missing")); got != "" {
		t.Fatalf("expected empty for missing, got %q", got)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	defer func() {
		_ = os.Chdir(cwd)
	}()

	if got := resolveWebDir(""); got != "static" {
		t.Fatalf("expected static, got %q", got)
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	path := isolateConfig(t)

	cfg, err := loadConfig(flagOverrides{configPath: path})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Relay.Mode != config.ModeMock || cfg.Server.Port != 8000 || cfg.Server.Host != "127.0.0.1" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	cfg, err = loadConfig(flagOverrides{
		configPath: path,
		host:       "0.0.0.0",
		port:       9100,
		webDir:     "web",
		endpoint:   "https://analysis.example.com/ask",
	})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 9100 || cfg.Server.WebDir != "web" {
		t.Fatalf("server overrides not applied: %+v", cfg.Server)
	}
	if cfg.Relay.Mode != config.ModeHTTP {
		t.Fatalf("expected endpoint flag to select http mode, got %q", cfg.Relay.Mode)
	}

	cfg, err = loadConfig(flagOverrides{configPath: path, mode: "MOCK", endpoint: "https://analysis.example.com/ask"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Relay.Mode != config.ModeMock {
		t.Fatalf("expected explicit mode to win, got %q", cfg.Relay.Mode)
	}
}

func TestLoadConfigEndpointFlagCompletesEnvMode(t *testing.T) {
	path := isolateConfig(t)
	t.Setenv("INVEST_CHAT_RELAY_MODE", "http")

	cfg, err := loadConfig(flagOverrides{configPath: path, endpoint: "https://analysis.example.com/ask"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Relay.Mode != config.ModeHTTP || cfg.Relay.Endpoint != "https://analysis.example.com/ask" {
		t.Fatalf("unexpected relay config: %+v", cfg.Relay)
	}
}

func TestLoadConfigFlagModeCompletedByEnv(t *testing.T) {
	path := isolateConfig(t)
	t.Setenv("INVEST_CHAT_LLM_MODEL", "gpt-4o-mini")
	t.Setenv("INVEST_CHAT_LLM_API_KEY", "secret")

	cfg, err := loadConfig(flagOverrides{configPath: path, mode: "llm"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Relay.Mode != config.ModeLLM {
		t.Fatalf("expected llm mode, got %q", cfg.Relay.Mode)
	}
}

func TestLoadConfigRejectsInvalidMode(t *testing.T) {
	path := isolateConfig(t)

	if _, err := loadConfig(flagOverrides{configPath: path, mode: "http"}); err == nil {
		t.Fatal("expected error for http mode without endpoint")
	}
	if _, err := loadConfig(flagOverrides{configPath: path, mode: "carrier-pigeon"}); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestBuildTransport(t *testing.T) {
	analyzer := mockanalysis.New(mockanalysis.Options{})
	logger := discardLogger()

	tests := []struct {
		name    string
		cfg     config.Config
		check   func(advisor.Transport) bool
		wantErr bool
	}{
		{
			name: "mock",
			cfg:  config.Config{Relay: config.RelayConfig{Mode: config.ModeMock}},
			check: func(tr advisor.Transport) bool {
				_, ok := tr.(*advisor.MockTransport)
				return ok
			},
		},
		{
			name: "http",
			cfg:  config.Config{Relay: config.RelayConfig{Mode: config.ModeHTTP, Endpoint: "https://analysis.example.com", TimeoutSeconds: 5}},
			check: func(tr advisor.Transport) bool {
				_, ok := tr.(*advisor.HTTPTransport)
				return ok
			},
		},
		{
			name: "llm",
			cfg: config.Config{
				Relay: config.RelayConfig{Mode: config.ModeLLM, TimeoutSeconds: 5},
				LLM:   config.LLMConfig{APIKey: "secret", Model: "claude-sonnet-4"},
			},
			check: func(tr advisor.Transport) bool {
				llm, ok := tr.(*advisor.LLMTransport)
				return ok && llm.Provider() == advisor.LLMProviderAnthropic
			},
		},
		{
			name:    "http without endpoint",
			cfg:     config.Config{Relay: config.RelayConfig{Mode: config.ModeHTTP}},
			wantErr: true,
		},
		{
			name:    "llm without model",
			cfg:     config.Config{Relay: config.RelayConfig{Mode: config.ModeLLM}, LLM: config.LLMConfig{APIKey: "secret"}},
			wantErr: true,
		},
		{
			name:    "unknown",
			cfg:     config.Config{Relay: config.RelayConfig{Mode: "smoke-signals"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := buildTransport(context.Background(), tt.cfg, analyzer, logger)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("buildTransport: %v", err)
			}
			if !tt.check(tr) {
				t.Fatalf("unexpected transport type %T", tr)
			}
		})
	}
}

func TestBuildHandlerMockMode(t *testing.T) {
	cfg := config.Defaults()
	cfg.Normalize()

	handler, err := buildHandler(context.Background(), cfg, discardLogger())
	if err != nil {
		t.Fatalf("buildHandler: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/chatbot", strings.NewReader(`{"user_id":"u1","question":"Should I buy FPT next week?"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp advisor.AnalysisResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Symbols) != 1 || resp.Symbols[0] != "FPT" {
		t.Fatalf("expected mock analysis for FPT, got %+v", resp.Symbols)
	}
	if len(resp.InvestmentSuggestions) == 0 {
		t.Fatalf("expected investment suggestions")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestMainLifecycle(t *testing.T) {
	path := isolateConfig(t)
	tmp := t.TempDir()

	origArgs := os.Args
	origCommandLine := flag.CommandLine
	defer func() {
		os.Args = origArgs
		flag.CommandLine = origCommandLine
	}()

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flag.CommandLine.SetOutput(io.Discard)
	os.Args = []string{
		"server",
		"--config", path,
		"--data-dir", tmp,
		"--port", strconv.Itoa(freePort(t)),
		"--host", "127.0.0.1",
		"--mode", "mock",
	}

	done := make(chan struct{})
	go func() {
		time.Sleep(150 * time.Millisecond)
		if p, err := os.FindProcess(os.Getpid()); err == nil {
			_ = p.Signal(syscall.SIGTERM)
		}
	}()

	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
		// ok
	case <-time.After(3 * time.Second):
		t.Fatalf("main did not exit")
	}

	entries, err := os.ReadDir(filepath.Join(tmp, "logs"))
	if err != nil {
		t.Fatalf("read log dir: %v", err)
	}
	if len(entries) == 0 {
		t.Fatalf("expected a log file")
	}
}
