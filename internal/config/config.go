package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Relay modes.
const (
	ModeMock = "mock"
	ModeHTTP = "http"
	ModeLLM  = "llm"
)

const (
	defaultHost           = "127.0.0.1"
	defaultPort           = 8000
	defaultTimeoutSeconds = 30
	defaultRetentionDays  = 7
	envPrefix             = "INVEST_CHAT_"
)

// Config is the server configuration.
type Config struct {
	Server  ServerConfig `json:"server"`
	Relay   RelayConfig  `json:"relay"`
	LLM     LLMConfig    `json:"llm"`
	Log     LogConfig    `json:"log"`
	DataDir string       `json:"data_dir"`
}

type ServerConfig struct {
	Host           string   `json:"host"`
	Port           int      `json:"port"`
	WebDir         string   `json:"web_dir"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// RelayConfig selects where analysis requests go.
type RelayConfig struct {
	Mode           string `json:"mode"`
	Endpoint       string `json:"endpoint"`
	APIKey         string `json:"api_key"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type LLMConfig struct {
	Provider string `json:"provider"`
	BaseURL  string `json:"base_url"`
	APIKey   string `json:"api_key"`
	Model    string `json:"model"`
}

type LogConfig struct {
	Level         string `json:"level"`
	RetentionDays int    `json:"retention_days"`
}

// LoadOptions overrides where configuration is read from.
type LoadOptions struct {
	// ConfigPath defaults to the app config dir, then config.json next to the
	// working directory or executable.
	ConfigPath string
	// EnvFiles defaults to .env in the working directory. Missing files are skipped.
	EnvFiles []string
}

var runtimeDataDir string

func IsMacOS() bool {
	return runtime.GOOS == "darwin"
}

func IsWindows() bool {
	return runtime.GOOS == "windows"
}

func SetRuntimeDataDir(dir string) {
	runtimeDataDir = dir
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:           defaultHost,
			Port:           defaultPort,
			AllowedOrigins: []string{"*"},
		},
		Relay: RelayConfig{TimeoutSeconds: defaultTimeoutSeconds},
		Log: LogConfig{
			Level:         "info",
			RetentionDays: defaultRetentionDays,
		},
	}
}

// Load reads configuration from the default locations and validates it.
func Load() (Config, error) {
	cfg, err := LoadWithOptions(LoadOptions{})
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadWithOptions layers defaults, the JSON config file, .env files and
// INVEST_CHAT_* environment variables, in that order. The result is
// normalized but not validated, so callers can apply further overrides
// before calling Validate.
func LoadWithOptions(opts LoadOptions) (Config, error) {
	cfg := Defaults()

	path := opts.ConfigPath
	if path == "" {
		path = defaultConfigPath()
	}
	if path != "" {
		if err := readConfigFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		// godotenv never overrides variables that are already set.
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load env file %s: %w", file, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize fills derived defaults.
func (c *Config) Normalize() {
	c.Relay.Mode = strings.ToLower(strings.TrimSpace(c.Relay.Mode))
	c.Relay.Endpoint = strings.TrimSpace(c.Relay.Endpoint)
	if c.Relay.Mode == "" {
		if c.Relay.Endpoint != "" {
			c.Relay.Mode = ModeHTTP
		} else {
			c.Relay.Mode = ModeMock
		}
	}
	if c.Relay.TimeoutSeconds <= 0 {
		c.Relay.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Log.RetentionDays <= 0 {
		c.Log.RetentionDays = defaultRetentionDays
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		c.Server.Host = defaultHost
	}
	if c.Server.Port <= 0 {
		c.Server.Port = defaultPort
	}
}

// Validate reports configuration that cannot start a server.
func (c Config) Validate() error {
	switch c.Relay.Mode {
	case ModeMock:
	case ModeHTTP:
		if c.Relay.Endpoint == "" {
			return errors.New("relay mode http requires an analysis endpoint")
		}
	case ModeLLM:
		if strings.TrimSpace(c.LLM.Model) == "" {
			return errors.New("relay mode llm requires a model")
		}
		if strings.TrimSpace(c.LLM.APIKey) == "" {
			return errors.New("relay mode llm requires an api key")
		}
	default:
		return fmt.Errorf("unknown relay mode: %s", c.Relay.Mode)
	}
	if c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	return nil
}

func readConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Host, "HOST")
	setString(&cfg.Server.WebDir, "WEB_DIR")
	setString(&cfg.Relay.Mode, "RELAY_MODE")
	setString(&cfg.Relay.Endpoint, "ANALYSIS_ENDPOINT")
	setString(&cfg.Relay.APIKey, "ANALYSIS_API_KEY")
	setString(&cfg.LLM.Provider, "LLM_PROVIDER")
	setString(&cfg.LLM.BaseURL, "LLM_BASE_URL")
	setString(&cfg.LLM.APIKey, "LLM_API_KEY")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.DataDir, "DATA_DIR")

	if value := getEnv("ALLOWED_ORIGINS"); value != "" {
		origins := []string{}
		for _, origin := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
		cfg.Server.AllowedOrigins = origins
	}
	for name, target := range map[string]*int{
		"PORT":               &cfg.Server.Port,
		"TIMEOUT_SECONDS":    &cfg.Relay.TimeoutSeconds,
		"LOG_RETENTION_DAYS": &cfg.Log.RetentionDays,
	} {
		if err := setInt(target, name); err != nil {
			return err
		}
	}
	return nil
}

func getEnv(name string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + name))
}

func setString(target *string, name string) {
	if value := getEnv(name); value != "" {
		*target = value
	}
}

func setInt(target *int, name string) error {
	value := getEnv(name)
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s%s: %w", envPrefix, name, err)
	}
	*target = parsed
	return nil
}

func userHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return home, nil
}

func appConfigDir() (string, error) {
	if IsMacOS() {
		home, err := userHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", "InvestChat"), nil
	}
	if IsWindows() {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := userHomeDir()
			if err != nil {
				return "", err
			}
			appData = home
		}
		return filepath.Join(appData, "InvestChat"), nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := userHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "investchat"), nil
	}
	return filepath.Join(configDir, "investchat"), nil
}

func appConfigPath() (string, error) {
	dir, err := appConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func legacyConfigPath() string {
	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, "config.json")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), "config.json")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func defaultConfigPath() string {
	if path, err := appConfigPath(); err == nil {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return legacyConfigPath()
}

// GetDataDir resolves the directory for logs, creating it when needed.
// Precedence: runtime override, INVEST_CHAT_DATA_DIR, configured dir, app config dir.
func GetDataDir(cfg Config) (string, error) {
	candidates := []string{runtimeDataDir, getEnv("DATA_DIR"), strings.TrimSpace(cfg.DataDir)}
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
		return dir, nil
	}

	defaultDir, err := appConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(defaultDir, 0o755); err != nil {
		return "", err
	}
	return defaultDir, nil
}
