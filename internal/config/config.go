// Package config loads server configuration from flags, environment
// variables, and an optional .env file.
package config

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the full server configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Data     DataConfig
	Modules  ModulesConfig
	Server   ServerConfig
	Pairing  PairingConfig
	TagPanel TagPanelConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Environment string // development, staging, production
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string
	Format string // json, text, or empty for auto
}

// DataConfig holds storage locations.
type DataConfig struct {
	// BasePath is the root data directory. The tag database, settings
	// store, and search index live underneath it.
	BasePath string
}

// ModulesConfig holds SWORD module settings.
type ModulesConfig struct {
	// Path is the directory containing installed translation modules.
	// Empty disables the module watcher.
	Path string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Name          string
	Port          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	AdvertiseMDNS bool
	// AllowedOrigins are CORS origins permitted to reach the API.
	AllowedOrigins []string
}

// PairingConfig holds LAN companion pairing settings.
type PairingConfig struct {
	// Enabled gates the pairing endpoints and token checks for
	// non-loopback clients. Loopback clients are always trusted.
	Enabled       bool
	TokenDuration time.Duration
}

// TagPanelConfig holds tag panel view-model tuning knobs.
type TagPanelConfig struct {
	BatchSize      int           // rows materialized per lazy-load step
	RowHeight      int           // estimated row height in pixels
	ScrollThrottle time.Duration // minimum interval between scroll computations
	ToggleWindow   time.Duration // debounce window for assignment toggles
}

// Load reads configuration with precedence: flags > env > .env > defaults.
func Load() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "", "Log format (json, text)")
	dataPath := flag.String("data-path", "", "Base path for server data")
	modulesPath := flag.String("modules-path", "", "Path to installed SWORD modules")
	serverName := flag.String("server-name", "", "Advertised server name")
	port := flag.String("port", "", "HTTP port")
	advertiseMDNS := flag.String("advertise-mdns", "", "Advertise via mDNS (true/false)")
	pairingEnabled := flag.String("pairing", "", "Enable LAN companion pairing (true/false)")
	envFile := flag.String("env-file", ".env", "Path to .env file")
	flag.Parse()

	if err := loadDotEnv(*envFile); err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Environment: pick(*env, "LAMPSTAND_ENV", "development"),
		},
		Logger: LoggerConfig{
			Level:  pick(*logLevel, "LAMPSTAND_LOG_LEVEL", "info"),
			Format: pick(*logFormat, "LAMPSTAND_LOG_FORMAT", ""),
		},
		Data: DataConfig{
			BasePath: pick(*dataPath, "LAMPSTAND_DATA_PATH", defaultDataPath()),
		},
		Modules: ModulesConfig{
			Path: pick(*modulesPath, "LAMPSTAND_MODULES_PATH", ""),
		},
		Server: ServerConfig{
			Name:           pick(*serverName, "LAMPSTAND_SERVER_NAME", "Lampstand"),
			Port:           pick(*port, "LAMPSTAND_PORT", "7390"),
			ReadTimeout:    pickDuration("LAMPSTAND_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   pickDuration("LAMPSTAND_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:    pickDuration("LAMPSTAND_IDLE_TIMEOUT", 60*time.Second),
			AdvertiseMDNS:  pickBool(*advertiseMDNS, "LAMPSTAND_ADVERTISE_MDNS", true),
			AllowedOrigins: pickList("LAMPSTAND_ALLOWED_ORIGINS", []string{"http://localhost:*"}),
		},
		Pairing: PairingConfig{
			Enabled:       pickBool(*pairingEnabled, "LAMPSTAND_PAIRING", false),
			TokenDuration: pickDuration("LAMPSTAND_TOKEN_DURATION", 30*24*time.Hour),
		},
		TagPanel: TagPanelConfig{
			BatchSize:      pickInt("LAMPSTAND_TAG_BATCH_SIZE", 50),
			RowHeight:      30,
			ScrollThrottle: 50 * time.Millisecond,
			ToggleWindow:   300 * time.Millisecond,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("invalid environment %q", c.App.Environment)
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid port %q", c.Server.Port)
	}
	if c.TagPanel.BatchSize < 1 {
		return fmt.Errorf("tag batch size must be positive, got %d", c.TagPanel.BatchSize)
	}
	return nil
}

func defaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lampstand"
	}
	return filepath.Join(home, ".lampstand")
}

// loadDotEnv reads KEY=VALUE lines into the process environment without
// overriding values already set. A missing file is not an error.
func loadDotEnv(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open env file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if _, exists := os.LookupEnv(key); !exists {
			os.Setenv(key, value)
		}
	}
	return scanner.Err()
}

func pick(flagValue, envKey, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return fallback
}

func pickBool(flagValue, envKey string, fallback bool) bool {
	s := flagValue
	if s == "" {
		s = os.Getenv(envKey)
	}
	if s == "" {
		return fallback
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}

func pickInt(envKey string, fallback int) int {
	s := os.Getenv(envKey)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func pickDuration(envKey string, fallback time.Duration) time.Duration {
	s := os.Getenv(envKey)
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func pickList(envKey string, fallback []string) []string {
	s := os.Getenv(envKey)
	if s == "" {
		return fallback
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
