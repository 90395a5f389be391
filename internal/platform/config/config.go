package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultTimeout = 15 * time.Second

// Config carries everything the gateway and the stores need. It is built
// once at startup and passed down explicitly; nothing reads globals later.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	DefaultHeaders map[string]string
	StateDir       string
	SessionPath    string
	CachePath      string
}

type fileConfig struct {
	BaseURL        string            `yaml:"base_url"`
	TimeoutMs      int               `yaml:"timeout_ms"`
	DefaultHeaders map[string]string `yaml:"default_headers"`
}

// Load resolves configuration in increasing priority: built-in defaults,
// config.yaml under the state dir, then AQUAVIEW_* environment variables
// (a .env file is honoured when present).
func Load(stateDir string) (Config, error) {
	_ = godotenv.Load()

	if stateDir == "" {
		stateDir = os.Getenv("AQUAVIEW_HOME")
	}
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		stateDir = filepath.Join(home, ".aquaview")
	}

	cfg := Config{
		BaseURL:     "http://localhost:8000",
		Timeout:     defaultTimeout,
		StateDir:    stateDir,
		SessionPath: filepath.Join(stateDir, "session.json"),
		CachePath:   filepath.Join(stateDir, "cache.db"),
	}

	if err := applyFile(&cfg, filepath.Join(stateDir, "config.yaml")); err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)

	if cfg.BaseURL == "" {
		return Config{}, fmt.Errorf("base url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	fc := fileConfig{}
	if err := yaml.Unmarshal(payload, &fc); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if fc.BaseURL != "" {
		cfg.BaseURL = fc.BaseURL
	}
	if fc.TimeoutMs > 0 {
		cfg.Timeout = time.Duration(fc.TimeoutMs) * time.Millisecond
	}
	if len(fc.DefaultHeaders) > 0 {
		cfg.DefaultHeaders = fc.DefaultHeaders
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("AQUAVIEW_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("AQUAVIEW_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.Timeout = time.Duration(ms) * time.Millisecond
		}
	}
}
