package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"bimbuddy/internal/domain"
)

// BackendConfig holds connection details for the BIM dictionary service.
type BackendConfig struct {
	BaseURL        string        `yaml:"base_url" env:"BIM_BACKEND_URL"`
	APIKeyEnv      string        `yaml:"api_key_env" env:"BIM_API_KEY_ENV"`
	Timeout        time.Duration `yaml:"timeout" env:"BIM_TIMEOUT"`
	HealthInterval time.Duration `yaml:"health_interval" env:"BIM_HEALTH_INTERVAL"`
}

// MarshalYAML writes durations as strings so they load back through yaml.v3.
func (b BackendConfig) MarshalYAML() (any, error) {
	return struct {
		BaseURL        string `yaml:"base_url"`
		APIKeyEnv      string `yaml:"api_key_env"`
		Timeout        string `yaml:"timeout"`
		HealthInterval string `yaml:"health_interval"`
	}{b.BaseURL, b.APIKeyEnv, b.Timeout.String(), b.HealthInterval.String()}, nil
}

// LogConfig configures the structured logger. File "-" disables logging.
// An empty File means ~/.config/bimbuddy/bimbuddy.log.
type LogConfig struct {
	Level  string `yaml:"level" env:"BIM_LOG_LEVEL"`
	Format string `yaml:"format" env:"BIM_LOG_FORMAT"`
	File   string `yaml:"file" env:"BIM_LOG_FILE"`
}

// UIConfig tunes the terminal interface.
type UIConfig struct {
	Examples []string `yaml:"examples"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Backend BackendConfig `yaml:"backend"`
	Log     LogConfig     `yaml:"log"`
	UI      UIConfig      `yaml:"ui"`
}

// Load reads a config from a specified path and applies BIM_* environment
// overrides. If the file does not exist, defaults plus environment are used.
func Load(path string) (*AppConfig, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: stat %s: %w", path, err)
		}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	applyConfigDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/bimbuddy/config.yaml.
// If neither exists, it writes defaults to ~/.config/bimbuddy/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	if err := Save(userPath, defaultConfig()); err != nil {
		return nil, "", err
	}
	cfg, err := Load(userPath)
	return cfg, userPath, err
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks values that defaults cannot repair.
func (c *AppConfig) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("backend.base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend.base_url %q must be an absolute http(s) URL", c.Backend.BaseURL)
	}
	if c.Backend.Timeout < 0 || c.Backend.HealthInterval < 0 {
		return errors.New("backend durations must not be negative")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q must be text or json", c.Log.Format)
	}
	return nil
}

// Dir returns the per-user directory holding config and logs.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "bimbuddy"), nil
}

func defaultUserConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Backend: BackendConfig{
			BaseURL:        domain.DefaultBaseURL,
			APIKeyEnv:      "BIM_API_KEY",
			Timeout:        15 * time.Second,
			HealthInterval: 10 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "text", File: defaultLogPath()},
		UI:  UIConfig{Examples: defaultExamples()},
	}
	return cfg
}

func defaultExamples() []string {
	return []string{"Saya", "Makan", "Terima Kasih", "Apa Khabar", "Selamat Pagi"}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = domain.DefaultBaseURL
	}
	if cfg.Backend.APIKeyEnv == "" {
		cfg.Backend.APIKeyEnv = "BIM_API_KEY"
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 15 * time.Second
	}
	if cfg.Backend.HealthInterval == 0 {
		cfg.Backend.HealthInterval = 10 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Log.File == "" {
		cfg.Log.File = defaultLogPath()
	}
	if len(cfg.UI.Examples) == 0 {
		cfg.UI.Examples = defaultExamples()
	}
}

// defaultLogPath falls back to "-" when there is no home directory.
func defaultLogPath() string {
	dir, err := Dir()
	if err != nil {
		return "-"
	}
	return filepath.Join(dir, "bimbuddy.log")
}
