package solarform

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/solarutah/solarform/solarform/wizard"
	"gopkg.in/yaml.v3"
)

// envPrefix is prepended to the upper-case config key to form the name of
// the overriding environment variable, e.g. SOLARFORM_RELAY_ENDPOINT.
const envPrefix = "SOLARFORM_"

// RelayConfig configures the submission relay.
type RelayConfig struct {
	Endpoint     string        `yaml:"endpoint"`
	Subject      string        `yaml:"subject"`
	Template     string        `yaml:"template"`
	AutoResponse string        `yaml:"auto_response"`
	NextURL      string        `yaml:"next_url"`
	Timeout      time.Duration `yaml:"timeout"`
}

// Config containing all the configuration values for a service.
type Config struct {
	Variant     string        `yaml:"-"`
	Port        uint16        `yaml:"port"`
	CookieName  string        `yaml:"cookie_name"`
	DBPath      string        `yaml:"db_path"`
	SessionTTL  time.Duration `yaml:"session_ttl"`
	QueueLength int           `yaml:"queue_length"`
	LogLevel    string        `yaml:"log_level"`
	AssetsDir   string        `yaml:"assets_dir"`
	PublicURL   string        `yaml:"public_url"`
	Relay       RelayConfig   `yaml:"relay"`
}

// DefaultConfig returns the configuration used when nothing else is set.
func DefaultConfig(variant string) Config {
	return Config{
		Variant:     variant,
		Port:        3000,
		CookieName:  "solarform-session",
		DBPath:      "./solarform.db",
		SessionTTL:  24 * time.Hour,
		QueueLength: 100,
		LogLevel:    "info",
		AssetsDir:   "./assets",
		Relay: RelayConfig{
			Timeout: 15 * time.Second,
		},
	}
}

// LoadConfig starts from DefaultConfig(variant), applies the YAML file at
// path if path is not empty, and finally the SOLARFORM_* environment
// variables. The variant is fixed by the caller; neither source can change
// it.
func LoadConfig(variant, path string) (Config, error) {
	cfg := DefaultConfig(variant)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %q: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (cfg *Config) applyEnv() error {
	var errs []error
	if v := getEnv("PORT", ""); v != "" {
		port, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sPORT: %w", envPrefix, err))
		} else {
			cfg.Port = uint16(port)
		}
	}
	cfg.CookieName = getEnv("COOKIE_NAME", cfg.CookieName)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.SessionTTL = getEnvAsDuration("SESSION_TTL", cfg.SessionTTL, &errs)
	cfg.QueueLength = getEnvAsInt("QUEUE_LENGTH", cfg.QueueLength, &errs)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.AssetsDir = getEnv("ASSETS_DIR", cfg.AssetsDir)
	cfg.PublicURL = getEnv("PUBLIC_URL", cfg.PublicURL)
	cfg.Relay.Endpoint = getEnv("RELAY_ENDPOINT", cfg.Relay.Endpoint)
	cfg.Relay.Subject = getEnv("RELAY_SUBJECT", cfg.Relay.Subject)
	cfg.Relay.Template = getEnv("RELAY_TEMPLATE", cfg.Relay.Template)
	cfg.Relay.AutoResponse = getEnv("RELAY_AUTO_RESPONSE", cfg.Relay.AutoResponse)
	cfg.Relay.NextURL = getEnv("RELAY_NEXT_URL", cfg.Relay.NextURL)
	cfg.Relay.Timeout = getEnvAsDuration("RELAY_TIMEOUT", cfg.Relay.Timeout, &errs)
	return errors.Join(errs...)
}

// Validate checks the settings NewService depends on. The relay endpoint is
// only required by Start.
func (cfg Config) Validate() error {
	if _, err := wizard.VariantByName(cfg.Variant); err != nil {
		return err
	}
	if cfg.CookieName == "" {
		return errors.New("cookie name must not be empty")
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("invalid session ttl %s", cfg.SessionTTL)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int, errs *[]error) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
		return defaultValue
	}
	return value
}
