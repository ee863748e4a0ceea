// Package config loads and validates birdseye configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/JakeFAU/birdseye/internal/logging"
)

// APIKeyEnv is the variable (and .env entry) holding the eBird token.
const APIKeyEnv = "EBIRD_API_KEY"

// DefaultEnvFile is read for credentials when no --env-file is given.
const DefaultEnvFile = ".env"

// ErrMissingAPIKey is returned by RequireAPIKey when no token was found.
var ErrMissingAPIKey = errors.New("EBIRD_API_KEY not found in environment or .env file")

// Config captures all knobs loaded via Viper.
type Config struct {
	EBird     EBirdConfig     `mapstructure:"ebird"`
	Wikipedia WikipediaConfig `mapstructure:"wikipedia"`
	Photos    PhotosConfig    `mapstructure:"photos"`
	Site      SiteConfig      `mapstructure:"site"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Logging   logging.Config  `mapstructure:"logging"`
	Publish   PublishConfig   `mapstructure:"publish"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Serve     ServeConfig     `mapstructure:"serve"`
}

// EBirdConfig points at the eBird API.
type EBirdConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// WikipediaConfig points at the Wikipedia REST API.
type WikipediaConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
}

// PhotosConfig toggles photo enrichment.
type PhotosConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// SiteConfig controls where the page is written.
type SiteConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	FileName  string `mapstructure:"file_name"`
	Title     string `mapstructure:"title"`
}

// HTTPConfig tunes the shared fetcher.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	MaxBodyBytes   int `mapstructure:"max_body_bytes"`
}

// PublishConfig enables the optional GCS mirror and Pub/Sub notification.
type PublishConfig struct {
	GCSBucket    string `mapstructure:"gcs_bucket"`
	ObjectPrefix string `mapstructure:"object_prefix"`
	ProjectID    string `mapstructure:"project_id"`
	Topic        string `mapstructure:"topic"`
}

// MetricsConfig names the Prometheus textfile written after a run.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// ServeConfig configures the local preview server.
type ServeConfig struct {
	Port int `mapstructure:"port"`
}

// Load builds a Config from defaults, an optional config file, the
// environment, command-line flags and finally the .env credential file.
// flags may be nil.
func Load(path, envFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BIRDSEYE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("ebird.api_key", APIKeyEnv, "BIRDSEYE_EBIRD_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind api key env: %w", err)
	}

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if err := bindFlags(v, flags); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.EBird.APIKey == "" {
		key, err := readEnvFile(envFile)
		if err != nil {
			return Config{}, err
		}
		cfg.EBird.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ebird.base_url", "https://api.ebird.org/v2")
	v.SetDefault("wikipedia.base_url", "https://en.wikipedia.org/api/rest_v1")
	v.SetDefault("wikipedia.user_agent", "birdseye/0.1 (https://github.com/JakeFAU/birdseye; bird checklist tool)")
	v.SetDefault("photos.enabled", true)
	v.SetDefault("site.output_dir", "docs")
	v.SetDefault("site.file_name", "index.html")
	v.SetDefault("site.title", "Bird Checklist")
	v.SetDefault("http.timeout_seconds", 0)
	v.SetDefault("http.max_body_bytes", 64*1024*1024)
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("publish.gcs_bucket", "")
	v.SetDefault("publish.object_prefix", "")
	v.SetDefault("publish.project_id", "")
	v.SetDefault("publish.topic", "")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("serve.port", 8080)
}

// bindFlags maps command-line flags onto config keys. Only flags the user
// actually set take effect.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	bindings := map[string]string{
		"output-dir":   "site.output_dir",
		"metrics-file": "metrics.textfile",
		"port":         "serve.port",
	}
	for name, key := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	if flag := flags.Lookup("no-photos"); flag != nil && flag.Changed {
		skip, err := flags.GetBool("no-photos")
		if err != nil {
			return fmt.Errorf("read flag no-photos: %w", err)
		}
		if skip {
			v.Set("photos.enabled", false)
		}
	}
	return nil
}

// readEnvFile pulls EBIRD_API_KEY out of a KEY=VALUE file. A missing file
// is not an error.
func readEnvFile(path string) (string, error) {
	if path == "" {
		path = DefaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("stat env file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("dotenv")
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("read env file %s: %w", filepath.Base(path), err)
	}
	return strings.TrimSpace(v.GetString(APIKeyEnv)), nil
}

// Validate enforces required values and reasonable limits. The API key is
// checked separately by RequireAPIKey since serve never talks to eBird.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Site.OutputDir) == "" {
		return fmt.Errorf("site.output_dir must be set")
	}
	if strings.TrimSpace(c.Site.FileName) == "" {
		return fmt.Errorf("site.file_name must be set")
	}
	if strings.ContainsAny(c.Site.FileName, `/\`) {
		return fmt.Errorf("site.file_name must be a bare file name")
	}
	if c.HTTP.TimeoutSeconds < 0 {
		return fmt.Errorf("http.timeout_seconds must be >= 0")
	}
	if c.HTTP.MaxBodyBytes < 0 {
		return fmt.Errorf("http.max_body_bytes must be >= 0")
	}
	if c.Serve.Port <= 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port must be between 1 and 65535")
	}
	if c.Publish.Topic != "" && c.Publish.ProjectID == "" {
		return fmt.Errorf("publish.project_id must be set when publish.topic is set")
	}
	return nil
}

// RequireAPIKey returns ErrMissingAPIKey when no eBird token was resolved.
func (c Config) RequireAPIKey() error {
	if strings.TrimSpace(c.EBird.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Timeout converts http.timeout_seconds into a duration; zero means no limit.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}
