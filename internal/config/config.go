// Package config provides configuration loading for shimteo.
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

// Config represents the complete shimteo configuration.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Location  LocationConfig  `yaml:"location"`
	Narration NarrationConfig `yaml:"narration"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// APIConfig configures the backend REST API.
type APIConfig struct {
	// BaseURL is the API root, including the /api prefix.
	BaseURL string `yaml:"base_url"`
	// Timeout bounds every request. A timeout is reported like any other network failure.
	Timeout time.Duration `yaml:"timeout"`
}

// StorageConfig configures where preferences are persisted.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// LogConfig configures the rotating log file.
type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// LocationConfig holds the fallback map center used when location acquisition fails.
type LocationConfig struct {
	DefaultLat float64 `yaml:"default_lat"`
	DefaultLon float64 `yaml:"default_lon"`
	// RadiusM is the hospital search radius in meters.
	RadiusM int `yaml:"radius_m"`
}

// NarrationConfig configures speech synthesis.
type NarrationConfig struct {
	// Command is the synthesizer binary (empty = auto-detect).
	Command string  `yaml:"command"`
	Rate    float64 `yaml:"rate"`
	Pitch   float64 `yaml:"pitch"`
	Volume  float64 `yaml:"volume"`
}

// MetricsConfig configures the optional Prometheus endpoint.
type MetricsConfig struct {
	// Addr serves /metrics when set (e.g. ":9108").
	Addr string `yaml:"addr"`
}

// DefaultDataDir returns the directory holding the database and logs.
func DefaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "shimteo")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".shimteo")
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	dataDir := DefaultDataDir()
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080/api",
			Timeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Path: filepath.Join(dataDir, "shimteo.sqlite"),
		},
		Log: LogConfig{
			Path:  filepath.Join(dataDir, "shimteo.log"),
			Level: "info",
		},
		Location: LocationConfig{
			// Seoul City Hall
			DefaultLat: 37.5665,
			DefaultLon: 126.9780,
			RadiusM:    2000,
		},
		Narration: NarrationConfig{
			Rate:   1.0,
			Pitch:  1.0,
			Volume: 1.0,
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	if c.Location.DefaultLat < -90 || c.Location.DefaultLat > 90 {
		return fmt.Errorf("location.default_lat must be between -90 and 90")
	}
	if c.Location.DefaultLon < -180 || c.Location.DefaultLon > 180 {
		return fmt.Errorf("location.default_lon must be between -180 and 180")
	}
	if c.Location.RadiusM <= 0 {
		return fmt.Errorf("location.radius_m must be positive")
	}
	if c.Narration.Rate < 0.1 || c.Narration.Rate > 10 {
		return fmt.Errorf("narration.rate must be between 0.1 and 10")
	}
	if c.Narration.Pitch < 0 || c.Narration.Pitch > 2 {
		return fmt.Errorf("narration.pitch must be between 0 and 2")
	}
	if c.Narration.Volume < 0 || c.Narration.Volume > 1 {
		return fmt.Errorf("narration.volume must be between 0 and 1")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Load resolves the effective configuration: defaults, then the YAML file (if any), then
// environment variables. A .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	cfg.applyEnv()
	return cfg, nil
}

// Merge merges another config into this one (other takes precedence for non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.API.BaseURL != "" {
		c.API.BaseURL = other.API.BaseURL
	}
	if other.API.Timeout != 0 {
		c.API.Timeout = other.API.Timeout
	}

	if other.Storage.Path != "" {
		c.Storage.Path = other.Storage.Path
	}

	if other.Log.Path != "" {
		c.Log.Path = other.Log.Path
	}
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}

	if other.Location.DefaultLat != 0 {
		c.Location.DefaultLat = other.Location.DefaultLat
	}
	if other.Location.DefaultLon != 0 {
		c.Location.DefaultLon = other.Location.DefaultLon
	}
	if other.Location.RadiusM != 0 {
		c.Location.RadiusM = other.Location.RadiusM
	}

	if other.Narration.Command != "" {
		c.Narration.Command = other.Narration.Command
	}
	if other.Narration.Rate != 0 {
		c.Narration.Rate = other.Narration.Rate
	}
	if other.Narration.Pitch != 0 {
		c.Narration.Pitch = other.Narration.Pitch
	}
	if other.Narration.Volume != 0 {
		c.Narration.Volume = other.Narration.Volume
	}

	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}
}

func (c *Config) applyEnv() {
	c.Merge(&Config{
		API: APIConfig{
			BaseURL: getEnv("SHIMTEO_API_URL", ""),
			Timeout: getEnvAsDuration("SHIMTEO_API_TIMEOUT", 0),
		},
		Storage: StorageConfig{
			Path: getEnv("SHIMTEO_DB_PATH", ""),
		},
		Log: LogConfig{
			Path:  getEnv("SHIMTEO_LOG_PATH", ""),
			Level: getEnv("SHIMTEO_LOG_LEVEL", ""),
		},
		Location: LocationConfig{
			DefaultLat: getEnvAsFloat("SHIMTEO_DEFAULT_LAT", 0),
			DefaultLon: getEnvAsFloat("SHIMTEO_DEFAULT_LON", 0),
			RadiusM:    getEnvAsInt("SHIMTEO_HOSPITAL_RADIUS_M", 0),
		},
		Narration: NarrationConfig{
			Command: getEnv("SHIMTEO_TTS_COMMAND", ""),
		},
		Metrics: MetricsConfig{
			Addr: getEnv("SHIMTEO_METRICS_ADDR", ""),
		},
	})
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
