package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2000, cfg.Location.RadiusM)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shimteo.yaml")
	content := `
api:
  base_url: https://shelter.example.com/api
  timeout: 3s
narration:
  command: espeak-ng
  rate: 1.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://shelter.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "espeak-ng", cfg.Narration.Command)
	assert.Equal(t, 1.5, cfg.Narration.Rate)
	// untouched sections keep defaults
	assert.Equal(t, 1.0, cfg.Narration.Volume)
	assert.Equal(t, 37.5665, cfg.Location.DefaultLat)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unclosed"), 0o644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SHIMTEO_API_URL", "http://env.example.com/api")
	t.Setenv("SHIMTEO_API_TIMEOUT", "2s")
	t.Setenv("SHIMTEO_DEFAULT_LAT", "35.1796")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://env.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.API.Timeout)
	assert.Equal(t, 35.1796, cfg.Location.DefaultLat)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base url", func(c *Config) { c.API.BaseURL = "" }},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }},
		{"bad latitude", func(c *Config) { c.Location.DefaultLat = 91 }},
		{"bad rate", func(c *Config) { c.Narration.Rate = 0 }},
		{"bad volume", func(c *Config) { c.Narration.Volume = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestMerge_NilIsNoop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(nil)
	assert.Equal(t, DefaultConfig(), cfg)
}
