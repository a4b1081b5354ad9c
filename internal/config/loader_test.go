package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("VN_TEST_SET", "value")

	assert.Equal(t, "key: value", expandEnv("key: ${VN_TEST_SET}"))
	assert.Equal(t, "key: value", expandEnv("key: ${VN_TEST_SET:fallback}"))
	assert.Equal(t, "key: fallback", expandEnv("key: ${VN_TEST_UNSET:fallback}"))
	assert.Equal(t, "key: ", expandEnv("key: ${VN_TEST_UNSET:}"))
	assert.Equal(t, "key: ${VN_TEST_UNSET}", expandEnv("key: ${VN_TEST_UNSET}"))
}

func TestLoadFromDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.HTTP.Host)
	assert.Equal(t, 5000, cfg.Server.HTTP.Port)
	assert.Equal(t, "gemini-1.5-flash", cfg.LLM.DefaultModel)
	assert.Equal(t, "en", cfg.TTS.Lang)
	assert.Equal(t, "static/tts_audio", cfg.TTS.OutputDir)
	assert.Equal(t, "web", cfg.Web.Root)
	assert.Equal(t, 120*time.Second, cfg.Server.HTTP.WriteTimeout)
	assert.False(t, cfg.Cache.Redis.Enabled)
	assert.Equal(t, "/metrics", cfg.Observability.Metrics.Path)
}

func TestLoadFromFileWithEnvExpansion(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VN_TEST_API_KEY", "secret")
	t.Setenv("APP_ENV", "staging")

	base := `
llm:
  api_key: ${VN_TEST_API_KEY}
  default_model: gemini-2.0-flash
tts:
  output_dir: out/audio
`
	staging := `
server:
  http:
    port: 8088
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(base), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.staging.yaml"), []byte(staging), 0o644))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.LLM.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.DefaultModel)
	assert.Equal(t, "out/audio", cfg.TTS.OutputDir)
	assert.Equal(t, 8088, cfg.Server.HTTP.Port)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			TTS: TTSConfig{OutputDir: "static/tts_audio"},
			Web: WebConfig{Root: "web"},
		}
	}

	require.NoError(t, base().Validate())

	abs := base()
	abs.TTS.OutputDir = "/var/tts"
	assert.Error(t, abs.Validate())

	escape := base()
	escape.TTS.OutputDir = "../outside"
	assert.Error(t, escape.Validate())

	limiter := base()
	limiter.Security.RateLimit.Enabled = true
	assert.Error(t, limiter.Validate())
}
