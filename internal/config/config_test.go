package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"GOOGLE_API_KEY", "YOUTUBE_API_KEY", "LOG_LEVEL", "LOG_FILE", "AUDIO_DIR", "WHISPER_MODEL", "YT_MAX_QPS", "MONGO_DATABASE"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, filepath.Join(os.TempDir(), "ytscout.log"), cfg.LogFile)
	assert.Equal(t, "content/audio", cfg.AudioDir)
	assert.Equal(t, "base", cfg.WhisperModel)
	assert.Equal(t, "whisper", cfg.WhisperBin)
	assert.Zero(t, cfg.MaxQPS)
	assert.Equal(t, "ytscout", cfg.MongoDatabase)
}

func TestLoadAPIKeyFallback(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("YOUTUBE_API_KEY", "legacy")
	assert.Equal(t, "legacy", Load().APIKey)

	t.Setenv("GOOGLE_API_KEY", "primary")
	assert.Equal(t, "primary", Load().APIKey)
}

func TestLoadMaxQPS(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"unset", "", 0},
		{"valid", "2.5", 2.5},
		{"garbage", "fast", 0},
		{"negative", "-1", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("YT_MAX_QPS", tt.raw)
			assert.Equal(t, tt.want, Load().MaxQPS)
		})
	}
}
