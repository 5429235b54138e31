package config

import (
	"os"
	"path/filepath"
	"strconv"
)

const (
	envAPIKey       = "GOOGLE_API_KEY"
	envLegacyAPIKey = "YOUTUBE_API_KEY"
)

// Config holds runtime settings read from the environment.
type Config struct {
	APIKey        string
	LogLevel      string
	LogFile       string // log destination while the TUI runs
	AudioDir      string
	WhisperModel  string
	WhisperBin    string
	FFmpegBin     string
	MaxQPS        float64 // 0 disables request pacing
	MetricsFile   string
	MongoURI      string
	MongoDatabase string
}

// Load reads the configuration. A missing API key is not an error here;
// it is reported when a YouTube client is built.
func Load() *Config {
	apiKey := os.Getenv(envAPIKey)
	if apiKey == "" {
		apiKey = os.Getenv(envLegacyAPIKey)
	}

	return &Config{
		APIKey:        apiKey,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       getEnv("LOG_FILE", filepath.Join(os.TempDir(), "ytscout.log")),
		AudioDir:      getEnv("AUDIO_DIR", "content/audio"),
		WhisperModel:  getEnv("WHISPER_MODEL", "base"),
		WhisperBin:    getEnv("WHISPER_BIN", "whisper"),
		FFmpegBin:     getEnv("FFMPEG_BIN", "ffmpeg"),
		MaxQPS:        getEnvFloat("YT_MAX_QPS", 0),
		MetricsFile:   getEnv("METRICS_FILE", ""),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "ytscout"),
	}
}

// APIKeyEnv names the variable users should set for the Data API key.
func APIKeyEnv() string { return envAPIKey }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return fallback
	}
	return f
}
