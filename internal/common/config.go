package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	GenAI  GenAIConfig
	Remote RemoteConfig
}

// GenAIConfig holds settings for the extraction service client.
type GenAIConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// RemoteConfig holds settings for remote file processing and the local
// spreadsheet conversion step.
type RemoteConfig struct {
	PollInterval     time.Duration
	PollTimeout      time.Duration
	ArtifactCacheDir string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		GenAI: GenAIConfig{
			BaseURL:     getEnv("GEMINI_BASE_URL", ""),
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Model:       getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
			Temperature: getEnvAsFloat32("GEMINI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("GEMINI_TIMEOUT", 120*time.Second),
		},
		Remote: RemoteConfig{
			PollInterval:     getEnvAsDuration("UPLOAD_POLL_INTERVAL", 2*time.Second),
			PollTimeout:      getEnvAsDuration("UPLOAD_POLL_TIMEOUT", 5*time.Minute),
			ArtifactCacheDir: getEnv("ARTIFACT_CACHE_DIR", "./tmp"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(f)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
