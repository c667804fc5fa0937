package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the server's environment-driven settings.
type Config struct {
	Port        string
	RedisAddr   string // empty disables snapshot persistence
	SnapshotTTL time.Duration
	BotSpeed    float64
	Debug       bool
}

// Load reads configuration from the environment with sane defaults.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "7777"),
		RedisAddr:   getEnv("REDIS_ADDR", ""),
		SnapshotTTL: getDuration("SNAPSHOT_TTL", 24*time.Hour),
		BotSpeed:    getFloat("BOT_SPEED", 1.0),
		Debug:       getEnv("DEBUG", "") != "",
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultVal
}
