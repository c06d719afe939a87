package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	// DefaultRangeStart is the window start used when a range request omits
	// its start bound (the "fixed epoch" for all-history queries).
	DefaultRangeStart time.Time

	// HoursPerPoint converts original time estimates into story points.
	HoursPerPoint float64

	// RawTTL is the cache lifetime for parsed raw collections, which are
	// expensive to refetch upstream.
	RawTTL time.Duration

	// StatsTTL is the cache lifetime for computed, parameter-sensitive
	// statistics.
	StatsTTL time.Duration

	LogDir string
}

const defaultRangeStart = "2015-01-01"

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory first, then fall back
	// to the working directory (useful for development/go run).
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	start, parseErr := time.Parse("2006-01-02", getEnv("DEFAULT_RANGE_START", defaultRangeStart))
	if parseErr != nil {
		log.Warn().Str("value", os.Getenv("DEFAULT_RANGE_START")).Msg("Invalid DEFAULT_RANGE_START, using built-in default")
		start, _ = time.Parse("2006-01-02", defaultRangeStart)
	}

	logDir := os.Getenv("LOGS_FOLDER")
	if logDir == "" {
		if exeDir != "" {
			logDir = filepath.Join(exeDir, "logs")
		} else {
			logDir = "logs"
		}
	}

	cfg := &AppConfig{
		DefaultRangeStart: start,
		HoursPerPoint:     getEnvFloat("HOURS_PER_POINT", 8),
		RawTTL:            time.Duration(getEnvInt("CACHE_TTL_RAW_SECONDS", 3600)) * time.Second,
		StatsTTL:          time.Duration(getEnvInt("CACHE_TTL_STATS_SECONDS", 600)) * time.Second,
		LogDir:            logDir,
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseFloat(value, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
