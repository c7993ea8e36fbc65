package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Port                string
	GinMode             string
	LogLevel            string
	LogPretty           bool
	FirebaseProjectID   string
	FirebaseCredsBase64 string
	FirebaseCredsFile   string
	AllowedOrigins      string
	FetchTimeout        time.Duration
	FanOutLimit         int
	ReadAttempts        int
	RedisURL            string
	AccountCacheTTL     time.Duration
	SiteURL             string
	SiteName            string
}

// Load reads environment variables into a Config with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		GinMode:             getEnv("GIN_MODE", "release"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		FirebaseProjectID:   strings.TrimSpace(os.Getenv("FIREBASE_PROJECT_ID")),
		FirebaseCredsBase64: strings.TrimSpace(os.Getenv("FIREBASE_CREDS_BASE64")),
		FirebaseCredsFile:   strings.TrimSpace(os.Getenv("FIREBASE_CREDS_FILE")),
		AllowedOrigins:      strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")),
		RedisURL:            strings.TrimSpace(os.Getenv("REDIS_URL")),
		SiteURL:             getEnv("SITE_URL", "http://localhost:3000"),
		SiteName:            getEnv("SITE_NAME", "StayNest"),
	}

	var err error
	if cfg.LogPretty, err = parseBoolEnv("LOG_PRETTY", false); err != nil {
		return Config{}, fmt.Errorf("parse LOG_PRETTY: %w", err)
	}
	if cfg.FetchTimeout, err = parseDurationEnv("FETCH_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, fmt.Errorf("parse FETCH_TIMEOUT: %w", err)
	}
	if cfg.FanOutLimit, err = parseIntEnv("FAN_OUT_LIMIT", 8); err != nil {
		return Config{}, fmt.Errorf("parse FAN_OUT_LIMIT: %w", err)
	}
	if cfg.ReadAttempts, err = parseIntEnv("READ_ATTEMPTS", 2); err != nil {
		return Config{}, fmt.Errorf("parse READ_ATTEMPTS: %w", err)
	}
	if cfg.AccountCacheTTL, err = parseDurationEnv("ACCOUNT_CACHE_TTL", 5*time.Minute); err != nil {
		return Config{}, fmt.Errorf("parse ACCOUNT_CACHE_TTL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.FirebaseProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required")
	}
	if c.FirebaseCredsBase64 == "" && c.FirebaseCredsFile == "" {
		return errors.New("provide FIREBASE_CREDS_BASE64 or FIREBASE_CREDS_FILE for Firestore auth")
	}
	if c.FetchTimeout <= 0 {
		return errors.New("FETCH_TIMEOUT must be positive")
	}
	if c.FanOutLimit <= 0 {
		return errors.New("FAN_OUT_LIMIT must be positive")
	}
	if c.ReadAttempts <= 0 {
		return errors.New("READ_ATTEMPTS must be positive")
	}
	return nil
}

// FirebaseCredentialsJSON returns the service account JSON bytes and the source used.
func (c Config) FirebaseCredentialsJSON() ([]byte, string, error) {
	if c.FirebaseCredsBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(c.FirebaseCredsBase64)
		if err != nil {
			return nil, "base64", fmt.Errorf("decode FIREBASE_CREDS_BASE64: %w", err)
		}
		return decoded, "base64", nil
	}
	if c.FirebaseCredsFile != "" {
		data, err := os.ReadFile(c.FirebaseCredsFile)
		if err != nil {
			return nil, "file", fmt.Errorf("read FIREBASE_CREDS_FILE: %w", err)
		}
		return data, "file", nil
	}
	return nil, "", errors.New("no firebase credentials found")
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func parseBoolEnv(key string, defaultVal bool) (bool, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	return strconv.ParseBool(val)
}

func parseIntEnv(key string, defaultVal int) (int, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(val)
}

func parseDurationEnv(key string, defaultVal time.Duration) (time.Duration, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(val)
}
