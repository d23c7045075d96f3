package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	DBPath            string
	DataPath          string
	LogLevel          string
	LogFile           string
	RevealDelayMS     int
	CheatWindowMS     int
	DefaultTheme      string
	SessionTTLMinutes int
	SweepIntervalSecs int
	WorkerCount       int
	QueueSize         int
	RateLimitRPS      int
	RateLimitBurst    int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:quizflash.db"),
		DataPath:          os.Getenv("DATA_PATH"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		LogFile:           os.Getenv("LOG_FILE"),
		RevealDelayMS:     envIntOr("REVEAL_DELAY_MS", 2000),
		CheatWindowMS:     envIntOr("CHEAT_WINDOW_MS", 1000),
		DefaultTheme:      envOr("DEFAULT_THEME", "light"),
		SessionTTLMinutes: envIntOr("SESSION_TTL_MINUTES", 60),
		SweepIntervalSecs: envIntOr("SWEEP_INTERVAL_SECONDS", 60),
		WorkerCount:       envIntOr("WORKER_COUNT", 2),
		QueueSize:         envIntOr("QUEUE_SIZE", 64),
		RateLimitRPS:      envIntOr("RATE_LIMIT_RPS", 20),
		RateLimitBurst:    envIntOr("RATE_LIMIT_BURST", 40),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if c.DataPath != "" && !isURL(c.DataPath) {
		if _, err := os.Stat(c.DataPath); err != nil {
			errs = append(errs, fmt.Errorf("DATA_PATH %q: %w", c.DataPath, err))
		}
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be DEBUG, INFO, WARN or ERROR, got %q", c.LogLevel))
	}
	if c.RevealDelayMS <= 0 {
		errs = append(errs, fmt.Errorf("REVEAL_DELAY_MS must be positive, got %d", c.RevealDelayMS))
	}
	if c.CheatWindowMS <= 0 {
		errs = append(errs, fmt.Errorf("CHEAT_WINDOW_MS must be positive, got %d", c.CheatWindowMS))
	}
	if c.DefaultTheme != "light" && c.DefaultTheme != "dark" {
		errs = append(errs, fmt.Errorf("DEFAULT_THEME must be light or dark, got %q", c.DefaultTheme))
	}
	if c.SessionTTLMinutes <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL_MINUTES must be positive, got %d", c.SessionTTLMinutes))
	}
	if c.SweepIntervalSecs <= 0 {
		errs = append(errs, fmt.Errorf("SWEEP_INTERVAL_SECONDS must be positive, got %d", c.SweepIntervalSecs))
	}
	if c.WorkerCount <= 0 {
		errs = append(errs, fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount))
	}
	if c.QueueSize <= 0 {
		errs = append(errs, fmt.Errorf("QUEUE_SIZE must be positive, got %d", c.QueueSize))
	}
	if c.RateLimitRPS <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must be positive, got %d", c.RateLimitRPS))
	}
	if c.RateLimitBurst < c.RateLimitRPS {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be at least RATE_LIMIT_RPS, got %d", c.RateLimitBurst))
	}
	return errors.Join(errs...)
}

func (c Config) RevealDelay() time.Duration {
	return time.Duration(c.RevealDelayMS) * time.Millisecond
}

func (c Config) CheatWindow() time.Duration {
	return time.Duration(c.CheatWindowMS) * time.Millisecond
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSecs) * time.Second
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
