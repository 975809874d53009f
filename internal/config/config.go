package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by FABRIC_ENV (or .env by
// default), then the corresponding .secret sidecar if present. All
// config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("FABRIC_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Missing files are fine; defaults cover everything.
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// RateLimitRPS returns the per-IP requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// DefaultTTLSeconds is the episodic TTL applied when a write omits
// ttl_seconds. Defaults to 60.
func DefaultTTLSeconds() int {
	return positiveIntEnv("TTL_DEFAULT_SECONDS", 60)
}

// MinTTLSeconds is the lower clamp bound for requested TTLs.
// Defaults to 5.
func MinTTLSeconds() int {
	return positiveIntEnv("TTL_MIN_SECONDS", 5)
}

// MaxTTLSeconds is the upper clamp bound for requested TTLs.
// Defaults to 600.
func MaxTTLSeconds() int {
	return positiveIntEnv("TTL_MAX_SECONDS", 600)
}

// PromotionWindowSeconds bounds how long after an episodic entry's
// creation a repeat write still reinforces knowledge. Defaults to 120.
func PromotionWindowSeconds() int {
	return positiveIntEnv("PROMOTION_WINDOW_SECONDS", 120)
}

// SweepIntervalSeconds is the background decay sweep cadence.
// Defaults to 5.
func SweepIntervalSeconds() int {
	return positiveIntEnv("SWEEP_INTERVAL_SECONDS", 5)
}

// TrustInitial is the trust assigned on first promotion.
// Defaults to 0.5.
func TrustInitial() float64 {
	return unitFloatEnv("TRUST_INITIAL", 0.5)
}

// TrustReinforcementRate is the fraction of the remaining trust gap
// closed per reinforcement. Defaults to 0.3.
func TrustReinforcementRate() float64 {
	return unitFloatEnv("TRUST_REINFORCEMENT_RATE", 0.3)
}

// CORSAllowedOrigins lists origins the dashboard may call from,
// comma separated. Defaults to "*".
func CORSAllowedOrigins() []string {
	raw := os.Getenv("CORS_ALLOWED_ORIGINS")
	if raw == "" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func positiveIntEnv(name string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(name))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func unitFloatEnv(name string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(name), 64)
	if err != nil || v <= 0 || v >= 1 {
		return fallback
	}
	return v
}
