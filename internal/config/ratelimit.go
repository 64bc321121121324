package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig tunes the Redis token bucket that guards the login-class
// endpoints (signup, login, forgot/reset password, admin login). The bucket
// is keyed per client IP and route. Defaults mirror a brute-force limiter:
// a burst of 15 requests, refilling one permit per minute.
type RateLimitConfig struct {
	Enabled     bool
	Burst       int           // bucket capacity
	RefillEvery time.Duration // interval at which one permit is restored
	TTL         time.Duration // idle lifetime of a bucket key in Redis
	Prefix      string        // key namespace
}

// LoadRateLimitConfig reads rate-limit settings from the environment,
// falling back to defaults and clamping nonsensical values.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:     envBool("RATE_LIMIT_ENABLED", true),
		Burst:       envInt("RATE_LIMIT_BURST", 15),
		RefillEvery: envDur("RATE_LIMIT_REFILL_EVERY", time.Minute),
		TTL:         envDur("RATE_LIMIT_TTL", 30*time.Minute),
		Prefix:      envStr("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.RefillEvery <= 0 {
		cfg.RefillEvery = time.Minute
	}
	// Keep bucket state alive long enough for at least a few refills.
	if minTTL := 5 * cfg.RefillEvery; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
