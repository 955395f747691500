// Package ratelimit provides per-client request limiting using the token
// bucket algorithm.
package ratelimit

import (
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	Limit           int           // requests per window, also the burst capacity
	Window          time.Duration // refill window
	CleanupInterval time.Duration // how often idle buckets are dropped
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	cfg := &Config{
		Enabled:         getEnvBool("RATE_LIMIT_ENABLED", true),
		Limit:           getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 120),
		Window:          getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
	}
	return cfg
}

// Info reports rate limit status for a request.
type Info struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetTime time.Time
}

type bucket struct {
	tokens     float64
	lastRefill time.Time
	lastAccess time.Time
}

// Limiter tracks a token bucket per client.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	config  *Config
	ticker  *time.Ticker
	stop    chan struct{}
}

// NewLimiter creates a limiter from the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = LoadConfig()
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.ticker = time.NewTicker(config.CleanupInterval)
		l.stop = make(chan struct{})
		go l.cleanupLoop()
	}
	return l
}

// Allow consumes one token for the client and reports whether the request
// may proceed.
func (l *Limiter) Allow(clientID string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	refillRate := float64(l.config.Limit) / l.config.Window.Seconds()
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[clientID]
	if !ok {
		b = &bucket{tokens: float64(l.config.Limit), lastRefill: now}
		l.buckets[clientID] = b
	}

	b.tokens = min(float64(l.config.Limit), b.tokens+now.Sub(b.lastRefill).Seconds()*refillRate)
	b.lastRefill = now
	b.lastAccess = now

	allowed := b.tokens >= 1.0
	if allowed {
		b.tokens -= 1.0
	}

	var reset time.Time
	if b.tokens < float64(l.config.Limit) {
		deficit := float64(l.config.Limit) - b.tokens
		reset = now.Add(time.Duration(deficit / refillRate * float64(time.Second)))
	} else {
		reset = now
	}

	return allowed, Info{
		Allowed:   allowed,
		Limit:     l.config.Limit,
		Remaining: int(b.tokens),
		ResetTime: reset,
	}
}

// Stop halts the cleanup goroutine.
func (l *Limiter) Stop() {
	if l.ticker != nil {
		l.ticker.Stop()
		close(l.stop)
	}
}

func (l *Limiter) cleanupLoop() {
	for {
		select {
		case <-l.ticker.C:
			cutoff := time.Now().Add(-2 * l.config.CleanupInterval)
			l.mu.Lock()
			for id, b := range l.buckets {
				if b.lastAccess.Before(cutoff) {
					delete(l.buckets, id)
				}
			}
			l.mu.Unlock()
		case <-l.stop:
			return
		}
	}
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
