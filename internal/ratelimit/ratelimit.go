package ratelimit

import (
	"sync"
	"time"

	gerr "github.com/waitline/waitline-manager/internal/errors"
)

// Limiter implements a simple in-memory sliding window rate limiter
type Limiter struct {
	mu       sync.RWMutex
	counters map[string]*counter
	window   time.Duration
	max      int
}

type counter struct {
	count     int
	expiresAt time.Time
}

// NewLimiter creates a new rate limiter with the specified window and max requests
func NewLimiter(window time.Duration, max int) *Limiter {
	l := &Limiter{
		counters: make(map[string]*counter),
		window:   window,
		max:      max,
	}
	go l.cleanup()
	return l
}

// Allow checks if a request for the given key is allowed
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c, exists := l.counters[key]

	if !exists || now.After(c.expiresAt) {
		l.counters[key] = &counter{
			count:     1,
			expiresAt: now.Add(l.window),
		}
		return true
	}

	if c.count >= l.max {
		return false
	}

	c.count++
	return true
}

// cleanup periodically removes expired counters
func (l *Limiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, c := range l.counters {
			if now.After(c.expiresAt) {
				delete(l.counters, key)
			}
		}
		l.mu.Unlock()
	}
}

// Config holds the hourly join budgets. Zero values fall back to the
// defaults.
type Config struct {
	JoinIPLimit    int `mapstructure:"join_ip_limit"`
	JoinEmailLimit int `mapstructure:"join_email_limit"`
}

const (
	defaultIPLimit    = 20
	defaultEmailLimit = 5
)

// JoinLimiter guards the public join endpoint per IP and per email.
type JoinLimiter struct {
	ip    *Limiter
	email *Limiter
}

// NewJoinLimiter creates a join limiter with the given hourly budgets.
func NewJoinLimiter(ipLimit, emailLimit int) *JoinLimiter {
	return &JoinLimiter{
		ip:    NewLimiter(time.Hour, ipLimit),
		email: NewLimiter(time.Hour, emailLimit),
	}
}

// NewJoinLimiterFromConfig builds a join limiter from config, applying
// defaults for unset budgets.
func NewJoinLimiterFromConfig(c *Config) *JoinLimiter {
	ipLimit := c.JoinIPLimit
	if ipLimit <= 0 {
		ipLimit = defaultIPLimit
	}
	emailLimit := c.JoinEmailLimit
	if emailLimit <= 0 {
		emailLimit = defaultEmailLimit
	}
	return NewJoinLimiter(ipLimit, emailLimit)
}

// CheckJoin verifies a join attempt from the given IP and email.
func (j *JoinLimiter) CheckJoin(ip, email string) error {
	if ip != "" && !j.ip.Allow(ip) {
		return gerr.ErrRateLimited
	}
	if email != "" && !j.email.Allow(email) {
		return gerr.ErrRateLimited
	}
	return nil
}
