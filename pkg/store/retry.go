package store

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// A tracking session and a report run may hold the same database open at
// once. busy_timeout covers most lock waits; these settings cover the rest.
type retryConfig struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

var defaultRetryConfig = retryConfig{
	maxRetries: 4,
	baseDelay:  25 * time.Millisecond,
	maxDelay:   400 * time.Millisecond,
}

// isContention reports whether err is a lock or short-read failure that a
// later attempt can succeed past.
func isContention(err error) bool {
	if err == nil {
		return false
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return true
		}
		return se.Code() == sqlite3.SQLITE_IOERR_SHORT_READ
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "SQLITE_BUSY")
}

// retryOp runs fn until it succeeds, fails for a reason other than
// contention, or runs out of attempts.
func retryOp(cfg retryConfig, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(); err == nil || !isContention(err) {
			return err
		}
		if attempt == cfg.maxRetries {
			return fmt.Errorf("gave up after %d attempts: %w", attempt+1, err)
		}
		time.Sleep(backoffDelay(cfg, attempt))
	}
}

// backoffDelay doubles per attempt up to maxDelay, plus up to baseDelay of
// jitter.
func backoffDelay(cfg retryConfig, attempt int) time.Duration {
	delay := cfg.baseDelay << uint(attempt)
	if delay > cfg.maxDelay || delay <= 0 {
		delay = cfg.maxDelay
	}
	if cfg.baseDelay <= 0 {
		return delay
	}
	return delay + time.Duration(rand.Int63n(int64(cfg.baseDelay)))
}
