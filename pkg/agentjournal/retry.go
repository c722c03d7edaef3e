// retry.go provides automatic retry logic for transient SQLite errors.
//
// Under contention (a journal writer racing the CLI's "trex status"
// read, or simply WAL checkpointing), modernc.org/sqlite can surface
// SQLITE_BUSY, SQLITE_LOCKED, or IOERR_SHORT_READ. The busy_timeout pragma
// absorbs most of this at the driver level; this file retries whatever it
// misses with exponential backoff and jitter.
package agentjournal

import (
	"math/rand"
	"strings"
	"time"
)

type retryConfig struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

var defaultRetryConfig = retryConfig{
	maxRetries: 3,
	baseDelay:  50 * time.Millisecond,
	maxDelay:   500 * time.Millisecond,
}

// isTransientSQLiteErr reports whether err is a transient SQLite condition
// that a retry can plausibly resolve.
func isTransientSQLiteErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range []string{
		"SQLITE_BUSY",
		"SQLITE_LOCKED",
		"IOERR_SHORT_READ",
		"database is locked",
		"database table is locked",
		"(5)",
		"(6)",
		"(522)",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// retryOp runs fn, retrying on a transient error with exponential backoff
// plus jitter, and returning immediately on success or a non-transient
// error.
func retryOp(cfg retryConfig, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= cfg.maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isTransientSQLiteErr(lastErr) {
			return lastErr
		}
		if attempt < cfg.maxRetries {
			time.Sleep(backoffDelay(cfg, attempt))
		}
	}
	return lastErr
}

// backoffDelay computes delay = min(baseDelay*2^attempt, maxDelay) +
// random([0, baseDelay)); the jitter is added after the cap.
func backoffDelay(cfg retryConfig, attempt int) time.Duration {
	delay := cfg.baseDelay << uint(attempt)
	if delay > cfg.maxDelay {
		delay = cfg.maxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(cfg.baseDelay)))
	return delay + jitter
}

func retryOnContention(fn func() error) error {
	return retryOp(defaultRetryConfig, fn)
}
