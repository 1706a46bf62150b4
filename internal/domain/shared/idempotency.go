package shared

import (
	"context"
	"time"
)

// IdempotencyStore guards irreversible submissions against duplicate execution.
// A key is claimed before the remote call and released if the call fails, so
// the operator can retry a failed finalize with the same key.
type IdempotencyStore interface {
	// Claim atomically claims a submission key with a TTL.
	// Returns true if the key was newly claimed, false if it is already held.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees a claimed key so the submission can be retried
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for submission idempotency
type IdempotencyConfig struct {
	// TTL is how long a claimed key blocks duplicate submissions
	TTL time.Duration

	// Enabled determines whether duplicate-submit protection is active
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
