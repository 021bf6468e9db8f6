// Package ratelimit caps requests per client within a time window.
package ratelimit

import (
	"context"
	"time"
)

// DefaultWindow replaces a window that is zero or negative.
const DefaultWindow = time.Hour

// Limiter reports whether one more request from key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
