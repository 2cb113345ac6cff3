package checks

import (
	"context"
	"time"

	"github.com/shopstack/catalogd/internal/monitoring"
)

const defaultCacheTimeout = 2 * time.Second

// Pinger is the minimal interface required to probe a cache backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Cache returns a readiness probe for the configured cache backend. A nil
// client reports degraded rather than down: reads fall back to the database
// while the cache is away.
func Cache(client Pinger, timeout time.Duration) monitoring.Check {
	return monitoring.NewCheck("cache", func(ctx context.Context) monitoring.ProbeResult {
		start := time.Now()
		if client == nil {
			return monitoring.ProbeResult{
				Status:   monitoring.StatusDegraded,
				Details:  "cache unavailable",
				Duration: time.Since(start),
			}
		}

		probeCtx, cancel := context.WithTimeout(ctx, chooseTimeout(timeout, defaultCacheTimeout))
		defer cancel()

		if err := client.Ping(probeCtx); err != nil {
			return monitoring.ResultFromError("cache", err, time.Since(start))
		}

		return monitoring.ProbeResult{
			Status:   monitoring.StatusUp,
			Duration: time.Since(start),
		}
	})
}
