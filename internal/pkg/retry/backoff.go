package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/piresc/intranet-notify/internal/pkg/logger"
)

// Config holds the backoff used when connecting to a dependency
type Config struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
	Jitter     bool
}

// DefaultConfig retries for roughly half a minute before giving up
func DefaultConfig() Config {
	return Config{
		MaxRetries: 5,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		Multiplier: 2.0,
		Jitter:     true,
	}
}

// Do calls fn until it succeeds, ctx is done or MaxRetries retries have failed
func Do(ctx context.Context, cfg Config, name string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			if attempt > 0 {
				logger.Info("Dependency reachable after retries",
					logger.String("dependency", name),
					logger.Int("attempts", attempt+1))
			}
			return nil
		}

		if attempt == cfg.MaxRetries {
			break
		}

		delay := cfg.delay(attempt)
		logger.Warn("Dependency unreachable, retrying",
			logger.String("dependency", name),
			logger.Int("attempt", attempt+1),
			logger.Duration("delay", delay),
			logger.Err(lastErr))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("%s: giving up after %d attempts: %w", name, cfg.MaxRetries+1, lastErr)
}

// Connect is Do for constructors returning a client
func Connect[T any](ctx context.Context, cfg Config, name string, dial func() (T, error)) (T, error) {
	var client T
	err := Do(ctx, cfg, name, func(context.Context) error {
		c, err := dial()
		if err != nil {
			return err
		}
		client = c
		return nil
	})
	return client, err
}

func (c Config) delay(attempt int) time.Duration {
	multiplier := c.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	d := float64(c.BaseDelay) * math.Pow(multiplier, float64(attempt))
	if c.MaxDelay > 0 && d > float64(c.MaxDelay) {
		d = float64(c.MaxDelay)
	}
	if c.Jitter {
		// up to 10% extra
		d += d * 0.1 * rand.Float64()
	}
	return time.Duration(d)
}
