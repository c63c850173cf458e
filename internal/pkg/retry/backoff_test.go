package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(retries int) Config {
	return Config{MaxRetries: retries, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}
}

func TestDo(t *testing.T) {
	errDown := errors.New("connection refused")

	tests := []struct {
		name      string
		failures  int
		retries   int
		wantCalls int
		wantErr   bool
	}{
		{name: "first attempt succeeds", failures: 0, retries: 3, wantCalls: 1},
		{name: "succeeds after retries", failures: 2, retries: 3, wantCalls: 3},
		{name: "gives up", failures: 10, retries: 2, wantCalls: 3, wantErr: true},
		{name: "no retries", failures: 1, retries: 0, wantCalls: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			calls := 0
			fn := func(context.Context) error {
				calls++
				if calls <= tt.failures {
					return errDown
				}
				return nil
			}

			// Act
			err := Do(context.Background(), fastConfig(tt.retries), "mongo", fn)

			// Assert
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				assert.ErrorIs(t, err, errDown)
				assert.ErrorContains(t, err, "mongo: giving up")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{MaxRetries: 5, BaseDelay: time.Hour}

	calls := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, cfg, "redis", func(context.Context) error {
		calls++
		return errors.New("down")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestConnect(t *testing.T) {
	attempts := 0
	client, err := Connect(context.Background(), fastConfig(2), "nats", func() (*int, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("no servers available")
		}
		v := attempts
		return &v, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, *client)
}

func TestConfig_Delay(t *testing.T) {
	cfg := Config{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2}

	assert.Equal(t, 100*time.Millisecond, cfg.delay(0))
	assert.Equal(t, 400*time.Millisecond, cfg.delay(2))
	assert.Equal(t, time.Second, cfg.delay(10))

	cfg.Jitter = true
	d := cfg.delay(1)
	assert.GreaterOrEqual(t, d, 200*time.Millisecond)
	assert.LessOrEqual(t, d, 220*time.Millisecond)
}
