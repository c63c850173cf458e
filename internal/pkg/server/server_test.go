package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/intranet-notify/internal/pkg/logger"
	"github.com/piresc/intranet-notify/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestLogger() (*logger.ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.NewFromCore(core), logs
}

func TestNewGracefulServer(t *testing.T) {
	tests := []struct {
		name        string
		cfg         models.ServerConfig
		wantAddr    string
		wantTimeout time.Duration
	}{
		{
			name:        "configured timeout",
			cfg:         models.ServerConfig{Host: "127.0.0.1", Port: 8090, ShutdownTimeout: 5, ReadTimeout: 3},
			wantAddr:    "127.0.0.1:8090",
			wantTimeout: 5 * time.Second,
		},
		{
			name:        "default timeout",
			cfg:         models.ServerConfig{Port: 9090},
			wantAddr:    ":9090",
			wantTimeout: defaultShutdownTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zl, _ := newTestLogger()
			e := echo.New()

			gs := NewGracefulServer(e, zl, tt.cfg, nil)

			assert.Equal(t, tt.wantAddr, gs.addr)
			assert.Equal(t, tt.wantTimeout, gs.shutdownTimeout)
			assert.NotNil(t, gs.components)
			assert.Equal(t, time.Duration(tt.cfg.ReadTimeout)*time.Second, e.Server.ReadTimeout)
		})
	}
}

func TestGracefulServer_RunUntilCancelled(t *testing.T) {
	// Arrange
	zl, _ := newTestLogger()
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	components := NewShutdownManager(zl)
	var cleaned bool
	components.Register("test", func(context.Context) error {
		cleaned = true
		return nil
	})
	gs := NewGracefulServer(e, zl, models.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: 2}, components)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// Act
	go func() { done <- gs.Run(ctx) }()
	require.Eventually(t, func() bool { return e.ListenerAddr() != nil }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get(fmt.Sprintf("http://%s/ping", e.ListenerAddr().String()))
	require.NoError(t, err)
	resp.Body.Close()
	cancel()

	// Assert
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.True(t, cleaned)
}

func TestGracefulServer_ListenFailure(t *testing.T) {
	zl, _ := newTestLogger()
	gs := NewGracefulServer(echo.New(), zl, models.ServerConfig{Host: "127.0.0.1", Port: -1}, nil)

	err := gs.Run(context.Background())

	assert.Error(t, err)
}

func TestShutdownManager_ContinuesAfterFailure(t *testing.T) {
	// Arrange
	zl, logs := newTestLogger()
	sm := NewShutdownManager(zl)
	var order []string
	sm.Register("nats", func(context.Context) error {
		order = append(order, "nats")
		return errors.New("drain timeout")
	})
	sm.Register("redis", func(context.Context) error {
		order = append(order, "redis")
		return nil
	})

	// Act
	failed := sm.Shutdown(context.Background())

	// Assert
	assert.Equal(t, 1, failed)
	assert.Equal(t, []string{"nats", "redis"}, order)
	entries := logs.FilterMessage("Error during component shutdown").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "nats", entries[0].ContextMap()["component"])
}
