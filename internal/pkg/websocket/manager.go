package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/piresc/intranet-notify/internal/pkg/constants"
	"github.com/piresc/intranet-notify/internal/pkg/logger"
	"github.com/piresc/intranet-notify/internal/pkg/models"
)

// Authenticator resolves the session cookie of a handshake into an Identity
type Authenticator interface {
	Authenticate(ctx context.Context, cookie string) (*models.Identity, error)
}

// Manager runs the lifecycle of every /ws connection:
// upgrade, authenticate, register, receive loop, cleanup
type Manager struct {
	registry   *Registry
	auth       Authenticator
	cfg        models.WebSocketConfig
	cookieName string
	upgrader   websocket.Upgrader
}

// NewManager creates a connection manager registering clients into registry
func NewManager(registry *Registry, auth Authenticator, cfg models.WebSocketConfig, cookieName string) *Manager {
	return &Manager{
		registry:   registry,
		auth:       auth,
		cfg:        cfg,
		cookieName: cookieName,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
	}
}

// HandleConnection is the echo handler of the WebSocket endpoint
func (m *Manager) HandleConnection(c echo.Context) error {
	ws, err := m.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already replied with an HTTP error
		logger.Warn("WebSocket upgrade failed",
			logger.String("remote_addr", c.RealIP()),
			logger.Err(err))
		return nil
	}

	var cookie string
	if ck, err := c.Cookie(m.cookieName); err == nil {
		cookie = ck.Value
	}

	identity, err := m.auth.Authenticate(c.Request().Context(), cookie)
	if err != nil {
		m.reject(ws, err)
		return nil
	}

	m.serve(NewClient(ws, *identity))
	return nil
}

// reject closes an unauthenticated connection with a status telling the client what to do
func (m *Manager) reject(conn Transport, err error) {
	code, reason := closeCodeFor(err)
	logger.Warn("WebSocket authentication failed",
		logger.Int("close_code", code),
		logger.Err(err))

	msg := websocket.FormatCloseMessage(code, reason)
	if werr := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(m.cfg.WriteWait)); werr != nil {
		logger.Debug("Failed to write close frame", logger.Err(werr))
	}
	_ = conn.Close()
}

func closeCodeFor(err error) (int, string) {
	var authErr *models.AuthError
	if errors.As(err, &authErr) && authErr.Kind != models.AuthStoreUnavailable {
		return constants.CloseAuthFailed, string(authErr.Kind)
	}
	return constants.CloseInternalError, "user store unavailable"
}

// serve registers client and runs its receive loop until the connection ends
func (m *Manager) serve(client *Client) {
	m.registry.Register(client)
	logger.Info("WebSocket client connected",
		logger.String("client_id", client.ID),
		logger.String("user_id", client.Identity.UserID),
		logger.String("branch", client.Identity.Branch),
		logger.Int("connections", m.registry.Len()))

	done := make(chan struct{})
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in WebSocket receive loop",
				logger.String("client_id", client.ID),
				logger.Any("panic", r))
		}
		close(done)
		m.registry.Unregister(client)
		client.Close()
		logger.Info("WebSocket client disconnected",
			logger.String("client_id", client.ID),
			logger.String("user_id", client.Identity.UserID),
			logger.Duration("duration", time.Since(client.ConnectedAt)))
	}()

	conn := client.conn
	if m.cfg.MaxMessageSize > 0 {
		conn.SetReadLimit(m.cfg.MaxMessageSize)
	}
	m.extendReadDeadline(conn)
	conn.SetPongHandler(func(string) error {
		m.extendReadDeadline(conn)
		return nil
	})

	go m.pingLoop(client, done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				logger.Warn("WebSocket read error",
					logger.String("client_id", client.ID),
					logger.Err(err))
			}
			return
		}
		m.extendReadDeadline(conn)
		m.handleMessage(client, data)
	}
}

func (m *Manager) extendReadDeadline(conn Transport) {
	if m.cfg.PongWait > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(m.cfg.PongWait))
	}
}

// pingLoop keeps intermediaries from timing the connection out
func (m *Manager) pingLoop(client *Client, done <-chan struct{}) {
	if m.cfg.PingPeriod <= 0 {
		return
	}
	ticker := time.NewTicker(m.cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := client.Ping(m.cfg.WriteWait); err != nil {
				logger.Debug("WebSocket ping failed",
					logger.String("client_id", client.ID),
					logger.Err(err))
				client.Close()
				return
			}
		}
	}
}

func (m *Manager) handleMessage(client *Client, data []byte) {
	var msg models.WSInbound
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.Debug("Ignoring malformed WebSocket message",
			logger.String("client_id", client.ID),
			logger.Err(err))
		return
	}

	switch msg.Type {
	case constants.EventHeartbeat:
		ack, _ := json.Marshal(models.WSHeartbeatAck{
			Type:   constants.EventHeartbeat,
			Status: constants.StatusAcknowledged,
		})
		if err := client.Send(ack, m.cfg.WriteWait); err != nil {
			logger.Debug("Failed to acknowledge heartbeat",
				logger.String("client_id", client.ID),
				logger.Err(err))
		}
	default:
		logger.Debug("Ignoring WebSocket message",
			logger.String("client_id", client.ID),
			logger.String("user_id", client.Identity.UserID),
			logger.String("type", msg.Type))
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == models.Wildcard {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if len(set) == 0 {
			return sameHost(origin, r.Host)
		}
		_, ok := set[origin]
		return ok
	}
}

func sameHost(origin, host string) bool {
	for _, scheme := range []string{"http://", "https://"} {
		if origin == fmt.Sprintf("%s%s", scheme, host) {
			return true
		}
	}
	return false
}

// Shutdown sends a going-away close frame to every registered client and closes it.
// Receive loops observe the closed transport and unregister themselves.
func (m *Manager) Shutdown(ctx context.Context) error {
	clients := m.registry.Snapshot()
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, client := range clients {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_ = client.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(m.cfg.WriteWait))
		client.Close()
	}
	logger.Info("WebSocket connections closed", logger.Int("connections", len(clients)))
	return nil
}
