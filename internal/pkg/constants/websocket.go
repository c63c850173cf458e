package constants

// WebSocket message types
const (
	EventHeartbeat = "heartbeat"

	// StatusAcknowledged is sent back in a heartbeat reply
	StatusAcknowledged = "acknowledged"
)

// WebSocket close codes
const (
	// CloseAuthFailed is sent when the handshake carries no usable credential
	CloseAuthFailed = 4401
	// CloseInternalError is sent when the user store could not be reached
	CloseInternalError = 1011
)
