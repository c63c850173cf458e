package models

// WSInbound is the envelope of a client-to-server frame
type WSInbound struct {
	Type string `json:"type"`
}

// WSHeartbeatAck answers a client heartbeat
type WSHeartbeatAck struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}
