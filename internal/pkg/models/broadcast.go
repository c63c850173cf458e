package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind is the closed set of payload variants the broadcaster routes
type Kind int

const (
	// KindEvent is an ambient broadcast (UI refresh hints, counters)
	KindEvent Kind = iota
	// KindNotification is a user-facing toast, wire type "new_notification"
	KindNotification
	// KindResource is a "resource/<event>" change notice
	KindResource
)

func (k Kind) String() string {
	switch k {
	case KindNotification:
		return "notification"
	case KindResource:
		return "resource"
	default:
		return "event"
	}
}

const (
	// TypeNotification is the wire type of toast notifications
	TypeNotification = "new_notification"
	// TypeResourcePrefix prefixes the wire type of resource events
	TypeResourcePrefix = "resource/"
)

// Audience narrows the recipients of a broadcast. Zero value matches everyone.
type Audience struct {
	TargetUserID   string          `json:"target_user_id,omitempty"`
	Branch         string          `json:"branch,omitempty"`
	EmploymentType EmploymentTypes `json:"employment_type,omitempty"`
	ExcludeUserID  string          `json:"exclude_user_id,omitempty"`
}

// Message is one broadcast: its routing metadata plus an opaque body serialized once
type Message struct {
	Kind     Kind
	Audience Audience
	Body     interface{}
}

// ClassifyPayload derives the Kind of a raw JSON payload from its "type" field.
// Payloads without a recognizable type are ambient events.
func ClassifyPayload(raw json.RawMessage) Kind {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return KindEvent
	}
	switch {
	case head.Type == TypeNotification:
		return KindNotification
	case strings.HasPrefix(head.Type, TypeResourcePrefix):
		return KindResource
	default:
		return KindEvent
	}
}

// ResourceItem identifies the resource touched by a resource event
type ResourceItem struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// ResourceEvent is the body of a KindResource message
type ResourceEvent struct {
	Type      string       `json:"type"`
	Item      ResourceItem `json:"item"`
	UserID    string       `json:"user_id"`
	Timestamp string       `json:"timestamp"`
}

// NewResourceEvent builds the body for "resource/<event>"
func NewResourceEvent(event, itemType, itemID, userID string, at time.Time) ResourceEvent {
	return ResourceEvent{
		Type:      TypeResourcePrefix + event,
		Item:      ResourceItem{Type: itemType, ID: itemID},
		UserID:    userID,
		Timestamp: at.UTC().Format(time.RFC3339Nano),
	}
}

// Action is a CRUD action reported by a toast notification
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

var actionLevels = map[Action]string{
	ActionCreate: "success",
	ActionUpdate: "info",
	ActionDelete: "warning",
}

var actionTitles = map[Action]string{
	ActionCreate: "New %s",
	ActionUpdate: "%s updated",
	ActionDelete: "%s removed",
}

var actionBodies = map[Action]string{
	ActionCreate: "%q has been added.",
	ActionUpdate: "%q has been modified.",
	ActionDelete: "%q has been deleted.",
}

// ToastData is the data section of a toast notification
type ToastData struct {
	Action       Action `json:"action"`
	Resource     string `json:"resource"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	Level        string `json:"level"`
	SourceUserID string `json:"source_user_id"`
}

// Toast is the body of a KindNotification message
type Toast struct {
	Type string    `json:"type"`
	Data ToastData `json:"data"`
}

// NewActionToast builds the toast shown to other users after a CRUD action on a resource
func NewActionToast(action Action, resource, resourceName, sourceUserID string) (Toast, error) {
	level, ok := actionLevels[action]
	if !ok {
		return Toast{}, fmt.Errorf("invalid toast action: %q", action)
	}
	return Toast{
		Type: TypeNotification,
		Data: ToastData{
			Action:       action,
			Resource:     resource,
			Title:        fmt.Sprintf(actionTitles[action], capitalize(resource)),
			Body:         fmt.Sprintf(actionBodies[action], resourceName),
			Level:        level,
			SourceUserID: sourceUserID,
		},
	}, nil
}

// BroadcastRequest is the body accepted by the broadcast ingress (HTTP and NATS)
type BroadcastRequest struct {
	Payload  json.RawMessage `json:"payload"`
	Audience Audience        `json:"audience"`
}

// ResourceEventRequest is the body accepted by the resource event ingress
type ResourceEventRequest struct {
	Event    string `json:"event"`
	ItemType string `json:"item_type"`
	ItemID   string `json:"item_id"`
	UserID   string `json:"user_id"`
}

// ActionNotificationRequest asks for a toast about a CRUD action on a resource.
// When no exclusion is given the source user is excluded.
type ActionNotificationRequest struct {
	Action       Action   `json:"action"`
	Resource     string   `json:"resource"`
	ResourceName string   `json:"resource_name"`
	SourceUserID string   `json:"source_user_id"`
	Audience     Audience `json:"audience"`
}

// DeliveryResponse reports how many connections received a broadcast
type DeliveryResponse struct {
	Delivered int `json:"delivered"`
}

// ConnectionStats summarizes the live connections
type ConnectionStats struct {
	Total    int            `json:"total"`
	ByBranch map[string]int `json:"by_branch"`
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
