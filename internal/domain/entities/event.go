package entities

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"
)

// EventType labels the domain events published on the bus
type EventType string

const (
	EventTypeChatMessageCreated    EventType = "chat.message.created"
	EventTypeRecommendationCreated EventType = "recommendation.created"
)

// Event is a real-time notification for chat consumers and audit tails.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	RoomID    int64           `json:"room_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewEvent creates an event with a generated ID and the current timestamp.
func NewEvent(eventType EventType, roomID int64, payload json.RawMessage) *Event {
	return &Event{
		ID:        generateEventID(),
		Type:      eventType,
		RoomID:    roomID,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

func generateEventID() string {
	return time.Now().Format("20060102150405") + "-" + randomString(8)
}

func randomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based if crypto/rand fails
		return time.Now().Format("150405.000")
	}
	return hex.EncodeToString(bytes)[:length]
}
