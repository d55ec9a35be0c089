package event

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Event represents a domain event emitted by the approval engine. The
// engine only emits; delivery and audit persistence belong to whoever
// subscribes.
type Event struct {
	ID         string                 `json:"id"`
	Type       Type                   `json:"type"`
	DocumentID int64                  `json:"document_id"`
	ProjectID  int64                  `json:"project_id"`
	ActorID    int64                  `json:"actor_id"`
	Payload    map[string]interface{} `json:"payload"`
	Timestamp  time.Time              `json:"timestamp"`
}

// New creates a new domain event with auto-generated ID and timestamp
func New(eventType Type, documentID, projectID, actorID int64, payload map[string]interface{}) *Event {
	return &Event{
		ID:         generateID(),
		Type:       eventType,
		DocumentID: documentID,
		ProjectID:  projectID,
		ActorID:    actorID,
		Payload:    payload,
		Timestamp:  time.Now(),
	}
}

// GetPayloadString retrieves a string value from the payload
func (e *Event) GetPayloadString(key string) string {
	if val, ok := e.Payload[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetPayloadInt retrieves an int64 value from the payload
func (e *Event) GetPayloadInt(key string) int64 {
	if val, ok := e.Payload[key]; ok {
		switch v := val.(type) {
		case int64:
			return v
		case int:
			return int64(v)
		case float64:
			return int64(v)
		}
	}
	return 0
}

// generateID creates a unique ID using timestamp and random bytes
func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), hex.EncodeToString(b))
}
