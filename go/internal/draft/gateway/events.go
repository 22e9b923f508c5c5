package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope delivered to every subscriber of a topic.
type Event struct {
	ID        string          `json:"id"`        // Event UUID
	Topic     string          `json:"topic"`     // e.g. draft-123
	Name      string          `json:"event"`     // draft-update, draft-error
	Timestamp time.Time       `json:"timestamp"` // Event creation time
	Data      json.RawMessage `json:"data"`      // Event-specific payload
}

// DraftTopic is the room name for a draft.
func DraftTopic(draftID string) string {
	return "draft-" + draftID
}

// NewEvent marshals payload into a fresh envelope.
func NewEvent(topic, name string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", name, err)
	}
	return Event{
		ID:        uuid.NewString(),
		Topic:     topic,
		Name:      name,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}, nil
}
