package addon

import (
	"time"

	"github.com/google/uuid"
)

// Event describes one completed action and is delivered to the observer.
type Event struct {
	ID        string    `json:"event_id"`
	AddonID   string    `json:"addon_id"`
	Action    string    `json:"action"`
	Code      int       `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`

	// TraceID and SpanID identify the action's span; empty when tracing is off.
	TraceID string `json:"trace_id,omitempty"`
	SpanID  string `json:"span_id,omitempty"`
}

// Observer receives an Event after every action.
type Observer func(Event)

func newEvent(addonID, action string, code int, message string) Event {
	return Event{
		ID:        uuid.NewString(),
		AddonID:   addonID,
		Action:    action,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}
