package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// LedgerChangedMessage announces that a committed write touched data a
// yearly report depends on. It carries no payload beyond what a consumer
// needs to decide which report to rebuild.
type LedgerChangedMessage struct {
	EventID   string    `json:"event_id"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	Operation string    `json:"operation"`
	Year      int       `json:"year"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerChangedMessage stamps a fresh event id and time.
func NewLedgerChangedMessage(entity, entityID, operation string, year int) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		EventID:   uuid.NewString(),
		Entity:    entity,
		EntityID:  entityID,
		Operation: operation,
		Year:      year,
		Timestamp: time.Now().UTC(),
	}
}

func (m *LedgerChangedMessage) Validate() error {
	if _, err := uuid.Parse(m.EventID); err != nil {
		return errors.New("event_id must be a uuid")
	}
	if m.Entity == "" {
		return errors.New("entity is required")
	}
	if m.Year < 1900 || m.Year > 9999 {
		return errors.New("year out of range")
	}
	return nil
}

func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON decodes and validates a message body.
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
