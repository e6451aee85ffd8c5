package publishers

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tcmc-hq/tcmc-client/pkg/tcmc/qalog"
)

// EventTypeQALog marks events carrying a harvested QA log.
const EventTypeQALog = "tcmc.qalog.harvested"

// Event represents the payload published downstream.
type Event struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	SessionID   int64     `json:"session_id"`
	Log         qalog.Log `json:"log"`
	CollectedAt time.Time `json:"collected_at"`
}

// NewQALogEvent constructs an Event for a harvested log.
func NewQALogEvent(log qalog.Log) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        EventTypeQALog,
		SessionID:   log.SessionID,
		Log:         log,
		CollectedAt: time.Now().UTC(),
	}
}

// Attributes are the routing attributes attached by queue publishers.
func (e Event) Attributes() map[string]string {
	return map[string]string{
		"event_type": e.Type,
		"session_id": strconv.FormatInt(e.SessionID, 10),
	}
}
