package models

import "time"

// LoopEvent is a single operational log entry.
type LoopEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // TELEMETRY | CRITICAL_ALERT | STARTUP | ERROR
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
