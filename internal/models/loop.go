package models

import "time"

// Loop status values reported by the pump controller.
const (
	LoopClosed    = "closed"
	LoopOpen      = "open"
	LoopSuspended = "suspended"
	LoopUnknown   = "unknown"
)

// LastBolus is the most recent bolus delivery, if the device reported one.
type LastBolus struct {
	Amount    float64   `json:"amount"`    // units
	Timestamp time.Time `json:"timestamp"` // delivery time
}

// LoopSnapshot is the latest telemetry pushed by the Loop device.
// Exactly one snapshot exists at a time; every accepted webhook payload
// replaces it wholesale.
type LoopSnapshot struct {
	Glucose          float64    `json:"glucose"` // mg/dL
	Trend            string     `json:"trend"`   // direction arrow, e.g. "↗️"
	Timestamp        time.Time  `json:"timestamp"`
	IOB              float64    `json:"iob"`       // insulin on board, units
	COB              float64    `json:"cob"`       // carbs on board, grams
	BasalRate        float64    `json:"basalRate"` // units/hour
	LoopStatus       string     `json:"loopStatus,omitempty"`
	BatteryLevel     *float64   `json:"batteryLevel,omitempty"`     // percent, 0-100
	InsulinRemaining *float64   `json:"insulinRemaining,omitempty"` // units left in reservoir
	LastBolus        *LastBolus `json:"lastBolus,omitempty"`
}

// Alert severities in increasing order of urgency.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// AlertCondition is a single active alert derived from the current
// snapshot. Computed fresh on every evaluation, never stored.
type AlertCondition struct {
	Severity string `json:"severity"` // info | warning | critical
	Message  string `json:"message"`
}
