package service

import (
	"context"
	"time"

	"loopbot/internal/models"
	"loopbot/internal/repository"
)

// The slash-command set. Registration metadata lives in internal/bot; the
// dispatcher only routes by name.
const (
	CmdGlucose = "glucose"
	CmdStatus  = "status"
	CmdInsulin = "insulin"
	CmdLoop    = "loop"
	CmdAlert   = "alert"
)

// Fixed fallback replies.
const (
	NoDataReply         = "❌ No Loop data available yet. Make sure your Loop app is sending data to the bot."
	UnknownCommandReply = "❓ Unknown command"
)

// HealthStatus is the /health payload.
type HealthStatus struct {
	Bot        string `json:"bot"`
	LastUpdate string `json:"lastUpdate"` // RFC 3339 or "never"
	HasData    bool   `json:"hasData"`
}

type QueryService struct {
	store repository.SnapshotStore
	now   func() time.Time // injectable clock for tests
}

func NewQueryService(store repository.SnapshotStore) *QueryService {
	return &QueryService{store: store, now: time.Now}
}

// Respond maps a command name to its reply against the current snapshot.
// A pure read: no store mutation, no outbound sends.
func (s *QueryService) Respond(_ context.Context, command string) string {
	snap, lastUpdate, ok := s.store.Current()
	if !ok {
		return NoDataReply
	}
	now := s.now()

	switch command {
	case CmdGlucose:
		return FormatGlucose(snap, lastUpdate, true, now)
	case CmdStatus:
		return FormatStatus(snap, lastUpdate, true, now)
	case CmdInsulin:
		return FormatInsulin(snap, lastUpdate, true, now)
	case CmdLoop:
		return FormatLoopStatus(snap, lastUpdate, true, now)
	case CmdAlert:
		return RenderAlerts(EvaluateAlerts(snap, MinutesSinceUpdate(lastUpdate, true, now)))
	default:
		return UnknownCommandReply
	}
}

// Snapshot exposes the raw snapshot for the HTTP layer (websocket stream).
func (s *QueryService) Snapshot() (models.LoopSnapshot, time.Time, bool) {
	return s.store.Current()
}

// Health reports process liveness plus the staleness clock.
func (s *QueryService) Health() HealthStatus {
	_, lastUpdate, ok := s.store.Current()
	last := "never"
	if ok {
		last = lastUpdate.UTC().Format(time.RFC3339)
	}
	return HealthStatus{Bot: "running", LastUpdate: last, HasData: ok}
}
