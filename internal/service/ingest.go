package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loopbot/internal/logger"
	"loopbot/internal/models"
	"loopbot/internal/repository"
)

// Event types written to the operational log.
const (
	EventTelemetry     = "TELEMETRY"
	EventCriticalAlert = "CRITICAL_ALERT"
	EventStartup       = "STARTUP"
	EventError         = "ERROR"
)

// Ingestion-time fast-path thresholds. Wider than the evaluator's on
// purpose: the push fires only on values urgent enough to interrupt the
// channel, while /alert reports the full rule set.
const (
	criticalHighGlucose = 250 // mg/dL
	criticalLowGlucose  = 60
)

// notifyTimeout bounds the outbound Discord send. The snapshot is already
// committed by then; a slow or dead gateway must not stall the webhook.
const notifyTimeout = 5 * time.Second

// ErrMissingFields rejects payloads without the required glucose and
// timestamp fields. The store is left untouched.
var ErrMissingFields = errors.New("missing required fields: glucose, timestamp")

type IngestionService struct {
	store    repository.SnapshotStore
	events   repository.EventRepo
	notifier Notifier
	log      *logger.Logger
}

func NewIngestionService(store repository.SnapshotStore, events repository.EventRepo, notifier Notifier, log *logger.Logger) *IngestionService {
	return &IngestionService{store: store, events: events, notifier: notifier, log: log}
}

// Ingest validates the payload, commits it as the new snapshot, and pushes
// a critical alert for extreme readings. Exactly one store mutation and at
// most one outbound notification per successful call; notification failure
// is logged and swallowed, never rolled back.
func (s *IngestionService) Ingest(ctx context.Context, snap models.LoopSnapshot) error {
	if snap.Glucose <= 0 || snap.Timestamp.IsZero() {
		return ErrMissingFields
	}

	s.store.Replace(snap)

	if err := s.events.Append(ctx, models.LoopEvent{
		Type:        EventTelemetry,
		Description: fmt.Sprintf("Received Loop data: %s mg/dL %s", formatNum(snap.Glucose), snap.Trend),
		Metadata:    map[string]any{"glucose": snap.Glucose, "trend": snap.Trend},
	}); err != nil {
		// Audit log only; the snapshot is already committed.
		s.log.Errorw("telemetry_event_append_failed", "err", err)
	}

	if snap.Glucose > criticalHighGlucose || snap.Glucose < criticalLowGlucose {
		s.pushCriticalAlert(snap)
	}

	return nil
}

// pushCriticalAlert sends the out-of-band notification for an extreme
// reading. Detached from the webhook's request context: the client hanging
// up must not cancel an alert already in flight.
func (s *IngestionService) pushCriticalAlert(snap models.LoopSnapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	_, lastUpdate, hasData := s.store.Current()
	msg := "🚨 **CRITICAL ALERT** 🚨\n" + FormatGlucose(snap, lastUpdate, hasData, time.Now())

	if s.notifier == nil {
		s.log.Warnw("critical_alert_skipped_no_notifier", "glucose", snap.Glucose)
		return
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.log.Errorw("critical_alert_send_failed", "err", err, "glucose", snap.Glucose)
		if aerr := s.events.Append(ctx, models.LoopEvent{
			Type:        EventError,
			Description: "Critical alert delivery failed",
			Metadata:    map[string]any{"glucose": snap.Glucose, "err": err.Error()},
		}); aerr != nil {
			s.log.Errorw("error_event_append_failed", "err", aerr)
		}
		return
	}

	if err := s.events.Append(ctx, models.LoopEvent{
		Type:        EventCriticalAlert,
		Description: fmt.Sprintf("Critical glucose alert sent: %s mg/dL", formatNum(snap.Glucose)),
		Metadata:    map[string]any{"glucose": snap.Glucose},
	}); err != nil {
		s.log.Errorw("critical_event_append_failed", "err", err)
	}
}
