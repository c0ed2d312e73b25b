package service

import (
	"context"
	"time"

	"loopbot/internal/logger"
	"loopbot/internal/models"
	"loopbot/internal/repository"
)

// Notifier is the outbound side-channel: deliver one text message to the
// configured Discord channel. The gateway client implements it; tests
// inject fakes so the core never touches the network.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Ingestion accepts webhook telemetry payloads.
type Ingestion interface {
	Ingest(ctx context.Context, snap models.LoopSnapshot) error
}

// Query answers slash commands and read-only state probes.
type Query interface {
	Respond(ctx context.Context, command string) string
	Snapshot() (models.LoopSnapshot, time.Time, bool)
	Health() HealthStatus
}

// EventLog exposes the append-only operational log with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.LoopEvent, error)
}

// WebhookAuth verifies bearer tokens on the webhook/API surface.
type WebhookAuth interface {
	Enabled() bool
	VerifyToken(token string) error
}

// Service aggregates all sub-services behind one wiring point.
type Service struct {
	Ingestion
	Query
	EventLog
	WebhookAuth
}

// NewService wires the repository layer and the outbound notifier into
// concrete services. webhookSecret may be empty, which disables the
// token guard.
func NewService(repos *repository.Repository, notifier Notifier, webhookSecret string, log *logger.Logger) *Service {
	return &Service{
		Ingestion:   NewIngestionService(repos.Snapshots, repos.Events, notifier, log),
		Query:       NewQueryService(repos.Snapshots),
		EventLog:    NewEventLogService(repos.Events),
		WebhookAuth: NewWebhookAuthService(webhookSecret),
	}
}
