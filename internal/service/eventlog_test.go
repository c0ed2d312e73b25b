package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"loopbot/internal/models"
)

// listRecordingRepo captures the filter values the service passes down.
type listRecordingRepo struct {
	mu       sync.Mutex
	lastFrom time.Time
	lastTo   time.Time
	lastType string
	resp     []models.LoopEvent
	err      error
}

func (r *listRecordingRepo) Append(_ context.Context, _ models.LoopEvent) error { return nil }

func (r *listRecordingRepo) List(_ context.Context, from, to time.Time, typ string) ([]models.LoopEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFrom, r.lastTo, r.lastType = from, to, typ
	return r.resp, r.err
}

func TestEventLogList_NormalizesFilter(t *testing.T) {
	t.Parallel()

	repo := &listRecordingRepo{resp: []models.LoopEvent{{EventID: "e1"}}}
	svc := NewEventLogService(repo)

	from := time.Date(2025, 6, 1, 10, 0, 0, 0, time.FixedZone("X", -3*3600))
	to := time.Date(2025, 6, 2, 10, 0, 0, 0, time.FixedZone("X", -3*3600))

	out, err := svc.List(context.Background(), LogFilter{From: from, To: to, Type: "  critical_alert "})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("want 1 event, got %d", len(out))
	}
	if repo.lastFrom.Location() != time.UTC || repo.lastTo.Location() != time.UTC {
		t.Fatalf("filter times not normalized to UTC: %v %v", repo.lastFrom, repo.lastTo)
	}
	if repo.lastType != "CRITICAL_ALERT" {
		t.Fatalf("type not normalized: %q", repo.lastType)
	}
}

func TestEventLogList_RejectsInvertedRange(t *testing.T) {
	t.Parallel()

	svc := NewEventLogService(&listRecordingRepo{})

	_, err := svc.List(context.Background(), LogFilter{
		From: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, errInvalidTimeRange) {
		t.Fatalf("want errInvalidTimeRange, got %v", err)
	}
}

func TestEventLogList_PropagatesRepoError(t *testing.T) {
	t.Parallel()

	repo := &listRecordingRepo{err: errors.New("db down")}
	svc := NewEventLogService(repo)

	if _, err := svc.List(context.Background(), LogFilter{}); err == nil {
		t.Fatalf("expected repo error")
	}
}
