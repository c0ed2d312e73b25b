package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"loopbot/internal/models"
	"loopbot/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockIngestion struct {
	mu        sync.Mutex
	ingestErr error
	calls     []models.LoopSnapshot
}

func (m *mockIngestion) Ingest(_ context.Context, snap models.LoopSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ingestErr != nil {
		return m.ingestErr
	}
	m.calls = append(m.calls, snap)
	return nil
}

func (m *mockIngestion) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockQuery struct {
	reply      string
	snap       models.LoopSnapshot
	lastUpdate time.Time
	hasData    bool
	health     service.HealthStatus

	lastCommand string
}

func (m *mockQuery) Respond(_ context.Context, command string) string {
	m.lastCommand = command
	return m.reply
}

func (m *mockQuery) Snapshot() (models.LoopSnapshot, time.Time, bool) {
	return m.snap, m.lastUpdate, m.hasData
}

func (m *mockQuery) Health() service.HealthStatus { return m.health }

type mockEventLog struct {
	resp       []models.LoopEvent
	err        error
	lastFilter service.LogFilter
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.LoopEvent, error) {
	m.lastFilter = f
	return m.resp, m.err
}

type mockWebhookAuth struct {
	enabled   bool
	verifyErr error
	lastToken string
}

func (m *mockWebhookAuth) Enabled() bool { return m.enabled }

func (m *mockWebhookAuth) VerifyToken(token string) error {
	m.lastToken = token
	return m.verifyErr
}

type mockNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *mockNotifier) Send(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, text)
	return m.err
}

func (m *mockNotifier) messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

// ---- Test helpers ----

func newTestRouter(s *service.Service, notifier service.Notifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, notifier, nil)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}
