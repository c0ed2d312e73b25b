package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"loopbot/internal/service"
)

const validBody = `{"glucose":120,"trend":"→","timestamp":"2025-06-01T12:00:00Z","iob":1,"cob":0,"basalRate":0.5}`

func postLoopData(r http.Handler, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/loop-data", bytes.NewBufferString(validBody))
	req.Header.Set("Content-Type", "application/json")
	for k, vv := range header {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookToken_DisabledGuardPassesThrough(t *testing.T) {
	ing := &mockIngestion{}
	s := &service.Service{
		Ingestion:   ing,
		Query:       &mockQuery{},
		WebhookAuth: &mockWebhookAuth{enabled: false},
	}
	r := newTestRouter(s, nil)

	if w := postLoopData(r, nil); w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if ing.callCount() != 1 {
		t.Fatalf("ingest calls=%d", ing.callCount())
	}
}

func TestWebhookToken_EnabledGuard(t *testing.T) {
	cases := []struct {
		name      string
		header    http.Header
		verifyErr error
		wantCode  int
	}{
		{"missing header", nil, nil, http.StatusUnauthorized},
		{"wrong scheme", http.Header{"Authorization": []string{"Basic abc"}}, nil, http.StatusUnauthorized},
		{"invalid token", authHeader("bad"), errors.New("invalid"), http.StatusUnauthorized},
		{"valid token", authHeader("good"), nil, http.StatusOK},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockWebhookAuth{enabled: true, verifyErr: tc.verifyErr}
			ing := &mockIngestion{}
			s := &service.Service{Ingestion: ing, Query: &mockQuery{}, WebhookAuth: auth}
			r := newTestRouter(s, nil)

			w := postLoopData(r, tc.header)
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantCode == http.StatusOK {
				if auth.lastToken != "good" {
					t.Fatalf("token not forwarded: %q", auth.lastToken)
				}
				if ing.callCount() != 1 {
					t.Fatalf("ingest calls=%d", ing.callCount())
				}
			} else if ing.callCount() != 0 {
				t.Fatalf("ingest must not run when unauthorized")
			}
		})
	}
}

func TestWebhookToken_GuardsEventsAPI(t *testing.T) {
	s := &service.Service{
		Query:       &mockQuery{},
		EventLog:    &mockEventLog{},
		WebhookAuth: &mockWebhookAuth{enabled: true},
	}
	r := newTestRouter(s, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d", w.Code)
	}
}
