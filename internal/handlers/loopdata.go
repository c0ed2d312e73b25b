package handlers

import (
	"errors"
	"net/http"
	"time"

	"loopbot/internal/models"
	"loopbot/internal/service"

	"github.com/gin-gonic/gin"
)

// Response strings the Loop uploader and its dashboards rely on.
const (
	msgDataReceived     = "Data received successfully"
	errMissingFields    = "Missing required fields: glucose, timestamp"
	errInvalidFormat    = "Invalid data format"
	errIngestionFailed  = "failed to process Loop data"
	msgTestDataInjected = "Test data sent to Discord!"
)

// @Summary      Health check
// @Description  Process liveness plus the staleness clock of the snapshot store
// @Tags         system
// @Produce      json
// @Success      200  {object}  service.HealthStatus
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Query.Health())
}

// @Summary      Ingest Loop telemetry
// @Description  Webhook for the Loop device. Replaces the current snapshot; pushes a critical alert for glucose >250 or <60.
// @Tags         telemetry
// @Accept       json
// @Produce      json
// @Param        body  body   models.LoopSnapshot  true  "Telemetry payload"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /loop-data [post]
// @Security     BearerAuth
func (h *Handler) ingestLoopData(c *gin.Context) {
	var snap models.LoopSnapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidFormat})
		return
	}

	if err := h.services.Ingestion.Ingest(c.Request.Context(), snap); err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errMissingFields})
			return
		}
		if h.log != nil {
			h.log.Errorw("loop_data_ingest_failed", "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": errIngestionFailed})
		return
	}

	if h.log != nil {
		h.log.Infow("loop_data_received", "glucose", snap.Glucose, "trend", snap.Trend)
	}
	c.JSON(http.StatusOK, gin.H{"message": msgDataReceived})
}

// testSnapshot builds the canned payload used for manual end-to-end checks.
func testSnapshot(now time.Time) models.LoopSnapshot {
	battery := 78.0
	remaining := 45.2
	return models.LoopSnapshot{
		Glucose:          145.0,
		Trend:            "↗️",
		Timestamp:        now,
		IOB:              2.1,
		COB:              12.0,
		BasalRate:        0.85,
		LoopStatus:       models.LoopClosed,
		BatteryLevel:     &battery,
		InsulinRemaining: &remaining,
		LastBolus: &models.LastBolus{
			Amount:    3.5,
			Timestamp: now.Add(-45 * time.Minute),
		},
	}
}

// @Summary      Inject test telemetry
// @Description  Runs a canned payload through the normal ingestion path and pushes the full status to the channel.
// @Tags         telemetry
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "message, data"
// @Failure      500  {object}  map[string]string
// @Router       /test-glucose [get]
// @Security     BearerAuth
func (h *Handler) testGlucose(c *gin.Context) {
	ctx := c.Request.Context()
	snap := testSnapshot(time.Now().UTC())

	if err := h.services.Ingestion.Ingest(ctx, snap); err != nil {
		if h.log != nil {
			h.log.Errorw("test_glucose_ingest_failed", "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": errIngestionFailed})
		return
	}

	if h.notifier != nil {
		status := h.services.Query.Respond(ctx, service.CmdStatus)
		if err := h.notifier.Send(ctx, status); err != nil && h.log != nil {
			h.log.Errorw("test_glucose_send_failed", "err", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": msgTestDataInjected, "data": snap})
}
