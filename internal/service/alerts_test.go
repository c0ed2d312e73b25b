package service

import (
	"testing"
	"time"

	"loopbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func TestEvaluateAlerts_AllRulesFireInOrder(t *testing.T) {
	t.Parallel()

	// glucose 40 trips both the low and critical-low rules; the remaining
	// rules trip one each. Order must match display order, not severity.
	snap := models.LoopSnapshot{
		Glucose:          40,
		LoopStatus:       models.LoopOpen,
		BatteryLevel:     floatPtr(15),
		InsulinRemaining: floatPtr(5),
	}

	alerts := EvaluateAlerts(snap, 20)

	require.Len(t, alerts, 6)
	assert.Equal(t, "🟡 Low glucose", alerts[0].Message)
	assert.Equal(t, models.SeverityWarning, alerts[0].Severity)
	assert.Equal(t, "🚨 CRITICAL LOW glucose", alerts[1].Message)
	assert.Equal(t, models.SeverityCritical, alerts[1].Severity)
	assert.Equal(t, "⚠️ Loop is open", alerts[2].Message)
	assert.Equal(t, "🔋 Low battery", alerts[3].Message)
	assert.Equal(t, "💧 Low insulin", alerts[4].Message)
	assert.Equal(t, "📡 No recent data updates", alerts[5].Message)
	assert.Equal(t, models.SeverityInfo, alerts[5].Severity)
}

func TestEvaluateAlerts_AllClear(t *testing.T) {
	t.Parallel()

	snap := models.LoopSnapshot{
		Glucose:          100,
		LoopStatus:       models.LoopClosed,
		BatteryLevel:     floatPtr(80),
		InsulinRemaining: floatPtr(50),
	}

	alerts := EvaluateAlerts(snap, 2)
	assert.Empty(t, alerts)
	assert.Equal(t, "✅ **All Clear!** No alerts at this time.", RenderAlerts(alerts))
}

func TestEvaluateAlerts_HighGlucose(t *testing.T) {
	t.Parallel()

	alerts := EvaluateAlerts(models.LoopSnapshot{Glucose: 181}, 0)
	require.Len(t, alerts, 1)
	assert.Equal(t, "🔴 High glucose", alerts[0].Message)

	// 180 exactly is not high
	assert.Empty(t, EvaluateAlerts(models.LoopSnapshot{Glucose: 180}, 0))
}

func TestEvaluateAlerts_IndependentLowThresholds(t *testing.T) {
	t.Parallel()

	// 60 trips only the low rule; 54 trips both.
	alerts := EvaluateAlerts(models.LoopSnapshot{Glucose: 60}, 0)
	require.Len(t, alerts, 1)
	assert.Equal(t, "🟡 Low glucose", alerts[0].Message)

	alerts = EvaluateAlerts(models.LoopSnapshot{Glucose: 54}, 0)
	require.Len(t, alerts, 2)
	assert.Equal(t, "🟡 Low glucose", alerts[0].Message)
	assert.Equal(t, "🚨 CRITICAL LOW glucose", alerts[1].Message)
}

func TestEvaluateAlerts_AbsentOptionalFieldsDoNotFire(t *testing.T) {
	t.Parallel()

	// No loop status, battery, or reservoir reported: none of their rules fire.
	alerts := EvaluateAlerts(models.LoopSnapshot{Glucose: 100}, 0)
	assert.Empty(t, alerts)
}

func TestEvaluateAlerts_LoopStatusNaming(t *testing.T) {
	t.Parallel()

	alerts := EvaluateAlerts(models.LoopSnapshot{Glucose: 100, LoopStatus: models.LoopSuspended}, 0)
	require.Len(t, alerts, 1)
	assert.Equal(t, "⚠️ Loop is suspended", alerts[0].Message)
}

func TestEvaluateAlerts_StaleData(t *testing.T) {
	t.Parallel()

	assert.Empty(t, EvaluateAlerts(models.LoopSnapshot{Glucose: 100}, 15))

	alerts := EvaluateAlerts(models.LoopSnapshot{Glucose: 100}, 16)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.SeverityInfo, alerts[0].Severity)
}

func TestMinutesSinceUpdate_NeverSentinel(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 999, MinutesSinceUpdate(time.Time{}, false, now))
	assert.Equal(t, 20, MinutesSinceUpdate(now.Add(-20*time.Minute), true, now))
}

func TestRenderAlerts_BulletedList(t *testing.T) {
	t.Parallel()

	rendered := RenderAlerts([]models.AlertCondition{
		{Severity: models.SeverityWarning, Message: "🟡 Low glucose"},
		{Severity: models.SeverityInfo, Message: "📡 No recent data updates"},
	})

	want := "🚨 **Active Alerts:**\n" +
		"• 🟡 Low glucose\n" +
		"• 📡 No recent data updates"
	assert.Equal(t, want, rendered)
}
