package service

import (
	"fmt"
	"strings"
	"time"

	"loopbot/internal/models"
)

// Evaluator thresholds. The ingestion fast-path uses its own, wider pair
// (criticalHighGlucose/criticalLowGlucose in ingest.go); the two sets are
// intentionally separate.
const (
	highGlucose        = 180 // mg/dL
	lowGlucose         = 70
	criticalLowReading = 55

	lowBatteryPct    = 20
	lowInsulinUnits  = 10
	staleDataMinutes = 15

	// neverUpdatedMinutes stands in for "no update ever received" so the
	// stale-data rule always fires on an empty clock.
	neverUpdatedMinutes = 999
)

// MinutesSinceUpdate converts the store clock into the evaluator's input,
// substituting the never-updated sentinel.
func MinutesSinceUpdate(lastUpdate time.Time, hasUpdate bool, now time.Time) int {
	if !hasUpdate {
		return neverUpdatedMinutes
	}
	return minutesBetween(lastUpdate, now)
}

// EvaluateAlerts runs the independent alert rules in display order. Rules
// are not mutually exclusive: a reading of 40 fires both the low and the
// critical-low rules.
func EvaluateAlerts(snap models.LoopSnapshot, minutesSinceUpdate int) []models.AlertCondition {
	var alerts []models.AlertCondition

	if snap.Glucose > highGlucose {
		alerts = append(alerts, models.AlertCondition{Severity: models.SeverityWarning, Message: "🔴 High glucose"})
	}
	if snap.Glucose < lowGlucose {
		alerts = append(alerts, models.AlertCondition{Severity: models.SeverityWarning, Message: "🟡 Low glucose"})
	}
	if snap.Glucose < criticalLowReading {
		alerts = append(alerts, models.AlertCondition{Severity: models.SeverityCritical, Message: "🚨 CRITICAL LOW glucose"})
	}

	if snap.LoopStatus != "" && snap.LoopStatus != models.LoopClosed {
		alerts = append(alerts, models.AlertCondition{
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("⚠️ Loop is %s", snap.LoopStatus),
		})
	}
	if snap.BatteryLevel != nil && *snap.BatteryLevel < lowBatteryPct {
		alerts = append(alerts, models.AlertCondition{Severity: models.SeverityWarning, Message: "🔋 Low battery"})
	}
	if snap.InsulinRemaining != nil && *snap.InsulinRemaining < lowInsulinUnits {
		alerts = append(alerts, models.AlertCondition{Severity: models.SeverityWarning, Message: "💧 Low insulin"})
	}

	if minutesSinceUpdate > staleDataMinutes {
		alerts = append(alerts, models.AlertCondition{Severity: models.SeverityInfo, Message: "📡 No recent data updates"})
	}

	return alerts
}

// RenderAlerts renders the evaluation result as a Discord reply: a single
// all-clear line, or a bulleted list in rule order.
func RenderAlerts(alerts []models.AlertCondition) string {
	if len(alerts) == 0 {
		return "✅ **All Clear!** No alerts at this time."
	}

	lines := make([]string, 0, len(alerts))
	for _, a := range alerts {
		lines = append(lines, "• "+a.Message)
	}
	return "🚨 **Active Alerts:**\n" + strings.Join(lines, "\n")
}
