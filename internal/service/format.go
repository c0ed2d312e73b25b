package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"loopbot/internal/models"
)

// Discord replies below reproduce the bot's established message layout;
// dashboards and caregivers pattern-match on these strings, so formatting
// changes are breaking changes.

// formatNum renders a float the way JSON numbers read: no trailing zeros,
// no exponent for telemetry-sized values (125.0 -> "125", 0.85 -> "0.85").
func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// minutesBetween rounds the elapsed time to the nearest whole minute.
func minutesBetween(from, now time.Time) int {
	return int(math.Round(now.Sub(from).Minutes()))
}

// TimeSincePhrase renders staleness of the last update as a human phrase.
// Rounding is to nearest, not floor: 90 minutes reads "2 hours ago".
func TimeSincePhrase(lastUpdate time.Time, hasUpdate bool, now time.Time) string {
	if !hasUpdate {
		return "Never"
	}
	minutes := minutesBetween(lastUpdate, now)
	switch {
	case minutes < 1:
		return "Just now"
	case minutes == 1:
		return "1 minute ago"
	case minutes < 60:
		return fmt.Sprintf("%d minutes ago", minutes)
	}
	hours := int(math.Round(float64(minutes) / 60))
	if hours == 1 {
		return "1 hour ago"
	}
	return fmt.Sprintf("%d hours ago", hours)
}

// loopStatusUpper uppercases the loop status, substituting UNKNOWN when the
// device did not report one.
func loopStatusUpper(status string) string {
	if status == "" {
		status = models.LoopUnknown
	}
	return strings.ToUpper(status)
}

// loopStatusSymbol maps the loop state to its indicator: closed is the only
// good state, open warns, anything else (suspended, unknown) alerts.
func loopStatusSymbol(status string) string {
	switch status {
	case models.LoopClosed:
		return "✅"
	case models.LoopOpen:
		return "⚠️"
	default:
		return "🛑"
	}
}

// FormatGlucose renders the glucose-only summary.
func FormatGlucose(snap models.LoopSnapshot, lastUpdate time.Time, hasUpdate bool, now time.Time) string {
	return fmt.Sprintf(`🩸 **Current Glucose**
**Reading:** %s mg/dL %s
**Last Update:** %s`,
		formatNum(snap.Glucose), snap.Trend, TimeSincePhrase(lastUpdate, hasUpdate, now))
}

// FormatStatus renders the complete status summary, with battery and
// reservoir lines only when the device reported them.
func FormatStatus(snap models.LoopSnapshot, lastUpdate time.Time, hasUpdate bool, now time.Time) string {
	var batteryInfo, insulinInfo string
	if snap.BatteryLevel != nil {
		batteryInfo = fmt.Sprintf("\n🔋 **Battery:** %s%%", formatNum(*snap.BatteryLevel))
	}
	if snap.InsulinRemaining != nil {
		insulinInfo = fmt.Sprintf("\n💧 **Insulin:** %su remaining", formatNum(*snap.InsulinRemaining))
	}

	return fmt.Sprintf(`📊 **Complete Loop Status**
🩸 **Glucose:** %s mg/dL %s
💉 **IOB:** %su
🍞 **COB:** %sg
⚡ **Basal:** %su/h
🔄 **Loop:** %s%s%s
⏰ **Last Update:** %s`,
		formatNum(snap.Glucose), snap.Trend,
		formatNum(snap.IOB),
		formatNum(snap.COB),
		formatNum(snap.BasalRate),
		loopStatusUpper(snap.LoopStatus), batteryInfo, insulinInfo,
		TimeSincePhrase(lastUpdate, hasUpdate, now))
}

// FormatInsulin renders the insulin summary with an optional last-bolus line.
func FormatInsulin(snap models.LoopSnapshot, lastUpdate time.Time, hasUpdate bool, now time.Time) string {
	var bolusInfo string
	if snap.LastBolus != nil {
		bolusInfo = fmt.Sprintf("\n💊 **Last Bolus:** %su (%dm ago)",
			formatNum(snap.LastBolus.Amount), minutesBetween(snap.LastBolus.Timestamp, now))
	}

	return fmt.Sprintf(`💉 **Insulin Status**
📈 **IOB:** %su
⚡ **Current Basal:** %su/h%s
⏰ **Last Update:** %s`,
		formatNum(snap.IOB),
		formatNum(snap.BasalRate), bolusInfo,
		TimeSincePhrase(lastUpdate, hasUpdate, now))
}

// FormatLoopStatus renders the loop/device summary. Battery and reservoir
// read "Unknown" when absent.
func FormatLoopStatus(snap models.LoopSnapshot, lastUpdate time.Time, hasUpdate bool, now time.Time) string {
	battery := "Unknown"
	if snap.BatteryLevel != nil {
		battery = formatNum(*snap.BatteryLevel)
	}
	remaining := "Unknown"
	if snap.InsulinRemaining != nil {
		remaining = formatNum(*snap.InsulinRemaining)
	}

	return fmt.Sprintf(`🔄 **Loop System Status**
%s **Status:** %s
📱 **Last Communication:** %s
🔋 **Battery:** %s%%
💧 **Insulin Remaining:** %su`,
		loopStatusSymbol(snap.LoopStatus), loopStatusUpper(snap.LoopStatus),
		TimeSincePhrase(lastUpdate, hasUpdate, now),
		battery,
		remaining)
}
