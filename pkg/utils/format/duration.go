package format

import "fmt"

// NotAvailable is shown for missing optional values.
const NotAvailable = "N/A"

// Duration converts seconds to "M:SS" display format. Hours are folded into
// minutes, so 3725 seconds is "62:05".
func Duration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// DurationPtr formats an optional duration. Nil and zero are NotAvailable.
func DurationPtr(seconds *float64) string {
	if seconds == nil || int(*seconds) <= 0 {
		return NotAvailable
	}
	return Duration(int(*seconds))
}
