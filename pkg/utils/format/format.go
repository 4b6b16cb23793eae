package format

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// Bytes returns a base-1024 size rounded to two decimals, e.g. "1.5 MB".
// Sizes beyond GB stay in GB.
func Bytes(b int64) string {
	if b <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(b)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	v := float64(b) / math.Pow(1024, float64(i))
	return round2(v) + " " + sizeUnits[i]
}

// BytesPtr formats an optional size. Nil and zero are NotAvailable.
func BytesPtr(b *int64) string {
	if b == nil || *b <= 0 {
		return NotAvailable
	}
	return Bytes(*b)
}

// FPS formats an optional frame rate, e.g. "60fps".
func FPS(fps *float64) string {
	if fps == nil || *fps <= 0 {
		return ""
	}
	return round2(*fps) + "fps"
}

// round2 rounds half away from zero to two decimals and drops trailing zeros.
func round2(v float64) string {
	return humanize.Ftoa(math.Round(v*100) / 100)
}

// Progress renders a transferred/total pair for progress output.
// A zero or negative total prints only the transferred amount.
func Progress(done, total int64) string {
	if total <= 0 {
		return humanize.IBytes(uint64(max(done, 0)))
	}
	pct := float64(done) / float64(total) * 100
	return fmt.Sprintf("%s / %s (%.0f%%)", humanize.IBytes(uint64(max(done, 0))), humanize.IBytes(uint64(total)), pct)
}

// Truncate returns s truncated to max runes with "..." suffix.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
