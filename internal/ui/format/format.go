// Package format provides UI formatting helpers.
package format

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// Duration formats a span in microseconds with a precision that shrinks as
// the span grows: "750µs", "1.250ms", "12.34s", "2:05.3m", "1:02:03h".
func Duration(us float64) string {
	if math.IsNaN(us) {
		return ""
	}
	usec := int64(math.Floor(math.Max(us, 0)))

	u := usec % 1000
	ms := (usec / 1_000) % 1000
	s := (usec / 1_000_000) % 60
	m := (usec / 60_000_000) % 60
	h := (usec / 3_600_000_000) % 24

	switch {
	case usec < 1_000:
		return fmt.Sprintf("%dµs", u)
	case usec < 10_000:
		return fmt.Sprintf("%d.%03dms", ms, u)
	case usec < 100_000:
		return fmt.Sprintf("%d.%02dms", ms, u/10)
	case usec < 1_000_000:
		return fmt.Sprintf("%d.%dms", ms, u/100)
	case usec < 10_000_000:
		return fmt.Sprintf("%d.%03ds", s, ms)
	case usec < 60_000_000:
		return fmt.Sprintf("%d.%02ds", s, ms/10)
	case usec < 600_000_000:
		return fmt.Sprintf("%d:%02d.%dm", m, s, ms/100)
	case usec < 3_600_000_000:
		return fmt.Sprintf("%d:%02dm", m, s)
	case usec < 86_400_000_000:
		return fmt.Sprintf("%d:%02d:%02dh", h, m, s)
	default:
		return fmt.Sprintf("%dd %d:%02dh", usec/86_400_000_000, h, m)
	}
}

// Current formats a reading in µA with an SI prefix, e.g. "4.8 mA".
func Current(ua float64) string {
	return humanize.SIWithDigits(ua*1e-6, 2, "A")
}

// Charge formats a charge in µC with an SI prefix, e.g. "3.6 mC".
func Charge(uc float64) string {
	return humanize.SIWithDigits(uc*1e-6, 2, "C")
}

// Count formats a sample count with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// Rate formats a sampling rate, e.g. "100 ksps".
func Rate(samplesPerSecond float64) string {
	return humanize.SIWithDigits(samplesPerSecond, 1, "sps")
}

// Timestamp formats an absolute microsecond timestamp as wall-clock time
// with milliseconds.
func Timestamp(us float64) string {
	return time.UnixMicro(int64(us)).Format("15:04:05.000")
}

// Clock formats an absolute microsecond timestamp as wall-clock time. The
// sub-second part is only shown when step is below one second.
func Clock(us, stepUs float64) string {
	if stepUs < 1e6 {
		return Timestamp(us)
	}
	return time.UnixMicro(int64(us)).Format("15:04:05")
}
