// Package format holds the display formatting used by every listing and
// detail response. Pure functions, display-only: Currency is not meant to
// round-trip back to an exact amount.
package format

import (
	"fmt"
	"time"
)

// Currency scales an amount to the largest applicable South-Asian unit:
// crore (1e7), lakh (1e5) or thousand, with one decimal. Amounts below a
// thousand render as a plain integer.
func Currency(amount float64) string {
	switch {
	case amount >= 10000000:
		return fmt.Sprintf("%.1f Cr", amount/10000000)
	case amount >= 100000:
		return fmt.Sprintf("%.1f L", amount/100000)
	case amount >= 1000:
		return fmt.Sprintf("%.1f K", amount/1000)
	default:
		return fmt.Sprintf("%.0f", amount)
	}
}

// RelativeTime buckets now-timestamp into the largest non-zero unit of
// days, hours or minutes. Anything under a minute is "Just now".
func RelativeTime(timestampMillis int64) string {
	return relativeTimeAt(timestampMillis, time.Now())
}

func relativeTimeAt(timestampMillis int64, now time.Time) string {
	diff := now.Sub(time.UnixMilli(timestampMillis))

	days := int(diff.Hours() / 24)
	if days > 0 {
		return fmt.Sprintf("%d %s ago", days, plural("day", days))
	}
	hours := int(diff.Hours())
	if hours > 0 {
		return fmt.Sprintf("%d %s ago", hours, plural("hour", hours))
	}
	minutes := int(diff.Minutes())
	if minutes > 0 {
		return fmt.Sprintf("%d %s ago", minutes, plural("minute", minutes))
	}
	return "Just now"
}

func plural(unit string, n int) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
