package batch

import (
	"fmt"
	"strings"
	"time"
)

// FormatDuration renders durations under a second as "N ms" and longer ones
// as hours, minutes and seconds ("1h 2m 3s"), omitting zero units
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%d ms", d.Milliseconds())
	}

	total := int64(d / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60

	var parts []string
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	if s > 0 {
		parts = append(parts, fmt.Sprintf("%ds", s))
	}
	return strings.Join(parts, " ")
}
