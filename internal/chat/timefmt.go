package chat

import (
	"fmt"
	"time"
)

// FormatTimestampAge renders how long ago a conversation was active, using the
// sidebar's coarse buckets: whole days, then whole hours, then "Just now".
func FormatTimestampAge(t time.Time, now time.Time) string {
	elapsed := now.Sub(t)
	hours := int(elapsed.Hours())
	days := hours / 24

	if days > 0 {
		return fmt.Sprintf("%dd ago", days)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh ago", hours)
	}
	return "Just now"
}
