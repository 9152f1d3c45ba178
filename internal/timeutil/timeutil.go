// Package timeutil formats durations of release steps for log output and
// parses the dates given on the command line.
package timeutil

import (
	"fmt"
	"time"
)

// FormatDuration rounds d to the second and renders it as "Xh Ym Zs",
// omitting leading zero units: "45s", "1m 23s", "2h 0m 5s".
// Negative durations render as "0s".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < 0 {
		d = 0
	}

	hours := d / time.Hour
	minutes := (d % time.Hour) / time.Minute
	seconds := (d % time.Minute) / time.Second

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// Since formats the time elapsed since start.
func Since(start time.Time) string {
	return FormatDuration(time.Since(start))
}
