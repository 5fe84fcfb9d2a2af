package platform

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Time formatting constants
const (
	SecondsPerHour   = 3600
	SecondsPerMinute = 60
)

// FormatRate renders a transfer rate in bytes/second as a human-readable
// string, e.g. "1.2 MB/s".
func FormatRate(bytesPerSecond float64) string {
	if bytesPerSecond <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(bytesPerSecond)) + "/s"
}

// FormatSize renders a byte count as a human-readable string, e.g. "15 MB".
func FormatSize(size int64) string {
	if size < 0 {
		return "-"
	}
	return humanize.Bytes(uint64(size))
}

// FormatETA renders a duration in seconds as mm:ss or hh:mm:ss. Negative
// values mean unknown.
func FormatETA(seconds int) string {
	if seconds < 0 {
		return "-"
	}

	hours := seconds / SecondsPerHour
	minutes := (seconds % SecondsPerHour) / SecondsPerMinute
	secs := seconds % SecondsPerMinute

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}
