package renderer

import (
	"fmt"
	"regexp"
	"strconv"
)

// durationPattern accepts "M:SS" and "MM:SS" piece durations.
var durationPattern = regexp.MustCompile(`^\s*(\d{1,3}):(\d{1,2})\s*$`)

// ParseDurationSeconds converts a "MM:SS" string to seconds. Malformed or
// missing durations contribute zero to section totals.
func ParseDurationSeconds(duration string) int {
	match := durationPattern.FindStringSubmatch(duration)
	if match == nil {
		return 0
	}

	minutes, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}

	seconds, err := strconv.Atoi(match[2])
	if err != nil {
		return 0
	}

	return minutes*60 + seconds
}

// FormatTotalDuration renders a total in seconds as "Hh MMmin" above one
// hour, "Mmin Ss" above one minute, "Ss" below. Zero-valued trailing
// components are omitted, so 480s renders "8min", not "8min 0s".
func FormatTotalDuration(totalSeconds int) string {
	if totalSeconds <= 0 {
		return ""
	}

	if totalSeconds >= 3600 {
		hours := totalSeconds / 3600
		minutes := (totalSeconds % 3600) / 60

		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}

		return fmt.Sprintf("%dh %02dmin", hours, minutes)
	}

	if totalSeconds >= 60 {
		minutes := totalSeconds / 60
		seconds := totalSeconds % 60

		if seconds == 0 {
			return fmt.Sprintf("%dmin", minutes)
		}

		return fmt.Sprintf("%dmin %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", totalSeconds)
}

// TotalDurationSeconds sums the parsed durations of the given strings.
func TotalDurationSeconds(durations []string) int {
	total := 0
	for _, d := range durations {
		total += ParseDurationSeconds(d)
	}

	return total
}
