package chapters

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatTime converts seconds to HH:MM:SS.
//
// Fractional seconds are truncated and the hours field is not wrapped at 24.
// Negative input is treated as zero.
//
// Example:
//
//	FormatTime(65)     // "00:01:05"
//	FormatTime(3661.9) // "01:01:01"
//	FormatTime(90000)  // "25:00:00"
func FormatTime(seconds float64) string {
	total := int64(seconds)
	if total < 0 {
		total = 0
	}
	m, s := total/60, total%60
	h, m := m/60, m%60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// ParseTime parses an HH:MM:SS timestamp into whole seconds.
func ParseTime(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q: expected HH:MM:SS", s)
	}

	var fields [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		if n < 0 {
			return 0, fmt.Errorf("invalid timestamp %q: negative field", s)
		}
		fields[i] = n
	}

	return fields[0]*3600 + fields[1]*60 + fields[2], nil
}

// SecondsToFrame converts a timestamp to the nearest frame index.
func SecondsToFrame(seconds, fps float64) int {
	return int(math.Round(seconds * fps))
}

// FrameToSeconds converts a frame index to seconds. Returns 0 when fps is unknown.
func FrameToSeconds(frame, fps float64) float64 {
	if fps <= 0 {
		return 0
	}
	return frame / fps
}
