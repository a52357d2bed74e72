package mender

import (
	"strconv"
	"strings"
)

// parseProgress recognizes a progress fragment such as " 45%" and returns the
// percentage.
func parseProgress(line string) (int, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasSuffix(line, "%") {
		return 0, false
	}
	digits := line[:len(line)-1]
	if strings.HasPrefix(digits, "+") || strings.HasPrefix(digits, "-") {
		return 0, false
	}
	pct, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return pct, true
}
