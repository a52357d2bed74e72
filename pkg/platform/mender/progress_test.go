package mender

import (
	"testing"

	"gotest.tools/assert"
)

func TestParseProgress(t *testing.T) {
	progress := map[string]int{
		"0%":      0,
		"45%":     45,
		"100%":    100,
		"  7%  ":  7,
		"\r 99%":  99,
		"\t12%\n": 12,
		"007%":    7,
	}
	for line, expected := range progress {
		pct, ok := parseProgress(line)
		assert.Assert(t, ok, "%q should be progress", line)
		assert.Equal(t, pct, expected)
	}

	notProgress := []string{
		"",
		"%",
		" % ",
		"45",
		"45 %",
		"4.5%",
		"abc%",
		"45%%",
		"-5%",
		"+45%",
		" -0% ",
		"progress 45%",
		`record_id=1 severity=info msg="45%"`,
	}
	for _, line := range notProgress {
		_, ok := parseProgress(line)
		assert.Assert(t, !ok, "%q should not be progress", line)
	}
}
