package mender

import (
	"testing"
	"time"

	"gotest.tools/assert"
)

const testTime = `"2024-Mar-05 13:07:42.120934"`

func TestParseLogLine(t *testing.T) {
	when := time.Date(2024, time.March, 5, 13, 7, 42, 120934000, time.UTC)

	tests := []struct {
		name     string
		line     string
		expected LogRecord
	}{
		{
			"canonical",
			`record_id=12 severity=info time=` + testTime + ` name="Global" msg="Installing artifact..."`,
			LogRecord{RecordID: 12, Severity: SeverityInfo, Time: when, Name: "Global", Message: "Installing artifact..."},
		},
		{
			"reordered",
			`msg="rebooting now" name=update time=` + testTime + ` severity=warning record_id=3`,
			LogRecord{RecordID: 3, Severity: SeverityWarning, Time: when, Name: "update", Message: "rebooting now"},
		},
		{
			"unquoted message",
			`record_id=0 severity=trace time=` + testTime + ` name=Global msg=done`,
			LogRecord{RecordID: 0, Severity: SeverityTrace, Time: when, Name: "Global", Message: "done"},
		},
		{
			"extra keys",
			`record_id=18446744073709551615 severity=fatal time=` + testTime + ` name=Global thread=4 msg="a=b c"`,
			LogRecord{RecordID: 18446744073709551615, Severity: SeverityFatal, Time: when, Name: "Global", Message: "a=b c"},
		},
		{
			"empty message",
			`record_id=5 severity=error time=` + testTime + ` name=Global msg=""`,
			LogRecord{RecordID: 5, Severity: SeverityError, Time: when, Name: "Global"},
		},
		{
			"surrounding whitespace",
			"  record_id=6 severity=debug time=" + testTime + " name=Global msg=x  ",
			LogRecord{RecordID: 6, Severity: SeverityDebug, Time: when, Name: "Global", Message: "x"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, ok := parseLogLine(tc.line)
			assert.Assert(t, ok)
			assert.DeepEqual(t, tc.expected, rec)
		})
	}
}

func TestParseLogLineRejects(t *testing.T) {
	tests := map[string]string{
		"empty":              "",
		"no pairs":           "Installing artifact",
		"progress":           " 45%",
		"missing record_id":  `severity=info time=` + testTime + ` name=Global msg=x`,
		"missing severity":   `record_id=1 time=` + testTime + ` name=Global msg=x`,
		"missing time":       `record_id=1 severity=info name=Global msg=x`,
		"missing name":       `record_id=1 severity=info time=` + testTime + ` msg=x`,
		"missing msg":        `record_id=1 severity=info time=` + testTime + ` name=Global`,
		"negative record_id": `record_id=-1 severity=info time=` + testTime + ` name=Global msg=x`,
		"textual record_id":  `record_id=one severity=info time=` + testTime + ` name=Global msg=x`,
		"unknown severity":   `record_id=1 severity=notice time=` + testTime + ` name=Global msg=x`,
		"unquoted time":      `record_id=1 severity=info time=2024-Mar-05 13:07:42.120934 name=Global msg=x`,
		"numeric month":      `record_id=1 severity=info time="2024-03-05 13:07:42.120934" name=Global msg=x`,
		"short fraction":     `record_id=1 severity=info time="2024-Mar-05 13:07:42.12" name=Global msg=x`,
		"unterminated quote": `record_id=1 severity=info time=` + testTime + ` name=Global msg="never ends`,
		"stray token":        `record_id=1 severity=info time=` + testTime + ` name=Global msg=x trailing`,
		"text after quote":   `record_id=1 severity=info time=` + testTime + ` name="Glo"bal msg=x`,
		"missing key":        `=1 severity=info time=` + testTime + ` name=Global msg=x`,
		"one digit hour":     `record_id=1 severity=info time="2024-Mar-05 1:07:42.120934" name=Global msg=x`,
		"upper case month":   `record_id=1 severity=info time="2024-MAR-05 13:07:42.120934" name=Global msg=x`,
		"lower case month":   `record_id=1 severity=info time="2024-mar-05 13:07:42.120934" name=Global msg=x`,
		"one digit day":      `record_id=1 severity=info time="2024-Mar-5 13:07:42.120934" name=Global msg=x`,
		"quote in unquoted":  `record_id=1 severity=info time=` + testTime + ` name=a"b msg=x`,
	}

	for name, line := range tests {
		t.Run(name, func(t *testing.T) {
			_, ok := parseLogLine(line)
			assert.Assert(t, !ok)
		})
	}
}

func TestSeverityLevel(t *testing.T) {
	for name, sev := range severityNames {
		assert.Equal(t, sev.String(), name)
	}
	assert.Equal(t, SeverityWarning.Level().String(), "warning")
	assert.Equal(t, SeverityFatal.Level().String(), "fatal")
}
