package mender

import (
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// timeLayout is the agent's timestamp format, e.g. 2024-Mar-05 13:07:42.120934.
const timeLayout = "2006-Jan-02 15:04:05.000000"

// Severity is the level of an agent log record.
type Severity int

const (
	SeverityTrace Severity = iota
	SeverityDebug
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityFatal
)

var severityNames = map[string]Severity{
	"trace":   SeverityTrace,
	"debug":   SeverityDebug,
	"info":    SeverityInfo,
	"warning": SeverityWarning,
	"error":   SeverityError,
	"fatal":   SeverityFatal,
}

func (s Severity) String() string {
	for name, sev := range severityNames {
		if sev == s {
			return name
		}
	}
	return "unknown"
}

// Level is the logrus level matching s.
func (s Severity) Level() logrus.Level {
	switch s {
	case SeverityTrace:
		return logrus.TraceLevel
	case SeverityDebug:
		return logrus.DebugLevel
	case SeverityWarning:
		return logrus.WarnLevel
	case SeverityError:
		return logrus.ErrorLevel
	case SeverityFatal:
		// Entry.Log never exits, unlike Entry.Fatal.
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// LogRecord is a single structured log line emitted by the agent on stderr.
type LogRecord struct {
	RecordID uint64
	Severity Severity
	Time     time.Time
	Name     string
	Message  string
}

// parseLogLine parses a line of space separated key=value or key="value"
// pairs. It reports false when the line isn't a complete, well formed record.
func parseLogLine(line string) (LogRecord, bool) {
	if !strings.Contains(line, "=") {
		return LogRecord{}, false
	}
	fields, ok := splitFields(line)
	if !ok {
		return LogRecord{}, false
	}

	var rec LogRecord

	raw, ok := fields["record_id"]
	if !ok {
		return LogRecord{}, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return LogRecord{}, false
	}
	rec.RecordID = id

	raw, ok = fields["severity"]
	if !ok {
		return LogRecord{}, false
	}
	rec.Severity, ok = severityNames[raw]
	if !ok {
		return LogRecord{}, false
	}

	raw, ok = fields["time"]
	if !ok {
		return LogRecord{}, false
	}
	ts, err := time.Parse(timeLayout, raw)
	// time.Parse takes one-digit hours and any case of month name.
	if err != nil || ts.Format(timeLayout) != raw {
		return LogRecord{}, false
	}
	rec.Time = ts

	if rec.Name, ok = fields["name"]; !ok {
		return LogRecord{}, false
	}
	if rec.Message, ok = fields["msg"]; !ok {
		return LogRecord{}, false
	}
	return rec, true
}

// splitFields tokenizes line into its key/value pairs. A later duplicate key
// replaces an earlier one.
func splitFields(line string) (map[string]string, bool) {
	fields := make(map[string]string, 5)
	rest := strings.TrimSpace(line)
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 {
			return nil, false
		}
		key := rest[:eq]
		if strings.ContainsAny(key, " \t\"") {
			return nil, false
		}
		rest = rest[eq+1:]

		var value string
		quoted := strings.HasPrefix(rest, `"`)
		if quoted {
			end := strings.IndexByte(rest[1:], '"')
			if end < 0 {
				return nil, false
			}
			value = rest[1 : end+1]
			rest = rest[end+2:]
			if rest != "" && rest[0] != ' ' {
				return nil, false
			}
		} else if sp := strings.IndexByte(rest, ' '); sp >= 0 {
			value = rest[:sp]
			rest = rest[sp:]
		} else {
			value = rest
			rest = ""
		}
		if !quoted && strings.ContainsRune(value, '"') {
			return nil, false
		}

		fields[key] = value
		rest = strings.TrimLeft(rest, " ")
	}
	return fields, true
}
