package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// SplitHook directs matched levels to its configured output.
type SplitHook struct {
	output io.Writer
	levels []logrus.Level
}

// NewSplitHook returns a hook writing entries at levels to output.
func NewSplitHook(output io.Writer, levels ...logrus.Level) *SplitHook {
	return &SplitHook{output: output, levels: levels}
}

// Fire is invoked when logrus tries to log any message.
func (hook *SplitHook) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}
	for _, level := range hook.levels {
		if level == entry.Level {
			_, err := hook.output.Write([]byte(line))
			return err
		}
	}
	return nil
}

// Levels returns the log levels this hook is being applied to.
func (hook *SplitHook) Levels() []logrus.Level {
	return hook.levels
}

// SplitStreams dispatches logging output instead of writing all levels'
// messages to one stream: errors and worse go to high, the rest to low.
func SplitStreams(low, high io.Writer) Setter {
	return func(r *logrus.Logger) error {
		r.SetOutput(io.Discard)
		r.AddHook(NewSplitHook(low,
			logrus.WarnLevel, logrus.InfoLevel, logrus.DebugLevel, logrus.TraceLevel))
		r.AddHook(NewSplitHook(high,
			logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel))
		return nil
	}
}

// Unsplit drops any hooks installed by SplitStreams and writes every level to
// w, for commands whose stdout is data.
func Unsplit(w io.Writer) Setter {
	return func(r *logrus.Logger) error {
		r.ReplaceHooks(make(logrus.LevelHooks))
		r.SetOutput(w)
		return nil
	}
}
