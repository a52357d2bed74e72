package mender

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/amazonlinux/bottlerocket/menderwatch/pkg/logging"
	"github.com/amazonlinux/bottlerocket/menderwatch/pkg/workgroup"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// maxLineSize bounds a single line read from the agent. Longer lines end
// line-wise parsing of that stream, the remainder is discarded.
const maxLineSize = 1 << 20

// ProgressFunc receives install progress in percent. It is called on the
// goroutine reading the agent's stderr and must return promptly.
type ProgressFunc func(percent int)

// execution is what was observed while running the agent once.
type execution struct {
	// output is the first non-empty line of stdout.
	output string
	// lines holds every non-empty stdout line, only when requested.
	lines   []string
	records []LogRecord
	term    termination
}

type executer interface {
	execute(ctx context.Context, binary string, args []string, req execRequest) (*execution, error)
}

type execRequest struct {
	onProgress ProgressFunc
	allLines   bool
}

// processExecuter runs the agent as a child process.
type processExecuter struct {
	log logging.SubLogger
}

func (e *processExecuter) execute(ctx context.Context, binary string, args []string, req execRequest) (*execution, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.SysProcAttr = processAttrs()
	cmd.Cancel = func() error {
		return killProcessGroup(cmd.Process)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "unable to open agent stdout")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.Wrap(err, "unable to open agent stderr")
	}

	log := e.log.WithFields(logrus.Fields{
		"cmd": cmd.String(),
	})
	log.Debug("executing")

	if err := cmd.Start(); err != nil {
		log.WithError(err).Error("failed to start agent")
		return nil, errors.Wrapf(err, "unable to start %s", binary)
	}
	log = log.WithField("pid", cmd.Process.Pid)

	res := &execution{}

	// Both streams are drained to EOF before waiting on the process: Wait
	// closes the pipes, and a child blocked on a full pipe never exits.
	group := workgroup.WithContext(ctx)
	group.Work(func(context.Context) error {
		return e.drainStdout(stdout, res, req.allLines)
	})
	group.Work(func(context.Context) error {
		records, err := e.drainStderr(log, stderr, req.onProgress)
		res.records = records
		return err
	})
	drainErr := group.Wait()

	waitErr := cmd.Wait()
	res.term = terminationOf(cmd.ProcessState)
	if !res.term.exited && ctx.Err() != nil {
		res.term.cause = ctx.Err()
	}

	fields := logrus.Fields{
		"exited":  res.term.exited,
		"code":    res.term.code,
		"records": len(res.records),
	}
	if res.term.signal != "" {
		fields["signal"] = res.term.signal
	}
	if drainErr != nil {
		log.WithFields(fields).WithError(drainErr).Warn("agent output was not fully read")
	} else {
		log.WithFields(fields).WithError(waitErr).Debug("agent finished")
	}
	return res, nil
}

// drainStdout reads stdout to EOF keeping its first non-empty line, and every
// non-empty line when all is set.
func (e *processExecuter) drainStdout(r io.Reader, res *execution, all bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if res.output == "" {
			res.output = line
		}
		if all {
			res.lines = append(res.lines, line)
		}
	}
	return discardRemaining(r, scanner.Err())
}

// drainStderr reads stderr to EOF, reporting progress fragments as they
// arrive and collecting the log records in between.
func (e *processExecuter) drainStderr(log logging.SubLogger, r io.Reader, onProgress ProgressFunc) ([]LogRecord, error) {
	var records []LogRecord

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	scanner.Split(scanFragments)
	for scanner.Scan() {
		line := scanner.Text()
		if pct, ok := parseProgress(line); ok {
			if onProgress != nil {
				onProgress(pct)
			}
			continue
		}
		if rec, ok := parseLogLine(line); ok {
			records = append(records, rec)
			continue
		}
		if logging.Debuggable && strings.TrimSpace(line) != "" {
			log.WithField("line", line).Debug("ignoring unrecognized agent output")
		}
	}
	return records, discardRemaining(r, scanner.Err())
}

// discardRemaining keeps reading r after a scanner gave up on it so the child
// does not block writing.
func discardRemaining(r io.Reader, scanErr error) error {
	if scanErr == nil {
		return nil
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return errors.Wrap(err, "unable to discard agent output")
	}
	return errors.Wrap(scanErr, "unable to read agent output")
}

// scanFragments is a bufio.SplitFunc that ends tokens at either '\n' or '\r'.
// The agent rewrites its progress indicator with carriage returns.
func scanFragments(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
