package mender

import (
	"context"

	"github.com/amazonlinux/bottlerocket/menderwatch/pkg/logging"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// RecordSink receives the log records of an operation that succeeded. Records
// of failed operations are carried by the returned Failure instead.
type RecordSink func(op Operation, records []LogRecord)

// Driver runs update operations with the agent. It holds no state besides its
// Options and may be used by several goroutines at once; each call runs its
// own agent process.
type Driver struct {
	log  logging.Logger
	opts Options
	cli  executer
	sink RecordSink
}

// New returns a Driver invoking the agent according to opts. A nil sink
// forwards successful operations' records to the log.
func New(log logging.Logger, opts Options, sink RecordSink) *Driver {
	if sink == nil {
		sink = LogSink(logging.New("agent"))
	}
	return &Driver{
		log:  log,
		opts: opts,
		cli:  &processExecuter{log: log.WithField("worker", "exec")},
		sink: sink,
	}
}

// LogSink re-emits agent records on log at their own severity.
func LogSink(log logging.SubLogger) RecordSink {
	return func(op Operation, records []LogRecord) {
		for _, rec := range records {
			log.WithFields(logrus.Fields{
				"operation":  op.Command(),
				"record_id":  rec.RecordID,
				"source":     rec.Name,
				"agent_time": rec.Time,
			}).Log(rec.Severity.Level(), rec.Message)
		}
	}
}

// Install installs the artifact at source. The agent is stopped before stop
// unless it is NoCheckpoint. onProgress, if not nil, receives the download
// and install progress. A ClassRebootRequired Failure means the host must be
// rebooted and the update resumed.
func (d *Driver) Install(ctx context.Context, source string, stop Checkpoint, onProgress ProgressFunc) (string, error) {
	if source == "" {
		return "", errors.New("install requires an artifact source")
	}
	out, _, err := d.run(ctx, Install(source), stop, execRequest{onProgress: onProgress})
	return out, err
}

// Commit commits the update in progress.
func (d *Driver) Commit(ctx context.Context, stop Checkpoint) (string, error) {
	out, _, err := d.run(ctx, Commit(), stop, execRequest{})
	return out, err
}

// Resume resumes the update in progress.
func (d *Driver) Resume(ctx context.Context, stop Checkpoint) (string, error) {
	out, _, err := d.run(ctx, Resume(), stop, execRequest{})
	return out, err
}

// Rollback rolls back the update in progress.
func (d *Driver) Rollback(ctx context.Context, stop Checkpoint) (string, error) {
	out, _, err := d.run(ctx, Rollback(), stop, execRequest{})
	return out, err
}

// ShowArtifact returns the name of the currently installed artifact.
func (d *Driver) ShowArtifact(ctx context.Context) (string, error) {
	out, _, err := d.run(ctx, showArtifact(), NoCheckpoint, execRequest{})
	return out, err
}

// ShowProvides returns the provides of the currently installed artifact, one
// "key=value" entry per element.
func (d *Driver) ShowProvides(ctx context.Context) ([]string, error) {
	_, res, err := d.run(ctx, showProvides(), NoCheckpoint, execRequest{allLines: true})
	if err != nil {
		return nil, err
	}
	return res.lines, nil
}

func (d *Driver) run(ctx context.Context, op Operation, stop Checkpoint, req execRequest) (string, *execution, error) {
	log := d.log.WithField("operation", op.Command())
	if stop != NoCheckpoint {
		log = log.WithField("stop-before", stop.String())
	}

	args := buildArguments(d.opts, op, stop)
	log.WithField("args", args).Debugf("running %s", op)
	res, err := d.cli.execute(ctx, d.opts.Binary(), args, req)
	if err != nil {
		return "", nil, errors.WithMessage(err, op.Command())
	}

	out, err := translate(res.term, res.output, res.records)
	if err != nil {
		if errors.Is(err, ErrRebootRequired) {
			log.Info("agent requires a reboot")
		} else {
			log.WithError(err).Warn("operation failed")
		}
		return "", res, err
	}
	d.sink(op, res.records)
	log.Debug("operation completed")
	return out, res, nil
}
