package main

import (
	"context"
	"io"
	"os"
	"syscall"

	"github.com/amazonlinux/bottlerocket/menderwatch/pkg/logging"
	"github.com/amazonlinux/bottlerocket/menderwatch/pkg/platform/mender"
	"github.com/amazonlinux/bottlerocket/menderwatch/pkg/reboot"
	"github.com/amazonlinux/bottlerocket/menderwatch/pkg/sigcontext"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// exitUsage is returned for invalid invocations, distinct from the agent's
// own exit codes which are passed through.
const exitUsage = 64

// updater is the operation surface of mender.Driver.
type updater interface {
	Install(ctx context.Context, source string, stop mender.Checkpoint, onProgress mender.ProgressFunc) (string, error)
	Commit(ctx context.Context, stop mender.Checkpoint) (string, error)
	Resume(ctx context.Context, stop mender.Checkpoint) (string, error)
	Rollback(ctx context.Context, stop mender.Checkpoint) (string, error)
	ShowArtifact(ctx context.Context) (string, error)
	ShowProvides(ctx context.Context) ([]string, error)
}

var _ updater = (*mender.Driver)(nil)

type rebooter interface {
	Reboot(ctx context.Context) error
}

// environment holds what commands act upon, replaced in tests.
type environment struct {
	newUpdater func(mender.Options) updater
	rebooter   rebooter
	stdout     io.Writer
	stderr     io.Writer
}

func main() {
	os.Exit(_main())
}

func _main() int {
	_ = logging.Set(logging.SplitStreams(os.Stdout, os.Stderr))
	log := logging.New("main")

	ctx, cancel := sigcontext.WithSignalCancel(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	env := &environment{
		newUpdater: func(opts mender.Options) updater {
			return mender.New(logging.New("driver"), opts, nil)
		},
		rebooter: reboot.NewSystemd(logging.New("reboot")),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}

	err := newApp(env).RunContext(ctx, os.Args)
	if sig := sigcontext.Received(ctx); sig != nil {
		log.WithField("signal", sig.String()).Warn("interrupted by signal")
	}
	return exitCode(log, err)
}

func exitCode(log logging.SubLogger, err error) int {
	if err == nil {
		return 0
	}
	var exit cli.ExitCoder
	if errors.As(err, &exit) {
		if msg := exit.Error(); msg != "" {
			log.Error(msg)
		}
		return exit.ExitCode()
	}
	log.WithError(err).Error("invalid invocation")
	return exitUsage
}
