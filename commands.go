package main

import (
	"fmt"

	"github.com/amazonlinux/bottlerocket/menderwatch/pkg/config"
	"github.com/amazonlinux/bottlerocket/menderwatch/pkg/logging"
	"github.com/amazonlinux/bottlerocket/menderwatch/pkg/platform/mender"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func newApp(env *environment) *cli.App {
	stopBefore := &cli.StringFlag{
		Name:  "stop-before",
		Usage: "stop the agent before entering `STATE`",
	}

	// Query output is meant for scripts, keep all logging off stdout.
	quiet := func(*cli.Context) error {
		return logging.Set(logging.Unsplit(env.stderr))
	}

	return &cli.App{
		Name:  "menderwatch",
		Usage: "drive the mender-update agent through an update",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "settings", Usage: "settings file (default " + config.DefaultPath + ")"},
			&cli.StringFlag{Name: "binary", Usage: "agent executable (default " + mender.DefaultBinaryPath + ")"},
			&cli.StringFlag{Name: "agent-config", Usage: "agent configuration file"},
			&cli.StringFlag{Name: "fallback-config", Usage: "agent fallback configuration file"},
			&cli.StringFlag{Name: "data", Usage: "agent data store directory"},
			&cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, notice, warning, error or critical"},
			&cli.StringFlag{Name: "trusted-certs", Usage: "certificate bundle trusted by the agent"},
			&cli.BoolFlag{Name: "skip-verify", Usage: "skip TLS certificate verification"},
			&cli.BoolFlag{Name: "reboot", Usage: "reboot the host when the agent requires it"},
			&cli.BoolFlag{Name: "debug", Usage: "debug logging"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				return logging.Set(logging.Level("debug"))
			}
			return nil
		},
		ExitErrHandler: func(*cli.Context, error) {},
		Writer:         env.stdout,
		Commands: []*cli.Command{
			{
				Name:      "install",
				Usage:     "install an artifact",
				ArgsUsage: "<path or URL>",
				Flags:     []cli.Flag{stopBefore},
				Action: func(c *cli.Context) error {
					source := c.Args().First()
					if source == "" {
						return cli.Exit("install requires an artifact path or URL", exitUsage)
					}
					return env.run(c, mender.Install(source))
				},
			},
			{
				Name:   "commit",
				Usage:  "commit the update in progress",
				Flags:  []cli.Flag{stopBefore},
				Action: func(c *cli.Context) error { return env.run(c, mender.Commit()) },
			},
			{
				Name:   "resume",
				Usage:  "resume the update in progress",
				Flags:  []cli.Flag{stopBefore},
				Action: func(c *cli.Context) error { return env.run(c, mender.Resume()) },
			},
			{
				Name:   "rollback",
				Usage:  "roll back the update in progress",
				Flags:  []cli.Flag{stopBefore},
				Action: func(c *cli.Context) error { return env.run(c, mender.Rollback()) },
			},
			{
				Name:   "show-artifact",
				Before: quiet,
				Usage:  "print the installed artifact's name",
				Action: func(c *cli.Context) error {
					u, _, err := env.updater(c)
					if err != nil {
						return err
					}
					name, err := u.ShowArtifact(c.Context)
					if err != nil {
						return failureExit(err)
					}
					fmt.Fprintln(env.stdout, name)
					return nil
				},
			},
			{
				Name:   "show-provides",
				Before: quiet,
				Usage:  "print the installed artifact's provides",
				Action: func(c *cli.Context) error {
					u, _, err := env.updater(c)
					if err != nil {
						return err
					}
					provides, err := u.ShowProvides(c.Context)
					if err != nil {
						return failureExit(err)
					}
					for _, p := range provides {
						fmt.Fprintln(env.stdout, p)
					}
					return nil
				},
			},
		},
	}
}

// settings merges the settings file with the flags given on the command line.
func settings(c *cli.Context) (*config.Settings, error) {
	s, err := config.Load(c.String("settings"))
	if err != nil {
		return nil, err
	}
	overrides := []struct {
		flag  string
		field *string
	}{
		{"binary", &s.Binary},
		{"agent-config", &s.Config},
		{"fallback-config", &s.FallbackConfig},
		{"data", &s.Data},
		{"log-level", &s.LogLevel},
		{"trusted-certs", &s.TrustedCerts},
	}
	for _, o := range overrides {
		if c.IsSet(o.flag) {
			*o.field = c.String(o.flag)
		}
	}
	if c.IsSet("skip-verify") {
		s.SkipVerify = c.Bool("skip-verify")
	}
	if c.IsSet("reboot") {
		s.Reboot = c.Bool("reboot")
	}
	return s, nil
}

func (env *environment) updater(c *cli.Context) (updater, *config.Settings, error) {
	s, err := settings(c)
	if err != nil {
		return nil, nil, cli.Exit(err.Error(), exitUsage)
	}
	opts, err := s.Options()
	if err != nil {
		return nil, nil, cli.Exit(err.Error(), exitUsage)
	}
	return env.newUpdater(opts), s, nil
}

// run performs one of the update lifecycle operations.
func (env *environment) run(c *cli.Context, op mender.Operation) error {
	stop, err := mender.ParseCheckpoint(c.String("stop-before"))
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	u, s, err := env.updater(c)
	if err != nil {
		return err
	}

	var out string
	switch op.Command() {
	case mender.CommandInstall:
		progress := newProgressPrinter(env.stdout)
		out, err = u.Install(c.Context, op.Source(), stop, progress.update)
		progress.done()
	case mender.CommandCommit:
		out, err = u.Commit(c.Context, stop)
	case mender.CommandResume:
		out, err = u.Resume(c.Context, stop)
	case mender.CommandRollback:
		out, err = u.Rollback(c.Context, stop)
	default:
		return cli.Exit(fmt.Sprintf("unsupported operation %q", op.Command()), exitUsage)
	}

	if err != nil {
		if errors.Is(err, mender.ErrRebootRequired) && s.Reboot {
			return env.reboot(c)
		}
		var f *mender.Failure
		if errors.As(err, &f) && len(f.Records) > 0 {
			mender.LogSink(logging.New("agent"))(op, f.Records)
		}
		return failureExit(err)
	}
	if out != "" {
		fmt.Fprintln(env.stdout, out)
	}
	return nil
}

func (env *environment) reboot(c *cli.Context) error {
	log := logging.New("main")
	log.Warn("agent requires a reboot, rebooting")
	if err := env.rebooter.Reboot(c.Context); err != nil {
		return cli.Exit(errors.WithMessage(err, "unable to reboot").Error(), 1)
	}
	return nil
}

// failureExit passes the agent's failure class on as the exit code.
func failureExit(err error) error {
	code := 1
	switch mender.ClassOf(err) {
	case mender.ClassNoUpdateInProgress:
		code = 2
	case mender.ClassRebootRequired:
		code = 4
	}
	return cli.Exit(err.Error(), code)
}
