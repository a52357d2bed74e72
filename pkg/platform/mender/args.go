package mender

// buildArguments returns the argument vector, without the program name, that
// runs op with the agent. Global flags come first, then the command keyword,
// the command's flags and finally the artifact source for installs.
func buildArguments(opts Options, op Operation, stop Checkpoint) []string {
	args := make([]string, 0, 16)

	if opts.config != "" {
		args = append(args, FlagConfig, opts.config)
	}
	if opts.fallbackConfig != "" {
		args = append(args, FlagFallbackConfig, opts.fallbackConfig)
	}
	if opts.dataStore != "" {
		args = append(args, FlagData, opts.dataStore)
	}
	if opts.trustedCerts != "" {
		args = append(args, FlagTrustedCerts, opts.trustedCerts)
	}
	args = append(args, FlagLogLevel, opts.verbosity.agentLevel())
	if opts.skipVerify {
		args = append(args, FlagSkipVerify)
	}

	args = append(args, op.command)

	if op.rebootAware() {
		args = append(args, FlagRebootExitCode)
	}
	if stop != NoCheckpoint {
		args = append(args, FlagStopBefore, stop.String())
	}
	if op.command == CommandInstall {
		args = append(args, op.source)
	}
	return args
}
