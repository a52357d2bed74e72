package mender

// Operation is one of the update lifecycle steps the agent performs.
type Operation struct {
	command hostCommand
	source  string
}

// Install installs the artifact found at source, a local path or URL.
func Install(source string) Operation {
	return Operation{command: CommandInstall, source: source}
}

// Commit commits an installed update.
func Commit() Operation {
	return Operation{command: CommandCommit}
}

// Resume continues an update that was stopped at a checkpoint or interrupted
// by a reboot.
func Resume() Operation {
	return Operation{command: CommandResume}
}

// Rollback rolls back an uncommitted update.
func Rollback() Operation {
	return Operation{command: CommandRollback}
}

func showArtifact() Operation {
	return Operation{command: CommandShowArtifact}
}

func showProvides() Operation {
	return Operation{command: CommandShowProvides}
}

// Command is the agent keyword selecting the operation.
func (o Operation) Command() string {
	return o.command
}

// Source is the artifact location for Install, empty otherwise.
func (o Operation) Source() string {
	return o.source
}

// rebootAware operations may need a reboot before they can complete, the
// agent is told to exit with a distinct code instead of rebooting itself.
func (o Operation) rebootAware() bool {
	return o.command == CommandInstall || o.command == CommandResume
}

func (o Operation) String() string {
	if o.command == CommandInstall {
		return o.command + " " + o.source
	}
	return o.command
}
