package mender

// DefaultBinaryPath is where the update agent is installed on the host.
const DefaultBinaryPath = "/usr/bin/mender-update"

type hostCommand = string

const (
	CommandInstall      hostCommand = "install"
	CommandCommit       hostCommand = "commit"
	CommandResume       hostCommand = "resume"
	CommandRollback     hostCommand = "rollback"
	CommandShowArtifact hostCommand = "show-artifact"
	CommandShowProvides hostCommand = "show-provides"
)

type hostFlag = string

const (
	FlagConfig         hostFlag = "--config"
	FlagFallbackConfig hostFlag = "--fallback-config"
	FlagData           hostFlag = "--data"
	FlagLogLevel       hostFlag = "--log-level"
	FlagTrustedCerts   hostFlag = "--trusted-certs"
	FlagSkipVerify     hostFlag = "--skip-verify"
	FlagRebootExitCode hostFlag = "--reboot-exit-code"
	FlagStopBefore     hostFlag = "--stop-before"
)

// Exit codes used by the agent.
const (
	exitSuccess                = 0
	exitCouldNotFulfillRequest = 1
	exitNoUpdateInProgress     = 2
	exitRebootRequired         = 4
)
