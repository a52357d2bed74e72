package mender

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// Class is the kind of failure reported by the agent.
type Class int

const (
	// ClassCouldNotFulfillRequest is the generic failure, retrying is up to
	// the caller.
	ClassCouldNotFulfillRequest Class = iota + 1
	// ClassNoUpdateInProgress means there was nothing to commit, resume or
	// roll back.
	ClassNoUpdateInProgress
	// ClassRebootRequired means the host must reboot before the update can
	// proceed, typically followed by a Resume.
	ClassRebootRequired
	// ClassUnknown is an exit code the agent isn't documented to use.
	ClassUnknown
)

func (c Class) String() string {
	switch c {
	case ClassCouldNotFulfillRequest:
		return "could not fulfill request"
	case ClassNoUpdateInProgress:
		return "no update in progress"
	case ClassRebootRequired:
		return "reboot required"
	case ClassUnknown:
		return "unknown failure"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Sentinels for use with errors.Is.
var (
	ErrCouldNotFulfillRequest = &Failure{Class: ClassCouldNotFulfillRequest}
	ErrNoUpdateInProgress     = &Failure{Class: ClassNoUpdateInProgress}
	ErrRebootRequired         = &Failure{Class: ClassRebootRequired}
	ErrUnknown                = &Failure{Class: ClassUnknown}
)

// Failure is returned when the agent did not complete an operation.
type Failure struct {
	Class Class
	// Message is the agent's first line of output, empty if there was none
	// or the agent terminated abnormally.
	Message string
	// Records are the log records parsed from the agent's stderr, in the
	// order they arrived.
	Records []LogRecord
	// ExitCode is the agent's exit code, or -1 when it was killed.
	ExitCode int

	cause error
}

func (f *Failure) Error() string {
	msg := f.Class.String()
	if f.ExitCode >= 0 {
		msg = fmt.Sprintf("%s (exit code %d)", msg, f.ExitCode)
	} else {
		msg += " (abnormal termination)"
	}
	if f.Message != "" {
		msg += ": " + f.Message
	}
	if f.cause != nil {
		msg += ": " + f.cause.Error()
	}
	return msg
}

// Is matches any Failure of the same class.
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	return ok && t.Class == f.Class
}

// Unwrap exposes why an abnormal termination happened, for instance the
// context being canceled.
func (f *Failure) Unwrap() error {
	return f.cause
}

// Abnormal reports whether the agent was terminated rather than exiting.
func (f *Failure) Abnormal() bool {
	return f.ExitCode < 0
}

// ClassOf returns the Class of the Failure wrapped in err, or zero when err
// isn't one.
func ClassOf(err error) Class {
	var f *Failure
	if errors.As(err, &f) {
		return f.Class
	}
	return 0
}

// termination is how the agent process ended.
type termination struct {
	exited bool
	code   int
	signal string
	// cause is set when the agent was killed because the operation was
	// canceled.
	cause error
}

func terminationOf(state *os.ProcessState) termination {
	if state == nil {
		return termination{code: -1}
	}
	if state.Exited() {
		return termination{exited: true, code: state.ExitCode()}
	}
	return termination{code: -1, signal: state.String()}
}

// translate turns the process termination into the operation result. The
// output line and records are only trusted when the agent exited on its own.
func translate(term termination, output string, records []LogRecord) (string, error) {
	if !term.exited {
		return "", &Failure{Class: ClassCouldNotFulfillRequest, ExitCode: -1, cause: term.cause}
	}

	var class Class
	switch term.code {
	case exitSuccess:
		return output, nil
	case exitCouldNotFulfillRequest:
		class = ClassCouldNotFulfillRequest
	case exitNoUpdateInProgress:
		class = ClassNoUpdateInProgress
	case exitRebootRequired:
		class = ClassRebootRequired
	default:
		class = ClassUnknown
	}
	return "", &Failure{
		Class:    class,
		Message:  output,
		Records:  records,
		ExitCode: term.code,
	}
}
