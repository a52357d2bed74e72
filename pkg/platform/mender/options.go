package mender

import (
	"strings"

	"github.com/pkg/errors"
)

// Verbosity is the driver's log verbosity, passed on to the agent.
type Verbosity int

const (
	VerbosityInfo Verbosity = iota
	VerbosityTrace
	VerbosityDebug
	VerbosityNotice
	VerbosityWarning
	VerbosityError
	VerbosityCritical
)

var verbosityNames = []struct {
	v     Verbosity
	name  string
	agent string
}{
	{VerbosityTrace, "trace", "trace"},
	{VerbosityDebug, "debug", "debug"},
	{VerbosityInfo, "info", "info"},
	{VerbosityNotice, "notice", "info"},
	{VerbosityWarning, "warning", "warning"},
	{VerbosityError, "error", "error"},
	{VerbosityCritical, "critical", "fatal"},
}

func (v Verbosity) String() string {
	for _, n := range verbosityNames {
		if n.v == v {
			return n.name
		}
	}
	return "info"
}

// agentLevel is the value given to the agent's log level flag. The agent has
// no notice or critical levels.
func (v Verbosity) agentLevel() string {
	for _, n := range verbosityNames {
		if n.v == v {
			return n.agent
		}
	}
	return "info"
}

// ParseVerbosity accepts the verbosity names, case-insensitively. "warn" is
// accepted for warning.
func ParseVerbosity(s string) (Verbosity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warn" {
		return VerbosityWarning, nil
	}
	for _, n := range verbosityNames {
		if n.name == s {
			return n.v, nil
		}
	}
	return VerbosityInfo, errors.Errorf("unknown verbosity %q", s)
}

// Options configures how the agent is invoked. It is built once with
// NewOptions and not modified afterwards.
type Options struct {
	binary         string
	config         string
	fallbackConfig string
	dataStore      string
	trustedCerts   string
	verbosity      Verbosity
	skipVerify     bool
}

// Option sets a field of Options.
type Option func(*Options)

// NewOptions returns Options for the agent at DefaultBinaryPath with opts
// applied.
func NewOptions(opts ...Option) Options {
	o := Options{
		binary:    DefaultBinaryPath,
		verbosity: VerbosityInfo,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithBinary sets the agent executable. An empty path keeps the default.
func WithBinary(path string) Option {
	return func(o *Options) {
		if path != "" {
			o.binary = path
		}
	}
}

// WithConfig sets the agent's configuration file.
func WithConfig(path string) Option {
	return func(o *Options) { o.config = path }
}

// WithFallbackConfig sets the agent's fallback configuration file.
func WithFallbackConfig(path string) Option {
	return func(o *Options) { o.fallbackConfig = path }
}

// WithDataStore sets the agent's data store directory.
func WithDataStore(path string) Option {
	return func(o *Options) { o.dataStore = path }
}

// WithTrustedCerts sets the certificate bundle the agent trusts.
func WithTrustedCerts(path string) Option {
	return func(o *Options) { o.trustedCerts = path }
}

// WithVerbosity sets the agent's log verbosity.
func WithVerbosity(v Verbosity) Option {
	return func(o *Options) { o.verbosity = v }
}

// WithSkipVerify disables TLS certificate verification in the agent.
func WithSkipVerify(skip bool) Option {
	return func(o *Options) { o.skipVerify = skip }
}

// Binary is the agent executable path.
func (o Options) Binary() string {
	return o.binary
}

// Verbosity is the configured log verbosity.
func (o Options) Verbosity() Verbosity {
	return o.verbosity
}
