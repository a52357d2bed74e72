package config

import (
	"io/ioutil"
	"os"

	"github.com/amazonlinux/bottlerocket/menderwatch/pkg/platform/mender"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// DefaultPath is read when no settings file is given explicitly.
const DefaultPath = "/etc/menderwatch/settings.toml"

// Settings are the persistent defaults for driving the agent.
type Settings struct {
	Binary         string `toml:"binary"`
	Config         string `toml:"config"`
	FallbackConfig string `toml:"fallback-config"`
	Data           string `toml:"data"`
	LogLevel       string `toml:"log-level"`
	TrustedCerts   string `toml:"trusted-certs"`
	SkipVerify     bool   `toml:"skip-verify"`
	// Reboot schedules a reboot when the agent asks for one.
	Reboot bool `toml:"reboot"`
}

// Load reads the settings at path. When path is empty DefaultPath is used and
// may be absent.
func Load(path string) (*Settings, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, errors.Wrapf(err, "unable to read settings %q", path)
	}
	return Parse(raw)
}

// Parse unmarshals TOML settings.
func Parse(raw []byte) (*Settings, error) {
	settings := Settings{}
	if err := toml.Unmarshal(raw, &settings); err != nil {
		return nil, errors.Wrap(err, "unable to parse settings")
	}
	return &settings, nil
}

// Options converts the settings into agent invocation options.
func (s *Settings) Options() (mender.Options, error) {
	verbosity := mender.VerbosityInfo
	if s.LogLevel != "" {
		v, err := mender.ParseVerbosity(s.LogLevel)
		if err != nil {
			return mender.Options{}, errors.WithMessage(err, "log-level")
		}
		verbosity = v
	}
	return mender.NewOptions(
		mender.WithBinary(s.Binary),
		mender.WithConfig(s.Config),
		mender.WithFallbackConfig(s.FallbackConfig),
		mender.WithDataStore(s.Data),
		mender.WithTrustedCerts(s.TrustedCerts),
		mender.WithVerbosity(verbosity),
		mender.WithSkipVerify(s.SkipVerify),
	), nil
}
