package reboot

import (
	"context"
	"os"
	"strconv"

	"github.com/amazonlinux/bottlerocket/menderwatch/pkg/logging"
	systemd "github.com/coreos/go-systemd/v22/dbus"
	dbus "github.com/godbus/dbus/v5"
	"github.com/pkg/errors"
)

var systemdSocket = "/run/systemd/private"

const (
	rebootTarget = "reboot.target"
	rebootMode   = "replace-irreversibly"
	jobDone      = "done"
)

// unitStarter is the part of a systemd connection used to reboot.
type unitStarter interface {
	StartUnitContext(ctx context.Context, name string, mode string, ch chan<- string) (int, error)
	Close()
}

// Systemd reboots the host by starting systemd's reboot target.
type Systemd struct {
	log     logging.SubLogger
	connect func() (unitStarter, error)
}

// NewSystemd returns a Systemd rebooter talking to systemd's private socket.
func NewSystemd(log logging.SubLogger) *Systemd {
	return &Systemd{
		log: log,
		connect: func() (unitStarter, error) {
			return connect()
		},
	}
}

// Reboot queues the reboot job and waits for systemd to accept it.
func (s *Systemd) Reboot(ctx context.Context) error {
	conn, err := s.connect()
	if err != nil {
		return err
	}
	defer conn.Close()

	result := make(chan string, 1)
	id, err := conn.StartUnitContext(ctx, rebootTarget, rebootMode, result)
	if err != nil {
		return errors.Wrapf(err, "unable to start %s", rebootTarget)
	}
	s.log.WithField("job", id).Info("reboot queued")

	select {
	case res := <-result:
		if res != jobDone {
			return errors.Errorf("reboot job finished as %q", res)
		}
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "waiting on reboot job")
	}
}

func connect() (*systemd.Conn, error) {
	dialer := func() (*dbus.Conn, error) {
		conn, err := dbus.Dial("unix:path=" + systemdSocket)
		if err != nil {
			return nil, errors.Wrap(err, "unable to connect to systemd socket")
		}
		// Authenticate with the user's authority.
		methods := []dbus.Auth{dbus.AuthExternal(strconv.Itoa(os.Getuid()))}
		err = conn.Auth(methods)
		if err != nil {
			conn.Close()
			return nil, errors.Wrap(err, "unable to authenticate with systemd")
		}
		return conn, nil
	}
	return systemd.NewConnection(dialer)
}
