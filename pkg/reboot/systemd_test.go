package reboot

import (
	"context"
	"errors"
	"testing"

	"github.com/amazonlinux/bottlerocket/menderwatch/internal/testoutput"
	"github.com/amazonlinux/bottlerocket/menderwatch/pkg/logging"
	"gotest.tools/assert"
)

type testConn struct {
	result   string
	startErr error

	started string
	mode    string
	closed  bool
}

func (c *testConn) StartUnitContext(_ context.Context, name string, mode string, ch chan<- string) (int, error) {
	c.started = name
	c.mode = mode
	if c.startErr != nil {
		return 0, c.startErr
	}
	if c.result != "" {
		ch <- c.result
	}
	return 42, nil
}

func (c *testConn) Close() {
	c.closed = true
}

func testSystemd(t *testing.T, conn *testConn, connErr error) *Systemd {
	testoutput.Capture(t)
	return &Systemd{
		log: logging.New("reboot"),
		connect: func() (unitStarter, error) {
			if connErr != nil {
				return nil, connErr
			}
			return conn, nil
		},
	}
}

func TestReboot(t *testing.T) {
	conn := &testConn{result: "done"}
	err := testSystemd(t, conn, nil).Reboot(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, conn.started, "reboot.target")
	assert.Equal(t, conn.mode, "replace-irreversibly")
	assert.Assert(t, conn.closed)
}

func TestRebootJobFailed(t *testing.T) {
	conn := &testConn{result: "failed"}
	err := testSystemd(t, conn, nil).Reboot(context.Background())
	assert.ErrorContains(t, err, `finished as "failed"`)
}

func TestRebootStartError(t *testing.T) {
	conn := &testConn{startErr: errors.New("denied")}
	err := testSystemd(t, conn, nil).Reboot(context.Background())
	assert.ErrorContains(t, err, "unable to start reboot.target: denied")
	assert.Assert(t, conn.closed)
}

func TestRebootConnectError(t *testing.T) {
	err := testSystemd(t, nil, errors.New("no socket")).Reboot(context.Background())
	assert.ErrorContains(t, err, "no socket")
}

func TestRebootCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := testSystemd(t, &testConn{}, nil).Reboot(ctx)
	assert.Assert(t, errors.Is(err, context.Canceled))
}
