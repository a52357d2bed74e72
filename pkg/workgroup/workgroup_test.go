package workgroup

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"gotest.tools/assert"
)

func TestWorkgroupWaitsForAll(t *testing.T) {
	var count int32
	group := WithContext(context.Background())
	for i := 0; i < 4; i++ {
		group.Work(func(context.Context) error {
			atomic.AddInt32(&count, 1)
			return nil
		})
	}
	assert.NilError(t, group.Wait())
	assert.Equal(t, atomic.LoadInt32(&count), int32(4))
}

func TestWorkgroupCancelsOnError(t *testing.T) {
	fail := errors.New("fail")
	group := WithContext(context.Background())
	group.Work(func(context.Context) error {
		return fail
	})
	group.Work(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	assert.Equal(t, group.Wait(), fail)
}
