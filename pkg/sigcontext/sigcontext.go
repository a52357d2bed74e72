package sigcontext

import (
	"context"
	"os"
	"os/signal"
	"sync"
)

type receivedKey struct{}

type received struct {
	mu  sync.Mutex
	sig os.Signal
}

// WithSignalCancel is a context that will cancel itself when one of sigs is
// sent to the process. The cancel function releases the signal handlers and
// must be called. Once the context is Done, calling cancel restores the
// runtime's default handling so a second ^C terminates the process outright.
func WithSignalCancel(ctx context.Context, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	rcv := &received{}
	sigctx, ctxcancel := context.WithCancel(context.WithValue(ctx, receivedKey{}, rcv))

	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, sigs...)

	var once sync.Once
	cancel := func() {
		ctxcancel()
		once.Do(func() {
			signal.Stop(sigchan)
		})
	}

	go func() {
		select {
		case <-sigctx.Done():
		case sig := <-sigchan:
			rcv.mu.Lock()
			rcv.sig = sig
			rcv.mu.Unlock()
			ctxcancel()
		}
	}()

	return sigctx, cancel
}

// Received reports the signal that canceled ctx, if any.
func Received(ctx context.Context) os.Signal {
	rcv, ok := ctx.Value(receivedKey{}).(*received)
	if !ok {
		return nil
	}
	rcv.mu.Lock()
	defer rcv.mu.Unlock()
	return rcv.sig
}
