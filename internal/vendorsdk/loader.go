package vendorsdk

import (
	"context"
	"log/slog"
	"sync"
)

type bufferedCall struct {
	kind    CallKind
	payload map[string]any
}

// Loader is the buffering stub installed in front of a vendor SDK before it
// has signaled initialization. Calls made while not ready are queued and
// flushed in enqueue order on SetReady, so nothing is dropped and relative
// order is preserved.
type Loader struct {
	mu     sync.Mutex
	ready  bool
	queue  []bufferedCall
	sink   Caller
	logger *slog.Logger
}

// NewLoader wraps sink with a pre-ready buffer.
func NewLoader(sink Caller, logger *slog.Logger) *Loader {
	return &Loader{sink: sink, logger: logger}
}

// Ready reports whether the vendor SDK has signaled initialization.
func (l *Loader) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready
}

// Call forwards to the vendor when ready, otherwise buffers.
func (l *Loader) Call(ctx context.Context, kind CallKind, payload map[string]any) {
	l.mu.Lock()
	if !l.ready {
		l.queue = append(l.queue, bufferedCall{kind: kind, payload: payload})
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()
	l.sink.Call(ctx, kind, payload)
}

// SetReady marks the SDK initialized and flushes the buffer in order.
// Flushed calls run with a background context: the requests that queued them
// have long since been answered.
func (l *Loader) SetReady() {
	l.mu.Lock()
	queued := l.queue
	l.queue = nil
	l.ready = true
	l.mu.Unlock()

	if len(queued) > 0 {
		l.logger.Info("VENDOR_BUFFER_FLUSHED", "calls", len(queued))
	}
	for _, c := range queued {
		l.sink.Call(context.Background(), c.kind, c.payload)
	}
}
