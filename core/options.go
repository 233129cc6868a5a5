package chatstream

import (
	"time"

	"github.com/minekb/minekb-core/core/events"
)

type ClientOptions struct {
	defaultStreamDeadline time.Duration
}

type ClientOption func(*ClientOptions)

// WithDefaultStreamDeadline sets the deadline applied to every stream
// invocation that does not set its own. Zero keeps streams unbounded.
func WithDefaultStreamDeadline(deadline time.Duration) ClientOption {
	return func(o *ClientOptions) {
		o.defaultStreamDeadline = deadline
	}
}

type StreamOptions struct {
	onStart   func()
	onToken   func(token string)
	onContext func(sources []events.Source)
	onEnd     func(content string)
	onError   func(err error)

	deadline time.Duration
}

type StreamOption func(*StreamOptions)

// WithStartCallback registers a callback fired when the backend begins
// generating. Fired at most once; duplicate start events are dropped.
func WithStartCallback(callback func()) StreamOption {
	return func(o *StreamOptions) {
		o.onStart = callback
	}
}

// WithTokenCallback registers the callback fired for every response text
// fragment, in arrival order. Mandatory for streaming.
func WithTokenCallback(callback func(token string)) StreamOption {
	return func(o *StreamOptions) {
		o.onToken = callback
	}
}

// WithContextCallback registers a callback fired with the retrieved
// sources grounding the response. May fire before, between, or after
// token callbacks; only per-channel order is guaranteed.
func WithContextCallback(callback func(sources []events.Source)) StreamOption {
	return func(o *StreamOptions) {
		o.onContext = callback
	}
}

// WithEndCallback registers a callback fired once with the complete
// aggregated response when the stream ends successfully.
func WithEndCallback(callback func(content string)) StreamOption {
	return func(o *StreamOptions) {
		o.onEnd = callback
	}
}

// WithErrorCallback registers a callback fired once when the stream
// terminates with a failure, including issuance failures. The same error
// is also returned from StreamMessage.
func WithErrorCallback(callback func(err error)) StreamOption {
	return func(o *StreamOptions) {
		o.onError = callback
	}
}

// WithStreamDeadline bounds this invocation: if no terminal event
// arrives in time, the stream fails with ErrStreamDeadlineExceeded.
// Zero means unbounded, matching the backend's own behavior.
func WithStreamDeadline(deadline time.Duration) StreamOption {
	return func(o *StreamOptions) {
		o.deadline = deadline
	}
}

type StartupOptions struct {
	onProgress func(progress events.StartupProgress)
	onReady    func()
	onError    func(err error)

	deadline time.Duration
}

type StartupOption func(*StartupOptions)

// WithStartupProgressCallback registers a callback fired for every
// startup progress event, terminal ones included.
func WithStartupProgressCallback(callback func(progress events.StartupProgress)) StartupOption {
	return func(o *StartupOptions) {
		o.onProgress = callback
	}
}

// WithReadyCallback registers a callback fired once when the backend
// reports its final startup step succeeded.
func WithReadyCallback(callback func()) StartupOption {
	return func(o *StartupOptions) {
		o.onReady = callback
	}
}

// WithStartupErrorCallback registers a callback fired once when startup
// fails or the watch is interrupted.
func WithStartupErrorCallback(callback func(err error)) StartupOption {
	return func(o *StartupOptions) {
		o.onError = callback
	}
}

// WithStartupDeadline bounds the watch the same way WithStreamDeadline
// bounds a stream.
func WithStartupDeadline(deadline time.Duration) StartupOption {
	return func(o *StartupOptions) {
		o.deadline = deadline
	}
}
