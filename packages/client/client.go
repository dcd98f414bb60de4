package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/abdul-hamid-achik/declient/packages/contract"
	"github.com/abdul-hamid-achik/declient/packages/history"
	"github.com/abdul-hamid-achik/declient/packages/metrics"
	"github.com/abdul-hamid-achik/declient/packages/request"
	"github.com/abdul-hamid-achik/declient/packages/transport"
)

// ErrClosed reports a call against a runtime that was already torn down
var ErrClosed = errors.New("client is closed")

// UnknownOperationError reports a call to an operation the contract does not
// declare (or declares as a non-call method)
type UnknownOperationError struct {
	Operation string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation %q", e.Operation)
}

// Client is the runtime for one validated contract. It owns a transport
// executor and an optional concurrency gate, both created at construction
// and released exactly once by Close.
type Client struct {
	contract *contract.Validated
	executor *transport.Executor

	limiter *rate.Limiter
	sem     chan struct{}

	recorder *metrics.Recorder
	log      *history.Store

	mu       sync.RWMutex
	closed   bool
	inflight sync.WaitGroup
	once     sync.Once
}

// Option configures a Client
type Option func(*Client)

// WithMaxConcurrency bounds the number of calls in flight at once.
// Zero or negative means unbounded.
func WithMaxConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.sem = make(chan struct{}, n)
		}
	}
}

// WithRateLimit throttles outgoing calls to rps requests per second with the
// given burst
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMetrics records call latency and outcomes into rec
func WithMetrics(rec *metrics.Recorder) Option {
	return func(c *Client) {
		c.recorder = rec
	}
}

// WithHistory logs every executed call into the store. The store stays
// owned by the caller; Close does not close it.
func WithHistory(store *history.Store) Option {
	return func(c *Client) {
		c.log = store
	}
}

// WithExecutor replaces the owned transport executor; the runtime takes
// ownership and closes it at teardown
func WithExecutor(e *transport.Executor) Option {
	return func(c *Client) {
		c.executor = e
	}
}

// New constructs a runtime for a validated contract. The pooled connection
// client is bound to the contract's connect timeout for the life of the
// instance.
func New(v *contract.Validated, opts ...Option) *Client {
	c := &Client{contract: v}
	for _, opt := range opts {
		opt(c)
	}
	if c.executor == nil {
		c.executor = transport.NewExecutor(
			transport.WithConnectTimeout(v.Contract().ConnectTimeout()),
		)
	}
	return c
}

// Contract returns the validated contract the runtime serves
func (c *Client) Contract() *contract.Validated {
	return c.contract
}

// Metrics returns the attached recorder, nil when none was configured
func (c *Client) Metrics() *metrics.Recorder {
	return c.recorder
}

// Call invokes one declared operation with positional argument values, one
// per declared parameter; nil means "absent". The call blocks until the
// transport returns, the operation's read timeout elapses, or ctx is
// cancelled.
//
// Transport failures come back as a 500 response with a nil error; errors
// are reserved for caller-side defects (unknown operation, wrong arity,
// missing required value), cancellation and a closed runtime.
func (c *Client) Call(ctx context.Context, operation string, args ...any) (*transport.Response, error) {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return nil, ErrClosed
	}
	c.inflight.Add(1)
	c.mu.RUnlock()
	defer c.inflight.Done()

	op, ok := c.contract.Operation(operation)
	if !ok {
		return nil, &UnknownOperationError{Operation: operation}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %s", transport.ErrCancelled, operation)
		}
	}

	if c.sem != nil {
		select {
		case c.sem <- struct{}{}:
			defer func() { <-c.sem }()
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", transport.ErrCancelled, operation)
		}
	}

	resolved, err := request.Build(c.contract, op, args)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.executor.Execute(ctx, resolved)
	duration := time.Since(start)

	c.record(op, resolved, resp, err, duration)
	return resp, err
}

func (c *Client) record(op *contract.Operation, resolved *request.Resolved, resp *transport.Response, err error, duration time.Duration) {
	if c.recorder != nil {
		isError := resp != nil && resp.IsError()
		c.recorder.Record(duration, isError, err != nil)
	}
	if c.log != nil {
		entry := history.Entry{
			Contract:   c.contract.Contract().Name,
			Operation:  op.Name,
			Verb:       string(resolved.Verb),
			URL:        resolved.URL(),
			Outcome:    "response",
			DurationMs: duration.Milliseconds(),
		}
		if err != nil {
			entry.Outcome = "cancelled"
		} else {
			entry.Status = resp.Status
		}
		// History is best-effort; a failed insert never fails the call
		_ = c.log.Record(entry)
	}
}

// Close tears the runtime down: no new calls are admitted, in-flight calls
// are drained, then the pooled connection client is released. Release runs
// exactly once; later calls are no-ops returning nil.
func (c *Client) Close() error {
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()

		c.inflight.Wait()
		c.executor.Close()
	})
	return nil
}
