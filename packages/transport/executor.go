package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/declient/packages/request"
)

const (
	// DefaultConnectTimeout is the instance-wide connection deadline
	DefaultConnectTimeout = 30 * time.Second
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

// ErrCancelled reports that the caller cancelled the context during a
// blocking send. It is a distinct outcome, never folded into the synthetic
// 500 failure response.
var ErrCancelled = errors.New("call cancelled")

// Executor owns a pooled HTTP client and sends resolved requests through it.
// One executor is exclusively owned by one client runtime; it is safe for
// concurrent use and released once at teardown.
type Executor struct {
	httpClient          *http.Client
	connectTimeout      time.Duration
	maxIdleConns        int
	maxIdleConnsPerHost int
}

// Option configures an Executor
type Option func(*Executor)

// WithConnectTimeout sets the connection-establishment deadline, applied
// once per underlying connection
func WithConnectTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.connectTimeout = d
	}
}

// WithMaxIdleConns sets the connection pool size
func WithMaxIdleConns(total, perHost int) Option {
	return func(e *Executor) {
		e.maxIdleConns = total
		e.maxIdleConnsPerHost = perHost
	}
}

// NewExecutor creates an executor with its own pooled connection client
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		connectTimeout:      DefaultConnectTimeout,
		maxIdleConns:        DefaultMaxIdleConns,
		maxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
	}
	for _, opt := range opts {
		opt(e)
	}

	dialer := &net.Dialer{Timeout: e.connectTimeout}
	e.httpClient = &http.Client{
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			MaxIdleConns:        e.maxIdleConns,
			MaxIdleConnsPerHost: e.maxIdleConnsPerHost,
			IdleConnTimeout:     DefaultIdleConnTimeout,
		},
	}
	return e
}

// Execute sends one resolved request and maps the outcome:
//   - HTTP exchange completed: Response with the received status, headers
//     and body (absent when zero bytes were returned)
//   - malformed target or any I/O failure, including read-timeout expiry:
//     the synthetic 500 response, nil error
//   - caller cancellation: nil response, error wrapping ErrCancelled
//
// The resolved request's read timeout bounds the whole exchange; it is
// distinct from the executor's connect timeout.
func (e *Executor) Execute(ctx context.Context, req *request.Resolved) (*Response, error) {
	callCtx := ctx
	if req.ReadTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, req.ReadTimeout)
		defer cancel()
	}

	var body io.Reader
	if req.HasBody {
		body = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(callCtx, string(req.Verb), req.URL(), body)
	if err != nil {
		// Path arguments are substituted verbatim, so a malformed component
		// first surfaces here; degrade rather than raise.
		return SyntheticFailure(), nil
	}
	if req.HasBody {
		// Preserve the explicit-empty-body case; a zero ContentLength with a
		// non-nil reader would otherwise be sent as unknown length.
		httpReq.ContentLength = int64(len(req.Body))
	}

	for _, h := range req.Headers {
		httpReq.Header.Add(h.Name, h.Value)
	}

	httpResp, err := e.httpClient.Do(httpReq)
	if err != nil {
		if cancelled(ctx, err) {
			return nil, fmt.Errorf("%w: %s %s", ErrCancelled, req.Verb, req.Path)
		}
		return SyntheticFailure(), nil
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		if cancelled(ctx, err) {
			return nil, fmt.Errorf("%w: %s %s", ErrCancelled, req.Verb, req.Path)
		}
		return SyntheticFailure(), nil
	}

	if len(respBody) == 0 {
		return NewEmptyResponse(httpResp.StatusCode, httpResp.Header)
	}
	return NewResponse(httpResp.StatusCode, httpResp.Header, string(respBody))
}

// cancelled distinguishes caller cancellation from a deadline expiry. The
// read timeout runs on a derived context, so an expired deadline never
// cancels the caller's context.
func cancelled(callerCtx context.Context, err error) bool {
	if callerCtx.Err() == context.Canceled {
		return true
	}
	return errors.Is(err, context.Canceled)
}

// Close releases the pooled connections. Safe to call more than once.
func (e *Executor) Close() {
	e.httpClient.CloseIdleConnections()
}
