// Package transport executes resolved requests over a pooled HTTP client
// and maps every outcome into the uniform Response type.
//
// Transport-level failures (unreachable host, malformed target, read-timeout
// expiry) degrade to a synthetic 500 response instead of an error, so call
// sites branch on status uniformly. Caller cancellation is the one outcome
// reported as an error, wrapping ErrCancelled.
package transport
