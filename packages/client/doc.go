// Package client composes a validated contract, the request builder and the
// transport executor into an invocable client runtime.
//
// One runtime is constructed per contract and exclusively owns its pooled
// connection client and concurrency gate. Calls are synchronous and safe to
// issue from multiple goroutines; Close releases the owned resources exactly
// once, workers first, then the connection pool.
package client
