// Package contract defines the declarative client model and its validation.
//
// A Contract describes one HTTP API surface: the target host, a base path,
// and a set of operations whose parameters are bound to path, query, header
// or body roles. Contracts can come from any source (YAML manifest, the
// programmatic builder, or a custom Loader); validation is agnostic to the
// loading mechanism. Only a *Validated contract is accepted by the request
// builder and the client runtime.
package contract
