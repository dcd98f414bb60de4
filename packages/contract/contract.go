package contract

import "time"

const (
	// DefaultConnectTimeoutSeconds is applied when a contract does not set one
	DefaultConnectTimeoutSeconds = 30
	// DefaultReadTimeoutSeconds is applied when an operation does not set one
	DefaultReadTimeoutSeconds = 30
)

// Scheme is the URI scheme a contract targets
type Scheme string

const (
	SchemeHTTP  Scheme = "http"
	SchemeHTTPS Scheme = "https"
)

// DefaultPort returns the well-known port for the scheme
func (s Scheme) DefaultPort() int {
	if s == SchemeHTTPS {
		return 443
	}
	return 80
}

// Verb is the HTTP method of a bound operation
type Verb string

const (
	VerbGet    Verb = "GET"
	VerbHead   Verb = "HEAD"
	VerbDelete Verb = "DELETE"
	VerbPost   Verb = "POST"
	VerbPut    Verb = "PUT"
)

// AllowsBody reports whether a request payload is transmitted for the verb.
// A body binding on a verb that does not allow one is kept in the model but
// never sent; Lint surfaces it as a warning.
func (v Verb) AllowsBody() bool {
	return v == VerbPost || v == VerbPut
}

// Verbs lists the supported HTTP methods
var Verbs = []Verb{VerbGet, VerbHead, VerbDelete, VerbPost, VerbPut}

// Kind is the kind of construct a contract was declared on
type Kind string

const (
	// KindInterface is the only kind that passes validation: the declaring
	// construct must carry no concrete state
	KindInterface Kind = "interface"
	KindStruct    Kind = "struct"
)

// Role is the transport role a parameter is bound to
type Role string

const (
	RolePath   Role = "path"
	RoleQuery  Role = "query"
	RoleHeader Role = "header"
	RoleBody   Role = "body"
)

// Param binds one argument slot of an operation to its transport role.
// Slots are positional: the i-th Param consumes the i-th call argument.
type Param struct {
	// Arg is the declared argument name, used in diagnostics only
	Arg string
	// Type is the declared argument type; body parameters must be "string"
	Type string
	Role Role
	// Name is the path placeholder, query parameter or header name.
	// Unused for body parameters.
	Name string
	// Required applies to query and header roles. A required parameter with
	// a nil argument fails the build; an optional one is omitted.
	Required bool
}

// RequestSpec is the endpoint binding of a call operation
type RequestSpec struct {
	Verb Verb
	// Endpoint is a path template, possibly containing {name} placeholders
	Endpoint           string
	ReadTimeoutSeconds int64
}

// ReadTimeout returns the per-call deadline as a duration
func (r *RequestSpec) ReadTimeout() time.Duration {
	secs := r.ReadTimeoutSeconds
	if secs <= 0 {
		secs = DefaultReadTimeoutSeconds
	}
	return time.Duration(secs) * time.Second
}

// Operation is one declared method of a contract. Operations with a non-nil
// Request are call operations implemented by the engine; the rest must be
// provided (carry their own default implementation).
type Operation struct {
	Name string
	// Request is nil for non-call methods
	Request *RequestSpec
	// Provided marks a method that carries a default implementation
	Provided bool
	// Returns is the declared result type name; call operations must
	// declare ClientResponse
	Returns string
	Params  []Param
}

// BodyParams returns the body-bound parameters in declaration order
func (o *Operation) BodyParams() []Param {
	var out []Param
	for _, p := range o.Params {
		if p.Role == RoleBody {
			out = append(out, p)
		}
	}
	return out
}

// ParamsByRole returns the parameters with the given role, declaration order preserved
func (o *Operation) ParamsByRole(role Role) []Param {
	var out []Param
	for _, p := range o.Params {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out
}

// ClientResponseType is the result type every call operation must declare
const ClientResponseType = "ClientResponse"

// Contract is the raw declarative description of one API surface.
// It is inert until promoted by Validate.
type Contract struct {
	Name   string
	Kind   Kind
	Scheme Scheme
	Host   string
	// Port 0 means unset; the scheme default applies
	Port                  int
	BasePath              string
	ConnectTimeoutSeconds int64
	Operations            []Operation
}

// ConnectTimeout returns the instance-wide connection deadline
func (c *Contract) ConnectTimeout() time.Duration {
	secs := c.ConnectTimeoutSeconds
	if secs <= 0 {
		secs = DefaultConnectTimeoutSeconds
	}
	return time.Duration(secs) * time.Second
}

// EffectivePort resolves the unset-port sentinel against the scheme default
func (c *Contract) EffectivePort() int {
	if c.Port == 0 {
		return c.Scheme.DefaultPort()
	}
	return c.Port
}

// Validated wraps a contract that passed validation. It is the only form
// accepted by the request builder and the client runtime, and is immutable
// for the life of any client constructed from it.
type Validated struct {
	contract *Contract
}

// Contract returns the underlying contract
func (v *Validated) Contract() *Contract {
	return v.contract
}

// Operation looks up a call operation by name. Non-call methods are not
// addressable through the runtime and are not returned.
func (v *Validated) Operation(name string) (*Operation, bool) {
	for i := range v.contract.Operations {
		op := &v.contract.Operations[i]
		if op.Name == name && op.Request != nil {
			return op, true
		}
	}
	return nil, false
}

// CallOperations returns the call operations in declaration order
func (v *Validated) CallOperations() []*Operation {
	var out []*Operation
	for i := range v.contract.Operations {
		if v.contract.Operations[i].Request != nil {
			out = append(out, &v.contract.Operations[i])
		}
	}
	return out
}
