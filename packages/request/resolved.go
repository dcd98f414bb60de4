package request

import (
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/declient/packages/contract"
)

// HeaderPair is one request header. Headers are kept as an ordered slice
// rather than a map so the emission order of the build stays observable.
type HeaderPair struct {
	Name  string
	Value string
}

// Resolved is the fully materialized request produced by Build. It carries
// everything the transport executor needs and nothing it has to compute.
type Resolved struct {
	Verb   contract.Verb
	Scheme contract.Scheme
	Host   string
	Port   int
	Path   string
	// Query is the pre-joined raw query string, empty when no pair applies
	Query   string
	Headers []HeaderPair
	// Body is the request payload; HasBody distinguishes an explicit empty
	// string from no payload at all
	Body        string
	HasBody     bool
	ReadTimeout time.Duration
}

// URL assembles the request target. Path segments are not re-encoded here;
// the builder substitutes path arguments verbatim, so malformed components
// surface when the executor parses the result.
func (r *Resolved) URL() string {
	url := fmt.Sprintf("%s://%s:%d%s", r.Scheme, r.Host, r.Port, r.Path)
	if r.Query != "" {
		url += "?" + r.Query
	}
	return url
}
