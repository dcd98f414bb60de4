package contract

import (
	"fmt"
	"regexp"
	"strings"
)

// ErrorKind classifies a contract defect
type ErrorKind string

const (
	// NotAnInterface: the declaring construct carries concrete state
	NotAnInterface ErrorKind = "NotAnInterface"
	// StrayAbstractMethod: a method with no endpoint binding and no default implementation
	StrayAbstractMethod ErrorKind = "StrayAbstractMethod"
	// CallMethodNotAbstract: a call operation that supplies its own implementation
	CallMethodNotAbstract ErrorKind = "CallMethodNotAbstract"
	// WrongReturnType: a call operation whose declared result is not ClientResponse
	WrongReturnType ErrorKind = "WrongReturnType"
	// BodyNotString: a body parameter with a non-textual declared type
	BodyNotString ErrorKind = "BodyNotString"
	// MultipleBodyParams: more than one body parameter on one operation
	MultipleBodyParams ErrorKind = "MultipleBodyParams"
	// UnboundPlaceholder: a {name} in the endpoint template with no path parameter
	UnboundPlaceholder ErrorKind = "UnboundPlaceholder"
	// UnusedPathParam: a path parameter whose name never appears in the template
	UnusedPathParam ErrorKind = "UnusedPathParam"
	// DuplicateBindingName: two bindings of the same role sharing one name
	DuplicateBindingName ErrorKind = "DuplicateBindingName"
	// MissingHost: the contract declares no host
	MissingHost ErrorKind = "MissingHost"
	// InvalidPort: port outside [0, 65535]
	InvalidPort ErrorKind = "InvalidPort"
	// InvalidScheme: scheme other than http or https
	InvalidScheme ErrorKind = "InvalidScheme"
	// InvalidVerb: HTTP method outside the supported set
	InvalidVerb ErrorKind = "InvalidVerb"
)

// Error is one contract defect, reported against the offending element
type Error struct {
	Kind      ErrorKind
	Contract  string
	Operation string
	Param     string
	Detail    string
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	if e.Contract != "" {
		fmt.Fprintf(&sb, " contract=%s", e.Contract)
	}
	if e.Operation != "" {
		fmt.Fprintf(&sb, " operation=%s", e.Operation)
	}
	if e.Param != "" {
		fmt.Fprintf(&sb, " param=%s", e.Param)
	}
	if e.Detail != "" {
		fmt.Fprintf(&sb, ": %s", e.Detail)
	}
	return sb.String()
}

// ErrorList is the full defect list for one contract
type ErrorList []*Error

func (el ErrorList) Error() string {
	msgs := make([]string, len(el))
	for i, e := range el {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// HasKind reports whether any error in the list has the given kind
func (el ErrorList) HasKind(kind ErrorKind) bool {
	for _, e := range el {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Warning is a non-fatal finding from Lint
type Warning struct {
	Operation string
	Message   string
}

var placeholderPattern = regexp.MustCompile(`\{([^{}/]+)\}`)

// Validate runs every structural check on the contract and either promotes
// it to a Validated contract or returns the complete defect list. Checks do
// not short-circuit: a contract with several independent problems reports
// all of them in one pass. The contract is never mutated.
func Validate(c *Contract) (*Validated, ErrorList) {
	var errs ErrorList

	report := func(e *Error) {
		e.Contract = c.Name
		errs = append(errs, e)
	}

	if c.Kind != KindInterface {
		report(&Error{Kind: NotAnInterface, Detail: fmt.Sprintf("declared on %q", c.Kind)})
	}
	if c.Host == "" {
		report(&Error{Kind: MissingHost})
	}
	if c.Port < 0 || c.Port > 65535 {
		report(&Error{Kind: InvalidPort, Detail: fmt.Sprintf("port %d", c.Port)})
	}
	if c.Scheme != SchemeHTTP && c.Scheme != SchemeHTTPS {
		report(&Error{Kind: InvalidScheme, Detail: fmt.Sprintf("scheme %q", c.Scheme)})
	}

	for i := range c.Operations {
		op := &c.Operations[i]
		opReport := func(e *Error) {
			e.Operation = op.Name
			report(e)
		}

		if op.Request == nil {
			if !op.Provided {
				opReport(&Error{Kind: StrayAbstractMethod})
			}
			continue
		}

		if op.Provided {
			opReport(&Error{Kind: CallMethodNotAbstract})
		}
		if op.Returns != ClientResponseType {
			opReport(&Error{Kind: WrongReturnType, Detail: fmt.Sprintf("declared %q", op.Returns)})
		}
		if !validVerb(op.Request.Verb) {
			opReport(&Error{Kind: InvalidVerb, Detail: fmt.Sprintf("verb %q", op.Request.Verb)})
		}

		validateBodyParams(op, opReport)
		validatePathBindings(op, opReport)
		validateDuplicateNames(op, opReport)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &Validated{contract: c}, nil
}

func validVerb(v Verb) bool {
	for _, known := range Verbs {
		if v == known {
			return true
		}
	}
	return false
}

func validateBodyParams(op *Operation, report func(*Error)) {
	bodies := op.BodyParams()
	if len(bodies) > 1 {
		report(&Error{Kind: MultipleBodyParams, Detail: fmt.Sprintf("%d body parameters", len(bodies))})
	}
	for _, p := range bodies {
		if p.Type != "string" {
			report(&Error{Kind: BodyNotString, Param: p.Arg, Detail: fmt.Sprintf("declared %q", p.Type)})
		}
	}
}

// validatePathBindings enforces the template/path-parameter bijection: every
// placeholder is bound exactly once and every path parameter is used.
func validatePathBindings(op *Operation, report func(*Error)) {
	placeholders := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(op.Request.Endpoint, -1) {
		placeholders[m[1]] = true
	}

	bound := make(map[string]bool)
	for _, p := range op.ParamsByRole(RolePath) {
		bound[p.Name] = true
		if !placeholders[p.Name] {
			report(&Error{Kind: UnusedPathParam, Param: p.Name})
		}
	}
	for name := range placeholders {
		if !bound[name] {
			report(&Error{Kind: UnboundPlaceholder, Param: name})
		}
	}
}

func validateDuplicateNames(op *Operation, report func(*Error)) {
	seen := make(map[Role]map[string]bool)
	for _, p := range op.Params {
		if p.Role == RoleBody {
			continue
		}
		if seen[p.Role] == nil {
			seen[p.Role] = make(map[string]bool)
		}
		if seen[p.Role][p.Name] {
			report(&Error{Kind: DuplicateBindingName, Param: p.Name, Detail: string(p.Role)})
		}
		seen[p.Role][p.Name] = true
	}
}

// Lint reports non-fatal findings that pass validation but deserve
// attention, currently a body binding on a verb that never transmits one.
func Lint(c *Contract) []Warning {
	var warnings []Warning
	for i := range c.Operations {
		op := &c.Operations[i]
		if op.Request == nil {
			continue
		}
		if !op.Request.Verb.AllowsBody() && len(op.BodyParams()) > 0 {
			warnings = append(warnings, Warning{
				Operation: op.Name,
				Message:   fmt.Sprintf("body parameter is never transmitted for %s requests", op.Request.Verb),
			})
		}
	}
	return warnings
}
