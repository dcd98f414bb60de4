package request

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/declient/packages/contract"
)

// MissingValueError reports a nil argument for a required query parameter or
// header. A missing required value is a contract violation by the caller and
// is never silently defaulted.
type MissingValueError struct {
	Param string
	Role  contract.Role
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("missing required %s value %q", e.Role, e.Param)
}

// ArgumentCountError reports a call with the wrong number of arguments
type ArgumentCountError struct {
	Operation string
	Want      int
	Got       int
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("operation %q takes %d arguments, got %d", e.Operation, e.Want, e.Got)
}

// Build resolves one call of op against its argument values. Arguments are
// positional, one per declared parameter; a nil argument means "absent".
// Build performs no I/O and fails only on an arity mismatch or a missing
// required value; no partial query or header state is produced on failure.
//
// Path arguments are substituted into the template verbatim, with no
// percent-encoding. Callers are expected to supply URL-safe identifiers.
func Build(v *contract.Validated, op *contract.Operation, args []any) (*Resolved, error) {
	if len(args) != len(op.Params) {
		return nil, &ArgumentCountError{Operation: op.Name, Want: len(op.Params), Got: len(args)}
	}

	c := v.Contract()

	query, err := resolveQuery(op, args)
	if err != nil {
		return nil, err
	}
	headers, err := resolveHeaders(op, args)
	if err != nil {
		return nil, err
	}

	resolved := &Resolved{
		Verb:        op.Request.Verb,
		Scheme:      c.Scheme,
		Host:        c.Host,
		Port:        c.EffectivePort(),
		Path:        resolvePath(c, op, args),
		Query:       query,
		Headers:     headers,
		ReadTimeout: op.Request.ReadTimeout(),
	}
	resolved.Body, resolved.HasBody = resolveBody(op, args)

	return resolved, nil
}

// resolvePath substitutes every path placeholder with the string form of its
// argument. Validation guarantees the template/binding bijection, so no
// placeholder survives resolution.
func resolvePath(c *contract.Contract, op *contract.Operation, args []any) string {
	path := c.BasePath + op.Request.Endpoint
	for i, p := range op.Params {
		if p.Role != contract.RolePath {
			continue
		}
		path = strings.ReplaceAll(path, "{"+p.Name+"}", stringify(args[i]))
	}
	return path
}

// resolveQuery emits required pairs first, then optional non-nil pairs,
// declaration order preserved within each group. A nil optional argument is
// omitted entirely, not emitted with an empty value.
func resolveQuery(op *contract.Operation, args []any) (string, error) {
	required, optional, err := partition(op, args, contract.RoleQuery)
	if err != nil {
		return "", err
	}

	segments := make([]string, 0, len(required)+len(optional))
	for _, pair := range required {
		segments = append(segments, pair.Name+"="+pair.Value)
	}
	for _, pair := range optional {
		segments = append(segments, pair.Name+"="+pair.Value)
	}
	return strings.Join(segments, "&"), nil
}

func resolveHeaders(op *contract.Operation, args []any) ([]HeaderPair, error) {
	required, optional, err := partition(op, args, contract.RoleHeader)
	if err != nil {
		return nil, err
	}
	return append(required, optional...), nil
}

// partition is a stable two-pass split by the required flag. Ad hoc grouping
// would make emission order depend on map iteration; downstream order is
// observable, so declaration order is preserved instead.
func partition(op *contract.Operation, args []any, role contract.Role) (required, optional []HeaderPair, err error) {
	for i, p := range op.Params {
		if p.Role != role {
			continue
		}
		if p.Required {
			if args[i] == nil {
				return nil, nil, &MissingValueError{Param: p.Name, Role: role}
			}
			required = append(required, HeaderPair{Name: p.Name, Value: stringify(args[i])})
			continue
		}
		if args[i] != nil {
			optional = append(optional, HeaderPair{Name: p.Name, Value: stringify(args[i])})
		}
	}
	return required, optional, nil
}

// resolveBody picks the payload from the body binding, if any. Verbs that
// never transmit a payload yield no body even when a binding exists.
func resolveBody(op *contract.Operation, args []any) (string, bool) {
	if !op.Request.Verb.AllowsBody() {
		return "", false
	}
	for i, p := range op.Params {
		if p.Role != contract.RoleBody {
			continue
		}
		if args[i] == nil {
			return "", false
		}
		return stringify(args[i]), true
	}
	return "", false
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
