package contract

// Builder declares a contract in code, for hosts that prefer not to ship a
// manifest file. The result is a raw Contract; it still goes through
// Validate like any other source.
type Builder struct {
	c Contract
}

// NewBuilder starts a contract declaration with the usual defaults
func NewBuilder(name, host string) *Builder {
	return &Builder{c: Contract{
		Name:                  name,
		Kind:                  KindInterface,
		Scheme:                SchemeHTTP,
		Host:                  host,
		ConnectTimeoutSeconds: DefaultConnectTimeoutSeconds,
	}}
}

func (b *Builder) Scheme(s Scheme) *Builder {
	b.c.Scheme = s
	return b
}

func (b *Builder) Port(port int) *Builder {
	b.c.Port = port
	return b
}

func (b *Builder) BasePath(path string) *Builder {
	b.c.BasePath = path
	return b
}

// ConnectTimeout sets the instance-wide connection deadline in seconds
func (b *Builder) ConnectTimeout(seconds int64) *Builder {
	b.c.ConnectTimeoutSeconds = seconds
	return b
}

// Kind overrides the declaring construct kind; useful in tests, real
// contracts stay interfaces
func (b *Builder) Kind(k Kind) *Builder {
	b.c.Kind = k
	return b
}

// Operation declares a call operation bound to verb and endpoint template
func (b *Builder) Operation(name string, verb Verb, endpoint string) *OperationBuilder {
	b.c.Operations = append(b.c.Operations, Operation{
		Name:    name,
		Returns: ClientResponseType,
		Request: &RequestSpec{
			Verb:               verb,
			Endpoint:           endpoint,
			ReadTimeoutSeconds: DefaultReadTimeoutSeconds,
		},
	})
	return &OperationBuilder{parent: b, index: len(b.c.Operations) - 1}
}

// Provided declares a non-call method carrying its own implementation
func (b *Builder) Provided(name, returns string) *Builder {
	b.c.Operations = append(b.c.Operations, Operation{
		Name:     name,
		Returns:  returns,
		Provided: true,
	})
	return b
}

// Build returns the declared contract
func (b *Builder) Build() *Contract {
	return &b.c
}

// OperationBuilder declares the parameter bindings of one call operation
type OperationBuilder struct {
	parent *Builder
	index  int
}

func (ob *OperationBuilder) op() *Operation {
	return &ob.parent.c.Operations[ob.index]
}

// ReadTimeout sets the per-call deadline in seconds
func (ob *OperationBuilder) ReadTimeout(seconds int64) *OperationBuilder {
	ob.op().Request.ReadTimeoutSeconds = seconds
	return ob
}

// Returns overrides the declared result type; useful in validator tests
func (ob *OperationBuilder) Returns(typeName string) *OperationBuilder {
	ob.op().Returns = typeName
	return ob
}

// PathParam binds the next argument slot to a path placeholder
func (ob *OperationBuilder) PathParam(arg, name string) *OperationBuilder {
	return ob.param(Param{Arg: arg, Type: "string", Role: RolePath, Name: name})
}

// QueryParam binds the next argument slot to a query parameter
func (ob *OperationBuilder) QueryParam(arg, name string, required bool) *OperationBuilder {
	return ob.param(Param{Arg: arg, Type: "string", Role: RoleQuery, Name: name, Required: required})
}

// Header binds the next argument slot to a request header
func (ob *OperationBuilder) Header(arg, name string, required bool) *OperationBuilder {
	return ob.param(Param{Arg: arg, Type: "string", Role: RoleHeader, Name: name, Required: required})
}

// Body binds the next argument slot to the request payload
func (ob *OperationBuilder) Body(arg string) *OperationBuilder {
	return ob.param(Param{Arg: arg, Type: "string", Role: RoleBody})
}

// TypedParam binds a slot with an explicit declared type, for validator tests
// exercising non-textual bodies
func (ob *OperationBuilder) TypedParam(p Param) *OperationBuilder {
	return ob.param(p)
}

func (ob *OperationBuilder) param(p Param) *OperationBuilder {
	op := ob.op()
	op.Params = append(op.Params, p)
	return ob
}

// Done returns to the contract builder
func (ob *OperationBuilder) Done() *Builder {
	return ob.parent
}
