package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/declient/packages/contract"
)

func validate(t *testing.T, c *contract.Contract) *contract.Validated {
	t.Helper()
	v, errs := contract.Validate(c)
	require.Empty(t, errs)
	return v
}

func operation(t *testing.T, v *contract.Validated, name string) *contract.Operation {
	t.Helper()
	op, ok := v.Operation(name)
	require.True(t, ok)
	return op
}

func TestBuild_WorkedExample(t *testing.T) {
	v := validate(t, contract.NewBuilder("UserAPI", "api.test").
		Scheme(contract.SchemeHTTPS).
		BasePath("/v1").
		ConnectTimeout(10).
		Operation("getUser", contract.VerbGet, "/users/{id}").
		ReadTimeout(5).
		PathParam("id", "id").
		Header("auth", "Authorization", true).
		Done().
		Build())

	resolved, err := Build(v, operation(t, v, "getUser"), []any{"42", "Bearer x"})

	require.NoError(t, err)
	assert.Equal(t, "https://api.test:443/v1/users/42", resolved.URL())
	assert.Equal(t, contract.VerbGet, resolved.Verb)
	assert.Equal(t, []HeaderPair{{Name: "Authorization", Value: "Bearer x"}}, resolved.Headers)
	assert.False(t, resolved.HasBody)
	assert.Equal(t, 5*time.Second, resolved.ReadTimeout)
}

func TestBuild_PathSubstitutionIsTotal(t *testing.T) {
	v := validate(t, contract.NewBuilder("API", "api.test").
		Operation("getItem", contract.VerbGet, "/orders/{orderId}/items/{itemId}").
		PathParam("orderId", "orderId").
		PathParam("itemId", "itemId").
		Done().
		Build())

	resolved, err := Build(v, operation(t, v, "getItem"), []any{"7", "3"})

	require.NoError(t, err)
	assert.Equal(t, "/orders/7/items/3", resolved.Path)
	assert.NotContains(t, resolved.Path, "{")
	assert.NotContains(t, resolved.Path, "}")
}

func TestBuild_PathArgumentVerbatim(t *testing.T) {
	v := validate(t, contract.NewBuilder("API", "api.test").
		Operation("get", contract.VerbGet, "/files/{name}").
		PathParam("name", "name").
		Done().
		Build())

	// no percent-encoding is performed, by contract
	resolved, err := Build(v, operation(t, v, "get"), []any{"a b"})

	require.NoError(t, err)
	assert.Equal(t, "/files/a b", resolved.Path)
}

func queryContract(t *testing.T) *contract.Validated {
	return validate(t, contract.NewBuilder("API", "api.test").
		Operation("search", contract.VerbGet, "/search").
		QueryParam("q", "q", true).
		QueryParam("lang", "lang", true).
		QueryParam("page", "page", false).
		QueryParam("limit", "limit", false).
		Done().
		Build())
}

func TestBuild_QueryRequiredThenOptionalInDeclarationOrder(t *testing.T) {
	v := queryContract(t)

	resolved, err := Build(v, operation(t, v, "search"), []any{"go", "en", "2", "50"})

	require.NoError(t, err)
	assert.Equal(t, "q=go&lang=en&page=2&limit=50", resolved.Query)
}

func TestBuild_NilOptionalQueryOmitted(t *testing.T) {
	v := queryContract(t)

	resolved, err := Build(v, operation(t, v, "search"), []any{"go", "en", nil, "50"})

	require.NoError(t, err)
	assert.Equal(t, "q=go&lang=en&limit=50", resolved.Query)
	assert.NotContains(t, resolved.Query, "page")
}

func TestBuild_MissingRequiredQueryFails(t *testing.T) {
	v := queryContract(t)

	resolved, err := Build(v, operation(t, v, "search"), []any{"go", nil, "2", "50"})

	require.Error(t, err)
	assert.Nil(t, resolved, "no partial state on failure")

	var missing *MissingValueError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "lang", missing.Param)
	assert.Equal(t, contract.RoleQuery, missing.Role)
}

func headerContract(t *testing.T) *contract.Validated {
	return validate(t, contract.NewBuilder("API", "api.test").
		Operation("fetch", contract.VerbGet, "/fetch").
		Header("trace", "X-Trace", false).
		Header("auth", "Authorization", true).
		Header("tenant", "X-Tenant", false).
		Done().
		Build())
}

func TestBuild_HeadersRequiredFirstThenOptional(t *testing.T) {
	v := headerContract(t)

	resolved, err := Build(v, operation(t, v, "fetch"), []any{"t-1", "Bearer x", "acme"})

	require.NoError(t, err)
	assert.Equal(t, []HeaderPair{
		{Name: "Authorization", Value: "Bearer x"},
		{Name: "X-Trace", Value: "t-1"},
		{Name: "X-Tenant", Value: "acme"},
	}, resolved.Headers)
}

func TestBuild_NilOptionalHeaderOmitted(t *testing.T) {
	v := headerContract(t)

	resolved, err := Build(v, operation(t, v, "fetch"), []any{nil, "Bearer x", nil})

	require.NoError(t, err)
	assert.Equal(t, []HeaderPair{{Name: "Authorization", Value: "Bearer x"}}, resolved.Headers)
}

func TestBuild_MissingRequiredHeaderFails(t *testing.T) {
	v := headerContract(t)

	_, err := Build(v, operation(t, v, "fetch"), []any{"t-1", nil, nil})

	var missing *MissingValueError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Authorization", missing.Param)
	assert.Equal(t, contract.RoleHeader, missing.Role)
}

func TestBuild_BodyForPost(t *testing.T) {
	v := validate(t, contract.NewBuilder("API", "api.test").
		Operation("create", contract.VerbPost, "/items").
		Body("payload").
		Done().
		Build())

	resolved, err := Build(v, operation(t, v, "create"), []any{`{"name":"ada"}`})

	require.NoError(t, err)
	assert.True(t, resolved.HasBody)
	assert.Equal(t, `{"name":"ada"}`, resolved.Body)
}

func TestBuild_ExplicitEmptyBodyDistinctFromAbsent(t *testing.T) {
	v := validate(t, contract.NewBuilder("API", "api.test").
		Operation("create", contract.VerbPost, "/items").
		Body("payload").
		Done().
		Build())

	withEmpty, err := Build(v, operation(t, v, "create"), []any{""})
	require.NoError(t, err)
	assert.True(t, withEmpty.HasBody)

	withNil, err := Build(v, operation(t, v, "create"), []any{nil})
	require.NoError(t, err)
	assert.False(t, withNil.HasBody)
}

func TestBuild_BodyNotAttachedForGet(t *testing.T) {
	c := contract.NewBuilder("API", "api.test").
		Operation("fetch", contract.VerbGet, "/items").
		Body("payload").
		Done().
		Build()
	v := validate(t, c)

	resolved, err := Build(v, operation(t, v, "fetch"), []any{"ignored"})

	require.NoError(t, err)
	assert.False(t, resolved.HasBody)
}

func TestBuild_NonStringArgumentsStringified(t *testing.T) {
	v := validate(t, contract.NewBuilder("API", "api.test").
		Operation("list", contract.VerbGet, "/items").
		QueryParam("limit", "limit", false).
		Done().
		Build())

	resolved, err := Build(v, operation(t, v, "list"), []any{12})

	require.NoError(t, err)
	assert.Equal(t, "limit=12", resolved.Query)
}

func TestBuild_ArgumentCountMismatch(t *testing.T) {
	v := queryContract(t)

	_, err := Build(v, operation(t, v, "search"), []any{"go"})

	var arity *ArgumentCountError
	require.ErrorAs(t, err, &arity)
	assert.Equal(t, 4, arity.Want)
	assert.Equal(t, 1, arity.Got)
}

func TestBuild_Idempotent(t *testing.T) {
	v := validate(t, contract.NewBuilder("API", "api.test").
		Scheme(contract.SchemeHTTPS).
		BasePath("/v2").
		Operation("search", contract.VerbPost, "/search/{scope}").
		PathParam("scope", "scope").
		QueryParam("q", "q", true).
		QueryParam("page", "page", false).
		Header("auth", "Authorization", true).
		Header("trace", "X-Trace", false).
		Body("payload").
		Done().
		Build())
	args := []any{"global", "go", "3", "Bearer x", "t-9", `{"filters":[]}`}
	op := operation(t, v, "search")

	first, err := Build(v, op, args)
	require.NoError(t, err)
	second, err := Build(v, op, args)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolved_URLWithoutQuery(t *testing.T) {
	r := &Resolved{Scheme: contract.SchemeHTTP, Host: "api.test", Port: 8080, Path: "/ping"}
	assert.Equal(t, "http://api.test:8080/ping", r.URL())
}
