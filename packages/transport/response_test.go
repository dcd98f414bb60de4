package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResponse_ValidatesStatus(t *testing.T) {
	_, err := NewResponse(99, nil, "")
	assert.Error(t, err)

	_, err = NewResponse(600, nil, "")
	assert.Error(t, err)

	resp, err := NewResponse(100, nil, "")
	require.NoError(t, err)
	assert.Equal(t, 100, resp.Status)

	resp, err = NewResponse(599, nil, "")
	require.NoError(t, err)
	assert.Equal(t, 599, resp.Status)
}

func TestResponse_BodyPresence(t *testing.T) {
	withBody, err := NewResponse(200, nil, "")
	require.NoError(t, err)
	body, present := withBody.Body()
	assert.True(t, present, "explicit empty body is still a body")
	assert.Equal(t, "", body)

	empty, err := NewEmptyResponse(204, nil)
	require.NoError(t, err)
	_, present = empty.Body()
	assert.False(t, present)
}

func TestResponse_ErrorRanges(t *testing.T) {
	cases := []struct {
		status  int
		isError bool
	}{
		{100, false},
		{200, false},
		{299, false},
		{302, false},
		{399, false},
		{400, true},
		{404, true},
		{500, true},
		{599, true},
	}
	for _, tc := range cases {
		resp, err := NewEmptyResponse(tc.status, nil)
		require.NoError(t, err)
		assert.Equal(t, tc.isError, resp.IsError(), "status %d", tc.status)
	}
}

func TestResponse_IsSuccess(t *testing.T) {
	ok, _ := NewEmptyResponse(201, nil)
	assert.True(t, ok.IsSuccess())

	nope, _ := NewEmptyResponse(404, nil)
	assert.False(t, nope.IsSuccess())
}

func TestSyntheticFailure(t *testing.T) {
	resp := SyntheticFailure()

	assert.Equal(t, 500, resp.Status)
	assert.Empty(t, resp.Headers)
	_, present := resp.Body()
	assert.False(t, present)
	assert.True(t, resp.IsError())
}

func TestResponse_Header(t *testing.T) {
	resp, err := NewEmptyResponse(200, map[string][]string{
		"Content-Type": {"application/json", "ignored"},
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", resp.Header("Content-Type"))
	assert.Equal(t, "", resp.Header("X-Missing"))
}

func TestResponse_JSON(t *testing.T) {
	resp, err := NewResponse(200, nil, `{"user":{"name":"ada","id":7}}`)
	require.NoError(t, err)

	assert.Equal(t, "ada", resp.JSON("user.name").String())
	assert.Equal(t, int64(7), resp.JSON("user.id").Int())
	assert.False(t, resp.JSON("user.missing").Exists())

	empty, err := NewEmptyResponse(204, nil)
	require.NoError(t, err)
	assert.False(t, empty.JSON("anything").Exists())
}
