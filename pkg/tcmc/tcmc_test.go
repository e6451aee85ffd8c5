package tcmc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcmc-hq/tcmc-client/pkg/httpclient"
)

func TestUnwrapSuccessCodes(t *testing.T) {
	for _, body := range []string{
		`{"code":0,"msg":"","data":[1,2]}`,
		`{"code":200,"msg":"ok","data":[1,2]}`,
	} {
		got, err := Unwrap[[]int](httpclient.Body(body))
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, got)
	}
}

func TestUnwrapFailureCode(t *testing.T) {
	_, err := Unwrap[string](httpclient.Body(`{"code":1001,"msg":"node exists"}`))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 1001, apiErr.Code)
	assert.Equal(t, "node exists", apiErr.Msg)
}

func TestCallPropagatesTransportError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Call[string](context.Background(), func(context.Context, httpclient.Descriptor) (httpclient.Body, error) {
		return nil, boom
	}, httpclient.Descriptor{URL: "/x"})
	assert.Same(t, boom, err)
}

func TestPageParamParams(t *testing.T) {
	p := PageParam{PageNo: 2, PageSize: 50, Filters: map[string]any{"nickname": "li"}}
	assert.Equal(t, map[string]any{"pageNo": 2, "pageSize": 50, "nickname": "li"}, p.Params())

	assert.Empty(t, PageParam{}.Params())
}
