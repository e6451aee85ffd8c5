// Package tcmc holds the shared pieces of the TCMC admin API wrappers: the
// CommonResult envelope, paging types, and the Requester contract.
package tcmc

import (
	"context"
	"fmt"

	"github.com/tcmc-hq/tcmc-client/pkg/httpclient"
)

// Requester is the subset of the dispatcher the wrappers call.
type Requester interface {
	Get(ctx context.Context, desc httpclient.Descriptor) (httpclient.Body, error)
	Post(ctx context.Context, desc httpclient.Descriptor) (httpclient.Body, error)
	Put(ctx context.Context, desc httpclient.Descriptor) (httpclient.Body, error)
}

// Result is the backend's CommonResult envelope.
type Result[T any] struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data T      `json:"data"`
}

// APIError is returned when the envelope carries a failure code.
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tcmc api error %d: %s", e.Code, e.Msg)
}

// Success codes used by the backend.
const (
	CodeOK     = 0
	CodeLegacy = 200
)

// Unwrap decodes a CommonResult payload and returns its data.
func Unwrap[T any](body httpclient.Body) (T, error) {
	var zero T
	res, err := httpclient.DecodeBody[Result[T]](body)
	if err != nil {
		return zero, err
	}
	if res.Code != CodeOK && res.Code != CodeLegacy {
		return zero, &APIError{Code: res.Code, Msg: res.Msg}
	}
	return res.Data, nil
}

// Call issues a request through fn and unwraps the envelope.
func Call[T any](ctx context.Context, fn func(context.Context, httpclient.Descriptor) (httpclient.Body, error), desc httpclient.Descriptor) (T, error) {
	var zero T
	body, err := fn(ctx, desc)
	if err != nil {
		return zero, err
	}
	return Unwrap[T](body)
}

// PageParam selects one page of a paged listing. Filters are passed through
// as query parameters.
type PageParam struct {
	PageNo   int
	PageSize int
	Filters  map[string]any
}

// Params renders the page request as descriptor params.
func (p PageParam) Params() map[string]any {
	out := make(map[string]any, len(p.Filters)+2)
	for k, v := range p.Filters {
		out[k] = v
	}
	if p.PageNo > 0 {
		out["pageNo"] = p.PageNo
	}
	if p.PageSize > 0 {
		out["pageSize"] = p.PageSize
	}
	return out
}

// PageResult is one page of a listing.
type PageResult[T any] struct {
	List  []T   `json:"list"`
	Total int64 `json:"total"`
}
