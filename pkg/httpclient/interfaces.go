package httpclient

import "context"

// Transport issues one normalized request against the backend.
// Implementations must return transport failures unchanged.
type Transport interface {
	Do(ctx context.Context, req Request) (*Response, error)
}
