package httpclient

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout is applied to every call unless Config.Timeout overrides it.
const DefaultTimeout = 6000000 * time.Millisecond

// Config is the read-only configuration shared by all calls of a Dispatcher.
type Config struct {
	BaseURL            string
	DefaultContentType string
	Timeout            time.Duration
}

func normalizeConfig(cfg Config) Config {
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if strings.TrimSpace(cfg.DefaultContentType) == "" {
		cfg.DefaultContentType = ContentTypeJSON
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg
}

// Dispatcher turns call descriptors into transport requests. It holds no
// per-call state and is safe for concurrent use.
type Dispatcher struct {
	cfg       Config
	transport Transport
}

// New builds a Dispatcher. A nil transport falls back to a resty transport.
func New(cfg Config, transport Transport) *Dispatcher {
	if transport == nil {
		transport = NewRestyTransport()
	}
	return &Dispatcher{cfg: normalizeConfig(cfg), transport: transport}
}

// Config returns the effective configuration.
func (d *Dispatcher) Config() Config { return d.cfg }

// Get issues a GET and returns the response payload.
func (d *Dispatcher) Get(ctx context.Context, desc Descriptor) (Body, error) {
	return d.body(ctx, http.MethodGet, desc)
}

// Post issues a POST and returns the response payload.
func (d *Dispatcher) Post(ctx context.Context, desc Descriptor) (Body, error) {
	return d.body(ctx, http.MethodPost, desc)
}

// Put issues a PUT and returns the response payload.
func (d *Dispatcher) Put(ctx context.Context, desc Descriptor) (Body, error) {
	return d.body(ctx, http.MethodPut, desc)
}

// Delete issues a DELETE and returns the response payload.
func (d *Dispatcher) Delete(ctx context.Context, desc Descriptor) (Body, error) {
	return d.body(ctx, http.MethodDelete, desc)
}

// PostOriginal issues a POST and returns the whole response envelope.
func (d *Dispatcher) PostOriginal(ctx context.Context, desc Descriptor) (*Response, error) {
	return d.request(ctx, http.MethodPost, desc)
}

// Download issues a GET in blob mode and returns the whole response envelope.
func (d *Dispatcher) Download(ctx context.Context, desc Descriptor) (*Response, error) {
	desc.ResponseType = ResponseTypeBlob
	return d.request(ctx, http.MethodGet, desc)
}

// Upload issues a multipart POST and returns the whole response envelope.
// Any HeadersType on the descriptor is replaced.
func (d *Dispatcher) Upload(ctx context.Context, desc Descriptor) (*Response, error) {
	desc.HeadersType = ContentTypeMultipart
	return d.request(ctx, http.MethodPost, desc)
}

func (d *Dispatcher) body(ctx context.Context, method string, desc Descriptor) (Body, error) {
	resp, err := d.request(ctx, method, desc)
	if err != nil {
		return nil, err
	}
	return resp.Payload(), nil
}

func (d *Dispatcher) request(ctx context.Context, method string, desc Descriptor) (*Response, error) {
	if d == nil || d.transport == nil {
		return nil, errors.New("dispatcher is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := buildRequest(d.cfg, method, desc)
	if err != nil {
		return nil, err
	}
	return d.transport.Do(ctx, req)
}
