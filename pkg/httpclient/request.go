package httpclient

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// ResponseType hints how the transport should hand back the response body.
type ResponseType string

const (
	ResponseTypeDefault ResponseType = ""
	ResponseTypeBlob    ResponseType = "blob"
)

const (
	ContentTypeJSON      = "application/json"
	ContentTypeForm      = "application/x-www-form-urlencoded"
	ContentTypeMultipart = "multipart/form-data"

	headerContentType = "Content-Type"
)

// Descriptor describes one call before it is normalized. The method is
// implied by the Dispatcher operation it is passed to.
type Descriptor struct {
	URL          string
	Params       map[string]any
	Data         any
	HeadersType  string
	Headers      map[string]string
	ResponseType ResponseType
}

// Request is the transport-level request produced from a Descriptor.
type Request struct {
	Method       string
	URL          string
	Query        url.Values
	Body         any
	Header       http.Header
	Timeout      time.Duration
	ResponseType ResponseType
}

// ContentType returns the effective Content-Type of the request.
func (r Request) ContentType() string {
	return r.Header.Get(headerContentType)
}

// buildRequest merges a descriptor with the dispatcher configuration.
func buildRequest(cfg Config, method string, desc Descriptor) (Request, error) {
	query, err := queryValues(desc.Params)
	if err != nil {
		return Request{}, err
	}

	contentType := desc.HeadersType
	if strings.TrimSpace(contentType) == "" {
		contentType = cfg.DefaultContentType
	}

	header := make(http.Header, len(desc.Headers)+1)
	for k, v := range desc.Headers {
		key := http.CanonicalHeaderKey(strings.TrimSpace(k))
		if key == "" || key == headerContentType {
			continue
		}
		header.Set(key, v)
	}
	header.Set(headerContentType, contentType)

	return Request{
		Method:       method,
		URL:          joinURL(cfg.BaseURL, desc.URL),
		Query:        query,
		Body:         desc.Data,
		Header:       header,
		Timeout:      cfg.Timeout,
		ResponseType: desc.ResponseType,
	}, nil
}

// joinURL prefixes relative paths with the base URL. Absolute URLs pass through.
func joinURL(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base = strings.TrimRight(base, "/")
	if base == "" {
		return path
	}
	if path == "" {
		return base
	}
	return base + "/" + strings.TrimLeft(path, "/")
}

// queryValues flattens descriptor params. Nil values are dropped and slices
// become repeated keys.
func queryValues(params map[string]any) (url.Values, error) {
	if len(params) == 0 {
		return nil, nil
	}
	out := make(url.Values, len(params))
	for key, val := range params {
		if val == nil {
			continue
		}
		rv := reflect.ValueOf(val)
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				continue
			}
			rv = rv.Elem()
		}
		if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				s, err := paramString(rv.Index(i).Interface())
				if err != nil {
					return nil, fmt.Errorf("param %q[%d]: %w", key, i, err)
				}
				out.Add(key, s)
			}
			continue
		}
		s, err := paramString(rv.Interface())
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", key, err)
		}
		out.Set(key, s)
	}
	return out, nil
}

func paramString(v any) (string, error) {
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339), nil
	}
	return cast.ToStringE(v)
}
