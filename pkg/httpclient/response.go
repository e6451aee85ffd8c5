package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrEmptyBody is returned when decoding a response without a payload.
var ErrEmptyBody = errors.New("response body is empty")

// Response is the full response envelope.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// Payload returns the response body as a decodable Body.
func (r *Response) Payload() Body {
	if r == nil {
		return nil
	}
	return Body(r.Body)
}

// Body is the payload of a response.
type Body []byte

// Decode unmarshals the JSON payload into v.
func (b Body) Decode(v any) error {
	if len(b) == 0 {
		return ErrEmptyBody
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

func (b Body) String() string { return string(b) }

// DecodeBody decodes a JSON payload into a value of type T.
func DecodeBody[T any](b Body) (T, error) {
	var out T
	err := b.Decode(&out)
	return out, err
}

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       []byte
}

func (e *StatusError) Error() string {
	snippet := strings.TrimSpace(string(e.Body))
	if len(snippet) > 512 {
		snippet = snippet[:512]
	}
	if snippet == "" {
		return fmt.Sprintf("%s %s: http response status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: http response status %d: %s", e.Method, e.URL, e.StatusCode, snippet)
}
