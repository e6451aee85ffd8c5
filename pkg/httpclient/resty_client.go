package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// MultipartForm is the payload of an upload.
type MultipartForm struct {
	Fields map[string]string
	Files  []FormFile
}

// FormFile is one file part of a MultipartForm.
type FormFile struct {
	Field  string
	Name   string
	Reader io.Reader
}

// RestyTransport adapts resty.Client to the Transport interface.
type RestyTransport struct {
	client *resty.Client
}

// NewRestyTransport creates a transport on a fresh resty client. Timeouts are
// applied per request from Request.Timeout.
func NewRestyTransport() *RestyTransport {
	return &RestyTransport{client: resty.New()}
}

// NewRestyTransportWithClient wraps an existing resty client.
func NewRestyTransportWithClient(c *resty.Client) *RestyTransport {
	if c == nil {
		c = resty.New()
	}
	return &RestyTransport{client: c}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	return c
}

// Do executes the request. Non-2xx responses are returned as *StatusError.
func (t *RestyTransport) Do(ctx context.Context, req Request) (*Response, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	r := t.client.R().SetContext(ctx)
	for k, vals := range req.Header {
		for _, v := range vals {
			r.Header.Add(k, v)
		}
	}
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if err := setBody(r, req); err != nil {
		return nil, err
	}

	blob := req.ResponseType == ResponseTypeBlob
	if blob {
		r.SetDoNotParseResponse(true)
	}

	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return nil, err
	}

	body := resp.Body()
	if blob {
		raw := resp.RawBody()
		if raw != nil {
			body, err = io.ReadAll(raw)
			raw.Close()
			if err != nil {
				return nil, fmt.Errorf("read response body: %w", err)
			}
		}
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &StatusError{
			Method:     req.Method,
			URL:        req.URL,
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       body,
		}
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Header:     resp.Header(),
		Body:       body,
	}, nil
}

// setBody encodes the request body according to the effective content type.
func setBody(r *resty.Request, req Request) error {
	mediaType, _, _ := mime.ParseMediaType(req.ContentType())
	if strings.HasPrefix(mediaType, "multipart/") {
		form, err := toMultipart(req.Body)
		if err != nil {
			return err
		}
		return setMultipart(r, form)
	}
	if req.Body == nil {
		return nil
	}

	switch body := req.Body.(type) {
	case *MultipartForm, MultipartForm:
		return fmt.Errorf("multipart body requires a multipart content type, got %q", mediaType)
	case map[string]string:
		if mediaType == ContentTypeForm {
			r.SetFormData(body)
			return nil
		}
	case string, []byte, io.Reader:
		r.SetBody(body)
		return nil
	}

	payload, err := json.Marshal(req.Body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	r.SetBody(payload)
	return nil
}

// toMultipart converts an upload payload into form parts. Flat maps become
// fields; a bare reader, byte slice or file becomes a single "file" part.
func toMultipart(body any) (MultipartForm, error) {
	switch b := body.(type) {
	case nil:
		return MultipartForm{}, nil
	case MultipartForm:
		return b, nil
	case *MultipartForm:
		if b == nil {
			return MultipartForm{}, nil
		}
		return *b, nil
	case map[string]string:
		return MultipartForm{Fields: b}, nil
	case map[string]any:
		form := MultipartForm{Fields: make(map[string]string, len(b))}
		for k, v := range b {
			switch fv := v.(type) {
			case nil:
				continue
			case *os.File:
				form.Files = append(form.Files, FormFile{Field: k, Name: filepath.Base(fv.Name()), Reader: fv})
			case io.Reader:
				form.Files = append(form.Files, FormFile{Field: k, Name: k, Reader: fv})
			case []byte:
				form.Files = append(form.Files, FormFile{Field: k, Name: k, Reader: bytes.NewReader(fv)})
			default:
				s, err := paramString(v)
				if err != nil {
					return MultipartForm{}, fmt.Errorf("multipart field %q: %w", k, err)
				}
				form.Fields[k] = s
			}
		}
		return form, nil
	case *os.File:
		return MultipartForm{Files: []FormFile{{Field: "file", Name: filepath.Base(b.Name()), Reader: b}}}, nil
	case io.Reader:
		return MultipartForm{Files: []FormFile{{Field: "file", Name: "file", Reader: b}}}, nil
	case []byte:
		return MultipartForm{Files: []FormFile{{Field: "file", Name: "file", Reader: bytes.NewReader(b)}}}, nil
	}
	return MultipartForm{}, fmt.Errorf("cannot send %T as multipart/form-data", body)
}

// setMultipart lets resty write the form; it replaces Content-Type with one
// carrying the boundary.
func setMultipart(r *resty.Request, form MultipartForm) error {
	fields := form.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	r.SetMultipartFormData(fields)
	for _, f := range form.Files {
		if f.Reader == nil {
			return fmt.Errorf("multipart file %q has no reader", f.Field)
		}
		field := f.Field
		if field == "" {
			field = "file"
		}
		r.SetFileReader(field, f.Name, f.Reader)
	}
	return nil
}
