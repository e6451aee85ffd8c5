package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTransport struct {
	reqs []Request
	resp *Response
	err  error
}

func (r *recordingTransport) Do(_ context.Context, req Request) (*Response, error) {
	r.reqs = append(r.reqs, req)
	if r.err != nil {
		return nil, r.err
	}
	if r.resp != nil {
		return r.resp, nil
	}
	return &Response{StatusCode: http.StatusOK, Status: "200 OK", Body: []byte(`{"ok":true}`)}, nil
}

func (r *recordingTransport) last(t *testing.T) Request {
	t.Helper()
	require.NotEmpty(t, r.reqs)
	return r.reqs[len(r.reqs)-1]
}

func TestNewAppliesDefaults(t *testing.T) {
	d := New(Config{BaseURL: " http://api "}, &recordingTransport{})

	cfg := d.Config()
	assert.Equal(t, "http://api", cfg.BaseURL)
	assert.Equal(t, ContentTypeJSON, cfg.DefaultContentType)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestDispatcher_DefaultContentType(t *testing.T) {
	tr := &recordingTransport{}
	d := New(Config{DefaultContentType: "application/json;charset=UTF-8"}, tr)

	_, err := d.Get(context.Background(), Descriptor{URL: "/x"})
	require.NoError(t, err)

	assert.Equal(t, "application/json;charset=UTF-8", tr.last(t).ContentType())
}

func TestDispatcher_HeadersTypeOverridesDefault(t *testing.T) {
	tr := &recordingTransport{}
	d := New(Config{}, tr)

	_, err := d.Put(context.Background(), Descriptor{URL: "/x", HeadersType: "text/plain"})
	require.NoError(t, err)

	assert.Equal(t, "text/plain", tr.last(t).ContentType())
}

func TestDispatcher_ExactlyOneContentType(t *testing.T) {
	tr := &recordingTransport{}
	d := New(Config{}, tr)

	_, err := d.Post(context.Background(), Descriptor{
		URL:         "/x",
		HeadersType: "application/xml",
		Headers: map[string]string{
			"content-type": "text/html",
			"x-trace":      "abc",
		},
	})
	require.NoError(t, err)

	req := tr.last(t)
	assert.Equal(t, []string{"application/xml"}, req.Header.Values("Content-Type"))
	assert.Equal(t, "abc", req.Header.Get("X-Trace"))
}

func TestDispatcher_UploadForcesMultipart(t *testing.T) {
	tr := &recordingTransport{}
	d := New(Config{}, tr)

	desc := Descriptor{URL: "/x", Data: &MultipartForm{}, HeadersType: "application/json"}
	resp, err := d.Upload(context.Background(), desc)
	require.NoError(t, err)
	require.NotNil(t, resp)

	req := tr.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, ContentTypeMultipart, req.ContentType())
	assert.Equal(t, "application/json", desc.HeadersType, "caller descriptor must not be mutated")
}

func TestDispatcher_DownloadForcesBlob(t *testing.T) {
	tr := &recordingTransport{}
	d := New(Config{}, tr)

	_, err := d.Download(context.Background(), Descriptor{URL: "/file", ResponseType: ResponseTypeDefault})
	require.NoError(t, err)

	req := tr.last(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, ResponseTypeBlob, req.ResponseType)
}

func TestDispatcher_FixedTimeoutOnEveryCall(t *testing.T) {
	tr := &recordingTransport{}
	d := New(Config{}, tr)
	ctx := context.Background()

	_, _ = d.Get(ctx, Descriptor{URL: "/a"})
	_, _ = d.Post(ctx, Descriptor{URL: "/a"})
	_, _ = d.Put(ctx, Descriptor{URL: "/a"})
	_, _ = d.Delete(ctx, Descriptor{URL: "/a"})
	_, _ = d.PostOriginal(ctx, Descriptor{URL: "/a"})
	_, _ = d.Download(ctx, Descriptor{URL: "/a"})
	_, _ = d.Upload(ctx, Descriptor{URL: "/a"})

	require.Len(t, tr.reqs, 7)
	for _, req := range tr.reqs {
		assert.Equal(t, DefaultTimeout, req.Timeout, req.Method)
	}
}

func TestDispatcher_BodyVersusEnvelope(t *testing.T) {
	tr := &recordingTransport{resp: &Response{
		StatusCode: http.StatusCreated,
		Status:     "201 Created",
		Header:     http.Header{"X-Id": []string{"7"}},
		Body:       []byte(`{"id":7}`),
	}}
	d := New(Config{}, tr)
	ctx := context.Background()

	body, err := d.Post(ctx, Descriptor{URL: "/x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7}`, body.String())

	resp, err := d.PostOriginal(ctx, Descriptor{URL: "/x"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "7", resp.Header.Get("X-Id"))
}

func TestDispatcher_GetScenario(t *testing.T) {
	tr := &recordingTransport{}
	d := New(Config{BaseURL: "http://backend/admin-api/"}, tr)

	body, err := d.Get(context.Background(), Descriptor{URL: "/x", Params: map[string]any{"id": 1}})
	require.NoError(t, err)

	req := tr.last(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "http://backend/admin-api/x", req.URL)
	assert.Equal(t, url.Values{"id": []string{"1"}}, req.Query)
	assert.Equal(t, ContentTypeJSON, req.ContentType())

	out, err := DecodeBody[map[string]bool](body)
	require.NoError(t, err)
	assert.True(t, out["ok"])
}

func TestDispatcher_PropagatesTransportErrorUnchanged(t *testing.T) {
	boom := errors.New("connection refused")
	d := New(Config{}, &recordingTransport{err: boom})

	_, err := d.Get(context.Background(), Descriptor{URL: "/x"})
	assert.Same(t, boom, err)

	_, err = d.Upload(context.Background(), Descriptor{URL: "/x"})
	assert.Same(t, boom, err)
}

func TestQueryValues(t *testing.T) {
	name := "ginseng"
	var missing *string

	q, err := queryValues(map[string]any{
		"id":      int64(42),
		"name":    &name,
		"skip":    nil,
		"nilPtr":  missing,
		"tags":    []string{"a", "b"},
		"enabled": true,
	})
	require.NoError(t, err)

	assert.Equal(t, "42", q.Get("id"))
	assert.Equal(t, "ginseng", q.Get("name"))
	assert.Equal(t, []string{"a", "b"}, q["tags"])
	assert.Equal(t, "true", q.Get("enabled"))
	assert.NotContains(t, q, "skip")
	assert.NotContains(t, q, "nilPtr")
}

func TestJoinURL(t *testing.T) {
	cases := []struct {
		base, path, want string
	}{
		{"", "/x", "/x"},
		{"http://h/api", "/x", "http://h/api/x"},
		{"http://h/api/", "x", "http://h/api/x"},
		{"http://h/api", "https://other/y", "https://other/y"},
		{"http://h/api", "", "http://h/api"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, joinURL(tc.base, tc.path), "%s + %s", tc.base, tc.path)
	}
}

func TestBodyDecodeEmpty(t *testing.T) {
	var v map[string]any
	assert.ErrorIs(t, Body(nil).Decode(&v), ErrEmptyBody)
}
