package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tcmc-hq/tcmc-client/internal/logger"
)

type stubPublisher struct {
	id    string
	typ   string
	err   error
	calls int
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	fanout := NewFanout([]Publisher{
		&stubPublisher{id: "ok", typ: "http"},
		&stubPublisher{id: "bad", typ: "http", err: errors.New("failed")},
	})

	count, err := fanout.Publish(context.Background(), Event{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 {
		t.Fatalf("expected 1 publisher, got %d", len(pubs))
	}
}

type closingPublisher struct {
	stubPublisher
	closed   bool
	closeErr error
}

func (c *closingPublisher) Close() error {
	c.closed = true
	return c.closeErr
}

func TestFanoutCloseReleasesClosers(t *testing.T) {
	closer := &closingPublisher{stubPublisher: stubPublisher{id: "ps", typ: TypeGCPPubSub}}
	fanout := NewFanout([]Publisher{&stubPublisher{id: "h", typ: TypeHTTP}, closer, nil})

	if fanout.Size() != 2 {
		t.Fatalf("expected nil publishers to be dropped, size=%d", fanout.Size())
	}
	if err := fanout.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !closer.closed {
		t.Fatalf("expected closer to be closed")
	}
}

func TestBuildAllReportsCleanupFailure(t *testing.T) {
	built := &closingPublisher{
		stubPublisher: stubPublisher{id: "first", typ: "closing"},
		closeErr:      errors.New("flush timeout"),
	}
	reg := NewRegistry(map[string]Builder{
		"closing": func(context.Context, PublisherConfig, logger.Logger) (Publisher, error) {
			return built, nil
		},
		"broken": func(context.Context, PublisherConfig, logger.Logger) (Publisher, error) {
			return nil, errors.New("bad endpoint")
		},
	})

	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "first", Type: "closing"},
		{ID: "second", Type: "broken"},
	}, nil)
	if pubs != nil {
		t.Fatalf("expected no publishers, got %d", len(pubs))
	}
	if err == nil {
		t.Fatalf("expected build error")
	}
	if !built.closed {
		t.Fatalf("expected already built publisher to be closed")
	}
	msg := err.Error()
	if !strings.Contains(msg, "bad endpoint") || !strings.Contains(msg, "flush timeout") {
		t.Fatalf("expected build and close errors, got %q", msg)
	}
}
