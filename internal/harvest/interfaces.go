package harvest

import (
	"context"

	"github.com/tcmc-hq/tcmc-client/pkg/publishers"
	"github.com/tcmc-hq/tcmc-client/pkg/tcmc"
	"github.com/tcmc-hq/tcmc-client/pkg/tcmc/clientuser"
	"github.com/tcmc-hq/tcmc-client/pkg/tcmc/qalog"
)

// SessionLister pages through consultation sessions.
type SessionLister interface {
	GetSessionPage(ctx context.Context, p tcmc.PageParam) (tcmc.PageResult[clientuser.Session], error)
}

// LogFetcher lists the QA logs of one session.
type LogFetcher interface {
	GetQALogList(ctx context.Context, sessionID int64) ([]qalog.Log, error)
}

// EventPublisher fans events out and reports how many sinks accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// DeliveryStore remembers logs that were already forwarded.
type DeliveryStore interface {
	Seen(key string) (bool, error)
	Mark(keys ...string) error
}
