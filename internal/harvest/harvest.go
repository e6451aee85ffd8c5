// Package harvest forwards newly recorded QA logs to the configured publishers.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/tcmc-hq/tcmc-client/internal/logger"
	"github.com/tcmc-hq/tcmc-client/pkg/publishers"
	"github.com/tcmc-hq/tcmc-client/pkg/tcmc"
	"github.com/tcmc-hq/tcmc-client/pkg/tcmc/qalog"
)

const defaultPageSize = 100

// Stats summarizes one harvest pass.
type Stats struct {
	Sessions  int `json:"sessions"`
	Logs      int `json:"logs"`
	Published int `json:"published"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Service walks sessions, fetches their logs and publishes unseen ones.
type Service struct {
	sessions SessionLister
	logs     LogFetcher
	pub      EventPublisher
	store    DeliveryStore
	log      logger.Logger
	pageSize int
}

// NewService wires a harvester. A nil store disables deduplication.
func NewService(sessions SessionLister, logs LogFetcher, pub EventPublisher, store DeliveryStore, log logger.Logger, pageSize int) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Service{
		sessions: sessions,
		logs:     logs,
		pub:      pub,
		store:    store,
		log:      log,
		pageSize: pageSize,
	}
}

// Run executes one harvest pass. Per-session failures are collected and
// returned joined; the pass continues past them.
func (s *Service) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	if s == nil || s.sessions == nil || s.logs == nil || s.pub == nil {
		return stats, fmt.Errorf("harvest service is not initialized")
	}

	var errs []error
	for pageNo := 1; ; pageNo++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		page, err := s.sessions.GetSessionPage(ctx, tcmc.PageParam{PageNo: pageNo, PageSize: s.pageSize})
		if err != nil {
			errs = append(errs, fmt.Errorf("list sessions page %d: %w", pageNo, err))
			break
		}
		if len(page.List) == 0 {
			break
		}

		for _, sess := range page.List {
			stats.Sessions++
			if err := s.runSession(ctx, sess.ID, &stats); err != nil {
				errs = append(errs, err)
				s.log.ErrorObj("session harvest failed", "session_error", map[string]any{
					"session_id": sess.ID,
					"error":      err.Error(),
				})
			}
		}

		// Total is not reliable on every backend; a short page is the last one.
		if len(page.List) != s.pageSize {
			break
		}
	}

	return stats, errors.Join(errs...)
}

func (s *Service) runSession(ctx context.Context, sessionID int64, stats *Stats) error {
	logs, err := s.logs.GetQALogList(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("fetch qa logs for session %d: %w", sessionID, err)
	}
	stats.Logs += len(logs)

	var errs []error
	for _, l := range logs {
		if l.SessionID == 0 {
			l.SessionID = sessionID
		}
		key := deliveryKey(l)

		if s.store != nil {
			done, err := s.store.Seen(key)
			if err != nil {
				return fmt.Errorf("check delivery of %s: %w", key, err)
			}
			if done {
				stats.Skipped++
				continue
			}
		}

		delivered, err := s.pub.Publish(ctx, publishers.NewQALogEvent(l))
		if delivered == 0 {
			stats.Failed++
			if err == nil {
				err = errors.New("no publisher accepted the event")
			}
			errs = append(errs, fmt.Errorf("publish %s: %w", key, err))
			continue
		}
		if err != nil {
			s.log.WarnObj("qa log partially delivered", "delivery_warning", map[string]any{
				"key":       key,
				"delivered": delivered,
				"error":     err.Error(),
			})
		}
		stats.Published++

		if s.store != nil {
			if err := s.store.Mark(key); err != nil {
				return fmt.Errorf("mark delivery of %s: %w", key, err)
			}
		}
	}
	return errors.Join(errs...)
}

func deliveryKey(l qalog.Log) string {
	return "qalog:" + strconv.FormatInt(l.ID, 10)
}
