// Package qalog wraps the question/answer log endpoints.
package qalog

import (
	"context"

	"github.com/tcmc-hq/tcmc-client/pkg/httpclient"
	"github.com/tcmc-hq/tcmc-client/pkg/tcmc"
)

// Log is one question/answer exchange within a session.
type Log struct {
	ID         int64  `json:"id"`
	SessionID  int64  `json:"sessionId"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	CreateTime int64  `json:"createTime,omitempty"`
}

// Client calls the QA-log endpoints.
type Client struct {
	req tcmc.Requester
}

func NewClient(req tcmc.Requester) *Client {
	return &Client{req: req}
}

// GetQALogList returns every log of a session.
func (c *Client) GetQALogList(ctx context.Context, sessionID int64) ([]Log, error) {
	return tcmc.Call[[]Log](ctx, c.req.Get, httpclient.Descriptor{
		URL:    "/tcmc/QA-log/list",
		Params: map[string]any{"sessionId": sessionID},
	})
}
