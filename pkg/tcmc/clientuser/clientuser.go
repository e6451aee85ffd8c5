// Package clientuser wraps the consultation-user and session endpoints.
package clientuser

import (
	"context"

	"github.com/tcmc-hq/tcmc-client/pkg/httpclient"
	"github.com/tcmc-hq/tcmc-client/pkg/tcmc"
)

// ClientUser is a consultation user.
type ClientUser struct {
	ID         int64  `json:"id"`
	Nickname   string `json:"nickname,omitempty"`
	Mobile     string `json:"mobile,omitempty"`
	CreateTime int64  `json:"createTime,omitempty"`
}

// Session is one consultation session of a user.
type Session struct {
	ID           int64  `json:"id"`
	ClientUserID int64  `json:"clientUserId,omitempty"`
	Title        string `json:"title,omitempty"`
	CreateTime   int64  `json:"createTime,omitempty"`
}

// Client calls the client-user endpoints.
type Client struct {
	req tcmc.Requester
}

func NewClient(req tcmc.Requester) *Client {
	return &Client{req: req}
}

// GetClientUserPage returns one page of consultation users.
func (c *Client) GetClientUserPage(ctx context.Context, p tcmc.PageParam) (tcmc.PageResult[ClientUser], error) {
	return tcmc.Call[tcmc.PageResult[ClientUser]](ctx, c.req.Get, httpclient.Descriptor{
		URL:    "/tcmc/client-user/page",
		Params: p.Params(),
	})
}

// GetSessionPage returns one page of user sessions.
func (c *Client) GetSessionPage(ctx context.Context, p tcmc.PageParam) (tcmc.PageResult[Session], error) {
	return tcmc.Call[tcmc.PageResult[Session]](ctx, c.req.Get, httpclient.Descriptor{
		URL:    "/tcmc/client-user/session/page",
		Params: p.Params(),
	})
}
