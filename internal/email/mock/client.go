package mock

import (
	"context"

	"github.com/bakkerme/courier/internal/email"
)

// Client records every message and answers with StatusCode (default 202) or Err.
type Client struct {
	StatusCode int
	Err        error
	Messages   []email.Message
}

func (c *Client) Send(ctx context.Context, message email.Message) (email.Response, error) {
	_ = ctx
	c.Messages = append(c.Messages, message)
	if c.Err != nil {
		return email.Response{}, c.Err
	}
	code := c.StatusCode
	if code == 0 {
		code = 202
	}
	return email.Response{StatusCode: code}, nil
}
