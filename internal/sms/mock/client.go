package mock

import (
	"context"

	"github.com/bakkerme/courier/internal/sms"
)

// Client answers lookups from LookupErrs (numbers absent from the map are
// valid) and records every call.
type Client struct {
	LookupErrs map[string]error
	SendErr    error
	Lookups    []string
	Messages   []sms.Message
}

func (c *Client) LookupNumber(ctx context.Context, number string) error {
	_ = ctx
	c.Lookups = append(c.Lookups, number)
	return c.LookupErrs[number]
}

func (c *Client) CreateMessage(ctx context.Context, message sms.Message) error {
	_ = ctx
	c.Messages = append(c.Messages, message)
	return c.SendErr
}
