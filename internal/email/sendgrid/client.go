package sendgrid

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sendgrid/rest"
	sg "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/bakkerme/courier/internal/email"
)

const (
	defaultHost  = "https://api.sendgrid.com"
	sendEndpoint = "/v3/mail/send"
)

// Client sends mail through the SendGrid v3 API.
type Client struct {
	apiKey  string
	host    string
	timeout time.Duration
}

// NewClient creates a SendGrid client. An empty host selects the public API;
// a zero timeout waits until the API answers or ctx is done.
func NewClient(apiKey, host string, timeout time.Duration) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("sendgrid: missing api key (set SENDGRID_API_KEY)")
	}
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		host = defaultHost
	}
	return &Client{
		apiKey:  apiKey,
		host:    host,
		timeout: timeout,
	}, nil
}

func (c *Client) Send(ctx context.Context, message email.Message) (email.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	request := sg.GetRequest(c.apiKey, sendEndpoint, c.host)
	request.Method = rest.Post
	request.Body = mail.GetRequestBody(newMail(message))

	resp, err := sg.MakeRequestWithContext(ctx, request)
	if resp == nil {
		if err == nil {
			err = fmt.Errorf("empty response")
		}
		return email.Response{}, fmt.Errorf("sendgrid request failed: %w", err)
	}
	// Non-2xx answers are reported through the status code, not as errors.
	return email.Response{StatusCode: resp.StatusCode}, nil
}

func newMail(message email.Message) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail("", message.From))
	m.Subject = message.Subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", message.To))
	m.AddPersonalizations(p)

	if message.HTML != "" {
		m.AddContent(mail.NewContent("text/html", message.HTML))
	}
	return m
}
