package twilio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	twilio "github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	api "github.com/twilio/twilio-go/rest/api/v2010"
	lookups "github.com/twilio/twilio-go/rest/lookups/v1"

	"github.com/bakkerme/courier/internal/sms"
)

// codeNotFound is Twilio's "resource not found" error code.
const codeNotFound = 20404

type lookupService interface {
	FetchPhoneNumber(phoneNumber string, params *lookups.FetchPhoneNumberParams) (*lookups.LookupsV1PhoneNumber, error)
}

type messageService interface {
	CreateMessage(params *api.CreateMessageParams) (*api.ApiV2010Message, error)
}

// Client verifies numbers with Twilio Lookups v1 (carrier) and sends through
// the 2010-04-01 Messages API.
type Client struct {
	lookups  lookupService
	messages messageService
}

// NewClient builds a Twilio client. A zero timeout leaves the SDK default in place.
func NewClient(accountSID, authToken string, timeout time.Duration) (*Client, error) {
	accountSID = strings.TrimSpace(accountSID)
	authToken = strings.TrimSpace(authToken)
	if accountSID == "" {
		return nil, fmt.Errorf("twilio: missing account sid (set TWILIO_ACCOUNT_SID)")
	}
	if authToken == "" {
		return nil, fmt.Errorf("twilio: missing auth token (set TWILIO_AUTH_TOKEN)")
	}
	rc := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	if timeout > 0 {
		rc.SetTimeout(timeout)
	}
	return &Client{lookups: rc.LookupsV1, messages: rc.Api}, nil
}

func (c *Client) LookupNumber(ctx context.Context, number string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &lookups.FetchPhoneNumberParams{}
	params.SetType([]string{"carrier"})
	if _, err := c.lookups.FetchPhoneNumber(number, params); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("twilio lookup %q: %w", number, sms.ErrNumberNotFound)
		}
		return fmt.Errorf("twilio lookup %q: %w", number, err)
	}
	return nil
}

func (c *Client) CreateMessage(ctx context.Context, message sms.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &api.CreateMessageParams{}
	params.SetBody(message.Body)
	params.SetFrom(message.From)
	params.SetTo(message.To)
	if _, err := c.messages.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var restErr *twclient.TwilioRestError
	if !errors.As(err, &restErr) {
		return false
	}
	return restErr.Status == http.StatusNotFound || restErr.Code == codeNotFound
}
