package twilio

import (
	"context"
	"errors"
	"reflect"
	"testing"

	twclient "github.com/twilio/twilio-go/client"
	api "github.com/twilio/twilio-go/rest/api/v2010"
	lookups "github.com/twilio/twilio-go/rest/lookups/v1"

	"github.com/bakkerme/courier/internal/sms"
)

type fakeLookups struct {
	err    error
	number string
	params *lookups.FetchPhoneNumberParams
}

func (f *fakeLookups) FetchPhoneNumber(phoneNumber string, params *lookups.FetchPhoneNumberParams) (*lookups.LookupsV1PhoneNumber, error) {
	f.number = phoneNumber
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return &lookups.LookupsV1PhoneNumber{}, nil
}

type fakeMessages struct {
	err    error
	params *api.CreateMessageParams
}

func (f *fakeMessages) CreateMessage(params *api.CreateMessageParams) (*api.ApiV2010Message, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return &api.ApiV2010Message{}, nil
}

func TestClient_LookupNumber(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		err          error
		wantErr      bool
		wantNotFound bool
	}{
		{"found", nil, false, false},
		{"http 404", &twclient.TwilioRestError{Status: 404, Code: 20404, Message: "not found"}, true, true},
		{"code only", &twclient.TwilioRestError{Code: 20404}, true, true},
		{"unauthorized", &twclient.TwilioRestError{Status: 401, Code: 20003}, true, false},
		{"network", errors.New("dial tcp: i/o timeout"), true, false},
	}
	for _, tc := range cases {
		fl := &fakeLookups{err: tc.err}
		client := &Client{lookups: fl, messages: &fakeMessages{}}

		err := client.LookupNumber(context.Background(), "+15551234567")
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: err=%v wantErr=%v", tc.name, err, tc.wantErr)
		}
		if got := errors.Is(err, sms.ErrNumberNotFound); got != tc.wantNotFound {
			t.Fatalf("%s: errors.Is(ErrNumberNotFound)=%v want %v", tc.name, got, tc.wantNotFound)
		}
		if fl.number != "+15551234567" {
			t.Fatalf("%s: looked up %q", tc.name, fl.number)
		}
		if fl.params == nil || fl.params.Type == nil || !reflect.DeepEqual(*fl.params.Type, []string{"carrier"}) {
			t.Fatalf("%s: expected carrier lookup type, got %+v", tc.name, fl.params)
		}
	}
}

func TestClient_CreateMessage(t *testing.T) {
	t.Parallel()

	fm := &fakeMessages{}
	client := &Client{lookups: &fakeLookups{}, messages: fm}

	err := client.CreateMessage(context.Background(), sms.Message{From: "+15551234567", To: "+15557654321", Body: "hello"})
	if err != nil {
		t.Fatalf("CreateMessage error: %v", err)
	}
	if fm.params == nil || *fm.params.From != "+15551234567" || *fm.params.To != "+15557654321" || *fm.params.Body != "hello" {
		t.Fatalf("unexpected params: %+v", fm.params)
	}

	fm.err = &twclient.TwilioRestError{Status: 400, Code: 21606}
	if err := client.CreateMessage(context.Background(), sms.Message{From: "a", To: "b", Body: "c"}); err == nil {
		t.Fatalf("expected error from create message")
	}
}

func TestClient_CanceledContext(t *testing.T) {
	t.Parallel()

	fl := &fakeLookups{}
	client := &Client{lookups: fl, messages: &fakeMessages{}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := client.LookupNumber(ctx, "+15551234567"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if fl.number != "" {
		t.Fatalf("expected no lookup after cancellation")
	}
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	if _, err := NewClient("", "token", 0); err == nil {
		t.Fatalf("expected error for missing sid")
	}
	if _, err := NewClient("AC123", " ", 0); err == nil {
		t.Fatalf("expected error for missing token")
	}
}
