package cli

import (
	"strings"

	"github.com/bakkerme/courier/internal/email"
	"github.com/bakkerme/courier/internal/sms"
)

const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

const (
	EmailUsage = "usage: email [flags] <fromAddress> <toAddress> <subject> <message words...>"
	SMSUsage   = "usage: sms [flags] <fromNumber> <toNumber> <message words...>"
)

// ParseEmailArgs maps positional arguments onto a message. Words after the
// subject are joined with single spaces; absent positions stay empty.
func ParseEmailArgs(args []string) email.Message {
	return email.Message{
		From:    arg(args, 0),
		To:      arg(args, 1),
		Subject: arg(args, 2),
		HTML:    joinFrom(args, 3),
	}
}

// ParseSMSArgs maps positional arguments onto a message. Words after the
// recipient are joined with single spaces; absent positions stay empty.
func ParseSMSArgs(args []string) sms.Message {
	return sms.Message{
		From: arg(args, 0),
		To:   arg(args, 1),
		Body: joinFrom(args, 2),
	}
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func joinFrom(args []string, i int) string {
	if i >= len(args) {
		return ""
	}
	return strings.Join(args[i:], " ")
}
