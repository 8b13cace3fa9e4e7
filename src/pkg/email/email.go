// Package email submits a rendered report to one of the supported email
// providers. One best-effort attempt per call, no retries: a duplicate
// report is worse than a visible failure the user can resubmit.
package email

import (
	"fmt"
	"strings"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

const sendTimeout = 30 * time.Second

// Provider selects the transport used by SendMessage.
type Provider string

const (
	ProviderSES      Provider = "ses"
	ProviderMailgun  Provider = "mailgun"
	ProviderSendgrid Provider = "sendgrid"
)

/*
Sender is the seam between the upload pipeline and the transport, so tests
can substitute a stub and never touch a real provider.
*/
type Sender interface {
	Send(recipients []string, subject string, textBody string, htmlBody string) *xerr.Error
}

/*
ProviderSender is the production Sender: a fixed provider and sender
address around SendMessage.
*/
type ProviderSender struct {
	Provider      Provider
	SenderAddress string
	SendEmails    *bool
}

func (sender ProviderSender) Send(recipients []string, subject string, textBody string, htmlBody string) *xerr.Error {
	return SendMessage(sender.Provider, sender.SendEmails, sender.SenderAddress, recipients, subject, textBody, htmlBody)
}

/*
SendMessage submits one email through the selected provider.

sendEmails is a dry-run toggle: when it points at false, the message is
logged and dropped instead of sent (nil means send). Provider credentials
come from the environment; see CheckProviderEnvVars.
*/
func SendMessage(provider Provider, sendEmails *bool, senderAddress string, recipients []string, subject string, textBody string, htmlBody string) (e *xerr.Error) {
	senderAddress = strings.TrimSpace(senderAddress)
	if senderAddress == "" {
		err := fmt.Errorf("sender address is empty")
		e = xerr.NewError(err, "validate email envelope", string(provider))
		return e
	}
	if len(recipients) == 0 {
		err := fmt.Errorf("no recipients")
		e = xerr.NewError(err, "validate email envelope", senderAddress)
		return e
	}

	if sendEmails != nil && !*sendEmails {
		tl.Log(
			tl.Notice, palette.YellowBold, "Dry run: not sending '%s' to '%s' via '%s'",
			subject, strings.Join(recipients, ","), string(provider),
		)
		return e
	}

	tl.Log(
		tl.Info1, palette.Blue, "Sending '%s' to '%s' via '%s'",
		subject, strings.Join(recipients, ","), string(provider),
	)

	switch provider {
	case ProviderSES:
		e = sendWithSES(senderAddress, recipients, subject, textBody, htmlBody)
	case ProviderMailgun:
		e = sendWithMailgun(senderAddress, recipients, subject, textBody, htmlBody)
	case ProviderSendgrid:
		e = sendWithSendgrid(senderAddress, recipients, subject, textBody, htmlBody)
	default:
		err := fmt.Errorf("unknown provider: '%s'", provider)
		e = xerr.NewError(err, "pick email provider", "expected ses, mailgun or sendgrid")
	}
	if e != nil {
		return e
	}

	tl.Log(
		tl.Notice, palette.GreenBold, "Sent '%s' to '%s'",
		subject, strings.Join(recipients, ","),
	)

	return e
}
