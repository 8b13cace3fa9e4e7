package email

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mailgun/mailgun-go/v4"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

// Env vars: MAILGUN_DOMAIN, MAILGUN_API_KEY.
func sendWithMailgun(senderAddress string, recipients []string, subject string, textBody string, htmlBody string) (e *xerr.Error) {
	domain := strings.TrimSpace(os.Getenv("MAILGUN_DOMAIN"))
	apiKey := strings.TrimSpace(os.Getenv("MAILGUN_API_KEY"))
	if domain == "" || apiKey == "" {
		err := fmt.Errorf("MAILGUN_DOMAIN or MAILGUN_API_KEY is not set")
		e = xerr.NewError(err, "read Mailgun credentials from env", senderAddress)
		return e
	}

	mg := mailgun.NewMailgun(domain, apiKey)

	message := mailgun.NewMessage(senderAddress, subject, textBody, recipients...)
	message.SetHTML(htmlBody)

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	response, id, sendErr := mg.Send(ctx, message)
	if sendErr != nil {
		e = xerr.NewError(sendErr, "send email via Mailgun", subject)
		return e
	}

	tl.Log(tl.Verbose, palette.CyanDim, "Mailgun accepted message id='%s': %s", id, response)
	return e
}
