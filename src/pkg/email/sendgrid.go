package email

import (
	"fmt"
	"os"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

// Env var: SENDGRID_API_KEY.
func sendWithSendgrid(senderAddress string, recipients []string, subject string, textBody string, htmlBody string) (e *xerr.Error) {
	apiKey := strings.TrimSpace(os.Getenv("SENDGRID_API_KEY"))
	if apiKey == "" {
		err := fmt.Errorf("SENDGRID_API_KEY is not set")
		e = xerr.NewError(err, "read SendGrid credentials from env", senderAddress)
		return e
	}

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail("", senderAddress))
	message.Subject = subject

	personalization := mail.NewPersonalization()
	for _, recipient := range recipients {
		personalization.AddTos(mail.NewEmail("", recipient))
	}
	message.AddPersonalizations(personalization)

	message.AddContent(
		mail.NewContent("text/plain", textBody),
		mail.NewContent("text/html", htmlBody),
	)

	client := sendgrid.NewSendClient(apiKey)

	var response *rest.Response
	response, sendErr := client.Send(message)
	if sendErr != nil {
		e = xerr.NewError(sendErr, "send email via SendGrid", subject)
		return e
	}

	if response.StatusCode >= 300 {
		err := fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
		e = xerr.NewError(err, "send email via SendGrid", subject)
		return e
	}

	tl.Log(tl.Verbose, palette.CyanDim, "SendGrid accepted message, status '%d'", response.StatusCode)
	return e
}
