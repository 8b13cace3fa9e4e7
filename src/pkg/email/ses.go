package email

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/tuumbleweed/xerr"
)

// Credentials come from the standard AWS env vars / shared config:
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_REGION.
func sendWithSES(senderAddress string, recipients []string, subject string, textBody string, htmlBody string) (e *xerr.Error) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	awsCfg, loadErr := awsconfig.LoadDefaultConfig(ctx)
	if loadErr != nil {
		e = xerr.NewError(loadErr, "load AWS configuration for SES", senderAddress)
		return e
	}

	client := sesv2.NewFromConfig(awsCfg)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(senderAddress),
		Destination: &types.Destination{
			ToAddresses: recipients,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(textBody)},
					Html: &types.Content{Data: aws.String(htmlBody)},
				},
			},
		},
	}

	_, sendErr := client.SendEmail(ctx, input)
	if sendErr != nil {
		e = xerr.NewError(sendErr, "send email via SES", subject)
		return e
	}

	return e
}
