package publisher

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

// ResendPublisher delivers email notifications through the Resend API.
type ResendPublisher struct {
	client *resend.Client
	sender string
}

func NewResendPublisher(apiKey, sender string) *ResendPublisher {
	return &ResendPublisher{
		client: resend.NewClient(apiKey),
		sender: sender,
	}
}

func (p *ResendPublisher) Channel() string {
	return ChannelEmail
}

func (p *ResendPublisher) Send(
	ctx context.Context,
	userID, assignmentID string,
	user domain.UserNotificationInfo,
	survey domain.SurveyNotificationInfo,
	kind domain.NotificationKind,
) (bool, error) {
	if survey.Email == nil {
		return false, nil
	}
	if user.NotificationEmail == "" {
		return false, nil
	}

	title, body := FormatMessage(survey.Email.MessageFor(kind), userID, assignmentID)

	params := &resend.SendEmailRequest{
		From:    p.sender,
		To:      []string{user.NotificationEmail},
		Subject: title,
		Text:    body,
	}

	if _, err := p.client.Emails.SendWithContext(ctx, params); err != nil {
		return false, fmt.Errorf("failed to send email: %w", err)
	}
	return true, nil
}
