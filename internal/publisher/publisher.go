package publisher

import (
	"context"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

// Channel names reported by publishers and used in logs and metrics.
const (
	ChannelPush  = "push"
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Publisher delivers one notification through one channel.
//
// Send returns (false, nil) for expected "not configured" conditions: the
// user has no reachable endpoint for the channel, or the survey carries no
// message for it. Transport failures are returned as errors; the caller
// contains them and keeps trying the remaining channels.
type Publisher interface {
	Channel() string
	Send(
		ctx context.Context,
		userID, assignmentID string,
		user domain.UserNotificationInfo,
		survey domain.SurveyNotificationInfo,
		kind domain.NotificationKind,
	) (bool, error)
}
