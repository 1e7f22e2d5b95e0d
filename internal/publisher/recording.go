package publisher

import (
	"context"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

// SentNotification is one recorded Send call.
type SentNotification struct {
	UserID       string
	AssignmentID string
	User         domain.UserNotificationInfo
	Survey       domain.SurveyNotificationInfo
	Kind         domain.NotificationKind
}

// RecordingPublisher records Send calls and returns a configured outcome.
// Used by tests and dry runs.
type RecordingPublisher struct {
	ChannelName string
	Result      bool
	Err         error
	Recorded    []SentNotification
}

func (p *RecordingPublisher) Channel() string {
	if p.ChannelName == "" {
		return ChannelPush
	}
	return p.ChannelName
}

func (p *RecordingPublisher) Send(
	_ context.Context,
	userID, assignmentID string,
	user domain.UserNotificationInfo,
	survey domain.SurveyNotificationInfo,
	kind domain.NotificationKind,
) (bool, error) {
	p.Recorded = append(p.Recorded, SentNotification{
		UserID:       userID,
		AssignmentID: assignmentID,
		User:         user,
		Survey:       survey,
		Kind:         kind,
	})
	if p.Err != nil {
		return false, p.Err
	}
	return p.Result, nil
}
