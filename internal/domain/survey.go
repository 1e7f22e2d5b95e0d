package domain

type QuestionKind string

const (
	QuestionSingleChoice   QuestionKind = "single-choice"
	QuestionMultipleChoice QuestionKind = "multiple-choice"
	QuestionOpenEnded      QuestionKind = "open-ended"
)

type Question struct {
	Kind      QuestionKind
	Message   string
	Choices   []string
	MaxLength int
}

// NotificationMessage is one channel message template. Title and Body may
// contain {user_id} and {assignment_id} placeholders.
type NotificationMessage struct {
	Title string
	Body  string
}

// ChannelMessages holds the initial and reminder templates for one channel.
type ChannelMessages struct {
	Initial  NotificationMessage
	Reminder NotificationMessage
}

// SurveyNotificationInfo carries the per-channel message configuration.
// A nil channel means the survey does not notify through it.
type SurveyNotificationInfo struct {
	Push  *ChannelMessages
	Email *ChannelMessages
	SMS   *ChannelMessages
}

type Survey struct {
	ID               string
	Title            string
	WelcomeMessage   string
	SubmitMessage    string
	Questions        []Question
	NotificationInfo SurveyNotificationInfo
}
