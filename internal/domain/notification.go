package domain

// NotificationKind distinguishes the first notification of an assignment
// from the follow-up reminders.
type NotificationKind string

const (
	NotificationInitial  NotificationKind = "initial"
	NotificationReminder NotificationKind = "reminder"
)

func (k NotificationKind) String() string {
	return string(k)
}

func (k NotificationKind) Valid() bool {
	return k == NotificationInitial || k == NotificationReminder
}

// MessagesFor selects the template matching the notification kind.
func (m *ChannelMessages) MessageFor(kind NotificationKind) NotificationMessage {
	if kind == NotificationReminder {
		return m.Reminder
	}
	return m.Initial
}
