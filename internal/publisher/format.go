package publisher

import (
	"strings"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

// FormatMessage substitutes the {user_id} and {assignment_id} placeholders
// in a message template.
func FormatMessage(msg domain.NotificationMessage, userID, assignmentID string) (title, body string) {
	replacer := strings.NewReplacer(
		"{user_id}", userID,
		"{assignment_id}", assignmentID,
	)
	return replacer.Replace(msg.Title), replacer.Replace(msg.Body)
}
