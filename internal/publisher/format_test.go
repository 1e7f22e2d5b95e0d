package publisher

import (
	"testing"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name      string
		msg       domain.NotificationMessage
		wantTitle string
		wantBody  string
	}{
		{
			name:      "substitutes both placeholders",
			msg:       domain.NotificationMessage{Title: "Survey for {user_id}", Body: "Open {assignment_id} now"},
			wantTitle: "Survey for user-1",
			wantBody:  "Open assignment-1 now",
		},
		{
			name:      "plain message unchanged",
			msg:       domain.NotificationMessage{Title: "New survey", Body: "A survey is waiting"},
			wantTitle: "New survey",
			wantBody:  "A survey is waiting",
		},
		{
			name:      "repeated placeholder replaced everywhere",
			msg:       domain.NotificationMessage{Title: "{user_id}", Body: "{user_id} {user_id}"},
			wantTitle: "user-1",
			wantBody:  "user-1 user-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, body := FormatMessage(tt.msg, "user-1", "assignment-1")
			if title != tt.wantTitle {
				t.Errorf("expected title %q, got %q", tt.wantTitle, title)
			}
			if body != tt.wantBody {
				t.Errorf("expected body %q, got %q", tt.wantBody, body)
			}
		})
	}
}
