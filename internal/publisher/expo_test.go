package publisher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

func pushSurvey() domain.SurveyNotificationInfo {
	return domain.SurveyNotificationInfo{
		Push: &domain.ChannelMessages{
			Initial:  domain.NotificationMessage{Title: "New survey", Body: "Open {assignment_id}"},
			Reminder: domain.NotificationMessage{Title: "Reminder", Body: "Still waiting"},
		},
	}
}

func TestExpoSend(t *testing.T) {
	var received []expoPushRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/--/api/v2/push/send" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req expoPushRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode push request: %v", err)
		}
		received = append(received, req)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	pub := NewExpoPublisher(server.URL)
	user := domain.UserNotificationInfo{
		Devices: []domain.Device{
			{Token: "token-a", OS: domain.DeviceAndroid},
			{Token: "token-b", OS: domain.DeviceIOS},
		},
	}

	sent, err := pub.Send(context.Background(), "user-1", "assignment-1", user, pushSurvey(), domain.NotificationInitial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sent {
		t.Fatal("expected delivery to succeed")
	}

	if len(received) != 2 {
		t.Fatalf("expected one request per token, got %d", len(received))
	}
	if received[0].To != "token-a" || received[1].To != "token-b" {
		t.Errorf("unexpected token order: %+v", received)
	}
	if received[0].Body != "Open assignment-1" {
		t.Errorf("expected formatted body, got %q", received[0].Body)
	}
}

func TestExpoSendNotConfigured(t *testing.T) {
	pub := NewExpoPublisher("http://localhost:0")

	tests := []struct {
		name   string
		user   domain.UserNotificationInfo
		survey domain.SurveyNotificationInfo
	}{
		{
			name:   "survey has no push messages",
			user:   domain.UserNotificationInfo{Devices: []domain.Device{{Token: "token-a"}}},
			survey: domain.SurveyNotificationInfo{},
		},
		{
			name:   "user has no device tokens",
			user:   domain.UserNotificationInfo{},
			survey: pushSurvey(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sent, err := pub.Send(context.Background(), "user-1", "assignment-1", tt.user, tt.survey, domain.NotificationInitial)
			if err != nil {
				t.Fatalf("expected silent skip, got error: %v", err)
			}
			if sent {
				t.Error("expected no delivery")
			}
		})
	}
}

func TestExpoSendPartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req expoPushRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode push request: %v", err)
		}
		if req.To == "token-a" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	pub := NewExpoPublisher(server.URL)
	user := domain.UserNotificationInfo{
		Devices: []domain.Device{
			{Token: "token-a", OS: domain.DeviceAndroid},
			{Token: "token-b", OS: domain.DeviceIOS},
		},
	}

	sent, err := pub.Send(context.Background(), "user-1", "assignment-1", user, pushSurvey(), domain.NotificationInitial)
	if err != nil {
		t.Fatalf("expected any-token success, got error: %v", err)
	}
	if !sent {
		t.Error("expected delivery when one token succeeds")
	}
}

func TestExpoSendAllTokensFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	pub := NewExpoPublisher(server.URL)
	user := domain.UserNotificationInfo{
		Devices: []domain.Device{{Token: "token-a", OS: domain.DeviceAndroid}},
	}

	sent, err := pub.Send(context.Background(), "user-1", "assignment-1", user, pushSurvey(), domain.NotificationInitial)
	if err == nil {
		t.Fatal("expected an error when every token fails")
	}
	if sent {
		t.Error("expected no delivery")
	}
}
