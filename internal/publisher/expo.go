package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

const defaultExpoURL = "https://exp.host"

// ExpoPublisher delivers push notifications through the Expo push API, one
// request per registered device token.
type ExpoPublisher struct {
	baseURL    string
	httpClient *http.Client
}

func NewExpoPublisher(baseURL string) *ExpoPublisher {
	if baseURL == "" {
		baseURL = defaultExpoURL
	}
	return &ExpoPublisher{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (p *ExpoPublisher) Channel() string {
	return ChannelPush
}

type expoPushRequest struct {
	To    string `json:"to"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (p *ExpoPublisher) Send(
	ctx context.Context,
	userID, assignmentID string,
	user domain.UserNotificationInfo,
	survey domain.SurveyNotificationInfo,
	kind domain.NotificationKind,
) (bool, error) {
	if survey.Push == nil {
		return false, nil
	}
	tokens := user.PushTokens()
	if len(tokens) == 0 {
		return false, nil
	}

	title, body := FormatMessage(survey.Push.MessageFor(kind), userID, assignmentID)

	delivered := false
	var lastErr error
	for _, token := range tokens {
		if err := p.sendToToken(ctx, token, title, body); err != nil {
			slog.WarnContext(ctx, "failed to send push notification to device",
				slog.String("user_id", userID),
				slog.String("assignment_id", assignmentID),
				slog.String("error", err.Error()),
			)
			lastErr = err
			continue
		}
		delivered = true
	}

	if !delivered {
		return false, lastErr
	}
	return true, nil
}

func (p *ExpoPublisher) sendToToken(ctx context.Context, token, title, body string) error {
	payload, err := json.Marshal(expoPushRequest{
		To:    token,
		Title: title,
		Body:  body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/--/api/v2/push/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send push request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code from Expo: %d", resp.StatusCode)
	}
	return nil
}
