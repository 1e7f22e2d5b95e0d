package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

const defaultVonageURL = "https://rest.nexmo.com"

// VonagePublisher delivers SMS notifications through the Vonage SMS API.
// Only the message body is sent; SMS has no title.
type VonagePublisher struct {
	apiKey     string
	apiSecret  string
	sender     string
	baseURL    string
	httpClient *http.Client
}

func NewVonagePublisher(apiKey, apiSecret, sender, baseURL string) *VonagePublisher {
	if baseURL == "" {
		baseURL = defaultVonageURL
	}
	return &VonagePublisher{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		sender:    sender,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (p *VonagePublisher) Channel() string {
	return ChannelSMS
}

type vonageResponse struct {
	Messages []struct {
		Status    string `json:"status"`
		ErrorText string `json:"error-text"`
	} `json:"messages"`
}

func (p *VonagePublisher) Send(
	ctx context.Context,
	userID, assignmentID string,
	user domain.UserNotificationInfo,
	survey domain.SurveyNotificationInfo,
	kind domain.NotificationKind,
) (bool, error) {
	if survey.SMS == nil {
		return false, nil
	}
	if user.PhoneNumber == "" {
		return false, nil
	}

	_, body := FormatMessage(survey.SMS.MessageFor(kind), userID, assignmentID)

	form := url.Values{}
	form.Set("api_key", p.apiKey)
	form.Set("api_secret", p.apiSecret)
	form.Set("from", p.sender)
	form.Set("to", user.PhoneNumber)
	form.Set("text", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/sms/json", strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("failed to create sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to send sms request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status code from Vonage: %d", resp.StatusCode)
	}

	var decoded vonageResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return false, fmt.Errorf("failed to decode sms response: %w", err)
	}
	if len(decoded.Messages) == 0 {
		return false, fmt.Errorf("empty sms response")
	}
	if decoded.Messages[0].Status != "0" {
		return false, fmt.Errorf("sms rejected: %s", decoded.Messages[0].ErrorText)
	}
	return true, nil
}
