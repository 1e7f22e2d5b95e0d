//go:build !gcloud

package taskqueue

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"
)

// HTTPTasksClient talks to a Cloud Tasks emulator over plain HTTP.
type HTTPTasksClient struct {
	baseURL     string
	queueName   string
	callbackURL string
	httpClient  *http.Client
	maxRetries  int
}

type HTTPTasksConfig struct {
	BaseURL     string
	QueueName   string
	CallbackURL string
	MaxRetries  int
}

func NewHTTPTasksClient(cfg HTTPTasksConfig) *HTTPTasksClient {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &HTTPTasksClient{
		baseURL:     cfg.BaseURL,
		queueName:   cfg.QueueName,
		callbackURL: cfg.CallbackURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: maxRetries,
	}
}

type emulatorTaskRequest struct {
	Task emulatorTask `json:"task"`
}

type emulatorTask struct {
	Name         string              `json:"name,omitempty"`
	HTTPRequest  emulatorHTTPRequest `json:"httpRequest"`
	ScheduleTime string              `json:"scheduleTime,omitempty"`
}

type emulatorHTTPRequest struct {
	URL     string            `json:"url"`
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type emulatorTaskResponse struct {
	Name         string `json:"name"`
	ScheduleTime string `json:"scheduleTime"`
	CreateTime   string `json:"createTime"`
}

func (c *HTTPTasksClient) CreateTask(ctx context.Context, task *Task) (*TaskResponse, error) {
	payload, err := json.Marshal(task.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}

	emulatorReq := emulatorTaskRequest{
		Task: emulatorTask{
			Name: task.ID,
			HTTPRequest: emulatorHTTPRequest{
				URL:  c.callbackURL + task.Kind.CallbackPath(),
				Body: base64.StdEncoding.EncodeToString(payload),
				Headers: map[string]string{
					"Content-Type": "application/json",
				},
			},
		},
	}

	if !task.ScheduleAt.IsZero() {
		emulatorReq.Task.ScheduleTime = task.ScheduleAt.Format(time.RFC3339)
	}

	reqBody, err := json.Marshal(emulatorReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task request: %w", err)
	}

	url := fmt.Sprintf("%s/tasks", c.baseURL)
	if c.queueName != "" && c.queueName != "default" {
		url = fmt.Sprintf("%s/tasks/%s", c.baseURL, c.queueName)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.Debug("retrying task creation",
				slog.String("task_id", task.ID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := c.doRequest(ctx, url, reqBody, task.ID)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}

	slog.Error("all retries exhausted for task creation",
		slog.String("task_id", task.ID),
		slog.Int("max_retries", c.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return nil, fmt.Errorf("failed to create task after %d retries: %w", c.maxRetries, lastErr)
}

func (c *HTTPTasksClient) doRequest(ctx context.Context, url string, reqBody []byte, taskID string) (*TaskResponse, error) {
	slog.Debug("creating task on emulator",
		slog.String("url", url),
		slog.String("task_id", taskID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("failed to send request to task emulator",
			slog.String("task_id", taskID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	// The emulator answers 409 when the task ID was already enqueued.
	if resp.StatusCode == http.StatusConflict {
		slog.Info("task already exists, treating as success",
			slog.String("task_id", taskID),
		)
		return &TaskResponse{Name: taskID}, nil
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		slog.Warn("unexpected status code from task emulator",
			slog.String("task_id", taskID),
			slog.Int("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var emulatorResp emulatorTaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&emulatorResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	scheduleTime, _ := time.Parse(time.RFC3339, emulatorResp.ScheduleTime)
	createTime, _ := time.Parse(time.RFC3339, emulatorResp.CreateTime)

	slog.Info("task created on emulator",
		slog.String("task_name", emulatorResp.Name),
		slog.String("task_id", taskID),
	)

	return &TaskResponse{
		Name:         emulatorResp.Name,
		ScheduleTime: scheduleTime,
		CreateTime:   createTime,
	}, nil
}
