//go:build !gcloud

package taskqueue

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func emulatorResponse(w http.ResponseWriter, name string) {
	_ = json.NewEncoder(w).Encode(emulatorTaskResponse{
		Name:         name,
		ScheduleTime: "2026-01-07T12:00:00Z",
		CreateTime:   "2026-01-07T11:00:00Z",
	})
}

func TestHTTPTasksClientCreateTask(t *testing.T) {
	var received emulatorTaskRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tasks" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode task request: %v", err)
		}
		emulatorResponse(w, received.Task.Name)
	}))
	defer server.Close()

	client := NewHTTPTasksClient(HTTPTasksConfig{
		BaseURL:     server.URL,
		QueueName:   "default",
		CallbackURL: "http://app.internal",
		MaxRetries:  3,
	})

	task := &Task{
		ID:   "assignment-user-1-survey-1-20260107-120000",
		Kind: TaskKindAssignment,
		Payload: AssignmentTaskPayload{
			UserID:   "user-1",
			SurveyID: "survey-1",
			RefTime:  time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC),
		},
		ScheduleAt: time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC),
	}

	resp, err := client.CreateTask(context.Background(), task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Name != task.ID {
		t.Errorf("expected response name %q, got %q", task.ID, resp.Name)
	}

	if received.Task.Name != task.ID {
		t.Errorf("expected task name %q, got %q", task.ID, received.Task.Name)
	}
	if received.Task.HTTPRequest.URL != "http://app.internal/api/v1/tasks/assignments" {
		t.Errorf("unexpected callback url %q", received.Task.HTTPRequest.URL)
	}
	if received.Task.ScheduleTime != "2026-01-07T12:00:00Z" {
		t.Errorf("unexpected schedule time %q", received.Task.ScheduleTime)
	}

	decoded, err := base64.StdEncoding.DecodeString(received.Task.HTTPRequest.Body)
	if err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	var payload AssignmentTaskPayload
	if err := json.Unmarshal(decoded, &payload); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}
	if payload.UserID != "user-1" || payload.SurveyID != "survey-1" {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestHTTPTasksClientConflictIsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client := NewHTTPTasksClient(HTTPTasksConfig{
		BaseURL:     server.URL,
		CallbackURL: "http://app.internal",
		MaxRetries:  1,
	})

	task := &Task{ID: "task-1", Kind: TaskKindNotification, Payload: NotificationTaskPayload{UserID: "user-1"}}
	if _, err := client.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("expected conflict to be treated as success, got %v", err)
	}
}

func TestHTTPTasksClientRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		emulatorResponse(w, "task-1")
	}))
	defer server.Close()

	client := NewHTTPTasksClient(HTTPTasksConfig{
		BaseURL:     server.URL,
		CallbackURL: "http://app.internal",
		MaxRetries:  3,
	})

	task := &Task{ID: "task-1", Kind: TaskKindNotification, Payload: NotificationTaskPayload{UserID: "user-1"}}
	if _, err := client.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestHTTPTasksClientNamedQueuePath(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		emulatorResponse(w, "task-1")
	}))
	defer server.Close()

	client := NewHTTPTasksClient(HTTPTasksConfig{
		BaseURL:     server.URL,
		QueueName:   "scheduling",
		CallbackURL: "http://app.internal",
		MaxRetries:  1,
	})

	task := &Task{ID: "task-1", Kind: TaskKindAssignment, Payload: AssignmentTaskPayload{UserID: "user-1"}}
	if _, err := client.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/tasks/scheduling" {
		t.Errorf("expected queue-scoped path, got %q", path)
	}
}
