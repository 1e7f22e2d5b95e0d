package taskqueue

import "testing"

func TestSanitizeTaskID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean id unchanged", "assignment-user-1-survey-1-20260107-120000", "assignment-user-1-survey-1-20260107-120000"},
		{"colons replaced", "notification-user:1-a:b", "notification-user-1-a-b"},
		{"unicode replaced", "user-日本", "user---"},
		{"underscores kept", "task_one", "task_one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeTaskID(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCallbackPath(t *testing.T) {
	if got := TaskKindAssignment.CallbackPath(); got != "/api/v1/tasks/assignments" {
		t.Errorf("unexpected assignment callback path %q", got)
	}
	if got := TaskKindNotification.CallbackPath(); got != "/api/v1/tasks/notifications" {
		t.Errorf("unexpected notification callback path %q", got)
	}
	if got := TaskKind("unknown").CallbackPath(); got != "" {
		t.Errorf("expected empty path for unknown kind, got %q", got)
	}
}
