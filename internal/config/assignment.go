package config

import (
	"os"
	"strings"
	"time"
)

const (
	expirationDelayEnv = "ASSIGNMENT_EXPIRATION_DELAY"
	reminderDelaysEnv  = "REMINDER_DELAYS"

	defaultExpirationDelay = time.Hour
	defaultReminderDelays  = "30m"
)

type AssignmentConfig struct {
	// ExpirationDelay is added to an assignment's creation time to fix its
	// expiration. It is applied once at creation.
	ExpirationDelay time.Duration
	// ReminderDelays are the offsets after creation at which reminder
	// notifications are scheduled.
	ReminderDelays []time.Duration
}

func LoadAssignmentConfig() *AssignmentConfig {
	expirationDelay := defaultExpirationDelay
	if v := os.Getenv(expirationDelayEnv); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			expirationDelay = parsed
		}
	}

	raw := os.Getenv(reminderDelaysEnv)
	if raw == "" {
		raw = defaultReminderDelays
	}

	var reminderDelays []time.Duration
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if parsed, err := time.ParseDuration(part); err == nil && parsed > 0 {
			reminderDelays = append(reminderDelays, parsed)
		}
	}

	return &AssignmentConfig{
		ExpirationDelay: expirationDelay,
		ReminderDelays:  reminderDelays,
	}
}
