package config

import (
	"os"
	"strconv"
)

const (
	schedulerSeedEnv     = "SCHEDULER_SEED"
	schedulerCronEnv     = "SCHEDULER_CRON"
	schedulerDispatchEnv = "SCHEDULER_DIRECT_DISPATCH"
)

type SchedulerConfig struct {
	// Seed fixes the random source used to pick notification instants.
	// Zero means seed from the clock.
	Seed int64
	// Cron is an optional cron expression that triggers scheduling runs
	// in-process. Empty means runs are triggered over HTTP only.
	Cron string
	// DirectDispatch bypasses the task queue and executes assignment
	// creation in-process during a scheduling run.
	DirectDispatch bool
}

func LoadSchedulerConfig() *SchedulerConfig {
	seed := int64(0)
	if v := os.Getenv(schedulerSeedEnv); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			seed = parsed
		}
	}

	return &SchedulerConfig{
		Seed:           seed,
		Cron:           os.Getenv(schedulerCronEnv),
		DirectDispatch: os.Getenv(schedulerDispatchEnv) == "true",
	}
}
