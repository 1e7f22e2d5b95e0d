package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studypulse/survey-scheduling/internal/service/schedule"
)

type SchedulerHandler struct {
	scheduleService *schedule.Service
}

func NewSchedulerHandler(scheduleService *schedule.Service) *SchedulerHandler {
	return &SchedulerHandler{
		scheduleService: scheduleService,
	}
}

// HandleRun triggers one scheduling pass. An optional ref_time query
// parameter (RFC3339) replaces the wall clock, which makes runs replayable.
func (h *SchedulerHandler) HandleRun(c *gin.Context) {
	ctx := c.Request.Context()

	refTime := time.Now().UTC()
	if refTimeStr := c.Query("ref_time"); refTimeStr != "" {
		parsed, err := time.Parse(time.RFC3339, refTimeStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ref_time format, expected RFC3339"})
			return
		}
		refTime = parsed
	}

	run, err := h.scheduleService.ScheduleAssignments(ctx, refTime)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scheduling run failed"})
		return
	}

	c.JSON(http.StatusOK, run)
}
