package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studypulse/survey-scheduling/internal/domain"
	"github.com/studypulse/survey-scheduling/internal/infra/taskqueue"
	"github.com/studypulse/survey-scheduling/internal/service/assignment"
	"github.com/studypulse/survey-scheduling/internal/service/notification"
)

// TaskHandler receives the queue callbacks. Both callbacks are delivered
// at-least-once, so every path through them must tolerate replays.
type TaskHandler struct {
	assignmentService   *assignment.Service
	notificationService *notification.Service
	ledger              domain.DispatchLedger
}

func NewTaskHandler(
	assignmentService *assignment.Service,
	notificationService *notification.Service,
	ledger domain.DispatchLedger,
) *TaskHandler {
	return &TaskHandler{
		assignmentService:   assignmentService,
		notificationService: notificationService,
		ledger:              ledger,
	}
}

// HandleAssignmentTask creates the assignment a scheduling run requested.
func (h *TaskHandler) HandleAssignmentTask(c *gin.Context) {
	ctx := c.Request.Context()

	var payload taskqueue.AssignmentTaskPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task payload"})
		return
	}
	if payload.UserID == "" || payload.SurveyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and survey_id are required"})
		return
	}

	assignmentID, err := h.assignmentService.CreateAssignment(ctx, payload.UserID, payload.SurveyID, payload.RefTime.UTC())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create assignment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignment_id": assignmentID})
}

// HandleNotificationTask delivers one queued notification. Replays of an
// already committed task key return 200 without touching the channels.
func (h *TaskHandler) HandleNotificationTask(c *gin.Context) {
	ctx := c.Request.Context()

	var payload taskqueue.NotificationTaskPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task payload"})
		return
	}
	if payload.UserID == "" || payload.AssignmentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and assignment_id are required"})
		return
	}

	kind := domain.NotificationKind(payload.Kind)
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown notification kind"})
		return
	}

	when := time.Now().UTC()
	if payload.When != nil {
		when = payload.When.UTC()
	}

	taskKey := domain.NotificationTaskKey(payload.UserID, payload.AssignmentID, payload.Kind, when)
	if h.ledger != nil {
		committed, err := h.ledger.IsCommitted(ctx, taskKey)
		if err != nil {
			slog.WarnContext(ctx, "dispatch ledger check failed, continuing",
				slog.String("task_key", taskKey),
				slog.String("error", err.Error()),
			)
		} else if committed {
			slog.InfoContext(ctx, "notification task already committed, skipping",
				slog.String("task_key", taskKey),
			)
			c.JSON(http.StatusOK, gin.H{"status": "already_committed"})
			return
		}
	}

	if err := h.notificationService.NotifyUser(ctx, payload.UserID, payload.AssignmentID, kind, payload.When); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deliver notification"})
		return
	}

	if h.ledger != nil {
		if err := h.ledger.Commit(ctx, taskKey, time.Now().UTC()); err != nil {
			slog.WarnContext(ctx, "failed to commit task to dispatch ledger",
				slog.String("task_key", taskKey),
				slog.String("error", err.Error()),
			)
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "delivered"})
}
