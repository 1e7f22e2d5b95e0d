package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

// UserAppHandler serves the mobile-app facing endpoints: assignment listing,
// assignment detail, answer submission and device registration.
type UserAppHandler struct {
	assignmentRepo domain.AssignmentRepository
	surveyRepo     domain.SurveyRepository
	userRepo       domain.UserRepository
}

func NewUserAppHandler(
	assignmentRepo domain.AssignmentRepository,
	surveyRepo domain.SurveyRepository,
	userRepo domain.UserRepository,
) *UserAppHandler {
	return &UserAppHandler{
		assignmentRepo: assignmentRepo,
		surveyRepo:     surveyRepo,
		userRepo:       userRepo,
	}
}

type assignmentSummary struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Answered bool      `json:"answered"`
	Date     time.Time `json:"date"`
}

type pendingAssignment struct {
	ID        string    `json:"id"`
	ExpiredAt time.Time `json:"expired_at"`
}

type assignmentListResponse struct {
	Assignments         []assignmentSummary `json:"assignments"`
	TotalAssignments    int                 `json:"total_assignments"`
	AnsweredAssignments int                 `json:"answered_assignments"`
	PendingAssignment   *pendingAssignment  `json:"pending_assignment"`
}

// HandleListAssignments returns the user's assignment history newest first,
// the answered/total counts and the next assignment still open for answering.
func (h *UserAppHandler) HandleListAssignments(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("user_id")

	when, ok := h.whenParam(c)
	if !ok {
		return
	}

	assignments, err := h.assignmentRepo.ListAssignments(ctx, userID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list assignments"})
		return
	}

	nonAnswered, err := h.assignmentRepo.CountNonAnsweredAssignments(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count assignments"})
		return
	}

	next, err := h.assignmentRepo.NextPendingAssignment(ctx, userID, when)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve pending assignment"})
		return
	}

	resp := assignmentListResponse{
		Assignments:         make([]assignmentSummary, 0, len(assignments)),
		TotalAssignments:    len(assignments),
		AnsweredAssignments: len(assignments) - nonAnswered,
	}
	for _, a := range assignments {
		resp.Assignments = append(resp.Assignments, assignmentSummary{
			ID:       a.ID,
			Title:    a.Title,
			Answered: a.Submitted(),
			Date:     a.CreatedAt,
		})
	}
	if next != nil {
		resp.PendingAssignment = &pendingAssignment{
			ID:        next.ID,
			ExpiredAt: next.ExpiredAt,
		}
	}

	c.JSON(http.StatusOK, resp)
}

type questionResponse struct {
	Kind      domain.QuestionKind `json:"kind"`
	Message   string              `json:"message"`
	Choices   []string            `json:"choices,omitempty"`
	MaxLength int                 `json:"max_length,omitempty"`
}

type assignmentDetailResponse struct {
	ID             string             `json:"id"`
	WelcomeMessage string             `json:"welcome_message"`
	SubmitMessage  string             `json:"submit_message"`
	Questions      []questionResponse `json:"questions"`
	ExpiredAt      time.Time          `json:"expired_at"`
}

// HandleGetAssignment returns the survey content for one assignment and
// records the open on the assignment. A failed open record does not fail the
// read.
func (h *UserAppHandler) HandleGetAssignment(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("user_id")
	assignmentID := c.Param("assignment_id")

	assignment, err := h.assignmentRepo.GetAssignment(ctx, userID, assignmentID)
	if err != nil {
		h.respondRepoError(c, err, "failed to get assignment")
		return
	}

	survey, err := h.surveyRepo.GetSurvey(ctx, assignment.SurveyID)
	if err != nil {
		h.respondRepoError(c, err, "failed to get survey")
		return
	}

	if err := h.assignmentRepo.AppendOpened(ctx, userID, assignmentID, time.Now().UTC()); err != nil {
		slog.WarnContext(ctx, "failed to record assignment open",
			slog.String("user_id", userID),
			slog.String("assignment_id", assignmentID),
			slog.String("error", err.Error()),
		)
	}

	resp := assignmentDetailResponse{
		ID:             assignment.ID,
		WelcomeMessage: survey.WelcomeMessage,
		SubmitMessage:  survey.SubmitMessage,
		Questions:      make([]questionResponse, 0, len(survey.Questions)),
		ExpiredAt:      assignment.ExpiredAt,
	}
	for _, q := range survey.Questions {
		resp.Questions = append(resp.Questions, questionResponse{
			Kind:      q.Kind,
			Message:   q.Message,
			Choices:   q.Choices,
			MaxLength: q.MaxLength,
		})
	}

	c.JSON(http.StatusOK, resp)
}

type submittedAnswer struct {
	SelectedIndex   *int    `json:"selected_index"`
	SelectedIndices *[]int  `json:"selected_indices"`
	SpecifyAnswer   *string `json:"specify_answer"`
	Value           *string `json:"value"`
}

type submitRequest struct {
	Answers []submittedAnswer `json:"answers"`
}

// HandleSubmitAssignment records the final answers. Submissions after the
// assignment's expiration are rejected with 410 Gone.
func (h *UserAppHandler) HandleSubmitAssignment(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("user_id")
	assignmentID := c.Param("assignment_id")

	when, ok := h.whenParam(c)
	if !ok {
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission body"})
		return
	}

	answers := make([]domain.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answer, err := a.toDomain()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		answers = append(answers, answer)
	}

	if err := h.assignmentRepo.SubmitAssignment(ctx, userID, assignmentID, when, answers); err != nil {
		var tooLate domain.SubmissionTooLate
		if errors.As(err, &tooLate) {
			c.JSON(http.StatusGone, gin.H{"error": tooLate.Error()})
			return
		}
		h.respondRepoError(c, err, "failed to submit assignment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "submitted"})
}

func (a submittedAnswer) toDomain() (domain.Answer, error) {
	switch {
	case a.SelectedIndex != nil:
		return domain.Answer{
			Kind:          domain.AnswerSingleChoice,
			SelectedIndex: a.SelectedIndex,
			SpecifyAnswer: a.SpecifyAnswer,
		}, nil
	case a.SelectedIndices != nil:
		return domain.Answer{
			Kind:            domain.AnswerMultipleChoice,
			SelectedIndices: *a.SelectedIndices,
		}, nil
	case a.Value != nil:
		return domain.Answer{
			Kind:  domain.AnswerOpenEnded,
			Value: a.Value,
		}, nil
	default:
		return domain.Answer{}, errors.New("answer must set one of selected_index, selected_indices or value")
	}
}

type deviceRegistrationRequest struct {
	Token          string     `json:"token" binding:"required"`
	OS             string     `json:"os" binding:"required"`
	Version        string     `json:"version"`
	ConnectionTime *time.Time `json:"connection_time"`
}

// HandleRegisterDevice stores a push token for the user, creating the user
// record on first contact.
func (h *UserAppHandler) HandleRegisterDevice(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("user_id")

	var req deviceRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and os are required"})
		return
	}

	connection := time.Now().UTC()
	if req.ConnectionTime != nil {
		connection = req.ConnectionTime.UTC()
	}

	exists, err := h.userRepo.Exists(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up user"})
		return
	}
	if !exists {
		user := &domain.User{
			ID:        userID,
			CreatedAt: time.Now().UTC(),
		}
		if err := h.userRepo.CreateUser(ctx, user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
			return
		}
		slog.InfoContext(ctx, "user created on first device registration",
			slog.String("user_id", userID),
		)
	}

	device := domain.Device{
		Token:      req.Token,
		OS:         domain.DeviceOS(req.OS),
		Version:    req.Version,
		Connection: connection,
	}
	if err := h.userRepo.AddDeviceRegistration(ctx, userID, device); err != nil {
		h.respondRepoError(c, err, "failed to register device")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "registered"})
}

// whenParam reads the optional `when` query parameter (RFC3339) used by
// clients to pin the reference time; it defaults to now.
func (h *UserAppHandler) whenParam(c *gin.Context) (time.Time, bool) {
	whenStr := c.Query("when")
	if whenStr == "" {
		return time.Now().UTC(), true
	}
	parsed, err := time.Parse(time.RFC3339, whenStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid when format, expected RFC3339"})
		return time.Time{}, false
	}
	return parsed.UTC(), true
}

func (h *UserAppHandler) respondRepoError(c *gin.Context, err error, message string) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}
