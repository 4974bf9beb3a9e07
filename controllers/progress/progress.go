package progress

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"course-sales-backend/apierr"
	"course-sales-backend/controllers/authentication"
	"course-sales-backend/controllers/response"
	"course-sales-backend/models/users"
	"course-sales-backend/services"
	"course-sales-backend/storage"
)

type ProgressResponse struct {
	ModuleID         string   `json:"moduleId"`
	CompletedLessons []string `json:"completedLessons"`
}

type CompleteLessonRequest struct {
	ModuleID string `json:"moduleId" binding:"required"`
	LessonID string `json:"lessonId" binding:"required"`
}

type Handler struct {
	auth     services.Authenticator
	progress storage.ProgressRepository
	modules  storage.ModuleRepository
}

func NewHandler(auth services.Authenticator, progress storage.ProgressRepository, modules storage.ModuleRepository) *Handler {
	return &Handler{auth: auth, progress: progress, modules: modules}
}

func (h *Handler) GetProgress(c *gin.Context) {
	principal, ok := authentication.Require(c, h.auth)
	if !ok {
		return
	}

	records, err := h.progress.Progress(c.Request.Context(), principal.UserID)
	if err != nil {
		response.Error(c, translate(err, "Error fetching progress"))
		return
	}
	response.OK(c, toResponse(records))
}

// CompleteLesson marks one lesson of an existing module as done for the
// caller and returns the caller's full progress.
func (h *Handler) CompleteLesson(c *gin.Context) {
	principal, ok := authentication.Require(c, h.auth)
	if !ok {
		return
	}

	var req CompleteLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apierr.BadRequest("moduleId and lessonId are required", err))
		return
	}

	ctx := c.Request.Context()
	module, err := h.modules.Get(ctx, req.ModuleID)
	if err != nil {
		response.Error(c, translate(err, "Error updating progress"))
		return
	}
	if !module.HasLesson(req.LessonID) {
		response.Error(c, apierr.NotFound("Lesson not found", storage.ErrLessonNotFound))
		return
	}

	records, err := h.progress.CompleteLesson(ctx, principal.UserID, req.ModuleID, req.LessonID)
	if err != nil {
		response.Error(c, translate(err, "Error updating progress"))
		return
	}
	response.OK(c, toResponse(records))
}

func translate(err error, fallback string) error {
	switch {
	case errors.Is(err, storage.ErrUserNotFound):
		return apierr.NotFound("User not found", err)
	case errors.Is(err, storage.ErrModuleNotFound):
		return apierr.NotFound("Module not found", err)
	case errors.Is(err, storage.ErrReadOnly):
		return apierr.New(http.StatusNotImplemented, "read_only", "Progress updates are not available", err)
	default:
		return apierr.Internal(fallback, err)
	}
}

func toResponse(records []users.Progress) []ProgressResponse {
	out := make([]ProgressResponse, 0, len(records))
	for _, r := range records {
		lessons := r.CompletedLessons
		if lessons == nil {
			lessons = []string{}
		}
		out = append(out, ProgressResponse{ModuleID: r.ModuleID, CompletedLessons: lessons})
	}
	return out
}
