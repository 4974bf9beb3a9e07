package content

import (
	"github.com/gin-gonic/gin"

	"course-sales-backend/apierr"
	"course-sales-backend/controllers/response"
	"course-sales-backend/models/courses"
	"course-sales-backend/storage"
)

type LessonResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// ModuleResponse carries the duration under both names the two front ends
// read it by.
type ModuleResponse struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Duration     string           `json:"duration"`
	TimeEstimate string           `json:"timeEstimate"`
	Difficulty   string           `json:"difficulty"`
	Lessons      []LessonResponse `json:"lessons"`
}

func NewModuleResponse(m courses.Module) ModuleResponse {
	lessons := make([]LessonResponse, 0, len(m.Lessons))
	for _, l := range m.Lessons {
		lessons = append(lessons, LessonResponse{ID: l.ID, Title: l.Title, Summary: l.Summary})
	}
	return ModuleResponse{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		Duration:     m.Duration,
		TimeEstimate: m.Duration,
		Difficulty:   m.Difficulty,
		Lessons:      lessons,
	}
}

type Handler struct {
	modules storage.ModuleRepository
}

func NewHandler(modules storage.ModuleRepository) *Handler {
	return &Handler{modules: modules}
}

// ListModules returns the whole curriculum in storage order.
func (h *Handler) ListModules(c *gin.Context) {
	modules, err := h.modules.List(c.Request.Context())
	if err != nil {
		response.Error(c, apierr.Internal("Error fetching modules", err))
		return
	}

	out := make([]ModuleResponse, 0, len(modules))
	for _, m := range modules {
		out = append(out, NewModuleResponse(m))
	}
	response.OK(c, out)
}
