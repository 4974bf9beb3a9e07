package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"course-sales-backend/apierr"
)

type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type MessageBody struct {
	Message string `json:"message"`
}

// Error writes the client-facing part of err and records the full error
// on the context for the request logger.
func Error(c *gin.Context, err error) {
	ae := apierr.From(err)
	_ = c.Error(err)
	msg := ae.Message
	if msg == "" {
		msg = http.StatusText(ae.Status)
	}
	c.AbortWithStatusJSON(ae.Status, ErrorBody{Message: msg, Code: ae.Code})
}

func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, MessageBody{Message: msg})
}
