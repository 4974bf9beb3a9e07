package authentication

import (
	"errors"

	"github.com/gin-gonic/gin"

	"course-sales-backend/apierr"
	"course-sales-backend/controllers/response"
	"course-sales-backend/services"
)

// Require runs the authenticator for a protected operation. On failure it
// writes the 401 and returns ok=false; the handler must stop.
func Require(c *gin.Context, auth services.Authenticator) (services.Principal, bool) {
	p, err := auth.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
	if err == nil {
		return p, true
	}
	msg := "Invalid or expired token"
	if errors.Is(err, services.ErrMissingToken) {
		msg = "Authorization header required"
	}
	response.Error(c, apierr.Unauthorized(msg, err))
	return services.Principal{}, false
}
