package authentication

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"course-sales-backend/apierr"
	"course-sales-backend/controllers/response"
	"course-sales-backend/services"
	"course-sales-backend/storage"
)

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ChangePassword replaces the caller's password after checking the current one.
func (h *Handler) ChangePassword(c *gin.Context) {
	principal, ok := Require(c, h.auth)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apierr.BadRequest("current_password and new_password are required", err))
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		response.Error(c, apierr.BadRequest("password must be at least 8 characters", nil))
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.FindByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			response.Error(c, apierr.Unauthorized("User not found", err))
			return
		}
		response.Error(c, apierr.Internal("Error fetching user", err))
		return
	}
	if !services.CheckPassword(user.Password, req.CurrentPassword) {
		response.Error(c, apierr.Unauthorized("Current password is incorrect", nil))
		return
	}

	hashed, err := services.HashPassword(req.NewPassword)
	if err != nil {
		response.Error(c, apierr.Internal("Error hashing new password", err))
		return
	}
	if err := h.users.UpdatePassword(ctx, user.ID, hashed); err != nil {
		response.Error(c, apierr.Internal("Error updating password", err))
		return
	}
	h.log.Info("password changed", "user_id", user.ID)
	response.Message(c, http.StatusOK, "Password changed successfully")
}
