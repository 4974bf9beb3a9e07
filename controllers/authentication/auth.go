package authentication

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"course-sales-backend/apierr"
	"course-sales-backend/controllers/response"
	"course-sales-backend/logger"
	"course-sales-backend/models/users"
	"course-sales-backend/services"
	"course-sales-backend/storage"
)

const minPasswordLength = 8

type Credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
}

type Handler struct {
	log    *logger.Logger
	users  storage.UserRepository
	auth   services.Authenticator
	tokens services.TokenIssuer
}

func NewHandler(log *logger.Logger, users storage.UserRepository, auth services.Authenticator, tokens services.TokenIssuer) *Handler {
	return &Handler{log: log.With("handler", "auth"), users: users, auth: auth, tokens: tokens}
}

// Register creates a local account and signs the new user in.
func (h *Handler) Register(c *gin.Context) {
	var in Credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, apierr.BadRequest("email and password are required", err))
		return
	}
	if len(in.Password) < minPasswordLength {
		response.Error(c, apierr.BadRequest("password must be at least 8 characters", nil))
		return
	}

	hashed, err := services.HashPassword(in.Password)
	if err != nil {
		response.Error(c, apierr.Internal("Error hashing password", err))
		return
	}
	user := &users.User{Email: in.Email, Password: hashed, Provider: users.ProviderLocal}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			response.Error(c, apierr.Conflict("Email already registered", err))
			return
		}
		response.Error(c, apierr.Internal("Error creating user", err))
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		response.Error(c, apierr.Internal("Error generating token", err))
		return
	}
	h.log.Info("user registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, TokenResponse{Token: token})
}

// Login checks a password and returns a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var in Credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, apierr.BadRequest("email and password are required", err))
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), in.Email)
	if err != nil && !errors.Is(err, storage.ErrUserNotFound) {
		response.Error(c, apierr.Internal("Error fetching user", err))
		return
	}
	if user == nil || !services.CheckPassword(user.Password, in.Password) {
		response.Error(c, apierr.Unauthorized("Invalid credentials", err))
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		response.Error(c, apierr.Internal("Error generating token", err))
		return
	}
	response.OK(c, TokenResponse{Token: token})
}

func (h *Handler) Me(c *gin.Context) {
	principal, ok := Require(c, h.auth)
	if !ok {
		return
	}
	user, err := h.users.FindByID(c.Request.Context(), principal.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			response.Error(c, apierr.NotFound("User not found", err))
			return
		}
		response.Error(c, apierr.Internal("Error fetching user", err))
		return
	}
	response.OK(c, UserResponse{ID: user.ID, Email: user.Email, Provider: user.Provider})
}

// Logout only acknowledges; tokens are stateless and the client drops its copy.
func (h *Handler) Logout(c *gin.Context) {
	response.Message(c, http.StatusOK, "Logged out successfully")
}
