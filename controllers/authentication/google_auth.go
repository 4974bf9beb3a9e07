package authentication

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"course-sales-backend/apierr"
	"course-sales-backend/controllers/response"
	"course-sales-backend/logger"
	"course-sales-backend/models/users"
	"course-sales-backend/services"
	"course-sales-backend/storage"
)

const (
	oauthSessionName = "oauth-state"
	oauthStateKey    = "state"
)

type GoogleHandler struct {
	log      *logger.Logger
	provider services.IdentityProvider
	sessions sessions.Store
	users    storage.UserRepository
	tokens   services.TokenIssuer
}

func NewGoogleHandler(log *logger.Logger, provider services.IdentityProvider, store sessions.Store, users storage.UserRepository, tokens services.TokenIssuer) *GoogleHandler {
	return &GoogleHandler{
		log:      log.With("handler", "google_auth"),
		provider: provider,
		sessions: store,
		users:    users,
		tokens:   tokens,
	}
}

// HandleGoogleLogin stores a fresh state in the session cookie and sends the
// browser to Google.
func (h *GoogleHandler) HandleGoogleLogin(c *gin.Context) {
	session, _ := h.sessions.Get(c.Request, oauthSessionName)
	state := uuid.NewString()
	session.Values[oauthStateKey] = state
	if err := session.Save(c.Request, c.Writer); err != nil {
		response.Error(c, apierr.Internal("Error starting Google sign-in", err))
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, h.provider.AuthCodeURL(state))
}

// HandleGoogleCallback checks the state, exchanges the code and signs the
// Google account in, creating it on first use.
func (h *GoogleHandler) HandleGoogleCallback(c *gin.Context) {
	session, _ := h.sessions.Get(c.Request, oauthSessionName)
	want, _ := session.Values[oauthStateKey].(string)
	got := c.Query("state")
	if want == "" || subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		response.Error(c, apierr.BadRequest("Invalid OAuth state", nil))
		return
	}
	delete(session.Values, oauthStateKey)
	if session.Options != nil {
		session.Options.MaxAge = -1
	}
	_ = session.Save(c.Request, c.Writer)

	code := c.Query("code")
	if code == "" {
		response.Error(c, apierr.BadRequest("Code not found", nil))
		return
	}

	ctx := c.Request.Context()
	profile, err := h.provider.Profile(ctx, code)
	if err != nil {
		if errors.Is(err, services.ErrEmailNotVerified) {
			response.Error(c, apierr.Unauthorized("Google account email is not verified", err))
			return
		}
		response.Error(c, apierr.Unauthorized("Google sign-in failed", err))
		return
	}

	user, err := h.users.FindOrCreate(ctx, profile.Email, users.ProviderGoogle)
	if err != nil {
		response.Error(c, apierr.Internal("Error creating user", err))
		return
	}
	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		response.Error(c, apierr.Internal("Error generating token", err))
		return
	}
	h.log.Info("google sign-in", "user_id", user.ID)
	response.OK(c, TokenResponse{Token: token})
}
