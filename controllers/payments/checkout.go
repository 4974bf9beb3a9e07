package payments

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"course-sales-backend/apierr"
	"course-sales-backend/controllers/response"
	"course-sales-backend/logger"
	"course-sales-backend/services"
)

type CheckoutResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type Handler struct {
	log       *logger.Logger
	provider  services.CheckoutProvider
	verifier  services.WebhookVerifier
	auth      services.Authenticator
	item      services.LineItem
	clientURL string
}

type Deps struct {
	Log      *logger.Logger
	Provider services.CheckoutProvider
	Verifier services.WebhookVerifier
	Item     services.LineItem
	// Auth is optional. A valid bearer token tags the session with the buyer.
	Auth services.Authenticator
	// ClientURL is used for redirects when the request carries no Origin.
	ClientURL string
}

func NewHandler(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		log:       log.With("handler", "payments"),
		provider:  d.Provider,
		verifier:  d.Verifier,
		auth:      d.Auth,
		item:      d.Item,
		clientURL: strings.TrimRight(d.ClientURL, "/"),
	}
}

// CreateCheckoutSession opens a hosted checkout for the course and returns
// where to send the browser.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	origin := h.redirectBase(c.GetHeader("Origin"))
	req := services.CheckoutRequest{
		Item:       h.item,
		SuccessURL: origin + "/dashboard",
		CancelURL:  origin + "/course",
	}
	if h.auth != nil && c.GetHeader("Authorization") != "" {
		if p, err := h.auth.Authenticate(c.Request.Context(), c.GetHeader("Authorization")); err == nil && !p.Anonymous {
			req.ClientReference = p.UserID
		}
	}

	sess, err := h.provider.CreateSession(c.Request.Context(), req)
	if err != nil {
		response.Error(c, apierr.Internal("Error creating checkout session", err))
		return
	}
	response.OK(c, CheckoutResponse{ID: sess.ID, URL: sess.URL})
}

// redirectBase accepts the Origin header only when it is an absolute
// http(s) URL without a path.
func (h *Handler) redirectBase(origin string) string {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		return h.clientURL
	}
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" || u.Path != "" {
		return h.clientURL
	}
	return origin
}
