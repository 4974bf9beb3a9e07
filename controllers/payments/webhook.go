package payments

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"course-sales-backend/services"
)

// Webhook verifies a Stripe event and logs completed checkouts. Nothing is
// fulfilled here.
func (h *Handler) Webhook(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxWebhookBody)
	payload, err := io.ReadAll(body)
	if err != nil {
		c.String(http.StatusBadRequest, "Webhook Error: unable to read body")
		return
	}

	event, err := h.verifier.Verify(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.log.Debug("webhook rejected", "error", err.Error())
		c.String(http.StatusBadRequest, "Webhook Error: "+err.Error())
		return
	}

	if event.Type == services.EventCheckoutCompleted {
		h.log.Info("Payment successful for session", "session_id", event.SessionID, "event_id", event.ID)
	}
	c.Status(http.StatusOK)
}
