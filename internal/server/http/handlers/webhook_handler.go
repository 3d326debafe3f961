package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coffeebeans/shop/internal/server/http/dto"
)

// WebhookHandler receives payment processor notifications.
type WebhookHandler struct {
	facade PaymentFacade
	logger *slog.Logger
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade PaymentFacade, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{facade: facade, logger: logger}
}

// Notify handles POST /api/pay/mp/webhook. The processor retries on
// non-2xx responses, so every notification is acknowledged with 200 and
// failures are only logged; the reconcile worker covers lost deliveries.
func (h *WebhookHandler) Notify(c *gin.Context) {
	var body dto.WebhookBody
	// Some notification variants arrive with an empty body; ignore
	// decode errors and fall back to query parameters.
	_ = c.ShouldBindJSON(&body)

	topic := c.Query("topic")
	if topic == "" {
		topic = c.Query("type")
	}
	if topic == "" {
		topic = body.Type
	}
	resourceID := body.ResourceID(c.Query("id"))

	if err := h.facade.HandlePaymentNotification(c.Request.Context(), topic, resourceID); err != nil {
		h.logger.Error("webhook processing failed",
			slog.String("topic", topic),
			slog.String("resource_id", resourceID),
			slog.String("error", err.Error()),
		)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Ping handles GET /api/pay/mp/webhook, used to verify the callback URL
// is reachable from the outside.
func (h *WebhookHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
