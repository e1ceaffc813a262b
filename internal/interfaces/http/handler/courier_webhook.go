package handler

import (
	"encoding/json"
	"io"

	deliveryapp "github.com/baysoko/backend/internal/application/delivery"
	"github.com/baysoko/backend/internal/infrastructure/webhook"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CourierWebhookHandler receives signed status updates from courier
// partners. It is the only inbound path allowed to move orders to
// shipped or delivered.
type CourierWebhookHandler struct {
	BaseHandler
	deliveryService *deliveryapp.DeliveryService
	secret          string
	logger          *zap.Logger
}

// NewCourierWebhookHandler creates a new CourierWebhookHandler
func NewCourierWebhookHandler(deliveryService *deliveryapp.DeliveryService, secret string, logger *zap.Logger) *CourierWebhookHandler {
	return &CourierWebhookHandler{
		deliveryService: deliveryService,
		secret:          secret,
		logger:          logger,
	}
}

// CourierUpdatePayload is the signed body couriers POST back
type CourierUpdatePayload struct {
	TrackingNumber string `json:"tracking_number"`
	Status         string `json:"status"`
	Notes          string `json:"notes"`
}

// HandleUpdate verifies the HMAC signature and applies the status
// change through the guarded delivery transition path
func (h *CourierWebhookHandler) HandleUpdate(c *gin.Context) {
	if h.secret == "" {
		h.logger.Warn("Courier webhook received but no secret is configured")
		h.NotFound(c, "Webhook not configured")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Unable to read request body")
		return
	}

	signature := c.GetHeader(webhook.SignatureHeader)
	if signature == "" || !webhook.Verify(h.secret, body, signature) {
		h.logger.Warn("Courier webhook signature verification failed",
			zap.String("request_id", getRequestID(c)))
		h.Unauthorized(c, "Invalid webhook signature")
		return
	}

	var payload CourierUpdatePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.BadRequest(c, "Invalid payload")
		return
	}
	if payload.TrackingNumber == "" || payload.Status == "" {
		h.BadRequest(c, "tracking_number and status are required")
		return
	}

	err = h.deliveryService.ProcessCourierUpdate(c.Request.Context(), payload.TrackingNumber, payload.Status, payload.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"processed": true})
}
