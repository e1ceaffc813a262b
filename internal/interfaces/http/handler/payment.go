package handler

import (
	"io"
	"net/http"

	paymentapp "github.com/baysoko/backend/internal/application/payment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles order payment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService  *paymentapp.PaymentService
	callbackService *paymentapp.CallbackService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *paymentapp.PaymentService, callbackService *paymentapp.CallbackService) *PaymentHandler {
	return &PaymentHandler{
		paymentService:  paymentService,
		callbackService: callbackService,
	}
}

// GetByOrder returns the latest payment for an order
func (h *PaymentHandler) GetByOrder(c *gin.Context) {
	callerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	result, err := h.paymentService.GetByOrder(c.Request.Context(), callerID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Retry re-sends the STK push for a failed order payment
func (h *PaymentHandler) Retry(c *gin.Context) {
	callerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req paymentapp.RetryPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.paymentService.Retry(c.Request.Context(), callerID, orderID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// MpesaCallback receives STK push results from Daraja. The body is
// passed through raw; the callback service always produces an ack
// because Daraja retries anything but ResultCode 0.
func (h *PaymentHandler) MpesaCallback(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusOK, paymentapp.CallbackAck{ResultCode: 0, ResultDesc: "Accepted"})
		return
	}

	ack, err := h.callbackService.HandleCallback(c.Request.Context(), payload)
	if err != nil || ack == nil {
		c.JSON(http.StatusOK, paymentapp.CallbackAck{ResultCode: 0, ResultDesc: "Accepted"})
		return
	}

	c.JSON(http.StatusOK, ack)
}
