package handler

import (
	paymentapp "github.com/baysoko/backend/internal/application/payment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EscrowHandler handles escrow endpoints tied to orders
type EscrowHandler struct {
	BaseHandler
	escrowService *paymentapp.EscrowService
}

// NewEscrowHandler creates a new EscrowHandler
func NewEscrowHandler(escrowService *paymentapp.EscrowService) *EscrowHandler {
	return &EscrowHandler{
		escrowService: escrowService,
	}
}

// GetByOrder returns the escrow held for an order
func (h *EscrowHandler) GetByOrder(c *gin.Context) {
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

	result, err := h.escrowService.GetByOrder(c.Request.Context(), callerID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ConfirmDelivery lets the buyer confirm receipt, releasing the
// escrow to the seller
func (h *EscrowHandler) ConfirmDelivery(c *gin.Context) {
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

	result, err := h.escrowService.ConfirmDelivery(c.Request.Context(), callerID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// OpenDispute freezes the escrow and flags the order for support
func (h *EscrowHandler) OpenDispute(c *gin.Context) {
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

	result, err := h.escrowService.OpenDispute(c.Request.Context(), callerID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
