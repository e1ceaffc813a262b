package delivery

import (
	"time"

	"github.com/baysoko/backend/internal/domain/delivery"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContactRequest is one side's name and address details
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Address string `json:"address" binding:"required"`
	Phone   string `json:"phone" binding:"required,max=20"`
	Email   string `json:"email" binding:"omitempty,email"`
}

// PackageRequest describes the parcel being shipped
type PackageRequest struct {
	Description       string           `json:"description"`
	Weight            decimal.Decimal  `json:"weight" binding:"required"`
	Length            *decimal.Decimal `json:"length"`
	Width             *decimal.Decimal `json:"width"`
	Height            *decimal.Decimal `json:"height"`
	DeclaredValue     decimal.Decimal  `json:"declared_value"`
	Fragile           bool             `json:"fragile"`
	RequiresSignature bool             `json:"requires_signature"`
}

// CreateDeliveryRequest opens a courier delivery for a paid order
type CreateDeliveryRequest struct {
	OrderID     uuid.UUID      `json:"order_id" binding:"required"`
	Pickup      ContactRequest `json:"pickup" binding:"required"`
	PickupNotes string         `json:"pickup_notes"`
	Package     PackageRequest `json:"package" binding:"required"`
}

// UpdateDeliveryStatusRequest moves a delivery along its lifecycle
type UpdateDeliveryStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// AssignCourierRequest records who carries the package
type AssignCourierRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Phone string `json:"phone" binding:"max=20"`
}

// StatusHistoryResponse is one recorded status change
type StatusHistoryResponse struct {
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Notes     string    `json:"notes,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

// DeliveryResponse represents a delivery request in API responses
type DeliveryResponse struct {
	ID             uuid.UUID               `json:"id"`
	OrderID        uuid.UUID               `json:"order_id"`
	TrackingNumber string                  `json:"tracking_number"`
	Status         string                  `json:"status"`
	Priority       int                     `json:"priority"`
	PaymentState   string                  `json:"payment_state"`
	RecipientName  string                  `json:"recipient_name"`
	RecipientPhone string                  `json:"recipient_phone"`
	Address        string                  `json:"address"`
	ZoneID         *uuid.UUID              `json:"zone_id,omitempty"`
	DeliveryFee    decimal.Decimal         `json:"delivery_fee"`
	TotalAmount    decimal.Decimal         `json:"total_amount"`
	CourierName    string                  `json:"courier_name,omitempty"`
	CourierPhone   string                  `json:"courier_phone,omitempty"`
	PickedUpAt     *time.Time              `json:"picked_up_at,omitempty"`
	EstimatedAt    *time.Time              `json:"estimated_at,omitempty"`
	DeliveredAt    *time.Time              `json:"delivered_at,omitempty"`
	History        []StatusHistoryResponse `json:"history,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
}

// TrackResponse is the public tracking view. It deliberately omits
// contact details beyond the recipient's first name.
type TrackResponse struct {
	TrackingNumber string                  `json:"tracking_number"`
	Status         string                  `json:"status"`
	EstimatedAt    *time.Time              `json:"estimated_at,omitempty"`
	DeliveredAt    *time.Time              `json:"delivered_at,omitempty"`
	History        []StatusHistoryResponse `json:"history"`
}

// DeliveryListQuery filters delivery listings
type DeliveryListQuery struct {
	Status   string `form:"status"`
	ZoneID   string `form:"zone_id"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// DeliveryListResponse is a page of deliveries
type DeliveryListResponse struct {
	Deliveries []DeliveryResponse `json:"deliveries"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
}

// ZoneRequest creates or updates a delivery zone
type ZoneRequest struct {
	Name           string          `json:"name" binding:"required,max=100"`
	Description    string          `json:"description"`
	CenterLat      decimal.Decimal `json:"center_lat"`
	CenterLng      decimal.Decimal `json:"center_lng"`
	RadiusKM       decimal.Decimal `json:"radius_km" binding:"required"`
	DeliveryFee    decimal.Decimal `json:"delivery_fee"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount"`
}

// ZoneResponse represents a delivery zone in API responses
type ZoneResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	CenterLat      decimal.Decimal `json:"center_lat"`
	CenterLng      decimal.Decimal `json:"center_lng"`
	RadiusKM       decimal.Decimal `json:"radius_km"`
	DeliveryFee    decimal.Decimal `json:"delivery_fee"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount"`
	Active         bool            `json:"active"`
}

// ToDeliveryResponse converts a delivery request to its response DTO
func ToDeliveryResponse(d *delivery.DeliveryRequest) DeliveryResponse {
	return DeliveryResponse{
		ID:             d.ID,
		OrderID:        d.OrderID,
		TrackingNumber: d.TrackingNumber,
		Status:         string(d.Status),
		Priority:       d.Priority,
		PaymentState:   string(d.PaymentState),
		RecipientName:  d.Recipient.Name,
		RecipientPhone: d.Recipient.Phone,
		Address:        d.Recipient.Address,
		ZoneID:         d.ZoneID,
		DeliveryFee:    d.DeliveryFee,
		TotalAmount:    d.TotalAmount,
		CourierName:    d.CourierName,
		CourierPhone:   d.CourierPhone,
		PickedUpAt:     d.PickedUpAt,
		EstimatedAt:    d.EstimatedAt,
		DeliveredAt:    d.DeliveredAt,
		History:        toHistoryResponses(d.History),
		CreatedAt:      d.CreatedAt,
	}
}

// ToTrackResponse converts a delivery to its public tracking view
func ToTrackResponse(d *delivery.DeliveryRequest) TrackResponse {
	return TrackResponse{
		TrackingNumber: d.TrackingNumber,
		Status:         string(d.Status),
		EstimatedAt:    d.EstimatedAt,
		DeliveredAt:    d.DeliveredAt,
		History:        toHistoryResponses(d.History),
	}
}

// ToZoneResponse converts a zone to its response DTO
func ToZoneResponse(z *delivery.Zone) ZoneResponse {
	return ZoneResponse{
		ID:             z.ID,
		Name:           z.Name,
		Description:    z.Description,
		CenterLat:      z.CenterLat,
		CenterLng:      z.CenterLng,
		RadiusKM:       z.RadiusKM,
		DeliveryFee:    z.DeliveryFee,
		MinOrderAmount: z.MinOrderAmount,
		Active:         z.Active,
	}
}

func toHistoryResponses(history []delivery.StatusHistory) []StatusHistoryResponse {
	responses := make([]StatusHistoryResponse, len(history))
	for i, h := range history {
		responses[i] = StatusHistoryResponse{
			OldStatus: string(h.OldStatus),
			NewStatus: string(h.NewStatus),
			Notes:     h.Notes,
			ChangedAt: h.CreatedAt,
		}
	}
	return responses
}
