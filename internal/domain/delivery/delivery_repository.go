package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DeliveryRequestRepository defines the interface for delivery persistence
type DeliveryRequestRepository interface {
	// Create creates a new delivery request with its history
	Create(ctx context.Context, request *DeliveryRequest) error

	// Update updates an existing delivery request
	Update(ctx context.Context, request *DeliveryRequest) error

	// FindByID finds a delivery request by ID
	FindByID(ctx context.Context, id uuid.UUID) (*DeliveryRequest, error)

	// FindByOrder finds the delivery request for an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*DeliveryRequest, error)

	// FindByTrackingNumber finds a delivery request by tracking number.
	// Public tracking goes through this lookup.
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*DeliveryRequest, error)

	// FindAll finds delivery requests matching the filter
	FindAll(ctx context.Context, filter DeliveryFilter) ([]*DeliveryRequest, int64, error)

	// FindOpenByZone finds live deliveries assigned to a zone
	FindOpenByZone(ctx context.Context, zoneID uuid.UUID) ([]*DeliveryRequest, error)
}

// ZoneRepository defines the interface for delivery zone persistence
type ZoneRepository interface {
	// Create creates a new zone
	Create(ctx context.Context, zone *Zone) error

	// Update updates an existing zone
	Update(ctx context.Context, zone *Zone) error

	// Delete removes a zone
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a zone by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Zone, error)

	// FindActive finds all zones currently accepting deliveries
	FindActive(ctx context.Context) ([]*Zone, error)

	// FindByName finds a zone by its unique name
	FindByName(ctx context.Context, name string) (*Zone, error)
}

// WebhookLogRepository defines the interface for webhook log persistence
type WebhookLogRepository interface {
	// Create creates a new webhook log
	Create(ctx context.Context, log *WebhookLog) error

	// Update updates an existing webhook log
	Update(ctx context.Context, log *WebhookLog) error

	// FindByID finds a webhook log by ID
	FindByID(ctx context.Context, id uuid.UUID) (*WebhookLog, error)

	// FindByOrder finds all webhook logs for an order, newest first
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*WebhookLog, error)

	// FindDueForRetry finds failed logs whose retry time has passed
	FindDueForRetry(ctx context.Context, now time.Time, limit int) ([]*WebhookLog, error)
}

// DeliveryFilter defines filtering options for delivery queries
type DeliveryFilter struct {
	OrderID   *uuid.UUID
	ZoneID    *uuid.UUID
	Status    *Status
	Priority  *int
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// NewDeliveryFilter creates a filter with default pagination
func NewDeliveryFilter() DeliveryFilter {
	return DeliveryFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// WithOrder filters by order
func (f DeliveryFilter) WithOrder(orderID uuid.UUID) DeliveryFilter {
	f.OrderID = &orderID
	return f
}

// WithZone filters by zone
func (f DeliveryFilter) WithZone(zoneID uuid.UUID) DeliveryFilter {
	f.ZoneID = &zoneID
	return f
}

// WithStatus filters by status
func (f DeliveryFilter) WithStatus(status Status) DeliveryFilter {
	f.Status = &status
	return f
}

// WithPriority filters by priority
func (f DeliveryFilter) WithPriority(priority int) DeliveryFilter {
	f.Priority = &priority
	return f
}

// WithPagination sets page and page size
func (f DeliveryFilter) WithPagination(page, pageSize int) DeliveryFilter {
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	return f
}

// Offset calculates the query offset
func (f DeliveryFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Limit returns the query limit, capped at 100
func (f DeliveryFilter) Limit() int {
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
