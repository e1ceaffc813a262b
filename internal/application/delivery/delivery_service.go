package delivery

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/delivery"
	"github.com/baysoko/backend/internal/domain/order"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outbound webhook event types
const (
	EventDeliveryCreated       = "delivery.created"
	EventDeliveryStatusChanged = "delivery.status_changed"
)

// deliveryStateFor maps courier statuses onto the order's delivery
// view. Courier-internal states like assigned and picked_up have no
// order-side equivalent and map to the zero value.
func deliveryStateFor(status delivery.Status) order.DeliveryState {
	switch status {
	case delivery.StatusAccepted:
		return order.DeliveryStateAccepted
	case delivery.StatusInTransit:
		return order.DeliveryStateInTransit
	case delivery.StatusOutForDelivery:
		return order.DeliveryStateOutForDelivery
	case delivery.StatusDelivered:
		return order.DeliveryStateDelivered
	case delivery.StatusFailed:
		return order.DeliveryStateFailed
	case delivery.StatusCancelled:
		return order.DeliveryStateCancelled
	default:
		return ""
	}
}

// DeliveryService manages courier deliveries for paid orders. Status
// changes flow back onto the order through its guarded delivery
// transition path, and every change goes out as a signed webhook.
type DeliveryService struct {
	deliveryRepo delivery.DeliveryRequestRepository
	zoneRepo     delivery.ZoneRepository
	orderRepo    order.OrderRepository
	notifier     *WebhookNotifier
	logger       *zap.Logger
}

// NewDeliveryService creates a new delivery service
func NewDeliveryService(
	deliveryRepo delivery.DeliveryRequestRepository,
	zoneRepo delivery.ZoneRepository,
	orderRepo order.OrderRepository,
	notifier *WebhookNotifier,
	logger *zap.Logger,
) *DeliveryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeliveryService{
		deliveryRepo: deliveryRepo,
		zoneRepo:     zoneRepo,
		orderRepo:    orderRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

// CreateFromOrder opens a delivery for a paid order and links the
// tracking number back onto it. One delivery per order.
func (s *DeliveryService) CreateFromOrder(ctx context.Context, req *CreateDeliveryRequest) (*DeliveryResponse, error) {
	ord, err := s.findOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !ord.IsPaid() {
		return nil, shared.NewDomainError("ORDER_NOT_PAID", "Deliveries are created for paid orders only")
	}

	if _, err := s.deliveryRepo.FindByOrder(ctx, req.OrderID); err == nil {
		return nil, shared.NewDomainError("DELIVERY_EXISTS", "Order already has a delivery")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	recipient := delivery.Contact{
		Name:    ord.BuyerName(),
		Address: ord.Shipping.Address,
		Phone:   ord.Shipping.Phone,
		Email:   ord.Shipping.Email,
	}
	pickup := delivery.Contact{
		Name:    req.Pickup.Name,
		Address: req.Pickup.Address,
		Phone:   req.Pickup.Phone,
		Email:   req.Pickup.Email,
	}
	pkg := delivery.Package{
		Description:       req.Package.Description,
		Weight:            req.Package.Weight,
		Length:            req.Package.Length,
		Width:             req.Package.Width,
		Height:            req.Package.Height,
		DeclaredValue:     req.Package.DeclaredValue,
		Fragile:           req.Package.Fragile,
		RequiresSignature: req.Package.RequiresSignature,
	}

	d, err := delivery.NewDeliveryRequest(ord.ID, pickup, recipient, pkg, ord.TotalPrice)
	if err != nil {
		return nil, err
	}
	d.PickupNotes = req.PickupNotes
	d.MarkPaid()

	if err := s.deliveryRepo.Create(ctx, d); err != nil {
		return nil, err
	}

	if err := ord.AttachDeliveryRequest(d.ID.String(), d.TrackingNumber); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, ord); err != nil {
		return nil, err
	}

	s.notify(ctx, ord.ID, EventDeliveryCreated, d)

	s.logger.Info("delivery created",
		zap.String("order_id", ord.ID.String()),
		zap.String("tracking_number", d.TrackingNumber))

	resp := ToDeliveryResponse(d)
	return &resp, nil
}

// Get returns a delivery by ID
func (s *DeliveryService) Get(ctx context.Context, id uuid.UUID) (*DeliveryResponse, error) {
	d, err := s.findDelivery(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToDeliveryResponse(d)
	return &resp, nil
}

// Track returns the public tracking view for a tracking number
func (s *DeliveryService) Track(ctx context.Context, trackingNumber string) (*TrackResponse, error) {
	d, err := s.deliveryRepo.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("DELIVERY_NOT_FOUND", "No delivery with that tracking number")
		}
		return nil, err
	}

	resp := ToTrackResponse(d)
	return &resp, nil
}

// List returns deliveries matching the query
func (s *DeliveryService) List(ctx context.Context, query *DeliveryListQuery) (*DeliveryListResponse, error) {
	filter := delivery.NewDeliveryFilter()
	if query != nil {
		if query.Status != "" {
			filter = filter.WithStatus(delivery.Status(query.Status))
		}
		if query.ZoneID != "" {
			if zoneID, err := uuid.Parse(query.ZoneID); err == nil {
				filter = filter.WithZone(zoneID)
			}
		}
		filter = filter.WithPagination(query.Page, query.PageSize)
	}

	deliveries, total, err := s.deliveryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]DeliveryResponse, len(deliveries))
	for i, d := range deliveries {
		responses[i] = ToDeliveryResponse(d)
	}

	return &DeliveryListResponse{
		Deliveries: responses,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}, nil
}

// UpdateStatus moves a delivery along its lifecycle and mirrors the
// change onto the order.
func (s *DeliveryService) UpdateStatus(ctx context.Context, id uuid.UUID, changedBy *uuid.UUID, req *UpdateDeliveryStatusRequest) (*DeliveryResponse, error) {
	d, err := s.findDelivery(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := d.UpdateStatus(delivery.Status(req.Status), changedBy, req.Notes); err != nil {
		return nil, err
	}
	if err := s.deliveryRepo.Update(ctx, d); err != nil {
		return nil, err
	}

	s.applyToOrder(ctx, d)
	s.notify(ctx, d.OrderID, EventDeliveryStatusChanged, d)

	resp := ToDeliveryResponse(d)
	return &resp, nil
}

// ProcessCourierUpdate applies a status update posted by the courier
// system, looked up by tracking number. Signature verification happens
// before this is called.
func (s *DeliveryService) ProcessCourierUpdate(ctx context.Context, trackingNumber, status, notes string) error {
	d, err := s.deliveryRepo.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("DELIVERY_NOT_FOUND", "No delivery with that tracking number")
		}
		return err
	}

	if err := d.UpdateStatus(delivery.Status(status), nil, notes); err != nil {
		return err
	}
	if err := s.deliveryRepo.Update(ctx, d); err != nil {
		return err
	}

	s.applyToOrder(ctx, d)

	s.logger.Info("courier status applied",
		zap.String("tracking_number", trackingNumber),
		zap.String("status", status))

	return nil
}

// AssignZone places a delivery in an active zone and applies its fee
func (s *DeliveryService) AssignZone(ctx context.Context, id, zoneID uuid.UUID) (*DeliveryResponse, error) {
	d, err := s.findDelivery(ctx, id)
	if err != nil {
		return nil, err
	}

	zone, err := s.zoneRepo.FindByID(ctx, zoneID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ZONE_NOT_FOUND", "Zone not found")
		}
		return nil, err
	}
	if !zone.Serves(d.TotalAmount) {
		return nil, shared.NewDomainError("ZONE_UNAVAILABLE", "Zone does not serve this delivery")
	}

	if err := d.AssignZone(zone.ID, zone.DeliveryFee); err != nil {
		return nil, err
	}
	if err := s.deliveryRepo.Update(ctx, d); err != nil {
		return nil, err
	}

	resp := ToDeliveryResponse(d)
	return &resp, nil
}

// AssignCourier records the carrier and moves the delivery to assigned
func (s *DeliveryService) AssignCourier(ctx context.Context, id uuid.UUID, changedBy *uuid.UUID, req *AssignCourierRequest) (*DeliveryResponse, error) {
	d, err := s.findDelivery(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := d.AssignCourier(req.Name, req.Phone, changedBy); err != nil {
		return nil, err
	}
	if err := s.deliveryRepo.Update(ctx, d); err != nil {
		return nil, err
	}

	s.applyToOrder(ctx, d)
	s.notify(ctx, d.OrderID, EventDeliveryStatusChanged, d)

	resp := ToDeliveryResponse(d)
	return &resp, nil
}

// applyToOrder mirrors the delivery status onto the order where a
// mapping exists. Order update failures are logged, not propagated;
// the delivery record is the source of truth and the next status
// change tries again.
func (s *DeliveryService) applyToOrder(ctx context.Context, d *delivery.DeliveryRequest) {
	state := deliveryStateFor(d.Status)
	if state == "" {
		return
	}

	ord, err := s.orderRepo.FindByID(ctx, d.OrderID)
	if err != nil {
		s.logger.Error("order missing for delivery",
			zap.String("order_id", d.OrderID.String()),
			zap.Error(err))
		return
	}
	if err := ord.ApplyDeliveryState(state); err != nil {
		s.logger.Warn("delivery state rejected by order",
			zap.String("order_id", ord.ID.String()),
			zap.String("state", string(state)),
			zap.Error(err))
		return
	}
	if err := s.orderRepo.Update(ctx, ord); err != nil {
		s.logger.Error("failed to persist order delivery state",
			zap.String("order_id", ord.ID.String()),
			zap.Error(err))
	}
}

func (s *DeliveryService) notify(ctx context.Context, orderID uuid.UUID, eventType string, d *delivery.DeliveryRequest) {
	if s.notifier == nil {
		return
	}
	body := map[string]any{
		"order_id":        orderID.String(),
		"tracking_number": d.TrackingNumber,
		"status":          string(d.Status),
	}
	if err := s.notifier.Notify(ctx, orderID, eventType, body); err != nil {
		s.logger.Warn("webhook emission failed",
			zap.String("order_id", orderID.String()),
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}

func (s *DeliveryService) findOrder(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	ord, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
		}
		return nil, err
	}
	return ord, nil
}

func (s *DeliveryService) findDelivery(ctx context.Context, id uuid.UUID) (*delivery.DeliveryRequest, error) {
	d, err := s.deliveryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("DELIVERY_NOT_FOUND", "Delivery not found")
		}
		return nil, err
	}
	return d, nil
}
