package delivery

import (
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents where a delivery sits in its lifecycle
type Status string

const (
	StatusPending        Status = "pending"
	StatusAccepted       Status = "accepted"
	StatusAssigned       Status = "assigned"
	StatusPickedUp       Status = "picked_up"
	StatusInTransit      Status = "in_transit"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusFailed         Status = "failed"
	StatusCancelled      Status = "cancelled"
	StatusReturned       Status = "returned"
)

// allowedTransitions defines the forward path through the delivery
// lifecycle. Failed and cancelled are reachable from any live state.
var allowedTransitions = map[Status][]Status{
	StatusPending:        {StatusAccepted, StatusCancelled, StatusFailed},
	StatusAccepted:       {StatusAssigned, StatusCancelled, StatusFailed},
	StatusAssigned:       {StatusPickedUp, StatusAccepted, StatusCancelled, StatusFailed},
	StatusPickedUp:       {StatusInTransit, StatusFailed, StatusReturned},
	StatusInTransit:      {StatusOutForDelivery, StatusDelivered, StatusFailed, StatusReturned},
	StatusOutForDelivery: {StatusDelivered, StatusFailed, StatusReturned},
	StatusDelivered:      {},
	StatusFailed:         {StatusReturned, StatusAssigned},
	StatusCancelled:      {},
	StatusReturned:       {},
}

// CanTransitionTo checks whether a status change is permitted
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the delivery can still move
func (s Status) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// PaymentState tracks whether the delivery's order has been paid for
type PaymentState string

const (
	PaymentStatePending PaymentState = "pending"
	PaymentStatePaid    PaymentState = "paid"
)

// Contact holds one side's name and address details
type Contact struct {
	Name    string `gorm:"type:varchar(100);not null"`
	Address string `gorm:"type:text;not null"`
	Phone   string `gorm:"type:varchar(20);not null"`
	Email   string `gorm:"type:varchar(255)"`
}

// Package describes what is being moved
type Package struct {
	Description       string           `gorm:"type:text"`
	Weight            decimal.Decimal  `gorm:"type:decimal(8,3);not null"` // kg
	Length            *decimal.Decimal `gorm:"type:decimal(8,2)"`          // cm
	Width             *decimal.Decimal `gorm:"type:decimal(8,2)"`
	Height            *decimal.Decimal `gorm:"type:decimal(8,2)"`
	DeclaredValue     decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0"`
	Fragile           bool             `gorm:"not null;default:false"`
	RequiresSignature bool             `gorm:"not null;default:false"`
}

// DeliveryRequest is the courier-side record of an order shipment.
// Status changes append to History and feed back to the order through
// the guarded delivery transition path.
type DeliveryRequest struct {
	shared.BaseAggregateRoot
	OrderID        uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex"`
	TrackingNumber string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Status         Status       `gorm:"type:varchar(20);not null;default:'pending';index"`
	Priority       int          `gorm:"not null;default:1"` // 1 low .. 4 urgent
	Pickup         Contact      `gorm:"embedded;embeddedPrefix:pickup_"`
	PickupNotes    string       `gorm:"type:text"`
	Recipient      Contact      `gorm:"embedded;embeddedPrefix:recipient_"`
	Package        Package      `gorm:"embedded;embeddedPrefix:package_"`
	ZoneID         *uuid.UUID   `gorm:"type:uuid;index"`
	DeliveryFee    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PaymentState   PaymentState `gorm:"type:varchar(20);not null;default:'pending'"`
	CourierName    string       `gorm:"type:varchar(100)"`
	CourierPhone   string       `gorm:"type:varchar(20)"`
	PickedUpAt     *time.Time   ``
	EstimatedAt    *time.Time   ``
	DeliveredAt    *time.Time   ``

	History []StatusHistory `gorm:"foreignKey:DeliveryRequestID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (DeliveryRequest) TableName() string {
	return "delivery_requests"
}

// StatusHistory records one status change with who made it and why
type StatusHistory struct {
	shared.BaseEntity
	DeliveryRequestID uuid.UUID  `gorm:"type:uuid;not null;index"`
	OldStatus         Status     `gorm:"type:varchar(20);not null"`
	NewStatus         Status     `gorm:"type:varchar(20);not null"`
	ChangedBy         *uuid.UUID `gorm:"type:uuid"`
	Notes             string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (StatusHistory) TableName() string {
	return "delivery_status_history"
}

// NewDeliveryRequest creates a pending delivery for an order. The
// tracking number is generated here and never changes.
func NewDeliveryRequest(orderID uuid.UUID, pickup, recipient Contact, pkg Package, totalAmount decimal.Decimal) (*DeliveryRequest, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", "Order ID cannot be empty")
	}
	if err := validateContact("Pickup", pickup); err != nil {
		return nil, err
	}
	if err := validateContact("Recipient", recipient); err != nil {
		return nil, err
	}
	if pkg.Weight.IsNegative() || pkg.Weight.IsZero() {
		return nil, shared.NewDomainError("INVALID_WEIGHT", "Package weight must be greater than zero")
	}
	if totalAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount cannot be negative")
	}

	request := &DeliveryRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		TrackingNumber:    uuid.NewString(),
		Status:            StatusPending,
		Priority:          1,
		Pickup:            pickup,
		Recipient:         recipient,
		Package:           pkg,
		TotalAmount:       totalAmount,
		PaymentState:      PaymentStatePending,
		History:           []StatusHistory{},
	}

	request.AddDomainEvent(NewDeliveryRequestCreatedEvent(request))

	return request, nil
}

func validateContact(side string, c Contact) error {
	if c.Name == "" {
		return shared.NewDomainError("INVALID_CONTACT", side+" name cannot be empty")
	}
	if c.Address == "" {
		return shared.NewDomainError("INVALID_CONTACT", side+" address cannot be empty")
	}
	if c.Phone == "" {
		return shared.NewDomainError("INVALID_CONTACT", side+" phone cannot be empty")
	}
	return nil
}

// UpdateStatus moves the delivery along its lifecycle, appending a
// history row. changedBy is nil for system-driven transitions.
func (d *DeliveryRequest) UpdateStatus(newStatus Status, changedBy *uuid.UUID, notes string) error {
	if newStatus == d.Status {
		return nil
	}
	if !d.Status.CanTransitionTo(newStatus) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Cannot move delivery from "+string(d.Status)+" to "+string(newStatus))
	}

	now := time.Now()
	oldStatus := d.Status
	d.Status = newStatus

	switch newStatus {
	case StatusPickedUp:
		d.PickedUpAt = &now
	case StatusDelivered:
		d.DeliveredAt = &now
	}

	d.History = append(d.History, StatusHistory{
		BaseEntity:        shared.NewBaseEntity(),
		DeliveryRequestID: d.ID,
		OldStatus:         oldStatus,
		NewStatus:         newStatus,
		ChangedBy:         changedBy,
		Notes:             notes,
	})

	d.UpdatedAt = now
	d.IncrementVersion()
	d.AddDomainEvent(NewDeliveryStatusChangedEvent(d, oldStatus))

	if newStatus == StatusDelivered {
		d.AddDomainEvent(NewDeliveryCompletedEvent(d))
	}

	return nil
}

// MarkPaid records that the underlying order has been paid
func (d *DeliveryRequest) MarkPaid() {
	if d.PaymentState == PaymentStatePaid {
		return
	}
	d.PaymentState = PaymentStatePaid
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}

// AssignZone places the delivery in a zone and applies its fee. The
// fee is added onto the order total.
func (d *DeliveryRequest) AssignZone(zoneID uuid.UUID, fee decimal.Decimal) error {
	if zoneID == uuid.Nil {
		return shared.NewDomainError("INVALID_ZONE_ID", "Zone ID cannot be empty")
	}
	if fee.IsNegative() {
		return shared.NewDomainError("INVALID_FEE", "Delivery fee cannot be negative")
	}
	if d.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATUS", "Delivery is already closed")
	}

	// Swap out any previously applied fee
	d.TotalAmount = d.TotalAmount.Sub(d.DeliveryFee).Add(fee)
	d.ZoneID = &zoneID
	d.DeliveryFee = fee
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// AssignCourier records who is carrying the package and moves the
// delivery to assigned.
func (d *DeliveryRequest) AssignCourier(name, phone string, changedBy *uuid.UUID) error {
	if name == "" {
		return shared.NewDomainError("INVALID_COURIER", "Courier name cannot be empty")
	}

	if err := d.UpdateStatus(StatusAssigned, changedBy, "Assigned to "+name); err != nil {
		return err
	}

	d.CourierName = name
	d.CourierPhone = phone

	return nil
}

// SetPriority adjusts urgency within the 1..4 range
func (d *DeliveryRequest) SetPriority(priority int) error {
	if priority < 1 || priority > 4 {
		return shared.NewDomainError("INVALID_PRIORITY", "Priority must be between 1 and 4")
	}

	d.Priority = priority
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// SetEstimatedDelivery records the courier's delivery estimate
func (d *DeliveryRequest) SetEstimatedDelivery(at time.Time) {
	d.EstimatedAt = &at
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}

// Cancel closes the delivery before completion
func (d *DeliveryRequest) Cancel(changedBy *uuid.UUID, notes string) error {
	return d.UpdateStatus(StatusCancelled, changedBy, notes)
}

// IsClosed reports whether the delivery has reached a terminal state
func (d *DeliveryRequest) IsClosed() bool {
	return d.Status.IsTerminal()
}
