package delivery

import (
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Zone is a served geographic area with its delivery fee
type Zone struct {
	shared.BaseAggregateRoot
	Name           string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description    string          `gorm:"type:text"`
	CenterLat      decimal.Decimal `gorm:"type:decimal(9,6);not null"`
	CenterLng      decimal.Decimal `gorm:"type:decimal(9,6);not null"`
	RadiusKM       decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	DeliveryFee    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MinOrderAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Active         bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (Zone) TableName() string {
	return "delivery_zones"
}

// NewZone creates an active delivery zone
func NewZone(name string, centerLat, centerLng, radiusKM, fee decimal.Decimal) (*Zone, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Zone name cannot be empty")
	}
	if radiusKM.IsNegative() || radiusKM.IsZero() {
		return nil, shared.NewDomainError("INVALID_RADIUS", "Zone radius must be greater than zero")
	}
	if fee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FEE", "Delivery fee cannot be negative")
	}

	return &Zone{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		CenterLat:         centerLat,
		CenterLng:         centerLng,
		RadiusKM:          radiusKM,
		DeliveryFee:       fee,
		MinOrderAmount:    decimal.Zero,
		Active:            true,
	}, nil
}

// Update changes the zone's description and pricing
func (z *Zone) Update(description string, fee, minOrderAmount decimal.Decimal) error {
	if fee.IsNegative() {
		return shared.NewDomainError("INVALID_FEE", "Delivery fee cannot be negative")
	}
	if minOrderAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Minimum order amount cannot be negative")
	}

	z.Description = description
	z.DeliveryFee = fee
	z.MinOrderAmount = minOrderAmount
	z.UpdatedAt = time.Now()
	z.IncrementVersion()

	return nil
}

// Activate makes the zone available for assignment
func (z *Zone) Activate() {
	if z.Active {
		return
	}
	z.Active = true
	z.UpdatedAt = time.Now()
	z.IncrementVersion()
}

// Deactivate removes the zone from assignment
func (z *Zone) Deactivate() {
	if !z.Active {
		return
	}
	z.Active = false
	z.UpdatedAt = time.Now()
	z.IncrementVersion()
}

// Serves reports whether an order amount meets the zone's minimum
func (z *Zone) Serves(orderAmount decimal.Decimal) bool {
	return z.Active && orderAmount.GreaterThanOrEqual(z.MinOrderAmount)
}
