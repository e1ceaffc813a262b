package delivery

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/delivery"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ZoneService manages the delivery zone catalog
type ZoneService struct {
	zoneRepo delivery.ZoneRepository
	logger   *zap.Logger
}

// NewZoneService creates a new zone service
func NewZoneService(zoneRepo delivery.ZoneRepository, logger *zap.Logger) *ZoneService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZoneService{zoneRepo: zoneRepo, logger: logger}
}

// Create adds a new delivery zone with a unique name
func (s *ZoneService) Create(ctx context.Context, req *ZoneRequest) (*ZoneResponse, error) {
	if _, err := s.zoneRepo.FindByName(ctx, req.Name); err == nil {
		return nil, shared.NewDomainError("ZONE_EXISTS", "A zone with that name already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	zone, err := delivery.NewZone(req.Name, req.CenterLat, req.CenterLng, req.RadiusKM, req.DeliveryFee)
	if err != nil {
		return nil, err
	}
	if err := zone.Update(req.Description, req.DeliveryFee, req.MinOrderAmount); err != nil {
		return nil, err
	}

	if err := s.zoneRepo.Create(ctx, zone); err != nil {
		return nil, err
	}

	s.logger.Info("delivery zone created",
		zap.String("zone_id", zone.ID.String()),
		zap.String("name", zone.Name))

	resp := ToZoneResponse(zone)
	return &resp, nil
}

// Update changes a zone's description and pricing
func (s *ZoneService) Update(ctx context.Context, id uuid.UUID, req *ZoneRequest) (*ZoneResponse, error) {
	zone, err := s.findZone(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := zone.Update(req.Description, req.DeliveryFee, req.MinOrderAmount); err != nil {
		return nil, err
	}
	if err := s.zoneRepo.Update(ctx, zone); err != nil {
		return nil, err
	}

	resp := ToZoneResponse(zone)
	return &resp, nil
}

// SetActive switches a zone in or out of assignment
func (s *ZoneService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*ZoneResponse, error) {
	zone, err := s.findZone(ctx, id)
	if err != nil {
		return nil, err
	}

	if active {
		zone.Activate()
	} else {
		zone.Deactivate()
	}
	if err := s.zoneRepo.Update(ctx, zone); err != nil {
		return nil, err
	}

	resp := ToZoneResponse(zone)
	return &resp, nil
}

// ListActive returns the zones currently accepting deliveries
func (s *ZoneService) ListActive(ctx context.Context) ([]ZoneResponse, error) {
	zones, err := s.zoneRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]ZoneResponse, len(zones))
	for i, z := range zones {
		responses[i] = ToZoneResponse(z)
	}
	return responses, nil
}

func (s *ZoneService) findZone(ctx context.Context, id uuid.UUID) (*delivery.Zone, error) {
	zone, err := s.zoneRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ZONE_NOT_FOUND", "Zone not found")
		}
		return nil, err
	}
	return zone, nil
}
