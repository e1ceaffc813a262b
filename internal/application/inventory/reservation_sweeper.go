package inventory

import (
	"context"
	"time"

	"github.com/baysoko/backend/internal/domain/inventory"
	"go.uber.org/zap"
)

const defaultSweepLimit = 200

// ReservationSweeper releases checkout stock holds that outlived
// their TTL without the order being paid or cancelled. Released
// units count toward availability again immediately; listing stock
// itself never moved, so nothing is restocked here.
type ReservationSweeper struct {
	reservationRepo inventory.StockReservationRepository
	logger          *zap.Logger
}

// NewReservationSweeper creates a new ReservationSweeper
func NewReservationSweeper(reservationRepo inventory.StockReservationRepository, logger *zap.Logger) *ReservationSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReservationSweeper{reservationRepo: reservationRepo, logger: logger}
}

// ReleaseExpired frees expired holds and returns how many it released
func (s *ReservationSweeper) ReleaseExpired(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = defaultSweepLimit
	}

	expired, err := s.reservationRepo.FindExpired(ctx, time.Now(), limit)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, res := range expired {
		res.Release()
		if err := s.reservationRepo.Update(ctx, res); err != nil {
			s.logger.Error("failed to release expired reservation",
				zap.String("reservation_id", res.ID.String()),
				zap.String("order_id", res.OrderID.String()),
				zap.Error(err))
			continue
		}
		released++
	}

	if released > 0 {
		s.logger.Info("expired reservations released", zap.Int("count", released))
	}

	return released, nil
}
