package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	paymentapp "github.com/baysoko/backend/internal/application/payment"
	"github.com/baysoko/backend/internal/domain/payment"
	"github.com/baysoko/backend/internal/infrastructure/persistence"
)

// TestEscrowAutoRelease sweeps held escrows whose release window has
// passed and leaves everything else untouched.
func TestEscrowAutoRelease(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	escrowRepo := persistence.NewGormEscrowRepository(db)
	svc := paymentapp.NewEscrowService(
		escrowRepo,
		persistence.NewGormOrderRepository(db),
		persistence.NewGormPaymentRepository(db),
		zap.NewNop())

	overdue, err := payment.NewEscrow(uuid.New(), decimal.NewFromInt(2500))
	require.NoError(t, err)
	require.NoError(t, escrowRepo.Create(ctx, overdue))

	recent, err := payment.NewEscrow(uuid.New(), decimal.NewFromInt(900))
	require.NoError(t, err)
	require.NoError(t, escrowRepo.Create(ctx, recent))

	require.NoError(t, db.Exec(
		"UPDATE escrows SET auto_release_at = ? WHERE id = ?",
		time.Now().Add(-time.Hour), overdue.ID).Error)

	released, err := svc.AutoReleaseDue(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, released)

	fresh, err := escrowRepo.FindByID(ctx, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.EscrowStatusReleased, fresh.Status)
	require.NotNil(t, fresh.ReleasedAt)

	untouched, err := escrowRepo.FindByID(ctx, recent.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.EscrowStatusHeld, untouched.Status)

	// The sweep is idempotent
	released, err = svc.AutoReleaseDue(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, 0, released)
}
