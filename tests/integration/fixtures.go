package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/identity"
	"github.com/baysoko/backend/internal/domain/store"
	"github.com/baysoko/backend/internal/infrastructure/persistence"
)

func seedUser(t *testing.T, db *gorm.DB, username, email string) *identity.User {
	t.Helper()

	u, err := identity.NewUser(username, email, "hakuna8matata")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormUserRepository(db).Create(context.Background(), u))
	return u
}

func seedStore(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name, slug string) *store.Store {
	t.Helper()

	st, err := store.NewStore(ownerID, name, slug, "Quality goods, fair prices")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormStoreRepository(db).Create(context.Background(), st))
	return st
}

func seedListing(t *testing.T, db *gorm.DB, storeID, sellerID uuid.UUID, title, slug string, price int64, stock int) *catalog.Listing {
	t.Helper()

	l, err := catalog.NewListing(
		storeID, sellerID,
		title, "Barely used, works perfectly", slug,
		decimal.NewFromInt(price),
		catalog.LocationHomaBayTown,
		catalog.ConditionUsed,
		catalog.DeliveryOptionDelivery,
		stock,
	)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormListingRepository(db).Create(context.Background(), l))
	return l
}
