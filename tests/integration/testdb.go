// Package integration exercises full business flows against real
// repositories. Tests run on an in-memory SQLite database, so they
// cover the GORM mapping and service orchestration but not
// Postgres-only query paths such as report aggregation.
package integration

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/baysoko/backend/internal/domain/blog"
	"github.com/baysoko/backend/internal/domain/bulk"
	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/chat"
	"github.com/baysoko/backend/internal/domain/delivery"
	"github.com/baysoko/backend/internal/domain/identity"
	"github.com/baysoko/backend/internal/domain/inventory"
	"github.com/baysoko/backend/internal/domain/notification"
	"github.com/baysoko/backend/internal/domain/order"
	"github.com/baysoko/backend/internal/domain/payment"
	"github.com/baysoko/backend/internal/domain/review"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/store"
	"github.com/baysoko/backend/internal/domain/subscription"
)

var dbCounter atomic.Int64

// NewTestDB opens a fresh in-memory database with the full schema.
// Each call gets its own database, so tests are fully isolated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A unique shared-cache DSN keeps the database alive across the
	// connections in GORM's pool; a plain :memory: DSN would give
	// every pooled connection its own empty database.
	dsn := fmt.Sprintf("file:integration_%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&identity.User{},
		&catalog.Category{},
		&catalog.Listing{},
		&catalog.ListingImage{},
		&catalog.PriceHistory{},
		&catalog.Favorite{},
		&catalog.RecentlyViewed{},
		&catalog.FAQ{},
		&store.Store{},
		&store.StoreReview{},
		&store.ReviewHelpfulVote{},
		&store.ProductBundle{},
		&store.BundleItem{},
		&order.Cart{},
		&order.CartItem{},
		&order.Order{},
		&order.OrderItem{},
		&payment.Payment{},
		&payment.Escrow{},
		&delivery.DeliveryRequest{},
		&delivery.StatusHistory{},
		&delivery.Zone{},
		&delivery.WebhookLog{},
		&inventory.AlertRule{},
		&inventory.Alert{},
		&inventory.StockMovement{},
		&inventory.StockReservation{},
		&notification.Notification{},
		&review.Review{},
		&review.Photo{},
		&blog.Post{},
		&blog.PostCategory{},
		&blog.Comment{},
		&blog.PostLike{},
		&bulk.ImportHistory{},
		&subscription.Subscription{},
		&subscription.UserTrial{},
		&chat.Conversation{},
		&chat.Message{},
		&shared.OutboxEntry{},
	), "migrate test schema")

	return db
}
