package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/store"
	"github.com/baysoko/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListingServiceConfig holds configuration for the listing service
type ListingServiceConfig struct {
	// FreeListingLimit is the number of listings a store may carry
	// without a subscription
	FreeListingLimit int
	// RecentlyViewedKeep is how many recently viewed entries are kept
	// per user
	RecentlyViewedKeep int
}

// DefaultListingServiceConfig returns the default configuration
func DefaultListingServiceConfig() ListingServiceConfig {
	return ListingServiceConfig{
		FreeListingLimit:   10,
		RecentlyViewedKeep: 50,
	}
}

// ListingService handles listing lifecycle operations
type ListingService struct {
	listingRepo      catalog.ListingRepository
	storeRepo        store.StoreRepository
	subscriptionRepo subscription.SubscriptionRepository
	priceHistoryRepo catalog.PriceHistoryRepository
	favoriteRepo     catalog.FavoriteRepository
	recentRepo       catalog.RecentlyViewedRepository
	config           ListingServiceConfig
	logger           *zap.Logger
}

// NewListingService creates a new ListingService
func NewListingService(
	listingRepo catalog.ListingRepository,
	storeRepo store.StoreRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	priceHistoryRepo catalog.PriceHistoryRepository,
	favoriteRepo catalog.FavoriteRepository,
	recentRepo catalog.RecentlyViewedRepository,
	logger *zap.Logger,
) *ListingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingService{
		listingRepo:      listingRepo,
		storeRepo:        storeRepo,
		subscriptionRepo: subscriptionRepo,
		priceHistoryRepo: priceHistoryRepo,
		favoriteRepo:     favoriteRepo,
		recentRepo:       recentRepo,
		config:           DefaultListingServiceConfig(),
		logger:           logger,
	}
}

// SetConfig sets the service configuration
func (s *ListingService) SetConfig(config ListingServiceConfig) {
	s.config = config
}

// Create creates a new listing in the seller's store
func (s *ListingService) Create(ctx context.Context, sellerID uuid.UUID, req CreateListingRequest) (*ListingResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, req.StoreID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
		}
		return nil, err
	}
	if !st.IsOwnedBy(sellerID) {
		return nil, shared.NewDomainError("NOT_STORE_OWNER", "Only the store owner can create listings")
	}

	if err := s.checkListingQuota(ctx, st.ID); err != nil {
		return nil, err
	}

	slug, err := shared.UniqueSlug(req.Title, func(candidate string) (bool, error) {
		return s.listingRepo.ExistsBySlug(ctx, candidate)
	})
	if err != nil {
		return nil, err
	}

	listing, err := catalog.NewListing(
		st.ID,
		sellerID,
		req.Title,
		req.Description,
		slug,
		req.Price,
		catalog.ListingLocation(req.Location),
		catalog.ListingCondition(req.Condition),
		catalog.DeliveryOption(req.Delivery),
		req.Stock,
	)
	if err != nil {
		return nil, err
	}

	listing.SetCategory(req.CategoryID)
	if err := listing.SetSpecifications(req.Brand, req.Model, req.Dimensions, req.Weight, req.Color, req.Material); err != nil {
		return nil, err
	}
	listing.SetMetaDescription(req.MetaDesc)

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	if err := s.recordPrice(ctx, listing); err != nil {
		s.logger.Warn("failed to record initial price",
			zap.String("listing_id", listing.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("listing created",
		zap.String("listing_id", listing.ID.String()),
		zap.String("store_id", st.ID.String()),
		zap.String("slug", listing.Slug))

	response := ToListingResponse(listing)
	return &response, nil
}

// Update updates a listing's details
func (s *ListingService) Update(ctx context.Context, sellerID, listingID uuid.UUID, req UpdateListingRequest) (*ListingResponse, error) {
	listing, err := s.findOwnedListing(ctx, sellerID, listingID)
	if err != nil {
		return nil, err
	}

	title := listing.Title
	description := listing.Description
	if req.Title != nil {
		title = *req.Title
	}
	if req.Description != nil {
		description = *req.Description
	}
	if err := listing.Update(title, description); err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		listing.SetCategory(req.CategoryID)
	}
	if req.Delivery != nil {
		if err := listing.SetDeliveryOption(catalog.DeliveryOption(*req.Delivery)); err != nil {
			return nil, err
		}
	}

	brand := valueOr(req.Brand, listing.Brand)
	model := valueOr(req.Model, listing.Model)
	dimensions := valueOr(req.Dimensions, listing.Dimensions)
	weight := valueOr(req.Weight, listing.Weight)
	color := valueOr(req.Color, listing.Color)
	material := valueOr(req.Material, listing.Material)
	if err := listing.SetSpecifications(brand, model, dimensions, weight, color, material); err != nil {
		return nil, err
	}
	if req.MetaDesc != nil {
		listing.SetMetaDescription(*req.MetaDesc)
	}

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	response := ToListingResponse(listing)
	return &response, nil
}

// ChangePrice changes a listing's price and appends a price history row
func (s *ListingService) ChangePrice(ctx context.Context, sellerID, listingID uuid.UUID, req ChangePriceRequest) (*ListingResponse, error) {
	listing, err := s.findOwnedListing(ctx, sellerID, listingID)
	if err != nil {
		return nil, err
	}

	if err := listing.ChangePrice(req.Price); err != nil {
		return nil, err
	}

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	if err := s.recordPrice(ctx, listing); err != nil {
		s.logger.Warn("failed to record price change",
			zap.String("listing_id", listing.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("listing price changed",
		zap.String("listing_id", listing.ID.String()),
		zap.String("price", req.Price.String()))

	response := ToListingResponse(listing)
	return &response, nil
}

// ApplyDiscount puts a listing on discount
func (s *ListingService) ApplyDiscount(ctx context.Context, sellerID, listingID uuid.UUID, req ApplyDiscountRequest) (*ListingResponse, error) {
	listing, err := s.findOwnedListing(ctx, sellerID, listingID)
	if err != nil {
		return nil, err
	}

	if err := listing.ApplyDiscount(req.DiscountPrice); err != nil {
		return nil, err
	}

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	response := ToListingResponse(listing)
	return &response, nil
}

// ClearDiscount removes a listing's discount
func (s *ListingService) ClearDiscount(ctx context.Context, sellerID, listingID uuid.UUID) (*ListingResponse, error) {
	listing, err := s.findOwnedListing(ctx, sellerID, listingID)
	if err != nil {
		return nil, err
	}

	listing.ClearDiscount()

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	response := ToListingResponse(listing)
	return &response, nil
}

// Feature marks a listing as featured. The store must hold a live
// subscription or trial, otherwise the flag is forced off.
func (s *ListingService) Feature(ctx context.Context, sellerID, listingID uuid.UUID) (*ListingResponse, error) {
	listing, err := s.findOwnedListing(ctx, sellerID, listingID)
	if err != nil {
		return nil, err
	}

	eligible, err := s.subscriptionRepo.HasActiveByStore(ctx, listing.StoreID, time.Now())
	if err != nil {
		return nil, err
	}

	if err := listing.Feature(eligible); err != nil {
		if errors.Is(err, shared.ErrPaymentRequired) {
			// Persist the forced-off flag before reporting
			_ = s.listingRepo.Update(ctx, listing)
		}
		return nil, err
	}

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	s.logger.Info("listing featured",
		zap.String("listing_id", listing.ID.String()),
		zap.String("store_id", listing.StoreID.String()))

	response := ToListingResponse(listing)
	return &response, nil
}

// Unfeature clears a listing's featured flag
func (s *ListingService) Unfeature(ctx context.Context, sellerID, listingID uuid.UUID) (*ListingResponse, error) {
	listing, err := s.findOwnedListing(ctx, sellerID, listingID)
	if err != nil {
		return nil, err
	}

	listing.Unfeature()

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	response := ToListingResponse(listing)
	return &response, nil
}

// Activate relists a deactivated listing
func (s *ListingService) Activate(ctx context.Context, sellerID, listingID uuid.UUID) (*ListingResponse, error) {
	listing, err := s.findOwnedListing(ctx, sellerID, listingID)
	if err != nil {
		return nil, err
	}

	if err := listing.Activate(); err != nil {
		return nil, err
	}

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	response := ToListingResponse(listing)
	return &response, nil
}

// Deactivate hides a listing from the storefront
func (s *ListingService) Deactivate(ctx context.Context, sellerID, listingID uuid.UUID) (*ListingResponse, error) {
	listing, err := s.findOwnedListing(ctx, sellerID, listingID)
	if err != nil {
		return nil, err
	}

	if err := listing.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	response := ToListingResponse(listing)
	return &response, nil
}

// Delete removes a listing along with its price history and view records
func (s *ListingService) Delete(ctx context.Context, sellerID, listingID uuid.UUID) error {
	listing, err := s.findOwnedListing(ctx, sellerID, listingID)
	if err != nil {
		return err
	}

	if err := s.listingRepo.Delete(ctx, listing.ID); err != nil {
		return err
	}

	if err := s.priceHistoryRepo.DeleteByListing(ctx, listing.ID); err != nil {
		s.logger.Warn("failed to delete price history",
			zap.String("listing_id", listing.ID.String()),
			zap.Error(err))
	}
	if err := s.recentRepo.DeleteByListing(ctx, listing.ID); err != nil {
		s.logger.Warn("failed to delete view history",
			zap.String("listing_id", listing.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("listing deleted",
		zap.String("listing_id", listing.ID.String()),
		zap.String("store_id", listing.StoreID.String()))

	return nil
}

// GetByID retrieves a listing and records the view. A nil viewerID
// means an anonymous visitor.
func (s *ListingService) GetByID(ctx context.Context, listingID uuid.UUID, viewerID *uuid.UUID) (*ListingResponse, error) {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	s.recordView(ctx, listing, viewerID)

	response := ToListingResponse(listing)
	return &response, nil
}

// GetBySlug retrieves a listing by its slug and records the view
func (s *ListingService) GetBySlug(ctx context.Context, slug string, viewerID *uuid.UUID) (*ListingResponse, error) {
	listing, err := s.listingRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	s.recordView(ctx, listing, viewerID)

	response := ToListingResponse(listing)
	return &response, nil
}

// List searches listings with filters and pagination
func (s *ListingService) List(ctx context.Context, query ListingListQuery) ([]ListingListResponse, int64, error) {
	filter := s.buildFilter(query)

	listings, total, err := s.listingRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToListingListResponses(listings), total, nil
}

// GetByStore retrieves a store's listings
func (s *ListingService) GetByStore(ctx context.Context, storeID uuid.UUID, query ListingListQuery) ([]ListingListResponse, int64, error) {
	filter := s.buildFilter(query)

	listings, total, err := s.listingRepo.FindByStore(ctx, storeID, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToListingListResponses(listings), total, nil
}

// GetFeatured retrieves active featured listings
func (s *ListingService) GetFeatured(ctx context.Context, limit int) ([]ListingListResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 12
	}
	listings, err := s.listingRepo.FindFeatured(ctx, limit)
	if err != nil {
		return nil, err
	}
	return ToListingListResponses(listings), nil
}

// GetTrending retrieves the most viewed active listings
func (s *ListingService) GetTrending(ctx context.Context, limit int) ([]ListingListResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 12
	}
	listings, err := s.listingRepo.FindTrending(ctx, limit)
	if err != nil {
		return nil, err
	}
	return ToListingListResponses(listings), nil
}

// Favorite saves a listing to the user's favorites. Saving an already
// saved listing is a no-op.
func (s *ListingService) Favorite(ctx context.Context, userID, listingID uuid.UUID) error {
	if _, err := s.listingRepo.FindByID(ctx, listingID); err != nil {
		return err
	}

	exists, err := s.favoriteRepo.Exists(ctx, userID, listingID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	favorite, err := catalog.NewFavorite(userID, listingID)
	if err != nil {
		return err
	}

	return s.favoriteRepo.Create(ctx, favorite)
}

// Unfavorite removes a listing from the user's favorites
func (s *ListingService) Unfavorite(ctx context.Context, userID, listingID uuid.UUID) error {
	return s.favoriteRepo.Delete(ctx, userID, listingID)
}

// GetFavorites retrieves the user's saved listings, newest first
func (s *ListingService) GetFavorites(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]FavoriteListingResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	favorites, total, err := s.favoriteRepo.FindByUser(ctx, userID, shared.Filter{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, err
	}

	responses := make([]FavoriteListingResponse, len(favorites))
	for i, f := range favorites {
		responses[i] = FavoriteListingResponse{
			ListingID: f.ListingID,
			SavedAt:   f.CreatedAt,
		}
	}
	return responses, total, nil
}

// GetPriceHistory retrieves a listing's price history, newest first
func (s *ListingService) GetPriceHistory(ctx context.Context, listingID uuid.UUID, limit int) ([]PriceHistoryResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}

	entries, err := s.priceHistoryRepo.FindByListing(ctx, listingID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]PriceHistoryResponse, len(entries))
	for i, e := range entries {
		responses[i] = PriceHistoryResponse{
			Price:      e.Price,
			RecordedAt: e.CreatedAt,
		}
	}
	return responses, nil
}

// GetRecentlyViewed retrieves the user's recent views, most recent first
func (s *ListingService) GetRecentlyViewed(ctx context.Context, userID uuid.UUID, limit int) ([]ListingListResponse, error) {
	if limit <= 0 || limit > s.config.RecentlyViewedKeep {
		limit = 10
	}

	entries, err := s.recentRepo.FindByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	listings := make([]*catalog.Listing, 0, len(entries))
	for _, e := range entries {
		listing, err := s.listingRepo.FindByID(ctx, e.ListingID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return nil, err
		}
		listings = append(listings, listing)
	}

	return ToListingListResponses(listings), nil
}

// helpers

// findOwnedListing loads a listing and verifies the seller owns it
func (s *ListingService) findOwnedListing(ctx context.Context, sellerID, listingID uuid.UUID) (*catalog.Listing, error) {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("LISTING_NOT_FOUND", "Listing not found")
		}
		return nil, err
	}
	if listing.SellerID != sellerID {
		return nil, shared.NewDomainError("NOT_LISTING_OWNER", "Only the seller can modify this listing")
	}
	return listing, nil
}

// checkListingQuota enforces the store's listing allowance. Stores
// without a live subscription get the free allowance; subscribed
// stores get their plan's cap.
func (s *ListingService) checkListingQuota(ctx context.Context, storeID uuid.UUID) error {
	count, err := s.listingRepo.CountByStore(ctx, storeID)
	if err != nil {
		return err
	}

	sub, err := s.subscriptionRepo.FindCurrentByStore(ctx, storeID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	if sub != nil && sub.IsActive(time.Now()) {
		if !sub.Plan.AllowsProducts(int(count)) {
			return shared.NewDomainError("QUOTA_EXCEEDED",
				fmt.Sprintf("The %s plan allows no more listings in this store", sub.Plan))
		}
		return nil
	}

	if count >= int64(s.config.FreeListingLimit) {
		return shared.NewDomainError("QUOTA_EXCEEDED",
			fmt.Sprintf("Stores without a subscription are limited to %d listings", s.config.FreeListingLimit))
	}
	return nil
}

// recordPrice appends the listing's current price to its history
func (s *ListingService) recordPrice(ctx context.Context, listing *catalog.Listing) error {
	entry, err := catalog.NewPriceHistory(listing.ID, listing.Price)
	if err != nil {
		return err
	}
	return s.priceHistoryRepo.Create(ctx, entry)
}

// recordView bumps the view counter and, for signed-in viewers, the
// recently viewed list. View tracking never fails the read.
func (s *ListingService) recordView(ctx context.Context, listing *catalog.Listing, viewerID *uuid.UUID) {
	if err := s.listingRepo.IncrementViews(ctx, listing.ID); err != nil {
		s.logger.Warn("failed to increment views",
			zap.String("listing_id", listing.ID.String()),
			zap.Error(err))
	}

	if viewerID == nil {
		return
	}

	entry, err := catalog.NewRecentlyViewed(*viewerID, listing.ID)
	if err != nil {
		return
	}
	if err := s.recentRepo.Upsert(ctx, entry); err != nil {
		s.logger.Warn("failed to record recent view",
			zap.String("listing_id", listing.ID.String()),
			zap.Error(err))
		return
	}
	if err := s.recentRepo.TrimByUser(ctx, *viewerID, s.config.RecentlyViewedKeep); err != nil {
		s.logger.Warn("failed to trim view history",
			zap.String("user_id", viewerID.String()),
			zap.Error(err))
	}
}

// buildFilter converts a list query into the repository filter
func (s *ListingService) buildFilter(query ListingListQuery) catalog.ListingFilter {
	filter := catalog.NewListingFilter().WithKeyword(query.Keyword)

	if query.Page > 0 || query.PageSize > 0 {
		filter = filter.WithPagination(max(query.Page, 1), query.PageSize)
	}
	if query.SortBy != "" {
		sortOrder := query.SortOrder
		if sortOrder == "" {
			sortOrder = "desc"
		}
		filter = filter.WithSorting(query.SortBy, sortOrder)
	}
	if query.StoreID != nil {
		filter = filter.WithStore(*query.StoreID)
	}
	if query.CategoryID != nil {
		filter = filter.WithCategory(*query.CategoryID)
	}
	if query.Location != "" {
		filter = filter.WithLocation(catalog.ListingLocation(query.Location))
	}
	if query.Condition != "" {
		filter = filter.WithCondition(catalog.ListingCondition(query.Condition))
	}
	if query.Status != "" {
		filter = filter.WithStatus(catalog.ListingStatus(query.Status))
	} else {
		filter = filter.WithStatus(catalog.ListingStatusActive)
	}
	if query.Featured != nil {
		filter = filter.WithFeatured(*query.Featured)
	}
	if query.MinPrice != nil || query.MaxPrice != nil {
		filter = filter.WithPriceRange(query.MinPrice, query.MaxPrice)
	}

	return filter
}

// valueOr returns the pointed-to value when set, the fallback otherwise
func valueOr(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}
