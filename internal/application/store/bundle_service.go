package store

import (
	"context"
	"errors"
	"time"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BundleService handles product bundle operations
type BundleService struct {
	bundleRepo  store.BundleRepository
	storeRepo   store.StoreRepository
	listingRepo catalog.ListingRepository
	logger      *zap.Logger
}

// NewBundleService creates a new BundleService
func NewBundleService(
	bundleRepo store.BundleRepository,
	storeRepo store.StoreRepository,
	listingRepo catalog.ListingRepository,
	logger *zap.Logger,
) *BundleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BundleService{
		bundleRepo:  bundleRepo,
		storeRepo:   storeRepo,
		listingRepo: listingRepo,
		logger:      logger,
	}
}

// Create creates a bundle from the store's own listings
func (s *BundleService) Create(ctx context.Context, ownerID uuid.UUID, req CreateBundleRequest) (*BundleResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, req.StoreID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
		}
		return nil, err
	}
	if !st.IsOwnedBy(ownerID) {
		return nil, shared.NewDomainError("NOT_STORE_OWNER", "Only the store owner can create bundles")
	}

	slug, err := shared.UniqueSlug(req.Name, func(candidate string) (bool, error) {
		return s.bundleRepo.ExistsBySlug(ctx, candidate)
	})
	if err != nil {
		return nil, err
	}

	bundle, err := store.NewProductBundle(st.ID, req.Name, slug, req.Description, req.BundlePrice)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		listing, err := s.listingRepo.FindByID(ctx, item.ListingID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("LISTING_NOT_FOUND", "Bundle listing not found")
			}
			return nil, err
		}
		if listing.StoreID != st.ID {
			return nil, shared.NewDomainError("FOREIGN_LISTING", "Bundles may only contain the store's own listings")
		}
		if err := bundle.AddItem(listing.ID, item.Quantity, item.Required, listing.EffectivePrice()); err != nil {
			return nil, err
		}
	}

	if req.Stock != nil {
		if err := bundle.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.StartAt != nil || req.EndAt != nil {
		if err := bundle.SetWindow(req.StartAt, req.EndAt); err != nil {
			return nil, err
		}
	}

	if err := s.bundleRepo.Create(ctx, bundle); err != nil {
		return nil, err
	}

	s.logger.Info("bundle created",
		zap.String("bundle_id", bundle.ID.String()),
		zap.String("store_id", st.ID.String()),
		zap.Int("items", len(bundle.Items)))

	return s.toResponse(ctx, bundle)
}

// Update updates a bundle's details
func (s *BundleService) Update(ctx context.Context, ownerID, bundleID uuid.UUID, req UpdateBundleRequest) (*BundleResponse, error) {
	bundle, err := s.findOwnedBundle(ctx, ownerID, bundleID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		bundle.Name = *req.Name
	}
	if req.Description != nil {
		bundle.Description = *req.Description
	}
	if req.BundlePrice != nil {
		if err := bundle.SetBundlePrice(*req.BundlePrice); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil {
		if err := bundle.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.StartAt != nil || req.EndAt != nil {
		if err := bundle.SetWindow(req.StartAt, req.EndAt); err != nil {
			return nil, err
		}
	}
	if req.Featured != nil {
		bundle.SetFeatured(*req.Featured)
	}
	if req.Active != nil {
		if *req.Active {
			bundle.Activate()
		} else {
			bundle.Deactivate()
		}
	}

	if err := s.bundleRepo.Update(ctx, bundle); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, bundle)
}

// AddItem adds a listing to an existing bundle
func (s *BundleService) AddItem(ctx context.Context, ownerID, bundleID uuid.UUID, req BundleItemRequest) (*BundleResponse, error) {
	bundle, err := s.findOwnedBundle(ctx, ownerID, bundleID)
	if err != nil {
		return nil, err
	}

	listing, err := s.listingRepo.FindByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("LISTING_NOT_FOUND", "Bundle listing not found")
		}
		return nil, err
	}
	if listing.StoreID != bundle.StoreID {
		return nil, shared.NewDomainError("FOREIGN_LISTING", "Bundles may only contain the store's own listings")
	}

	if err := bundle.AddItem(listing.ID, req.Quantity, req.Required, listing.EffectivePrice()); err != nil {
		return nil, err
	}

	if err := s.bundleRepo.Update(ctx, bundle); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, bundle)
}

// RemoveItem removes a listing from a bundle
func (s *BundleService) RemoveItem(ctx context.Context, ownerID, bundleID, listingID uuid.UUID) (*BundleResponse, error) {
	bundle, err := s.findOwnedBundle(ctx, ownerID, bundleID)
	if err != nil {
		return nil, err
	}

	itemPrice := decimal.Zero
	if listing, err := s.listingRepo.FindByID(ctx, listingID); err == nil {
		itemPrice = listing.EffectivePrice()
	}

	if err := bundle.RemoveItem(listingID, itemPrice); err != nil {
		return nil, err
	}

	if err := s.bundleRepo.Update(ctx, bundle); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, bundle)
}

// Delete deletes a bundle
func (s *BundleService) Delete(ctx context.Context, ownerID, bundleID uuid.UUID) error {
	bundle, err := s.findOwnedBundle(ctx, ownerID, bundleID)
	if err != nil {
		return err
	}
	return s.bundleRepo.Delete(ctx, bundle.ID)
}

// GetByID retrieves a bundle with computed availability
func (s *BundleService) GetByID(ctx context.Context, bundleID uuid.UUID) (*BundleResponse, error) {
	bundle, err := s.bundleRepo.FindByID(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, bundle)
}

// GetBySlug retrieves a bundle by its slug with computed availability
func (s *BundleService) GetBySlug(ctx context.Context, slug string) (*BundleResponse, error) {
	bundle, err := s.bundleRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, bundle)
}

// GetByStore retrieves a store's active bundles for the storefront
func (s *BundleService) GetByStore(ctx context.Context, storeID uuid.UUID) ([]BundleResponse, error) {
	bundles, err := s.bundleRepo.FindActiveByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	responses := make([]BundleResponse, 0, len(bundles))
	for _, bundle := range bundles {
		response, err := s.toResponse(ctx, bundle)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *response)
	}
	return responses, nil
}

// helpers

// findOwnedBundle loads a bundle and verifies the caller owns its store
func (s *BundleService) findOwnedBundle(ctx context.Context, ownerID, bundleID uuid.UUID) (*store.ProductBundle, error) {
	bundle, err := s.bundleRepo.FindByID(ctx, bundleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("BUNDLE_NOT_FOUND", "Bundle not found")
		}
		return nil, err
	}

	st, err := s.storeRepo.FindByID(ctx, bundle.StoreID)
	if err != nil {
		return nil, err
	}
	if !st.IsOwnedBy(ownerID) {
		return nil, shared.NewDomainError("NOT_STORE_OWNER", "Only the store owner can manage bundles")
	}
	return bundle, nil
}

// toResponse computes availability: the bundle's own window and stock
// plus every member listing having enough stock.
func (s *BundleService) toResponse(ctx context.Context, bundle *store.ProductBundle) (*BundleResponse, error) {
	available := bundle.IsAvailable(time.Now())
	if available {
		for _, item := range bundle.Items {
			listing, err := s.listingRepo.FindByID(ctx, item.ListingID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					available = false
					break
				}
				return nil, err
			}
			if !listing.IsAvailable(item.Quantity) {
				available = false
				break
			}
		}
	}

	response := ToBundleResponse(bundle, available)
	return &response, nil
}
