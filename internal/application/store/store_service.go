package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/baysoko/backend/internal/domain/identity"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/store"
	"github.com/baysoko/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StoreService handles storefront lifecycle operations
type StoreService struct {
	storeRepo        store.StoreRepository
	userRepo         identity.UserRepository
	subscriptionRepo subscription.SubscriptionRepository
	reviewRepo       store.StoreReviewRepository
	logger           *zap.Logger
}

// NewStoreService creates a new StoreService
func NewStoreService(
	storeRepo store.StoreRepository,
	userRepo identity.UserRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	reviewRepo store.StoreReviewRepository,
	logger *zap.Logger,
) *StoreService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreService{
		storeRepo:        storeRepo,
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		reviewRepo:       reviewRepo,
		logger:           logger,
	}
}

// Create opens a new storefront. The first store is free; additional
// stores require a live subscription whose plan allows them.
func (s *StoreService) Create(ctx context.Context, ownerID uuid.UUID, req CreateStoreRequest) (*StoreResponse, error) {
	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, err
	}
	if !owner.IsSeller() {
		return nil, shared.NewDomainError("NOT_A_SELLER", "Only sellers can open a store")
	}

	if err := s.checkStoreAllowance(ctx, ownerID); err != nil {
		return nil, err
	}

	slug, err := shared.UniqueSlug(req.Name, func(candidate string) (bool, error) {
		return s.storeRepo.ExistsBySlug(ctx, candidate)
	})
	if err != nil {
		return nil, err
	}

	st, err := store.NewStore(ownerID, req.Name, slug, req.Description)
	if err != nil {
		return nil, err
	}
	if req.Location != "" || req.Policies != "" {
		if err := st.Update(st.Name, st.Description, req.Location, req.Policies); err != nil {
			return nil, err
		}
	}

	if err := s.storeRepo.Create(ctx, st); err != nil {
		return nil, err
	}

	s.logger.Info("store created",
		zap.String("store_id", st.ID.String()),
		zap.String("owner_id", ownerID.String()),
		zap.String("slug", st.Slug))

	response := ToStoreResponse(st)
	return &response, nil
}

// Update updates a storefront's details
func (s *StoreService) Update(ctx context.Context, ownerID, storeID uuid.UUID, req UpdateStoreRequest) (*StoreResponse, error) {
	st, err := s.findOwnedStore(ctx, ownerID, storeID)
	if err != nil {
		return nil, err
	}

	name := valueOr(req.Name, st.Name)
	description := valueOr(req.Description, st.Description)
	location := valueOr(req.Location, st.Location)
	policies := valueOr(req.Policies, st.Policies)
	if err := st.Update(name, description, location, policies); err != nil {
		return nil, err
	}

	if err := s.storeRepo.Update(ctx, st); err != nil {
		return nil, err
	}

	response := ToStoreResponse(st)
	return &response, nil
}

// SetLogo sets the store's logo storage key
func (s *StoreService) SetLogo(ctx context.Context, ownerID, storeID uuid.UUID, storageKey string) error {
	st, err := s.findOwnedStore(ctx, ownerID, storeID)
	if err != nil {
		return err
	}
	if err := st.SetLogo(storageKey); err != nil {
		return err
	}
	return s.storeRepo.Update(ctx, st)
}

// SetCover sets the store's cover image storage key
func (s *StoreService) SetCover(ctx context.Context, ownerID, storeID uuid.UUID, storageKey string) error {
	st, err := s.findOwnedStore(ctx, ownerID, storeID)
	if err != nil {
		return err
	}
	if err := st.SetCover(storageKey); err != nil {
		return err
	}
	return s.storeRepo.Update(ctx, st)
}

// Activate reopens a deactivated store
func (s *StoreService) Activate(ctx context.Context, ownerID, storeID uuid.UUID) (*StoreResponse, error) {
	st, err := s.findOwnedStore(ctx, ownerID, storeID)
	if err != nil {
		return nil, err
	}

	if err := st.Activate(); err != nil {
		return nil, err
	}
	if err := s.storeRepo.Update(ctx, st); err != nil {
		return nil, err
	}

	response := ToStoreResponse(st)
	return &response, nil
}

// Deactivate closes a store without deleting it
func (s *StoreService) Deactivate(ctx context.Context, ownerID, storeID uuid.UUID) (*StoreResponse, error) {
	st, err := s.findOwnedStore(ctx, ownerID, storeID)
	if err != nil {
		return nil, err
	}

	if err := st.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.storeRepo.Update(ctx, st); err != nil {
		return nil, err
	}

	response := ToStoreResponse(st)
	return &response, nil
}

// GetByID retrieves a store with its rating aggregate
func (s *StoreService) GetByID(ctx context.Context, storeID uuid.UUID) (*StoreDetailResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return s.toDetailResponse(ctx, st)
}

// GetBySlug retrieves a store by its slug with its rating aggregate
func (s *StoreService) GetBySlug(ctx context.Context, slug string) (*StoreDetailResponse, error) {
	st, err := s.storeRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.toDetailResponse(ctx, st)
}

// GetMyStores retrieves the owner's stores
func (s *StoreService) GetMyStores(ctx context.Context, ownerID uuid.UUID) ([]StoreResponse, error) {
	stores, err := s.storeRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	responses := make([]StoreResponse, len(stores))
	for i, st := range stores {
		responses[i] = ToStoreResponse(st)
	}
	return responses, nil
}

// List searches active stores
func (s *StoreService) List(ctx context.Context, query StoreListQuery) ([]StoreResponse, int64, error) {
	filter := store.NewStoreFilter().
		WithKeyword(query.Keyword).
		WithStatus(store.StoreStatusActive)
	if query.Premium != nil {
		filter = filter.WithPremium(*query.Premium)
	}
	if query.Page > 0 || query.PageSize > 0 {
		filter = filter.WithPagination(max(query.Page, 1), query.PageSize)
	}

	stores, total, err := s.storeRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]StoreResponse, len(stores))
	for i, st := range stores {
		responses[i] = ToStoreResponse(st)
	}
	return responses, total, nil
}

// helpers

// findOwnedStore loads a store and verifies ownership
func (s *StoreService) findOwnedStore(ctx context.Context, ownerID, storeID uuid.UUID) (*store.Store, error) {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
		}
		return nil, err
	}
	if !st.IsOwnedBy(ownerID) {
		return nil, shared.NewDomainError("NOT_STORE_OWNER", "Only the store owner can do this")
	}
	return st, nil
}

// checkStoreAllowance enforces the additional-store rule: the first
// store is free, more require a live subscription whose plan covers
// the new count.
func (s *StoreService) checkStoreAllowance(ctx context.Context, ownerID uuid.UUID) error {
	count, err := s.storeRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	subs, err := s.subscriptionRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, sub := range subs {
		if !sub.IsActive(now) {
			continue
		}
		if sub.Plan.AllowsStores(int(count)) {
			return nil
		}
		return shared.NewDomainError("QUOTA_EXCEEDED",
			fmt.Sprintf("The %s plan does not allow more stores", sub.Plan))
	}

	return shared.ErrPaymentRequired
}

// toDetailResponse enriches a store with its review aggregate
func (s *StoreService) toDetailResponse(ctx context.Context, st *store.Store) (*StoreDetailResponse, error) {
	average, err := s.reviewRepo.AverageRating(ctx, st.ID)
	if err != nil {
		return nil, err
	}
	count, err := s.reviewRepo.CountByStore(ctx, st.ID)
	if err != nil {
		return nil, err
	}

	return &StoreDetailResponse{
		StoreResponse: ToStoreResponse(st),
		AverageRating: average,
		ReviewCount:   count,
	}, nil
}

// valueOr returns the pointed-to value when set, the fallback otherwise
func valueOr(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}
