package order

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/order"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartService manages the caller's shopping cart. Prices are never
// stored in the cart; every read quotes the listing's current price.
type CartService struct {
	cartRepo    order.CartRepository
	listingRepo catalog.ListingRepository
	logger      *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(
	cartRepo order.CartRepository,
	listingRepo catalog.ListingRepository,
	logger *zap.Logger,
) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		cartRepo:    cartRepo,
		listingRepo: listingRepo,
		logger:      logger,
	}
}

// AddToCart adds a listing to the user's cart. The listing must be
// active and have enough stock for the combined quantity.
func (s *CartService) AddToCart(ctx context.Context, userID uuid.UUID, req *AddToCartRequest) (*CartResponse, error) {
	listing, err := s.listingRepo.FindByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("LISTING_NOT_FOUND", "Listing not found")
		}
		return nil, err
	}

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	wanted := cart.Quantity(req.ListingID) + req.Quantity
	if !listing.IsAvailable(wanted) {
		return nil, shared.ErrInsufficientStock
	}

	if err := cart.AddItem(req.ListingID, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.Info("listing added to cart",
		zap.String("user_id", userID.String()),
		zap.String("listing_id", req.ListingID.String()),
		zap.Int("quantity", req.Quantity))

	return s.toCartResponse(ctx, cart)
}

// UpdateItem changes a cart line's quantity; zero removes the line
func (s *CartService) UpdateItem(ctx context.Context, userID, listingID uuid.UUID, req *UpdateCartItemRequest) (*CartResponse, error) {
	cart, err := s.findCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Quantity > 0 {
		listing, err := s.listingRepo.FindByID(ctx, listingID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("LISTING_NOT_FOUND", "Listing not found")
			}
			return nil, err
		}
		if !listing.IsAvailable(req.Quantity) {
			return nil, shared.ErrInsufficientStock
		}
	}

	if err := cart.UpdateQuantity(listingID, req.Quantity); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ITEM_NOT_IN_CART", "Listing is not in the cart")
		}
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	return s.toCartResponse(ctx, cart)
}

// RemoveItem removes a listing from the user's cart
func (s *CartService) RemoveItem(ctx context.Context, userID, listingID uuid.UUID) (*CartResponse, error) {
	cart, err := s.findCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := cart.RemoveItem(listingID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ITEM_NOT_IN_CART", "Listing is not in the cart")
		}
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	return s.toCartResponse(ctx, cart)
}

// GetCart returns the user's cart priced at current listing prices.
// Lines whose listing has since been deleted are pruned.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &CartResponse{Items: []CartItemResponse{}, TotalPrice: decimal.Zero}, nil
		}
		return nil, err
	}

	return s.toCartResponse(ctx, cart)
}

// ClearCart empties the user's cart
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	cart.Clear()
	return s.cartRepo.Save(ctx, cart)
}

func (s *CartService) getOrCreateCart(ctx context.Context, userID uuid.UUID) (*order.Cart, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return order.NewCart(userID)
}

func (s *CartService) findCart(ctx context.Context, userID uuid.UUID) (*order.Cart, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CART_EMPTY", "Cart is empty")
		}
		return nil, err
	}
	return cart, nil
}

// toCartResponse prices the cart against current listings. Listings
// that have disappeared are dropped from the cart and persisted away.
func (s *CartService) toCartResponse(ctx context.Context, cart *order.Cart) (*CartResponse, error) {
	items := make([]CartItemResponse, 0, len(cart.Items))
	total := decimal.Zero
	pruned := false

	for _, item := range cart.Items {
		listing, err := s.listingRepo.FindByID(ctx, item.ListingID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				pruned = true
				continue
			}
			return nil, err
		}

		unit := listing.EffectivePrice()
		line := unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
		items = append(items, CartItemResponse{
			ListingID: item.ListingID,
			Title:     listing.Title,
			Slug:      listing.Slug,
			UnitPrice: unit,
			Quantity:  item.Quantity,
			LineTotal: line,
			Available: listing.IsAvailable(item.Quantity),
		})
		total = total.Add(line)
	}

	if pruned {
		for i := len(cart.Items) - 1; i >= 0; i-- {
			found := false
			for _, it := range items {
				if it.ListingID == cart.Items[i].ListingID {
					found = true
					break
				}
			}
			if !found {
				_ = cart.RemoveItem(cart.Items[i].ListingID)
			}
		}
		if err := s.cartRepo.Save(ctx, cart); err != nil {
			s.logger.Warn("failed to prune dead cart lines", zap.Error(err))
		}
	}

	return &CartResponse{
		Items:      items,
		TotalItems: len(items),
		TotalPrice: total,
	}, nil
}
