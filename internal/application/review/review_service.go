package review

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/identity"
	"github.com/baysoko/backend/internal/domain/order"
	"github.com/baysoko/backend/internal/domain/review"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// verificationScanLimit bounds how many delivered orders are scanned
// when deciding the verified purchase flag.
const verificationScanLimit = 100

// ReviewService handles listing, seller, and order reviews
type ReviewService struct {
	reviewRepo  review.ReviewRepository
	listingRepo catalog.ListingRepository
	orderRepo   order.OrderRepository
	userRepo    identity.UserRepository
	logger      *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	reviewRepo review.ReviewRepository,
	listingRepo catalog.ListingRepository,
	orderRepo order.OrderRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{
		reviewRepo:  reviewRepo,
		listingRepo: listingRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// CreateListingReview reviews a listing. The verified purchase flag is
// set when the reviewer has a delivered order containing the listing.
func (s *ReviewService) CreateListingReview(ctx context.Context, reviewerID uuid.UUID, req *CreateListingReviewRequest) (*ReviewResponse, error) {
	listing, err := s.listingRepo.FindByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("LISTING_NOT_FOUND", "Listing not found")
		}
		return nil, err
	}
	if listing.SellerID == reviewerID {
		return nil, shared.NewDomainError("SELF_REVIEW", "You cannot review your own listing")
	}

	exists, err := s.reviewRepo.ExistsForListing(ctx, reviewerID, req.ListingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_REVIEWED", "You have already reviewed this listing")
	}

	verified, err := s.hasDeliveredListing(ctx, reviewerID, req.ListingID)
	if err != nil {
		return nil, err
	}

	r, err := review.NewListingReview(reviewerID, req.ListingID, req.Rating, req.Comment, verified)
	if err != nil {
		return nil, err
	}
	if err := r.SetDetailRatings(req.CommunicationRating, req.DeliveryRating, req.AccuracyRating); err != nil {
		return nil, err
	}
	for _, photo := range req.Photos {
		if err := r.AddPhoto(photo.StorageKey, photo.Caption); err != nil {
			return nil, err
		}
	}

	if err := s.reviewRepo.Create(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("listing review created",
		zap.String("review_id", r.ID.String()),
		zap.String("listing_id", req.ListingID.String()),
		zap.Int("rating", req.Rating),
		zap.Bool("verified_purchase", verified))

	resp := ToReviewResponse(r)
	return &resp, nil
}

// CreateSellerReview reviews a seller account
func (s *ReviewService) CreateSellerReview(ctx context.Context, reviewerID uuid.UUID, req *CreateSellerReviewRequest) (*ReviewResponse, error) {
	seller, err := s.userRepo.FindByID(ctx, req.SellerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("SELLER_NOT_FOUND", "Seller not found")
		}
		return nil, err
	}
	if !seller.IsSeller() {
		return nil, shared.NewDomainError("NOT_A_SELLER", "That account is not a seller")
	}

	exists, err := s.reviewRepo.ExistsForSeller(ctx, reviewerID, req.SellerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_REVIEWED", "You have already reviewed this seller")
	}

	r, err := review.NewSellerReview(reviewerID, req.SellerID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}
	if err := r.SetDetailRatings(req.CommunicationRating, req.DeliveryRating, req.AccuracyRating); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Create(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("seller review created",
		zap.String("review_id", r.ID.String()),
		zap.String("seller_id", req.SellerID.String()),
		zap.Int("rating", req.Rating))

	resp := ToReviewResponse(r)
	return &resp, nil
}

// CreateOrderReview reviews a delivered order
func (s *ReviewService) CreateOrderReview(ctx context.Context, reviewerID uuid.UUID, req *CreateOrderReviewRequest) (*ReviewResponse, error) {
	ord, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
		}
		return nil, err
	}
	if ord.BuyerID != reviewerID {
		return nil, shared.NewDomainError("NOT_ORDER_BUYER", "Only the buyer can review the order")
	}
	if ord.Status != order.OrderStatusDelivered {
		return nil, shared.NewDomainError("ORDER_NOT_DELIVERED", "Orders can be reviewed once delivered")
	}

	exists, err := s.reviewRepo.ExistsForOrder(ctx, reviewerID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_REVIEWED", "You have already reviewed this order")
	}

	r, err := review.NewOrderReview(reviewerID, req.OrderID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}
	if err := r.SetDetailRatings(req.CommunicationRating, req.DeliveryRating, req.AccuracyRating); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Create(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("order review created",
		zap.String("review_id", r.ID.String()),
		zap.String("order_id", req.OrderID.String()),
		zap.Int("rating", req.Rating))

	resp := ToReviewResponse(r)
	return &resp, nil
}

// UpdateReview edits the reviewer's own review
func (s *ReviewService) UpdateReview(ctx context.Context, reviewerID, reviewID uuid.UUID, req *UpdateReviewRequest) (*ReviewResponse, error) {
	r, err := s.findOwnReview(ctx, reviewerID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := r.Update(req.Rating, req.Comment); err != nil {
		return nil, err
	}
	if err := s.reviewRepo.Update(ctx, r); err != nil {
		return nil, err
	}

	resp := ToReviewResponse(r)
	return &resp, nil
}

// DeleteReview removes the reviewer's own review
func (s *ReviewService) DeleteReview(ctx context.Context, reviewerID, reviewID uuid.UUID) error {
	r, err := s.findOwnReview(ctx, reviewerID, reviewID)
	if err != nil {
		return err
	}
	return s.reviewRepo.Delete(ctx, r.ID)
}

// ListByListing returns a listing's public reviews with its aggregate
func (s *ReviewService) ListByListing(ctx context.Context, listingID uuid.UUID, query *ReviewListQuery) (*ReviewListResponse, error) {
	reviews, total, err := s.reviewRepo.FindByListing(ctx, listingID, query.Page, query.PageSize)
	if err != nil {
		return nil, err
	}

	summary, err := s.reviewRepo.ListingRating(ctx, listingID)
	if err != nil {
		return nil, err
	}

	return &ReviewListResponse{
		Reviews: ToReviewListResponses(reviews),
		Total:   total,
		Summary: RatingSummaryResponse{Average: summary.Average, Count: summary.Count},
	}, nil
}

// ListBySeller returns a seller's public reviews with their aggregate
func (s *ReviewService) ListBySeller(ctx context.Context, sellerID uuid.UUID, query *ReviewListQuery) (*ReviewListResponse, error) {
	reviews, total, err := s.reviewRepo.FindBySeller(ctx, sellerID, query.Page, query.PageSize)
	if err != nil {
		return nil, err
	}

	summary, err := s.reviewRepo.SellerRating(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	return &ReviewListResponse{
		Reviews: ToReviewListResponses(reviews),
		Total:   total,
		Summary: RatingSummaryResponse{Average: summary.Average, Count: summary.Count},
	}, nil
}

// GetOrderReview returns the reviewer's review of an order
func (s *ReviewService) GetOrderReview(ctx context.Context, reviewerID, orderID uuid.UUID) (*ReviewResponse, error) {
	r, err := s.reviewRepo.FindByOrder(ctx, reviewerID, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("REVIEW_NOT_FOUND", "Review not found")
		}
		return nil, err
	}

	resp := ToReviewResponse(r)
	return &resp, nil
}

// ListingRating returns the public rating aggregate for a listing
func (s *ReviewService) ListingRating(ctx context.Context, listingID uuid.UUID) (*RatingSummaryResponse, error) {
	summary, err := s.reviewRepo.ListingRating(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return &RatingSummaryResponse{Average: summary.Average, Count: summary.Count}, nil
}

func (s *ReviewService) findOwnReview(ctx context.Context, reviewerID, reviewID uuid.UUID) (*review.Review, error) {
	r, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("REVIEW_NOT_FOUND", "Review not found")
		}
		return nil, err
	}
	if r.ReviewerID != reviewerID {
		return nil, shared.NewDomainError("NOT_REVIEW_AUTHOR", "You can only change your own review")
	}
	return r, nil
}

func (s *ReviewService) hasDeliveredListing(ctx context.Context, buyerID, listingID uuid.UUID) (bool, error) {
	filter := order.NewOrderFilter().
		WithBuyer(buyerID).
		WithStatus(order.OrderStatusDelivered).
		WithPagination(1, verificationScanLimit)

	orders, _, err := s.orderRepo.FindByBuyer(ctx, buyerID, filter)
	if err != nil {
		return false, err
	}

	for _, ord := range orders {
		for _, item := range ord.Items {
			if item.ListingID == listingID {
				return true, nil
			}
		}
	}
	return false, nil
}
