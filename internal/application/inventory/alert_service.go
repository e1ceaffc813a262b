package inventory

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/inventory"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AlertService manages stock alert rules and raised alerts. Alert
// rules are a premium store feature.
type AlertService struct {
	ruleRepo    inventory.AlertRuleRepository
	alertRepo   inventory.AlertRepository
	listingRepo catalog.ListingRepository
	storeRepo   store.StoreRepository
	logger      *zap.Logger
}

// NewAlertService creates a new AlertService
func NewAlertService(
	ruleRepo inventory.AlertRuleRepository,
	alertRepo inventory.AlertRepository,
	listingRepo catalog.ListingRepository,
	storeRepo store.StoreRepository,
	logger *zap.Logger,
) *AlertService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertService{
		ruleRepo:    ruleRepo,
		alertRepo:   alertRepo,
		listingRepo: listingRepo,
		storeRepo:   storeRepo,
		logger:      logger,
	}
}

// SetRule creates or retunes a stock watch on the seller's listing
func (s *AlertService) SetRule(ctx context.Context, sellerID uuid.UUID, req *SetAlertRuleRequest) (*AlertRuleResponse, error) {
	listing, err := s.listingRepo.FindByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("LISTING_NOT_FOUND", "Listing not found")
		}
		return nil, err
	}
	if listing.SellerID != sellerID {
		return nil, shared.NewDomainError("NOT_LISTING_SELLER", "Only the seller can watch this listing")
	}

	st, err := s.storeRepo.FindByID(ctx, listing.StoreID)
	if err != nil {
		return nil, err
	}
	if !st.Premium {
		return nil, shared.NewDomainError("PREMIUM_REQUIRED", "Stock alerts require a premium store")
	}

	alertType := inventory.AlertType(req.Type)

	rules, err := s.ruleRepo.FindActiveByListing(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	for _, rule := range rules {
		if rule.Type != alertType {
			continue
		}
		if err := rule.SetThreshold(req.Threshold); err != nil {
			return nil, err
		}
		if err := s.ruleRepo.Update(ctx, rule); err != nil {
			return nil, err
		}
		resp := ToAlertRuleResponse(rule)
		return &resp, nil
	}

	rule, err := inventory.NewAlertRule(listing.StoreID, req.ListingID, alertType, req.Threshold)
	if err != nil {
		return nil, err
	}
	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}

	s.logger.Info("stock alert rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.String("listing_id", req.ListingID.String()),
		zap.String("type", req.Type),
		zap.Int("threshold", req.Threshold))

	resp := ToAlertRuleResponse(rule)
	return &resp, nil
}

// RemoveRule deletes a rule on the seller's store
func (s *AlertService) RemoveRule(ctx context.Context, sellerID, ruleID uuid.UUID) error {
	rule, err := s.ruleRepo.FindByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("RULE_NOT_FOUND", "Alert rule not found")
		}
		return err
	}
	if err := s.requireStoreOwner(ctx, sellerID, rule.StoreID); err != nil {
		return err
	}
	return s.ruleRepo.Delete(ctx, rule.ID)
}

// ListRules returns the rules configured on the seller's store
func (s *AlertService) ListRules(ctx context.Context, sellerID, storeID uuid.UUID) ([]AlertRuleResponse, error) {
	if err := s.requireStoreOwner(ctx, sellerID, storeID); err != nil {
		return nil, err
	}

	rules, err := s.ruleRepo.FindByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	responses := make([]AlertRuleResponse, len(rules))
	for i, rule := range rules {
		responses[i] = ToAlertRuleResponse(rule)
	}
	return responses, nil
}

// ListAlerts returns the store's alerts, open ones first
func (s *AlertService) ListAlerts(ctx context.Context, sellerID, storeID uuid.UUID, includeAcknowledged bool) ([]AlertResponse, error) {
	if err := s.requireStoreOwner(ctx, sellerID, storeID); err != nil {
		return nil, err
	}

	alerts, err := s.alertRepo.FindByStore(ctx, storeID, includeAcknowledged)
	if err != nil {
		return nil, err
	}

	responses := make([]AlertResponse, len(alerts))
	for i, alert := range alerts {
		responses[i] = ToAlertResponse(alert)
	}
	return responses, nil
}

// AcknowledgeAlert dismisses an alert from the seller dashboard
func (s *AlertService) AcknowledgeAlert(ctx context.Context, sellerID, alertID uuid.UUID) (*AlertResponse, error) {
	alert, err := s.alertRepo.FindByID(ctx, alertID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ALERT_NOT_FOUND", "Alert not found")
		}
		return nil, err
	}
	if err := s.requireStoreOwner(ctx, sellerID, alert.StoreID); err != nil {
		return nil, err
	}

	if err := alert.Acknowledge(sellerID); err != nil {
		return nil, err
	}
	if err := s.alertRepo.Update(ctx, alert); err != nil {
		return nil, err
	}

	resp := ToAlertResponse(alert)
	return &resp, nil
}

// EvaluateListing checks a listing's current stock against its active
// rules and raises alerts for the ones that fire. A rule with an open
// alert stays quiet until the alert is acknowledged.
func (s *AlertService) EvaluateListing(ctx context.Context, listingID uuid.UUID, stock int) error {
	rules, err := s.ruleRepo.FindActiveByListing(ctx, listingID)
	if err != nil {
		return err
	}

	for _, rule := range rules {
		if !rule.ShouldTrigger(stock) {
			continue
		}

		open, err := s.alertRepo.ExistsOpenForRule(ctx, rule.ID)
		if err != nil {
			return err
		}
		if open {
			continue
		}

		alert, err := inventory.NewAlert(rule, stock)
		if err != nil {
			return err
		}
		if err := s.alertRepo.Create(ctx, alert); err != nil {
			return err
		}

		rule.MarkTriggered()
		if err := s.ruleRepo.Update(ctx, rule); err != nil {
			s.logger.Warn("failed to stamp alert rule",
				zap.String("rule_id", rule.ID.String()),
				zap.Error(err))
		}

		s.logger.Info("stock alert raised",
			zap.String("listing_id", listingID.String()),
			zap.String("type", string(rule.Type)),
			zap.Int("stock", stock))
	}

	return nil
}

func (s *AlertService) requireStoreOwner(ctx context.Context, sellerID, storeID uuid.UUID) error {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
		}
		return err
	}
	if !st.IsOwnedBy(sellerID) {
		return shared.NewDomainError("NOT_STORE_OWNER", "You do not own this store")
	}
	return nil
}
