package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/payment"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/shared/valueobject"
	"github.com/baysoko/backend/internal/domain/store"
	"github.com/baysoko/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// stkAccountReference is the account shown on the customer's STK
// prompt. M-Pesa caps it at 12 characters.
const stkAccountReference = "BAYSOKO"

// stkDescription is capped at 13 characters by the Daraja API
const stkDescription = "Subscription"

// SubscriptionService manages trials, purchases and the premium
// entitlement lifecycle. Activation only ever happens through
// ActivateFromPayment, fed by a verified M-Pesa callback.
type SubscriptionService struct {
	subscriptionRepo subscription.SubscriptionRepository
	trialRepo        subscription.UserTrialRepository
	storeRepo        store.StoreRepository
	listingRepo      catalog.ListingRepository
	paymentRepo      payment.PaymentRepository
	gateway          payment.MpesaGateway
	logger           *zap.Logger
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(
	subscriptionRepo subscription.SubscriptionRepository,
	trialRepo subscription.UserTrialRepository,
	storeRepo store.StoreRepository,
	listingRepo catalog.ListingRepository,
	paymentRepo payment.PaymentRepository,
	gateway payment.MpesaGateway,
	logger *zap.Logger,
) *SubscriptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		trialRepo:        trialRepo,
		storeRepo:        storeRepo,
		listingRepo:      listingRepo,
		paymentRepo:      paymentRepo,
		gateway:          gateway,
		logger:           logger,
	}
}

// StartTrial starts the store's free trial. A user gets one trial
// ever, across all their stores; the trial ledger enforces this even
// when stores are later deleted.
func (s *SubscriptionService) StartTrial(ctx context.Context, ownerID uuid.UUID, req StartTrialRequest) (*SubscriptionResponse, error) {
	st, err := s.findOwnedStore(ctx, ownerID, req.StoreID)
	if err != nil {
		return nil, err
	}

	active, err := s.subscriptionRepo.HasActiveByStore(ctx, st.ID, time.Now())
	if err != nil {
		return nil, err
	}
	if active {
		return nil, shared.NewDomainError("ALREADY_SUBSCRIBED", "Store already has a live subscription")
	}

	trialed, err := s.subscriptionRepo.OwnerEverTrialed(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if trialed {
		return nil, shared.ErrTrialAlreadyUsed
	}
	used, err := s.trialRepo.CountByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if used >= subscription.TrialLimitPerUser {
		return nil, shared.ErrTrialAlreadyUsed
	}

	sub, err := subscription.NewTrialSubscription(st.ID, subscription.Plan(req.Plan))
	if err != nil {
		return nil, err
	}
	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	trial, err := subscription.NewUserTrial(ownerID, st.ID, sub.ID, int(used)+1, sub.TrialEndsAt)
	if err != nil {
		return nil, err
	}
	if err := s.trialRepo.Create(ctx, trial); err != nil {
		return nil, err
	}

	st.GrantPremium()
	if err := s.storeRepo.Update(ctx, st); err != nil {
		return nil, err
	}

	s.logger.Info("trial started",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("store_id", st.ID.String()),
		zap.String("plan", req.Plan))

	response := ToSubscriptionResponse(sub)
	return &response, nil
}

// Subscribe opens a pending payment for a subscription period and
// prompts the owner's phone. Nothing activates until the callback
// confirms the money.
func (s *SubscriptionService) Subscribe(ctx context.Context, ownerID uuid.UUID, req SubscribeRequest) (*SubscribeResponse, error) {
	st, err := s.findOwnedStore(ctx, ownerID, req.StoreID)
	if err != nil {
		return nil, err
	}

	plan := subscription.Plan(req.Plan)
	if !plan.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLAN", "Unknown subscription plan")
	}

	phone, err := valueobject.NewPhone(req.Phone)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone must be a valid Kenyan mobile number")
	}

	// A trialing subscription converts in place; an active one renews.
	// Either way the payment carries the subscription it settles.
	var subscriptionID *uuid.UUID
	current, err := s.subscriptionRepo.FindCurrentByStore(ctx, st.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if current != nil {
		if current.Status == subscription.StatusActive && !current.PeriodExpired(time.Now()) && current.Plan == plan {
			return nil, shared.NewDomainError("ALREADY_SUBSCRIBED", "Store already has an active subscription for this plan")
		}
		subscriptionID = &current.ID
	}

	pay, err := payment.NewSubscriptionPayment(st.ID, subscriptionID, req.Plan, plan.MonthlyPrice())
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Create(ctx, pay); err != nil {
		return nil, err
	}

	push, err := s.gateway.STKPush(ctx, &payment.STKPushRequest{
		OrderID:          pay.ID,
		Amount:           pay.Amount,
		Phone:            phone.MSISDN(),
		AccountReference: stkAccountReference,
		Description:      stkDescription,
	})
	if err != nil {
		s.logger.Error("subscription STK push failed",
			zap.String("payment_id", pay.ID.String()),
			zap.String("store_id", st.ID.String()),
			zap.Error(err))
		if failErr := pay.Fail(-1, "STK push failed", nil); failErr == nil {
			_ = s.paymentRepo.Update(ctx, pay)
		}
		return nil, shared.NewDomainError("STK_PUSH_FAILED", "Could not reach M-Pesa, try again shortly")
	}

	if err := pay.MarkInitiated(phone.MSISDN(), push.CheckoutRequestID, push.MerchantRequestID); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Update(ctx, pay); err != nil {
		return nil, err
	}

	s.logger.Info("subscription payment initiated",
		zap.String("payment_id", pay.ID.String()),
		zap.String("store_id", st.ID.String()),
		zap.String("plan", req.Plan),
		zap.String("checkout_request_id", push.CheckoutRequestID))

	return &SubscribeResponse{
		PaymentID:         pay.ID,
		CheckoutRequestID: push.CheckoutRequestID,
		Amount:            pay.Amount,
		CustomerMessage:   push.CustomerMessage,
	}, nil
}

// ActivateFromPayment is the only path that turns money into
// entitlement. The caller must have completed the payment already
// (amount matched, callback verified).
func (s *SubscriptionService) ActivateFromPayment(ctx context.Context, pay *payment.Payment) (*subscription.Subscription, error) {
	if !pay.IsSubscriptionPurchase() {
		return nil, shared.NewDomainError("NOT_SUBSCRIPTION_PAYMENT", "Payment does not buy a subscription")
	}
	if !pay.IsSettled() {
		return nil, shared.NewDomainError("PAYMENT_NOT_SETTLED", "Payment has not completed")
	}
	if pay.StoreID == nil {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Subscription payment has no store")
	}

	var sub *subscription.Subscription
	if pay.SubscriptionID != nil {
		existing, err := s.subscriptionRepo.FindByID(ctx, *pay.SubscriptionID)
		if err != nil {
			return nil, err
		}
		wasTrialing := existing.Status == subscription.StatusTrialing
		if existing.Plan != subscription.Plan(pay.Plan) {
			if err := existing.ChangePlan(subscription.Plan(pay.Plan)); err != nil {
				return nil, err
			}
		}
		if err := existing.Renew(pay.MpesaPhone); err != nil {
			return nil, err
		}
		if err := s.subscriptionRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		if wasTrialing {
			s.closeTrial(ctx, existing.ID, subscription.TrialStatusConverted)
		}
		sub = existing
	} else {
		created, err := subscription.NewPaidSubscription(*pay.StoreID, subscription.Plan(pay.Plan), pay.MpesaPhone)
		if err != nil {
			return nil, err
		}
		if err := s.subscriptionRepo.Create(ctx, created); err != nil {
			return nil, err
		}
		sub = created
	}

	st, err := s.storeRepo.FindByID(ctx, sub.StoreID)
	if err != nil {
		return nil, err
	}
	st.GrantPremium()
	if err := s.storeRepo.Update(ctx, st); err != nil {
		return nil, err
	}

	s.logger.Info("subscription activated",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("store_id", sub.StoreID.String()),
		zap.String("plan", string(sub.Plan)),
		zap.String("payment_id", pay.ID.String()))

	return sub, nil
}

// HandleFailedPayment applies a declined subscription payment. A
// trialing subscription keeps its trial; an active one whose period
// already ran out goes past due.
func (s *SubscriptionService) HandleFailedPayment(ctx context.Context, pay *payment.Payment) error {
	if !pay.IsSubscriptionPurchase() || pay.SubscriptionID == nil {
		return nil
	}

	sub, err := s.subscriptionRepo.FindByID(ctx, *pay.SubscriptionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	if sub.PeriodExpired(time.Now()) {
		if err := sub.MarkPastDue(); err != nil {
			return err
		}
		return s.subscriptionRepo.Update(ctx, sub)
	}
	return nil
}

// Cancel ends a subscription. Premium drops immediately unless another
// live subscription covers the store.
func (s *SubscriptionService) Cancel(ctx context.Context, ownerID, subscriptionID uuid.UUID) (*SubscriptionResponse, error) {
	sub, err := s.findOwnedSubscription(ctx, ownerID, subscriptionID)
	if err != nil {
		return nil, err
	}

	wasTrialing := sub.Status == subscription.StatusTrialing

	if err := sub.Cancel(); err != nil {
		return nil, err
	}
	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	if wasTrialing {
		s.closeTrial(ctx, sub.ID, subscription.TrialStatusCanceled)
	}

	if err := s.revokePremiumIfLapsed(ctx, sub.StoreID); err != nil {
		return nil, err
	}

	s.logger.Info("subscription canceled",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("store_id", sub.StoreID.String()))

	response := ToSubscriptionResponse(sub)
	return &response, nil
}

// ChangePlan switches tiers. Downgrades and upgrades both take effect
// on the subscription record now; the new price bills from the next
// renewal payment.
func (s *SubscriptionService) ChangePlan(ctx context.Context, ownerID, subscriptionID uuid.UUID, req ChangePlanRequest) (*SubscriptionResponse, error) {
	sub, err := s.findOwnedSubscription(ctx, ownerID, subscriptionID)
	if err != nil {
		return nil, err
	}

	if err := sub.ChangePlan(subscription.Plan(req.Plan)); err != nil {
		return nil, err
	}
	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	response := ToSubscriptionResponse(sub)
	return &response, nil
}

// GetCurrent returns the store's newest live subscription
func (s *SubscriptionService) GetCurrent(ctx context.Context, storeID uuid.UUID) (*SubscriptionResponse, error) {
	sub, err := s.subscriptionRepo.FindCurrentByStore(ctx, storeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("SUBSCRIPTION_NOT_FOUND", "Store has no subscription")
		}
		return nil, err
	}

	response := ToSubscriptionResponse(sub)
	return &response, nil
}

// ListByOwner returns subscriptions across all the owner's stores
func (s *SubscriptionService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]SubscriptionResponse, error) {
	subs, err := s.subscriptionRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	responses := make([]SubscriptionResponse, len(subs))
	for i, sub := range subs {
		responses[i] = ToSubscriptionResponse(sub)
	}
	return responses, nil
}

// HasPremium reports whether the store currently holds premium
// features, through an active subscription or an unexpired trial.
func (s *SubscriptionService) HasPremium(ctx context.Context, storeID uuid.UUID) (bool, error) {
	return s.subscriptionRepo.HasActiveByStore(ctx, storeID, time.Now())
}

// ExpireTrials sweeps trialing subscriptions whose window lapsed
// without conversion. Premium drops immediately and featured listings
// are unfeatured. Returns how many were expired.
func (s *SubscriptionService) ExpireTrials(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 100
	}

	subs, err := s.subscriptionRepo.FindExpiredTrials(ctx, time.Now(), limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, sub := range subs {
		if err := sub.Cancel(); err != nil {
			s.logger.Warn("could not expire trial",
				zap.String("subscription_id", sub.ID.String()),
				zap.Error(err))
			continue
		}
		if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
			s.logger.Warn("could not persist expired trial",
				zap.String("subscription_id", sub.ID.String()),
				zap.Error(err))
			continue
		}

		s.closeTrial(ctx, sub.ID, subscription.TrialStatusEnded)

		if err := s.revokePremiumIfLapsed(ctx, sub.StoreID); err != nil {
			s.logger.Warn("could not revoke premium after trial expiry",
				zap.String("store_id", sub.StoreID.String()),
				zap.Error(err))
		}
		expired++
	}

	if expired > 0 {
		s.logger.Info("expired trials", zap.Int("count", expired))
	}
	return expired, nil
}

// ExpireSubscriptions sweeps active subscriptions whose paid period
// ran out. They go past due and premium drops until a renewal payment
// lands. Returns how many were moved.
func (s *SubscriptionService) ExpireSubscriptions(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 100
	}

	subs, err := s.subscriptionRepo.FindExpiredPeriods(ctx, time.Now(), limit)
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, sub := range subs {
		if err := sub.MarkPastDue(); err != nil {
			s.logger.Warn("could not mark subscription past due",
				zap.String("subscription_id", sub.ID.String()),
				zap.Error(err))
			continue
		}
		if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
			s.logger.Warn("could not persist past due subscription",
				zap.String("subscription_id", sub.ID.String()),
				zap.Error(err))
			continue
		}

		if err := s.revokePremiumIfLapsed(ctx, sub.StoreID); err != nil {
			s.logger.Warn("could not revoke premium after period expiry",
				zap.String("store_id", sub.StoreID.String()),
				zap.Error(err))
		}
		moved++
	}

	if moved > 0 {
		s.logger.Info("expired subscription periods", zap.Int("count", moved))
	}
	return moved, nil
}

// helpers

// findOwnedStore loads a store and verifies ownership
func (s *SubscriptionService) findOwnedStore(ctx context.Context, ownerID, storeID uuid.UUID) (*store.Store, error) {
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

// findOwnedSubscription loads a subscription and verifies the caller
// owns its store
func (s *SubscriptionService) findOwnedSubscription(ctx context.Context, ownerID, subscriptionID uuid.UUID) (*subscription.Subscription, error) {
	sub, err := s.subscriptionRepo.FindByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("SUBSCRIPTION_NOT_FOUND", "Subscription not found")
		}
		return nil, err
	}
	if _, err := s.findOwnedStore(ctx, ownerID, sub.StoreID); err != nil {
		return nil, err
	}
	return sub, nil
}

// closeTrial ends the trial ledger record behind a subscription.
// Best effort: ledger gaps never block the subscription transition.
func (s *SubscriptionService) closeTrial(ctx context.Context, subscriptionID uuid.UUID, outcome subscription.TrialStatus) {
	trial, err := s.trialRepo.FindActiveBySubscription(ctx, subscriptionID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("could not load trial record",
				zap.String("subscription_id", subscriptionID.String()),
				zap.Error(err))
		}
		return
	}
	if err := trial.End(outcome); err != nil {
		return
	}
	if err := s.trialRepo.Update(ctx, trial); err != nil {
		s.logger.Warn("could not close trial record",
			zap.String("subscription_id", subscriptionID.String()),
			zap.Error(err))
	}
}

// revokePremiumIfLapsed clears the store's premium flag and unfeatures
// its listings unless another live subscription still covers it.
func (s *SubscriptionService) revokePremiumIfLapsed(ctx context.Context, storeID uuid.UUID) error {
	covered, err := s.subscriptionRepo.HasActiveByStore(ctx, storeID, time.Now())
	if err != nil {
		return err
	}
	if covered {
		return nil
	}

	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	st.RevokePremium()
	if err := s.storeRepo.Update(ctx, st); err != nil {
		return err
	}

	if err := s.listingRepo.UnfeatureByStore(ctx, storeID); err != nil {
		s.logger.Warn("could not unfeature listings",
			zap.String("store_id", storeID.String()),
			zap.Error(err))
	}
	return nil
}
