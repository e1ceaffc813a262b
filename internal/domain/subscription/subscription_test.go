package subscription

import (
	"testing"
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanCatalog(t *testing.T) {
	t.Run("prices", func(t *testing.T) {
		assert.True(t, PlanBasic.MonthlyPrice().Equal(decimal.NewFromInt(999)))
		assert.True(t, PlanPremium.MonthlyPrice().Equal(decimal.NewFromInt(1999)))
		assert.True(t, PlanEnterprise.MonthlyPrice().Equal(decimal.NewFromInt(4999)))
	})

	t.Run("product limits", func(t *testing.T) {
		assert.True(t, PlanBasic.AllowsProducts(50))
		assert.False(t, PlanBasic.AllowsProducts(51))
		assert.True(t, PlanPremium.AllowsProducts(200))
		assert.False(t, PlanPremium.AllowsProducts(201))
		assert.True(t, PlanEnterprise.AllowsProducts(100000))
	})

	t.Run("store limits", func(t *testing.T) {
		assert.True(t, PlanBasic.AllowsStores(1))
		assert.False(t, PlanBasic.AllowsStores(2))
		assert.True(t, PlanPremium.AllowsStores(3))
		assert.True(t, PlanEnterprise.AllowsStores(50))
	})

	t.Run("unknown plan", func(t *testing.T) {
		assert.False(t, Plan("gold").IsValid())
		_, ok := Plan("gold").Details()
		assert.False(t, ok)
		assert.False(t, Plan("gold").AllowsProducts(1))
	})
}

func TestNewTrialSubscription(t *testing.T) {
	t.Run("starts trialing with a 7 day window", func(t *testing.T) {
		sub, err := NewTrialSubscription(uuid.New(), PlanBasic)
		require.NoError(t, err)

		assert.Equal(t, StatusTrialing, sub.Status)
		assert.Equal(t, "KES", sub.Currency)
		assert.True(t, sub.Amount.Equal(decimal.NewFromInt(999)))
		require.NotNil(t, sub.TrialEndsAt)
		assert.WithinDuration(t, time.Now().Add(TrialDuration), *sub.TrialEndsAt, time.Minute)

		events := sub.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeTrialStarted, events[0].EventType())
	})

	t.Run("rejects unknown plans", func(t *testing.T) {
		_, err := NewTrialSubscription(uuid.New(), Plan("gold"))
		require.Error(t, err)
	})
}

func TestNewPaidSubscription(t *testing.T) {
	sub, err := NewPaidSubscription(uuid.New(), PlanPremium, "254712345678")
	require.NoError(t, err)

	assert.Equal(t, StatusActive, sub.Status)
	assert.Equal(t, "254712345678", sub.MpesaPhone)
	require.NotNil(t, sub.CurrentPeriodEnd)
	assert.WithinDuration(t, time.Now().Add(BillingPeriod), *sub.CurrentPeriodEnd, time.Minute)
}

func TestSubscriptionRenew(t *testing.T) {
	t.Run("trial converts on renewal", func(t *testing.T) {
		sub, _ := NewTrialSubscription(uuid.New(), PlanBasic)
		sub.ClearDomainEvents()

		err := sub.Renew("254712345678")
		require.NoError(t, err)

		assert.Equal(t, StatusActive, sub.Status)
		assert.Equal(t, "254712345678", sub.MpesaPhone)
		require.NotNil(t, sub.CurrentPeriodEnd)

		events := sub.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeTrialConverted, events[0].EventType())
		assert.Equal(t, EventTypeSubscriptionRenewed, events[1].EventType())
	})

	t.Run("past due recovers on renewal", func(t *testing.T) {
		sub, _ := NewPaidSubscription(uuid.New(), PlanBasic, "254712345678")
		require.NoError(t, sub.MarkPastDue())

		err := sub.Renew("")
		require.NoError(t, err)
		assert.Equal(t, StatusActive, sub.Status)
		assert.Equal(t, "254712345678", sub.MpesaPhone)
	})

	t.Run("canceled subscription cannot renew", func(t *testing.T) {
		sub, _ := NewPaidSubscription(uuid.New(), PlanBasic, "")
		require.NoError(t, sub.Cancel())
		err := sub.Renew("")
		require.Error(t, err)
	})
}

func TestSubscriptionLifecycle(t *testing.T) {
	t.Run("cancel records the timestamp", func(t *testing.T) {
		sub, _ := NewPaidSubscription(uuid.New(), PlanBasic, "")
		require.NoError(t, sub.Cancel())

		assert.Equal(t, StatusCanceled, sub.Status)
		assert.NotNil(t, sub.CanceledAt)

		err := sub.Cancel()
		require.Error(t, err)
	})

	t.Run("dunning path active -> past_due -> unpaid", func(t *testing.T) {
		sub, _ := NewPaidSubscription(uuid.New(), PlanBasic, "")

		require.NoError(t, sub.MarkPastDue())
		assert.Equal(t, StatusPastDue, sub.Status)

		require.NoError(t, sub.MarkUnpaid())
		assert.Equal(t, StatusUnpaid, sub.Status)
	})

	t.Run("only active subscriptions become past due", func(t *testing.T) {
		sub, _ := NewTrialSubscription(uuid.New(), PlanBasic)
		err := sub.MarkPastDue()
		require.Error(t, err)
	})

	t.Run("expired trial can lapse to unpaid", func(t *testing.T) {
		sub, _ := NewTrialSubscription(uuid.New(), PlanBasic)
		require.NoError(t, sub.MarkUnpaid())
		assert.Equal(t, StatusUnpaid, sub.Status)
	})
}

func TestSubscriptionActivity(t *testing.T) {
	now := time.Now()

	t.Run("trial is active inside its window", func(t *testing.T) {
		sub, _ := NewTrialSubscription(uuid.New(), PlanBasic)
		assert.True(t, sub.IsActive(now))
		assert.True(t, sub.IsTrialing(now))
		assert.False(t, sub.TrialExpired(now))
	})

	t.Run("trial lapses after its window", func(t *testing.T) {
		sub, _ := NewTrialSubscription(uuid.New(), PlanBasic)
		after := now.Add(TrialDuration + time.Hour)
		assert.False(t, sub.IsActive(after))
		assert.True(t, sub.TrialExpired(after))
	})

	t.Run("paid subscription reports period expiry", func(t *testing.T) {
		sub, _ := NewPaidSubscription(uuid.New(), PlanBasic, "")
		assert.False(t, sub.PeriodExpired(now))
		assert.True(t, sub.PeriodExpired(now.Add(BillingPeriod+time.Hour)))
	})

	t.Run("expiry date prefers the relevant deadline", func(t *testing.T) {
		trial, _ := NewTrialSubscription(uuid.New(), PlanBasic)
		assert.Equal(t, trial.TrialEndsAt, trial.ExpiresAt())

		paid, _ := NewPaidSubscription(uuid.New(), PlanBasic, "")
		assert.Equal(t, paid.CurrentPeriodEnd, paid.ExpiresAt())
	})
}

func TestSubscriptionChangePlan(t *testing.T) {
	sub, _ := NewPaidSubscription(uuid.New(), PlanBasic, "")
	sub.ClearDomainEvents()

	require.NoError(t, sub.ChangePlan(PlanPremium))
	assert.Equal(t, PlanPremium, sub.Plan)
	assert.True(t, sub.Amount.Equal(decimal.NewFromInt(1999)))

	events := sub.GetDomainEvents()
	require.Len(t, events, 1)
	event, ok := events[0].(*PlanChangedEvent)
	require.True(t, ok)
	assert.Equal(t, PlanBasic, event.OldPlan)

	// Same plan is a no-op
	sub.ClearDomainEvents()
	require.NoError(t, sub.ChangePlan(PlanPremium))
	assert.Empty(t, sub.GetDomainEvents())
}

func TestUserTrial(t *testing.T) {
	endsAt := time.Now().Add(TrialDuration)

	t.Run("first trial is allowed", func(t *testing.T) {
		trial, err := NewUserTrial(uuid.New(), uuid.New(), uuid.New(), 1, &endsAt)
		require.NoError(t, err)

		assert.Equal(t, TrialStatusActive, trial.Status)
		assert.True(t, trial.IsActive(time.Now()))
		assert.Equal(t, 6, trial.DaysRemaining(time.Now().Add(time.Hour)))
	})

	t.Run("second trial is over the limit", func(t *testing.T) {
		_, err := NewUserTrial(uuid.New(), uuid.New(), uuid.New(), 2, &endsAt)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrTrialAlreadyUsed)
	})

	t.Run("ending a trial records the outcome", func(t *testing.T) {
		trial, _ := NewUserTrial(uuid.New(), uuid.New(), uuid.New(), 1, &endsAt)

		err := trial.End(TrialStatusConverted)
		require.NoError(t, err)
		assert.Equal(t, TrialStatusConverted, trial.Status)
		assert.NotNil(t, trial.EndedAt)
		assert.False(t, trial.IsActive(time.Now()))

		err = trial.End(TrialStatusEnded)
		require.Error(t, err)
	})

	t.Run("cannot end into active", func(t *testing.T) {
		trial, _ := NewUserTrial(uuid.New(), uuid.New(), uuid.New(), 1, &endsAt)
		err := trial.End(TrialStatusActive)
		require.Error(t, err)
	})
}
