package delivery

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPickup() Contact {
	return Contact{
		Name:    "Baysoko Electronics",
		Address: "Main Street, Homa Bay Town",
		Phone:   "254700000001",
		Email:   "store@example.com",
	}
}

func testRecipient() Contact {
	return Contact{
		Name:    "Achieng Otieno",
		Address: "Sofia Estate, Homa Bay Town",
		Phone:   "254712345678",
	}
}

func testPackage() Package {
	return Package{
		Description:   "Samsung Galaxy A14, 1 item",
		Weight:        decimal.NewFromFloat(0.5),
		DeclaredValue: decimal.NewFromInt(18500),
	}
}

func newTestDelivery(t *testing.T) *DeliveryRequest {
	t.Helper()
	d, err := NewDeliveryRequest(uuid.New(), testPickup(), testRecipient(), testPackage(), decimal.NewFromInt(18500))
	require.NoError(t, err)
	d.ClearDomainEvents()
	return d
}

func TestNewDeliveryRequest(t *testing.T) {
	orderID := uuid.New()
	d, err := NewDeliveryRequest(orderID, testPickup(), testRecipient(), testPackage(), decimal.NewFromInt(18500))
	require.NoError(t, err)

	assert.Equal(t, orderID, d.OrderID)
	assert.Equal(t, StatusPending, d.Status)
	assert.Equal(t, PaymentStatePending, d.PaymentState)
	assert.NotEmpty(t, d.TrackingNumber)
	assert.Equal(t, 1, d.Priority)
	assert.Empty(t, d.History)

	events := d.GetDomainEvents()
	require.Len(t, events, 1)
	created, ok := events[0].(*DeliveryRequestCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, d.TrackingNumber, created.TrackingNumber)
}

func TestNewDeliveryRequestValidation(t *testing.T) {
	_, err := NewDeliveryRequest(uuid.Nil, testPickup(), testRecipient(), testPackage(), decimal.NewFromInt(100))
	assert.Error(t, err)

	pickup := testPickup()
	pickup.Address = ""
	_, err = NewDeliveryRequest(uuid.New(), pickup, testRecipient(), testPackage(), decimal.NewFromInt(100))
	assert.Error(t, err)

	recipient := testRecipient()
	recipient.Phone = ""
	_, err = NewDeliveryRequest(uuid.New(), testPickup(), recipient, testPackage(), decimal.NewFromInt(100))
	assert.Error(t, err)

	pkg := testPackage()
	pkg.Weight = decimal.Zero
	_, err = NewDeliveryRequest(uuid.New(), testPickup(), testRecipient(), pkg, decimal.NewFromInt(100))
	assert.Error(t, err)
}

func TestDeliveryStatusLifecycle(t *testing.T) {
	d := newTestDelivery(t)
	actor := uuid.New()

	require.NoError(t, d.UpdateStatus(StatusAccepted, &actor, "order paid"))
	require.NoError(t, d.AssignCourier("Otieno K.", "254703334444", &actor))
	require.NoError(t, d.UpdateStatus(StatusPickedUp, &actor, ""))
	assert.NotNil(t, d.PickedUpAt)
	require.NoError(t, d.UpdateStatus(StatusInTransit, &actor, ""))
	require.NoError(t, d.UpdateStatus(StatusOutForDelivery, &actor, ""))
	require.NoError(t, d.UpdateStatus(StatusDelivered, &actor, "left with recipient"))

	assert.Equal(t, StatusDelivered, d.Status)
	assert.NotNil(t, d.DeliveredAt)
	assert.True(t, d.IsClosed())
	assert.Len(t, d.History, 6)
	assert.Equal(t, StatusOutForDelivery, d.History[5].OldStatus)
	assert.Equal(t, StatusDelivered, d.History[5].NewStatus)
}

func TestDeliveryRejectsInvalidTransitions(t *testing.T) {
	d := newTestDelivery(t)

	// Cannot jump straight to delivered
	err := d.UpdateStatus(StatusDelivered, nil, "")
	assert.Error(t, err)

	// Terminal states are frozen
	require.NoError(t, d.Cancel(nil, "buyer cancelled"))
	err = d.UpdateStatus(StatusAccepted, nil, "")
	assert.Error(t, err)
}

func TestDeliveryStatusNoOpOnSame(t *testing.T) {
	d := newTestDelivery(t)

	require.NoError(t, d.UpdateStatus(StatusPending, nil, ""))
	assert.Empty(t, d.History)
	assert.Empty(t, d.GetDomainEvents())
}

func TestDeliveryDeliveredEmitsCompletedEvent(t *testing.T) {
	d := newTestDelivery(t)
	require.NoError(t, d.UpdateStatus(StatusAccepted, nil, ""))
	require.NoError(t, d.UpdateStatus(StatusAssigned, nil, ""))
	require.NoError(t, d.UpdateStatus(StatusPickedUp, nil, ""))
	require.NoError(t, d.UpdateStatus(StatusInTransit, nil, ""))
	d.ClearDomainEvents()

	require.NoError(t, d.UpdateStatus(StatusDelivered, nil, ""))

	events := d.GetDomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, EventTypeDeliveryStatusChanged, events[0].EventType())
	assert.Equal(t, EventTypeDeliveryCompleted, events[1].EventType())
}

func TestDeliveryFailedCanBeReassigned(t *testing.T) {
	d := newTestDelivery(t)
	require.NoError(t, d.UpdateStatus(StatusAccepted, nil, ""))
	require.NoError(t, d.UpdateStatus(StatusFailed, nil, "recipient unreachable"))

	require.NoError(t, d.UpdateStatus(StatusAssigned, nil, "retry with new courier"))
	assert.Equal(t, StatusAssigned, d.Status)
}

func TestDeliveryAssignZone(t *testing.T) {
	d := newTestDelivery(t)
	zoneID := uuid.New()

	require.NoError(t, d.AssignZone(zoneID, decimal.NewFromInt(200)))
	require.NotNil(t, d.ZoneID)
	assert.Equal(t, zoneID, *d.ZoneID)
	assert.True(t, d.TotalAmount.Equal(decimal.NewFromInt(18700)))

	// Reassigning swaps the fee instead of stacking it
	require.NoError(t, d.AssignZone(uuid.New(), decimal.NewFromInt(300)))
	assert.True(t, d.TotalAmount.Equal(decimal.NewFromInt(18800)))
}

func TestDeliveryMarkPaidIdempotent(t *testing.T) {
	d := newTestDelivery(t)

	d.MarkPaid()
	version := d.Version
	d.MarkPaid()

	assert.Equal(t, PaymentStatePaid, d.PaymentState)
	assert.Equal(t, version, d.Version)
}

func TestDeliverySetPriority(t *testing.T) {
	d := newTestDelivery(t)

	require.NoError(t, d.SetPriority(4))
	assert.Equal(t, 4, d.Priority)

	assert.Error(t, d.SetPriority(0))
	assert.Error(t, d.SetPriority(5))
}

func TestZone(t *testing.T) {
	z, err := NewZone("Homa Bay Town", decimal.NewFromFloat(-0.5273), decimal.NewFromFloat(34.4571), decimal.NewFromInt(10), decimal.NewFromInt(200))
	require.NoError(t, err)

	assert.True(t, z.Active)
	assert.True(t, z.Serves(decimal.NewFromInt(500)))

	require.NoError(t, z.Update("town and environs", decimal.NewFromInt(250), decimal.NewFromInt(1000)))
	assert.False(t, z.Serves(decimal.NewFromInt(500)))
	assert.True(t, z.Serves(decimal.NewFromInt(1000)))

	z.Deactivate()
	assert.False(t, z.Serves(decimal.NewFromInt(5000)))
}

func TestZoneValidation(t *testing.T) {
	_, err := NewZone("", decimal.Zero, decimal.Zero, decimal.NewFromInt(5), decimal.NewFromInt(100))
	assert.Error(t, err)

	_, err = NewZone("Mbita", decimal.Zero, decimal.Zero, decimal.Zero, decimal.NewFromInt(100))
	assert.Error(t, err)

	_, err = NewZone("Mbita", decimal.Zero, decimal.Zero, decimal.NewFromInt(5), decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestWebhookLogLifecycle(t *testing.T) {
	log, err := NewWebhookLog(uuid.New(), "order_paid", []byte(`{"order_id":1}`))
	require.NoError(t, err)
	assert.Equal(t, WebhookStatusPending, log.Status)

	log.MarkSent(200, `{"ok":true}`)
	assert.True(t, log.Succeeded())
	assert.Equal(t, 1, log.Attempts)
	assert.NotNil(t, log.SentAt)
	require.NotNil(t, log.ResponseStatus)
	assert.Equal(t, 200, *log.ResponseStatus)
}

func TestWebhookLogRetryBackoff(t *testing.T) {
	log, err := NewWebhookLog(uuid.New(), "order_paid", []byte(`{"order_id":1}`))
	require.NoError(t, err)

	status := 500
	log.MarkFailed(&status, "internal server error")
	assert.Equal(t, WebhookStatusFailed, log.Status)
	require.NotNil(t, log.NextRetryAt)
	assert.False(t, log.DueForRetry(time.Now()))
	assert.True(t, log.DueForRetry(time.Now().Add(3*time.Minute)))

	// Backoff doubles with each attempt
	log.MarkFailed(&status, "internal server error")
	assert.False(t, log.DueForRetry(time.Now().Add(3*time.Minute)))
	assert.True(t, log.DueForRetry(time.Now().Add(5*time.Minute)))
}

func TestWebhookLogExhaustsAfterMaxAttempts(t *testing.T) {
	log, err := NewWebhookLog(uuid.New(), "order_paid", []byte(`{"order_id":1}`))
	require.NoError(t, err)

	for i := 0; i < MaxWebhookAttempts; i++ {
		log.MarkFailed(nil, "connection refused")
	}

	assert.Equal(t, WebhookStatusExhausted, log.Status)
	assert.Nil(t, log.NextRetryAt)
	assert.False(t, log.DueForRetry(time.Now().Add(24*time.Hour)))
}

func TestNewWebhookLogValidation(t *testing.T) {
	_, err := NewWebhookLog(uuid.Nil, "order_paid", []byte(`{}`))
	assert.Error(t, err)

	_, err = NewWebhookLog(uuid.New(), "", []byte(`{}`))
	assert.Error(t, err)

	_, err = NewWebhookLog(uuid.New(), "order_paid", nil)
	assert.Error(t, err)
}
