package payment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/baysoko/backend/internal/domain/payment"
)

// defaultSimulatedDelay is how long a simulated push stays pending
// before it auto-completes, roughly matching how long a customer
// takes to type their PIN.
const defaultSimulatedDelay = 10 * time.Second

// ErrSimulatedPushPending is returned by status queries while the
// simulated customer has not yet confirmed the prompt.
var ErrSimulatedPushPending = errors.New("daraja: simulated transaction is being processed")

// CallbackSink receives the synthetic callback payload a simulated
// push produces once it completes.
type CallbackSink func(ctx context.Context, payload []byte)

// SimulatedGateway implements payment.MpesaGateway without talking to
// Safaricom. Every push succeeds after a short delay, and a synthetic
// Daraja-shaped callback is delivered to the configured sink. Used in
// development when no Daraja credentials are configured.
type SimulatedGateway struct {
	delay  time.Duration
	logger *zap.Logger

	mu     sync.Mutex
	pushes map[string]*simulatedPush
	sink   CallbackSink
}

type simulatedPush struct {
	merchantRequestID string
	amount            string
	phone             string
	initiatedAt       time.Time
}

// NewSimulatedGateway creates a simulated gateway. A zero delay means
// the default of ten seconds.
func NewSimulatedGateway(delay time.Duration, logger *zap.Logger) *SimulatedGateway {
	if delay <= 0 {
		delay = defaultSimulatedDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulatedGateway{
		delay:  delay,
		logger: logger,
		pushes: make(map[string]*simulatedPush),
	}
}

// SetCallbackSink wires the receiver for synthetic callbacks. Without
// a sink, completion is only visible through QueryStatus.
func (g *SimulatedGateway) SetCallbackSink(sink CallbackSink) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sink = sink
}

// STKPush records the push and schedules its auto-completion
func (g *SimulatedGateway) STKPush(_ context.Context, req *payment.STKPushRequest) (*payment.STKPushResponse, error) {
	now := time.Now()
	checkoutID := fmt.Sprintf("ws_CO_%s%05d", now.Format("02012006150405"), rand.Intn(100000))
	merchantID := fmt.Sprintf("sim-%d-%d", now.UnixNano(), rand.Intn(10000))

	push := &simulatedPush{
		merchantRequestID: merchantID,
		amount:            req.Amount.Round(0).String(),
		phone:             req.Phone,
		initiatedAt:       now,
	}

	g.mu.Lock()
	g.pushes[checkoutID] = push
	g.mu.Unlock()

	g.logger.Info("simulated STK push initiated",
		zap.String("checkout_request_id", checkoutID),
		zap.String("phone", req.Phone),
		zap.Duration("completes_in", g.delay))

	time.AfterFunc(g.delay, func() { g.complete(checkoutID) })

	return &payment.STKPushResponse{
		MerchantRequestID:   merchantID,
		CheckoutRequestID:   checkoutID,
		ResponseCode:        "0",
		ResponseDescription: "Success. Request accepted for processing",
		CustomerMessage:     "Success. Request accepted for processing",
	}, nil
}

// QueryStatus reports success once the simulated delay has elapsed
func (g *SimulatedGateway) QueryStatus(_ context.Context, checkoutRequestID string) (*payment.QueryResponse, error) {
	g.mu.Lock()
	push, ok := g.pushes[checkoutRequestID]
	g.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: unknown CheckoutRequestID %s", ErrDarajaRequestFailed, checkoutRequestID)
	}
	if time.Since(push.initiatedAt) < g.delay {
		return nil, ErrSimulatedPushPending
	}

	return &payment.QueryResponse{
		ResultCode: 0,
		ResultDesc: "The service request is processed successfully.",
	}, nil
}

// ParseCallback parses payloads the same way the live gateway does,
// so synthetic callbacks flow through the real processing path.
func (g *SimulatedGateway) ParseCallback(ctx context.Context, payload []byte) (*payment.STKCallback, error) {
	live := &DarajaGateway{logger: g.logger}
	return live.ParseCallback(ctx, payload)
}

// complete fabricates a successful Daraja callback and hands it to
// the sink. The receipt number is obviously fake on purpose.
func (g *SimulatedGateway) complete(checkoutRequestID string) {
	g.mu.Lock()
	push, ok := g.pushes[checkoutRequestID]
	sink := g.sink
	g.mu.Unlock()

	if !ok || sink == nil {
		return
	}

	receipt := fmt.Sprintf("SIM%010d", rand.Int63n(1e10))
	payload := []byte(fmt.Sprintf(`{"Body":{"stkCallback":{`+
		`"MerchantRequestID":%q,"CheckoutRequestID":%q,`+
		`"ResultCode":0,"ResultDesc":"The service request is processed successfully.",`+
		`"CallbackMetadata":{"Item":[`+
		`{"Name":"Amount","Value":%s},`+
		`{"Name":"MpesaReceiptNumber","Value":%q},`+
		`{"Name":"PhoneNumber","Value":%s}]}}}}`,
		push.merchantRequestID, checkoutRequestID, push.amount, receipt, push.phone))

	g.logger.Info("simulated payment completing",
		zap.String("checkout_request_id", checkoutRequestID),
		zap.String("receipt", receipt))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sink(ctx, payload)
}
