package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/baysoko/backend/internal/domain/payment"
)

const (
	darajaAPIBaseURL        = "https://api.safaricom.co.ke"
	darajaSandboxAPIBaseURL = "https://sandbox.safaricom.co.ke"
	darajaTokenPath         = "/oauth/v1/generate?grant_type=client_credentials"
	darajaSTKPushPath       = "/mpesa/stkpush/v1/processrequest"
	darajaQueryPath         = "/mpesa/stkpushquery/v1/query"

	darajaTimestampLayout = "20060102150405"
	darajaTransactionType = "CustomerPayBillOnline"

	maxAccountReferenceLen = 12
	maxTransactionDescLen  = 13
)

// Errors surfaced by the Daraja gateway
var (
	ErrDarajaUnavailable   = errors.New("daraja: gateway unavailable")
	ErrDarajaRequestFailed = errors.New("daraja: request failed")
	ErrDarajaBadCallback   = errors.New("daraja: malformed callback payload")
)

// DarajaGateway implements payment.MpesaGateway against the Safaricom
// Daraja API. OAuth tokens are cached until shortly before expiry.
type DarajaGateway struct {
	config     *DarajaConfig
	httpClient *http.Client
	logger     *zap.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewDarajaGateway creates a live Daraja gateway
func NewDarajaGateway(config *DarajaConfig, logger *zap.Logger) (*DarajaGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DarajaGateway{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}, nil
}

// STKPush prompts the customer's phone for payment confirmation
func (g *DarajaGateway) STKPush(ctx context.Context, req *payment.STKPushRequest) (*payment.STKPushResponse, error) {
	timestamp := time.Now().Format(darajaTimestampLayout)

	body := darajaSTKPushRequest{
		BusinessShortCode: g.config.ShortCode,
		Password:          g.password(timestamp),
		Timestamp:         timestamp,
		TransactionType:   darajaTransactionType,
		Amount:            req.Amount.Round(0).String(),
		PartyA:            req.Phone,
		PartyB:            g.config.ShortCode,
		PhoneNumber:       req.Phone,
		CallBackURL:       g.config.CallbackURL,
		AccountReference:  truncate(req.AccountReference, maxAccountReferenceLen),
		TransactionDesc:   truncate(req.Description, maxTransactionDescLen),
	}

	respBody, err := g.doRequest(ctx, darajaSTKPushPath, body)
	if err != nil {
		return nil, err
	}

	var respData darajaSTKPushResponse
	if err := json.Unmarshal(respBody, &respData); err != nil {
		return nil, fmt.Errorf("daraja: failed to parse response: %w", err)
	}
	if respData.ResponseCode != "0" {
		return nil, fmt.Errorf("%w: %s - %s",
			ErrDarajaRequestFailed, respData.ResponseCode, respData.ResponseDescription)
	}

	g.logger.Debug("STK push accepted",
		zap.String("checkout_request_id", respData.CheckoutRequestID))

	return &payment.STKPushResponse{
		MerchantRequestID:   respData.MerchantRequestID,
		CheckoutRequestID:   respData.CheckoutRequestID,
		ResponseCode:        respData.ResponseCode,
		ResponseDescription: respData.ResponseDescription,
		CustomerMessage:     respData.CustomerMessage,
	}, nil
}

// QueryStatus asks Daraja for the outcome of a previously initiated push
func (g *DarajaGateway) QueryStatus(ctx context.Context, checkoutRequestID string) (*payment.QueryResponse, error) {
	timestamp := time.Now().Format(darajaTimestampLayout)

	body := darajaQueryRequest{
		BusinessShortCode: g.config.ShortCode,
		Password:          g.password(timestamp),
		Timestamp:         timestamp,
		CheckoutRequestID: checkoutRequestID,
	}

	respBody, err := g.doRequest(ctx, darajaQueryPath, body)
	if err != nil {
		return nil, err
	}

	var respData darajaQueryResponse
	if err := json.Unmarshal(respBody, &respData); err != nil {
		return nil, fmt.Errorf("daraja: failed to parse response: %w", err)
	}

	resultCode, err := strconv.Atoi(respData.ResultCode)
	if err != nil {
		return nil, fmt.Errorf("daraja: unexpected result code %q", respData.ResultCode)
	}

	return &payment.QueryResponse{
		ResultCode: resultCode,
		ResultDesc: respData.ResultDesc,
	}, nil
}

// ParseCallback parses the asynchronous STK push result posted by Safaricom
func (g *DarajaGateway) ParseCallback(_ context.Context, payload []byte) (*payment.STKCallback, error) {
	var envelope darajaCallbackEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDarajaBadCallback, err)
	}

	stk := envelope.Body.StkCallback
	if stk.CheckoutRequestID == "" {
		return nil, fmt.Errorf("%w: missing CheckoutRequestID", ErrDarajaBadCallback)
	}

	cb := &payment.STKCallback{
		MerchantRequestID: stk.MerchantRequestID,
		CheckoutRequestID: stk.CheckoutRequestID,
		ResultCode:        stk.ResultCode,
		ResultDesc:        stk.ResultDesc,
		RawPayload:        payload,
	}

	if stk.CallbackMetadata != nil {
		for _, item := range stk.CallbackMetadata.Item {
			switch item.Name {
			case "Amount":
				var amount float64
				if err := json.Unmarshal(item.Value, &amount); err == nil {
					cb.Amount = decimal.NewFromFloat(amount)
				}
			case "MpesaReceiptNumber":
				var receipt string
				if err := json.Unmarshal(item.Value, &receipt); err == nil {
					cb.MpesaReceipt = receipt
				}
			case "PhoneNumber":
				cb.Phone = decodePhoneValue(item.Value)
			}
		}
	}

	return cb, nil
}

// password builds the Lipa Na M-Pesa request password for a timestamp
func (g *DarajaGateway) password(timestamp string) string {
	raw := g.config.ShortCode + g.config.Passkey + timestamp
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// doRequest performs an authenticated POST to the Daraja API
func (g *DarajaGateway) doRequest(ctx context.Context, path string, body interface{}) ([]byte, error) {
	token, err := g.token(ctx)
	if err != nil {
		return nil, err
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("daraja: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL()+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("daraja: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDarajaUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("daraja: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp darajaErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.ErrorCode != "" {
			return nil, fmt.Errorf("%w: %s - %s",
				ErrDarajaRequestFailed, errResp.ErrorCode, errResp.ErrorMessage)
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrDarajaRequestFailed, resp.StatusCode)
	}

	return respBody, nil
}

// token returns a cached OAuth token, fetching a fresh one when the
// cached token is within a minute of expiring.
func (g *DarajaGateway) token(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.accessToken != "" && time.Now().Before(g.tokenExpiry.Add(-time.Minute)) {
		return g.accessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL()+darajaTokenPath, nil)
	if err != nil {
		return "", fmt.Errorf("daraja: failed to create token request: %w", err)
	}
	req.SetBasicAuth(g.config.ConsumerKey, g.config.ConsumerSecret)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDarajaUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("daraja: failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token grant HTTP %d", ErrDarajaRequestFailed, resp.StatusCode)
	}

	var tokenResp darajaTokenResponse
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return "", fmt.Errorf("daraja: failed to parse token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrDarajaRequestFailed)
	}

	ttl := 3600
	if n, err := strconv.Atoi(tokenResp.ExpiresIn); err == nil && n > 0 {
		ttl = n
	}

	g.accessToken = tokenResp.AccessToken
	g.tokenExpiry = time.Now().Add(time.Duration(ttl) * time.Second)

	return g.accessToken, nil
}

func (g *DarajaGateway) baseURL() string {
	if g.config.BaseURL != "" {
		return g.config.BaseURL
	}
	if g.config.IsSandbox {
		return darajaSandboxAPIBaseURL
	}
	return darajaAPIBaseURL
}

// decodePhoneValue handles Daraja sending the payer MSISDN either as
// a JSON number or a string depending on the API version.
func decodePhoneValue(raw json.RawMessage) string {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber.String()
	}
	return strings.Trim(string(raw), `"`)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
