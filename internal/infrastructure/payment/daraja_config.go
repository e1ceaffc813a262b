package payment

import "errors"

// DarajaConfig carries the Safaricom Daraja API credentials for the
// STK push flow. When ConsumerKey or ConsumerSecret is empty the
// gateway runs in simulation mode instead of calling Safaricom.
type DarajaConfig struct {
	// ConsumerKey is the app consumer key from the Daraja portal
	ConsumerKey string
	// ConsumerSecret is the matching consumer secret
	ConsumerSecret string
	// ShortCode is the paybill or till business short code
	ShortCode string
	// Passkey is the Lipa Na M-Pesa online passkey
	Passkey string
	// CallbackURL receives the STK push result
	CallbackURL string
	// IsSandbox selects the Daraja sandbox environment
	IsSandbox bool
	// BaseURL overrides the API host, mainly for tests
	BaseURL string
}

// Errors for configuration validation
var (
	ErrDarajaMissingShortCode   = errors.New("daraja: missing business short code")
	ErrDarajaMissingPasskey     = errors.New("daraja: missing passkey")
	ErrDarajaMissingCallbackURL = errors.New("daraja: missing callback URL")
)

// Simulated reports whether the config lacks live credentials
func (c *DarajaConfig) Simulated() bool {
	return c.ConsumerKey == "" || c.ConsumerSecret == ""
}

// Validate validates the configuration for live use
func (c *DarajaConfig) Validate() error {
	if c.ShortCode == "" {
		return ErrDarajaMissingShortCode
	}
	if c.Passkey == "" {
		return ErrDarajaMissingPasskey
	}
	if c.CallbackURL == "" {
		return ErrDarajaMissingCallbackURL
	}
	return nil
}
