package valueobject

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Phone is a value object representing a Kenyan mobile number in
// canonical MSISDN form (2547XXXXXXXX or 2541XXXXXXXX).
// It is immutable - all operations return new Phone instances.
type Phone struct {
	msisdn string
}

var kenyanMSISDNPattern = regexp.MustCompile(`^254(7|1)\d{8}$`)

// NewPhone creates a Phone from any common Kenyan number format:
// 07XXXXXXXX, 01XXXXXXXX, +2547XXXXXXXX, 2547XXXXXXXX, 7XXXXXXXX.
func NewPhone(raw string) (Phone, error) {
	normalized, err := normalizeKenyanNumber(raw)
	if err != nil {
		return Phone{}, err
	}
	return Phone{msisdn: normalized}, nil
}

// MustNewPhone creates a Phone, panics on error
func MustNewPhone(raw string) Phone {
	p, err := NewPhone(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// EmptyPhone returns a zero-value Phone (for optional phone fields)
func EmptyPhone() Phone {
	return Phone{}
}

func normalizeKenyanNumber(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errors.New("phone number cannot be empty")
	}

	// Strip formatting characters
	s = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(s)
	s = strings.TrimPrefix(s, "+")

	switch {
	case strings.HasPrefix(s, "254"):
		// already in MSISDN form
	case strings.HasPrefix(s, "0") && len(s) == 10:
		s = "254" + s[1:]
	case (strings.HasPrefix(s, "7") || strings.HasPrefix(s, "1")) && len(s) == 9:
		s = "254" + s
	}

	if !kenyanMSISDNPattern.MatchString(s) {
		return "", fmt.Errorf("invalid Kenyan mobile number: %s", raw)
	}
	return s, nil
}

// MSISDN returns the canonical 254XXXXXXXXX form
func (p Phone) MSISDN() string {
	return p.msisdn
}

// Local returns the 07XX/01XX local form
func (p Phone) Local() string {
	if p.msisdn == "" {
		return ""
	}
	return "0" + p.msisdn[3:]
}

// International returns the +254 form
func (p Phone) International() string {
	if p.msisdn == "" {
		return ""
	}
	return "+" + p.msisdn
}

// Masked returns the number with the middle digits hidden, for logs
func (p Phone) Masked() string {
	if p.msisdn == "" {
		return ""
	}
	return p.msisdn[:6] + "****" + p.msisdn[len(p.msisdn)-2:]
}

// IsEmpty returns true if no number is set
func (p Phone) IsEmpty() bool {
	return p.msisdn == ""
}

// Equals returns true if both phones hold the same number
func (p Phone) Equals(other Phone) bool {
	return p.msisdn == other.msisdn
}

// String returns the canonical MSISDN form
func (p Phone) String() string {
	return p.msisdn
}

// MarshalJSON implements json.Marshaler
func (p Phone) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.msisdn + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Phone) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*p = EmptyPhone()
		return nil
	}
	phone, err := NewPhone(s)
	if err != nil {
		return err
	}
	*p = phone
	return nil
}

// Value implements driver.Valuer for database storage
func (p Phone) Value() (driver.Value, error) {
	if p.msisdn == "" {
		return nil, nil
	}
	return p.msisdn, nil
}

// Scan implements sql.Scanner for database retrieval
func (p *Phone) Scan(value any) error {
	if value == nil {
		*p = EmptyPhone()
		return nil
	}

	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Phone", value)
	}

	if s == "" {
		*p = EmptyPhone()
		return nil
	}

	phone, err := NewPhone(s)
	if err != nil {
		return err
	}
	*p = phone
	return nil
}
