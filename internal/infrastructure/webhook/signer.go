package webhook

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// CanonicalJSON re-encodes a JSON document deterministically: object
// keys sorted, compact separators, no HTML escaping. Both sides of the
// webhook exchange sign these bytes, so encoding differences between
// producers never break verification.
func CanonicalJSON(payload []byte) ([]byte, error) {
	var doc any
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid webhook payload: %w", err)
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(doc); err != nil {
		return nil, err
	}

	// Encode appends a trailing newline
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Sign returns the hex HMAC-SHA256 signature of the canonical form of
// the payload.
func Sign(secret string, payload []byte) (string, error) {
	canonical, err := CanonicalJSON(payload)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(canonical)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify checks a received signature against the payload in constant
// time. A malformed payload or signature fails verification.
func Verify(secret string, payload []byte, signature string) bool {
	expected, err := Sign(secret, payload)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(signature))
}
