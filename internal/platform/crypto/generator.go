// File: internal/platform/crypto/generator.go
package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
)

// ErrBadSignature is returned when a signed value fails verification.
var ErrBadSignature = errors.New("crypto: signature mismatch")

// GenerateSecureRandomString creates a cryptographically secure random string.
// n is the number of bytes of randomness, resulting string length will be larger due to base64 encoding.
func GenerateSecureRandomString(n int) (string, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// SignValue appends an HMAC-SHA256 signature to value, keyed by secret.
// The result is "value.signature" with a URL-safe base64 signature.
func SignValue(secret, value string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(value))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return value + "." + sig
}

// VerifyValue checks a "value.signature" pair produced by SignValue and
// returns the original value. Tampered or malformed input yields ErrBadSignature.
func VerifyValue(secret, signed string) (string, error) {
	idx := strings.LastIndex(signed, ".")
	if idx <= 0 || idx == len(signed)-1 {
		return "", ErrBadSignature
	}
	value, gotSig := signed[:idx], signed[idx+1:]

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(value))
	wantSig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	if subtle.ConstantTimeCompare([]byte(gotSig), []byte(wantSig)) != 1 {
		return "", ErrBadSignature
	}
	return value, nil
}
