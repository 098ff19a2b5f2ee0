package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrSignatureMismatch is returned when a callback signature does not match
// the expected HMAC. Callers must make no state change on this error.
var ErrSignatureMismatch = errors.New("payment: invalid signature")

// SignatureString is the canonical input to the provider's callback
// signature: providerOrderId and providerPaymentId joined by a pipe.
func SignatureString(providerOrderID, providerPaymentID string) string {
	return providerOrderID + "|" + providerPaymentID
}

// ComputeSignature returns the hex HMAC-SHA256 of the canonical signature
// string under the provider key secret
func ComputeSignature(secret, providerOrderID, providerPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(SignatureString(providerOrderID, providerPaymentID)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a supplied callback signature in constant time
func VerifySignature(secret, providerOrderID, providerPaymentID, signature string) error {
	expected := ComputeSignature(secret, providerOrderID, providerPaymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}
