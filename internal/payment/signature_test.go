package payment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifySignatureAcceptsMatchingHMAC(t *testing.T) {
	secret := "test_key_secret"
	sig := ComputeSignature(secret, "order_abc", "pay_def")

	require.NoError(t, VerifySignature(secret, "order_abc", "pay_def", sig))
}

func TestVerifySignatureRejectsMismatch(t *testing.T) {
	secret := "test_key_secret"
	sig := ComputeSignature(secret, "order_abc", "pay_def")

	cases := map[string]struct {
		orderID, paymentID, signature string
	}{
		"tampered signature":  {"order_abc", "pay_def", sig + "00"},
		"different order":     {"order_xyz", "pay_def", sig},
		"different payment":   {"order_abc", "pay_xyz", sig},
		"empty signature":     {"order_abc", "pay_def", ""},
		"swapped identifiers": {"pay_def", "order_abc", sig},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := VerifySignature(secret, tc.orderID, tc.paymentID, tc.signature)
			require.ErrorIs(t, err, ErrSignatureMismatch)
		})
	}
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	sig := ComputeSignature("secret_a", "order_abc", "pay_def")
	err := VerifySignature("secret_b", "order_abc", "pay_def", sig)
	require.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestSignatureString(t *testing.T) {
	require.Equal(t, "order_abc|pay_def", SignatureString("order_abc", "pay_def"))
}
