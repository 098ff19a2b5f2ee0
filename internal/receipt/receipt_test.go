package receipt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("receipt_secret", 2*time.Hour)

	token, err := issuer.Issue(42, "pay_abc", 7)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, uint(42), claims.OrderID)
	require.Equal(t, "pay_abc", claims.PaymentID)
	require.Equal(t, uint(7), claims.UserID)
	require.InDelta(t, time.Now().UnixMilli(), claims.Ts, 5000)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	// A leaked payment secret must not forge receipts; the two issuers here
	// stand in for the two distinct secrets
	token, err := NewIssuer("receipt_secret", time.Hour).Issue(1, "pay_abc", 1)
	require.NoError(t, err)

	_, err = NewIssuer("payment_secret", time.Hour).Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := NewIssuer("receipt_secret", -time.Minute)

	token, err := issuer.Issue(1, "pay_abc", 1)
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewIssuer("receipt_secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := issuer.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}
