// Package receipt mints and verifies the signed, time-bounded token a
// shopper presents at the exit gate. The signing secret is distinct from
// the payment-verification secret so a leaked payment secret cannot forge
// receipts. Key material is always passed in explicitly.
package receipt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers signature failures, malformed tokens and expiry
var ErrInvalidToken = errors.New("receipt: invalid or expired token")

// Claims is the receipt token payload
type Claims struct {
	OrderID   uint   `json:"orderId"`
	PaymentID string `json:"razorpayPaymentId"`
	UserID    uint   `json:"userId"`
	Ts        int64  `json:"ts"`
	jwt.RegisteredClaims
}

// Issuer mints receipt tokens with a fixed validity window
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an issuer with the given signing secret and validity
// window
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue mints a receipt token for a paid order
func (i *Issuer) Issue(orderID uint, paymentID string, userID uint) (string, error) {
	now := time.Now()
	claims := Claims{
		OrderID:   orderID,
		PaymentID: paymentID,
		UserID:    userID,
		Ts:        now.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("receipt: sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a presented token's signature and expiry and returns its
// claims. Order state is the caller's concern; a valid token alone does not
// prove payment.
func (i *Issuer) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(
		token,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return i.secret, nil
		},
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
