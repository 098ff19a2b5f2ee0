// Package otp implements short-lived, keyed, verify-once sign-in
// challenges. Storage sits behind the Store interface: the redis-backed
// implementation is shared across server instances, the in-memory one
// covers single-process deployments and tests.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

var (
	// ErrNotFound means no challenge exists for the phone number
	ErrNotFound = errors.New("otp: challenge not found")
	// ErrExpired means the challenge existed but its TTL has passed
	ErrExpired = errors.New("otp: challenge expired")
	// ErrCodeMismatch means the supplied code did not match
	ErrCodeMismatch = errors.New("otp: code mismatch")
)

// Challenge is a pending sign-in challenge keyed by phone number. Name is
// carried so the account can be created on first successful verification.
type Challenge struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store persists pending challenges with expiry
type Store interface {
	Put(ctx context.Context, phone string, ch Challenge, ttl time.Duration) error
	Get(ctx context.Context, phone string) (Challenge, error)
	Delete(ctx context.Context, phone string) error
}

// GenerateCode returns a random 4-digit code
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("otp: generate code: %w", err)
	}
	return fmt.Sprintf("%04d", n.Int64()+1000), nil
}

// Verify checks the supplied code against the stored challenge and consumes
// it on success. Expired challenges are deleted on sight. A mismatched code
// leaves the challenge in place so the shopper can retry until expiry.
func Verify(ctx context.Context, store Store, phone, code string) (Challenge, error) {
	ch, err := store.Get(ctx, phone)
	if err != nil {
		return Challenge{}, err
	}

	if time.Now().After(ch.ExpiresAt) {
		_ = store.Delete(ctx, phone)
		return Challenge{}, ErrExpired
	}

	if ch.Code != code {
		return Challenge{}, ErrCodeMismatch
	}

	// Verified challenges are single-use
	if err := store.Delete(ctx, phone); err != nil {
		return Challenge{}, err
	}
	return ch, nil
}
