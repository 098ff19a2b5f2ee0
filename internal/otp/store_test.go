package otp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 4)
		require.GreaterOrEqual(t, code, "1000")
	}
}

func TestVerifyConsumesChallenge(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, "9876543210", Challenge{Code: "1234", Name: "Asha"}, time.Minute))

	ch, err := Verify(ctx, store, "9876543210", "1234")
	require.NoError(t, err)
	require.Equal(t, "Asha", ch.Name)

	// Single use: the same code is gone
	_, err = Verify(ctx, store, "9876543210", "1234")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyWrongCodeDoesNotConsume(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, "9876543210", Challenge{Code: "1234"}, time.Minute))

	_, err := Verify(ctx, store, "9876543210", "9999")
	require.ErrorIs(t, err, ErrCodeMismatch)

	// The shopper can still retry with the right code
	_, err = Verify(ctx, store, "9876543210", "1234")
	require.NoError(t, err)
}

func TestVerifyExpiredChallenge(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, "9876543210", Challenge{Code: "1234"}, -time.Second))

	_, err := Verify(ctx, store, "9876543210", "1234")
	require.ErrorIs(t, err, ErrExpired)

	// Expiry deletes the challenge
	_, err = store.Get(ctx, "9876543210")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyUnknownPhone(t *testing.T) {
	_, err := Verify(context.Background(), NewMemoryStore(), "0000000000", "1234")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPutReplacesPendingChallenge(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, "9876543210", Challenge{Code: "1111"}, time.Minute))
	require.NoError(t, store.Put(ctx, "9876543210", Challenge{Code: "2222"}, time.Minute))

	_, err := Verify(ctx, store, "9876543210", "1111")
	require.ErrorIs(t, err, ErrCodeMismatch)

	_, err = Verify(ctx, store, "9876543210", "2222")
	require.NoError(t, err)
}
