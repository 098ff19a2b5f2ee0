package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"scanpay/client/model"
)

func testLine(sku, variant string) model.CartLine {
	return model.CartLine{
		SKU:             sku,
		Name:            "Test Product",
		Price:           899,
		SelectedVariant: variant,
		Shop:            "H&M",
	}
}

func TestAddMergesOnDuplicate(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.AddOrIncrementLine(ctx, "id-1", testLine("HM-87492", "M")))
	require.NoError(t, s.AddOrIncrementLine(ctx, "id-2", testLine("HM-87492", "M")))

	lines, err := s.CartLines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, "id-1", lines[0].ID)
	require.Equal(t, 2, lines[0].Quantity)
}

func TestAddDifferentVariantsStaySeparate(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.AddOrIncrementLine(ctx, "id-1", testLine("HM-87492", "M")))
	require.NoError(t, s.AddOrIncrementLine(ctx, "id-2", testLine("HM-87492", "L")))

	lines, err := s.CartLines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 2)
}

func TestSetLineQuantity(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.AddOrIncrementLine(ctx, "id-1", testLine("HM-87492", "M")))

	require.NoError(t, s.SetLineQuantity(ctx, "id-1", 5))

	lines, err := s.CartLines(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, lines[0].Quantity)
}

func TestRemoveLine(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.AddOrIncrementLine(ctx, "id-1", testLine("HM-87492", "M")))

	require.NoError(t, s.RemoveLine(ctx, "id-1"))
	// Removing an absent line is not an error
	require.NoError(t, s.RemoveLine(ctx, "id-1"))

	lines, err := s.CartLines(ctx)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.AddOrIncrementLine(ctx, "id-1", testLine("HM-87492", "M")))
	require.NoError(t, s.AddOrIncrementLine(ctx, "id-2", testLine("ZR-33821", "32")))

	require.NoError(t, s.ClearCart(ctx))

	lines, err := s.CartLines(ctx)
	require.NoError(t, err)
	require.Empty(t, lines)
}
