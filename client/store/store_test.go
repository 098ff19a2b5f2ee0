package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"scanpay/client/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleProducts() []model.Product {
	return []model.Product{
		{
			SKU:            "HM-87492",
			Name:           "Striped Cotton T-Shirt",
			Price:          899,
			Shop:           "H&M",
			Variants:       []string{"S", "M", "L", "XL"},
			ArticleNo:      "87492",
			Barcodes:       []string{"8714234567890", "4006381333931"},
			StockAvailable: true,
			LastUpdatedAt:  1700000000000,
		},
		{
			SKU:            "ZR-33821",
			Name:           "Slim Fit Chinos",
			Price:          1600,
			Shop:           "Zara",
			Variants:       []string{"30", "32"},
			ArticleNo:      "33821",
			Barcodes:       []string{"8714234567891"},
			QRCodes:        []string{"qr-zr-33821"},
			StockAvailable: false,
			LastUpdatedAt:  1700000001000,
		},
	}
}

func TestLookupBySKU(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.UpsertProducts(ctx, sampleProducts()))

	p, err := s.ProductBySKU(ctx, "HM-87492")
	require.NoError(t, err)
	require.Equal(t, "Striped Cotton T-Shirt", p.Name)
	require.Equal(t, float64(899), p.Price)
	require.Equal(t, []string{"S", "M", "L", "XL"}, p.Variants)
	require.True(t, p.StockAvailable)
}

func TestLookupByBarcode(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.UpsertProducts(ctx, sampleProducts()))

	// Both barcodes map onto the same product
	for _, code := range []string{"8714234567890", "4006381333931"} {
		p, err := s.ProductByBarcode(ctx, code)
		require.NoError(t, err)
		require.Equal(t, "HM-87492", p.SKU)
	}
}

func TestLookupByQRAndArticleNo(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.UpsertProducts(ctx, sampleProducts()))

	p, err := s.ProductByQR(ctx, "qr-zr-33821")
	require.NoError(t, err)
	require.Equal(t, "ZR-33821", p.SKU)
	require.False(t, p.StockAvailable)

	p, err = s.ProductByArticleNo(ctx, "33821")
	require.NoError(t, err)
	require.Equal(t, "ZR-33821", p.SKU)
}

func TestLookupMissIsTyped(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.UpsertProducts(ctx, sampleProducts()))

	_, err := s.ProductBySKU(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.ProductByBarcode(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.ProductByQR(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.ProductByArticleNo(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUninitializedStoreFailsClosed(t *testing.T) {
	// A nil store must look like an empty one, never panic into the
	// resolution chain
	var s *Store
	_, err := s.ProductBySKU(context.Background(), "HM-87492")
	require.ErrorIs(t, err, ErrNotFound)

	ts, err := s.Watermark(context.Background())
	require.NoError(t, err)
	require.Zero(t, ts)
}

func TestUpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.UpsertProducts(ctx, sampleProducts()))
	require.NoError(t, s.UpsertProducts(ctx, sampleProducts()))

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count))
	require.Equal(t, 2, count)
}

func TestUpsertReplacesBySKU(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.UpsertProducts(ctx, sampleProducts()))

	updated := sampleProducts()[0]
	updated.Price = 799
	updated.StockAvailable = false
	require.NoError(t, s.UpsertProducts(ctx, []model.Product{updated}))

	p, err := s.ProductBySKU(ctx, "HM-87492")
	require.NoError(t, err)
	require.Equal(t, float64(799), p.Price)
	require.False(t, p.StockAvailable)
}

func TestWatermarkRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	// Never-synced store reports zero
	ts, err := s.Watermark(ctx)
	require.NoError(t, err)
	require.Zero(t, ts)

	require.NoError(t, s.SetWatermark(ctx, 1700000000000))
	ts, err = s.Watermark(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1700000000000), ts)

	require.NoError(t, s.SetWatermark(ctx, 1700000005000))
	ts, err = s.Watermark(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1700000005000), ts)
}

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.UpsertProducts(ctx, sampleProducts()))
	require.NoError(t, s.SetWatermark(ctx, 1700000000000))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	p, err := s.ProductBySKU(ctx, "HM-87492")
	require.NoError(t, err)
	require.Equal(t, "Striped Cotton T-Shirt", p.Name)

	ts, err := s.Watermark(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1700000000000), ts)
}

func TestCorruptCachedRowIsAnError(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.UpsertProducts(ctx, sampleProducts()))

	tests := []struct {
		name   string
		column string
	}{
		{"corrupt variants", "variants"},
		{"corrupt barcodes", "barcodes"},
		{"corrupt qr codes", "qr_codes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.db.ExecContext(ctx,
				`UPDATE products SET `+tt.column+` = 'not-json' WHERE sku = ?`, "HM-87492")
			require.NoError(t, err)

			_, err = s.ProductBySKU(ctx, "HM-87492")
			require.Error(t, err)
			require.NotErrorIs(t, err, ErrNotFound)

			_, err = s.db.ExecContext(ctx,
				`UPDATE products SET `+tt.column+` = '[]' WHERE sku = ?`, "HM-87492")
			require.NoError(t, err)
		})
	}
}
