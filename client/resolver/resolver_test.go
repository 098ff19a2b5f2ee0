package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"scanpay/client/model"
	"scanpay/client/sampledata"
	"scanpay/client/store"
)

type fakeStore struct {
	bySKU     map[string]*model.Product
	byBarcode map[string]*model.Product
	byQR      map[string]*model.Product
	byArticle map[string]*model.Product
	calls     int
}

func (f *fakeStore) lookup(m map[string]*model.Product, key string) (*model.Product, error) {
	f.calls++
	if p, ok := m[key]; ok {
		return p, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) ProductBySKU(_ context.Context, sku string) (*model.Product, error) {
	return f.lookup(f.bySKU, sku)
}

func (f *fakeStore) ProductByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	return f.lookup(f.byBarcode, barcode)
}

func (f *fakeStore) ProductByQR(_ context.Context, payload string) (*model.Product, error) {
	return f.lookup(f.byQR, payload)
}

func (f *fakeStore) ProductByArticleNo(_ context.Context, articleNo string) (*model.Product, error) {
	return f.lookup(f.byArticle, articleNo)
}

type fakeAPI struct {
	products map[string]*model.Product
	calls    int
}

func (f *fakeAPI) Lookup(_ context.Context, key, value string) (*model.Product, error) {
	f.calls++
	if p, ok := f.products[key+":"+value]; ok {
		return p, nil
	}
	return nil, errors.New("not found")
}

func online() bool  { return true }
func offline() bool { return false }

func TestResolveRejectsEmptyPayload(t *testing.T) {
	r := New(nil, &fakeStore{}, &fakeAPI{}, online)

	for _, payload := range []string{"", "   "} {
		_, err := r.Resolve(context.Background(), Scan{Payload: payload, Kind: KindBarcode})
		require.ErrorIs(t, err, ErrEmptyScan)
	}
}

func TestSamplesWinBeforeStore(t *testing.T) {
	cached := &model.Product{SKU: "HM-87492", Name: "Stale Cache Copy"}
	fs := &fakeStore{byArticle: map[string]*model.Product{"87492": cached}}
	r := New(sampledata.Products, fs, &fakeAPI{}, online)

	p, err := r.Resolve(context.Background(), Scan{Payload: "87492", Kind: KindArticle})
	require.NoError(t, err)
	require.Equal(t, "Striped Cotton T-Shirt", p.Name)
	require.Zero(t, fs.calls, "store must not be consulted after a sample hit")
}

func TestSampleMatchTrimsWhitespace(t *testing.T) {
	r := New(sampledata.Products, &fakeStore{}, nil, nil)

	p, err := r.Resolve(context.Background(), Scan{Payload: "  87492  ", Kind: KindArticle})
	require.NoError(t, err)
	require.Equal(t, "HM-87492", p.SKU)
}

func TestStoreHitByDeclaredKind(t *testing.T) {
	product := &model.Product{SKU: "ZR-33821", Name: "Slim Fit Chinos"}
	fs := &fakeStore{
		byBarcode: map[string]*model.Product{"8714234567891": product},
		byQR:      map[string]*model.Product{"qr-zr": product},
		bySKU:     map[string]*model.Product{"ZR-33821": product},
		byArticle: map[string]*model.Product{"33821": product},
	}
	fa := &fakeAPI{}
	r := New(sampledata.Products, fs, fa, online)

	cases := []Scan{
		{Payload: "8714234567891", Kind: KindBarcode},
		{Payload: "qr-zr", Kind: KindQR},
		{Payload: "ZR-33821", Kind: KindSKU},
	}
	for _, scan := range cases {
		p, err := r.Resolve(context.Background(), scan)
		require.NoError(t, err, "kind %s", scan.Kind)
		require.Equal(t, "ZR-33821", p.SKU)
	}
	require.Zero(t, fa.calls, "server must not be consulted after a cache hit")
}

func TestServerFallbackWhenOnline(t *testing.T) {
	remote := &model.Product{SKU: "PU-55555", Name: "Track Jacket"}
	fa := &fakeAPI{products: map[string]*model.Product{"barcode:5901234123457": remote}}
	r := New(sampledata.Products, &fakeStore{}, fa, online)

	p, err := r.Resolve(context.Background(), Scan{Payload: "5901234123457", Kind: KindBarcode})
	require.NoError(t, err)
	require.Equal(t, "PU-55555", p.SKU)
}

func TestServerSkippedWhenOffline(t *testing.T) {
	remote := &model.Product{SKU: "PU-55555"}
	fa := &fakeAPI{products: map[string]*model.Product{"barcode:5901234123457": remote}}
	r := New(sampledata.Products, &fakeStore{}, fa, offline)

	_, err := r.Resolve(context.Background(), Scan{Payload: "5901234123457", Kind: KindBarcode})
	require.ErrorIs(t, err, ErrNotFound)
	require.Zero(t, fa.calls)
}

func TestMissEverywhereIsTyped(t *testing.T) {
	r := New(sampledata.Products, &fakeStore{}, &fakeAPI{}, online)

	_, err := r.Resolve(context.Background(), Scan{Payload: "0000000000000", Kind: KindBarcode})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNilStoreAndAPIDegradeToMiss(t *testing.T) {
	r := New(nil, nil, nil, nil)

	_, err := r.Resolve(context.Background(), Scan{Payload: "87492", Kind: KindArticle})
	require.ErrorIs(t, err, ErrNotFound)
}
