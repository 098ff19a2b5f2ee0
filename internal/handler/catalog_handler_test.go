package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"scanpay/internal/model"
)

// fakeProductSource records the lookup it was asked for
type fakeProductSource struct {
	product *model.Product
	err     error

	gotKey   string
	gotValue string
}

func (f *fakeProductSource) ProductByKey(key, value string) (*model.Product, error) {
	f.gotKey = key
	f.gotValue = value
	if f.err != nil {
		return nil, f.err
	}
	return f.product, nil
}

func lookupRequest(t *testing.T, query string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/products/lookup?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLookupProductHit(t *testing.T) {
	src := &fakeProductSource{product: &model.Product{SKU: "HM-87492", Name: "Striped Cotton T-Shirt"}}
	InitCatalogHandler(src)

	c, rec := lookupRequest(t, "barcode=8714234567890")
	require.NoError(t, LookupProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "barcode", src.gotKey)
	require.Equal(t, "8714234567890", src.gotValue)

	body := decodeBody(t, rec)
	product := body["product"].(map[string]interface{})
	require.Equal(t, "HM-87492", product["sku"])
}

func TestLookupProductMissIs404(t *testing.T) {
	InitCatalogHandler(&fakeProductSource{err: gorm.ErrRecordNotFound})

	c, rec := lookupRequest(t, "sku=NOPE-1")
	require.NoError(t, LookupProduct(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Product not found", decodeBody(t, rec)["error"])
}

func TestLookupProductStorageFailureIs500(t *testing.T) {
	// An unreachable database must not masquerade as a missing product
	InitCatalogHandler(&fakeProductSource{err: errors.New("connection refused")})

	c, rec := lookupRequest(t, "sku=HM-87492")
	require.NoError(t, LookupProduct(c))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Lookup failed", decodeBody(t, rec)["error"])
}

func TestLookupProductMissingKey(t *testing.T) {
	InitCatalogHandler(&fakeProductSource{})

	c, rec := lookupRequest(t, "")
	require.NoError(t, LookupProduct(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Missing lookup key", decodeBody(t, rec)["error"])
}

func TestLookupProductKeyPrecedence(t *testing.T) {
	src := &fakeProductSource{product: &model.Product{SKU: "HM-87492"}}
	InitCatalogHandler(src)

	c, _ := lookupRequest(t, "sku=HM-87492&barcode=8714234567890")
	require.NoError(t, LookupProduct(c))
	require.Equal(t, "barcode", src.gotKey)
}
