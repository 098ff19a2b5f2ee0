package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"scanpay/internal/model"
	"scanpay/pkg/database"
	"scanpay/pkg/logger"
	"scanpay/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductSource resolves single-product lookups. A miss is reported as
// gorm.ErrRecordNotFound; any other error is an infrastructure failure.
type ProductSource interface {
	ProductByKey(key, value string) (*model.Product, error)
}

var catalogSource ProductSource

// InitCatalogHandler wires the catalog handlers with their product source
func InitCatalogHandler(src ProductSource) {
	catalogSource = src
}

// dbProductSource resolves lookups against the product table
type dbProductSource struct{}

// NewDBProductSource returns the gorm-backed product source
func NewDBProductSource() ProductSource {
	return dbProductSource{}
}

func (dbProductSource) ProductByKey(key, value string) (*model.Product, error) {
	db := database.GetDB()
	var product model.Product
	var err error
	switch key {
	case "barcode":
		err = db.Where("barcodes @> ?", jsonArray(value)).First(&product).Error
	case "qr":
		err = db.Where("qr_codes @> ?", jsonArray(value)).First(&product).Error
	case "articleNo":
		err = db.Where("article_no = ?", value).First(&product).Error
	default:
		err = db.Where("sku = ?", value).First(&product).Error
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CatalogDelta returns every product changed since the client's watermark,
// plus the server time the client must adopt as its next watermark.
func CatalogDelta(c echo.Context) error {
	log := logger.FromEcho(c)

	var since int64
	if raw := c.QueryParam("since"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Warn("Invalid since parameter", zap.String("value", raw))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid since parameter"})
		}
		since = parsed
	}

	// syncedAt is captured before the query so a product updated mid-request
	// is re-sent on the next pull rather than missed
	syncedAt := time.Now().UnixMilli()

	var products []model.Product
	result := database.GetDB().
		Where("last_updated_at >= ?", time.UnixMilli(since)).
		Find(&products)
	if result.Error != nil {
		log.Error("Failed to fetch catalog", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch catalog"})
	}

	prometheus.CatalogPullsCounter.Inc()
	log.Info("Catalog delta served",
		zap.Int64("since", since),
		zap.Int("count", len(products)))

	return c.JSON(http.StatusOK, echo.Map{
		"products": products,
		"syncedAt": syncedAt,
	})
}

// LookupProduct resolves a single product by exactly one of barcode, QR
// payload, article number or SKU. First match wins; code uniqueness across
// products is a seed-time invariant, not resolved here.
func LookupProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	var key, value string
	switch {
	case c.QueryParam("barcode") != "":
		key, value = "barcode", c.QueryParam("barcode")
	case c.QueryParam("qr") != "":
		key, value = "qr", c.QueryParam("qr")
	case c.QueryParam("articleNo") != "":
		key, value = "articleNo", c.QueryParam("articleNo")
	case c.QueryParam("sku") != "":
		key, value = "sku", c.QueryParam("sku")
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing lookup key"})
	}

	product, err := catalogSource.ProductByKey(key, value)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		prometheus.CatalogLookupsCounter.WithLabelValues(key, "miss").Inc()
		log.Info("Product lookup miss", zap.String("key", key))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}
	// A failing database is not a missing product; the client treats 404 as
	// definitive and must see this as retryable
	if err != nil {
		prometheus.CatalogLookupsCounter.WithLabelValues(key, "error").Inc()
		log.Error("Product lookup failed", zap.String("key", key), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Lookup failed"})
	}

	prometheus.CatalogLookupsCounter.WithLabelValues(key, "hit").Inc()
	return c.JSON(http.StatusOK, echo.Map{"product": product})
}

// ListProducts returns the full catalog (admin use)
func ListProducts(c echo.Context) error {
	var products []model.Product
	if err := database.GetDB().Find(&products).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve products"})
	}
	return c.JSON(http.StatusOK, echo.Map{"products": products})
}

// jsonArray wraps a single value as a JSON array literal for JSONB
// containment matching
func jsonArray(value string) string {
	b, _ := json.Marshal([]string{value})
	return string(b)
}
