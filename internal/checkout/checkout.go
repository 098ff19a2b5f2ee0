// Package checkout re-validates a submitted cart against the authoritative
// catalog. Every price is recomputed from the catalog; nothing the client
// sends beyond SKU, quantity and variant is ever read.
package checkout

import (
	"errors"
	"fmt"
	"math"

	"scanpay/internal/model"
)

// Display markup applied to derive the pre-discount price shown on receipts
const originalPriceMarkup = 1.4

// ErrEmptyCart rejects a checkout with no lines
var ErrEmptyCart = errors.New("checkout: cart is empty")

// ErrProductNotFound is returned by Catalog implementations for unknown SKUs
var ErrProductNotFound = errors.New("checkout: product not found")

// ValidationError names the line that failed re-validation. The message is
// shown to the shopper verbatim.
type ValidationError struct {
	SKU     string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Catalog is the authoritative product source
type Catalog interface {
	ProductBySKU(sku string) (*model.Product, error)
}

// CartLine is a submitted cart line. Only these three fields are trusted
// input; any price the client carried is discarded.
type CartLine struct {
	SKU             string `json:"sku"`
	Quantity        int    `json:"quantity"`
	SelectedVariant string `json:"selectedVariant"`
}

// Result carries the frozen, re-validated line items and the trusted total
type Result struct {
	Items []model.OrderItem
	Total float64
}

// Revalidate looks up every line in the catalog, rejects unknown or
// out-of-stock SKUs, and recomputes prices and the total from catalog data.
// The whole cart fails on the first bad line; no partial result is returned.
func Revalidate(catalog Catalog, lines []CartLine) (*Result, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	result := &Result{
		Items: make([]model.OrderItem, 0, len(lines)),
	}

	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, &ValidationError{
				SKU:     line.SKU,
				Message: fmt.Sprintf("Invalid quantity for %s", line.SKU),
			}
		}

		product, err := catalog.ProductBySKU(line.SKU)
		if errors.Is(err, ErrProductNotFound) {
			return nil, &ValidationError{
				SKU:     line.SKU,
				Message: fmt.Sprintf("Product %s not found", line.SKU),
			}
		}
		if err != nil {
			return nil, fmt.Errorf("checkout: catalog lookup for %s: %w", line.SKU, err)
		}

		if !product.StockAvailable {
			return nil, &ValidationError{
				SKU:     line.SKU,
				Message: fmt.Sprintf("%s is out of stock", product.Name),
			}
		}

		result.Items = append(result.Items, model.OrderItem{
			SKU:             product.SKU,
			Name:            product.Name,
			Price:           product.Price,
			ImageURL:        product.ImageURL,
			Quantity:        line.Quantity,
			SelectedVariant: line.SelectedVariant,
			Shop:            product.Shop,
			Brand:           product.Shop,
			ArticleNo:       product.ArticleNo,
			OriginalPrice:   math.Round(product.Price * originalPriceMarkup),
		})
		result.Total += product.Price * float64(line.Quantity)
	}

	return result, nil
}

// MinorUnits converts a trusted total into the provider's integer minor
// currency units
func MinorUnits(total float64) int {
	return int(math.Round(total * 100))
}
