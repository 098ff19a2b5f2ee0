// Package model holds the client-side views of catalog and cart records.
// Prices here are display copies from the last sync; the server recomputes
// every price at checkout.
package model

// Product is a locally cached catalog entry
type Product struct {
	SKU            string   `json:"sku"`
	Name           string   `json:"name"`
	Price          float64  `json:"price"`
	ImageURL       string   `json:"imageUrl"`
	Shop           string   `json:"shop"`
	Variants       []string `json:"variants"`
	ArticleNo      string   `json:"articleNo"`
	Barcodes       []string `json:"barcodes"`
	QRCodes        []string `json:"qrCodes"`
	StockAvailable bool     `json:"stockAvailable"`
	LastUpdatedAt  int64    `json:"-"`
}

// CartLine is one active cart row. At most one line exists per
// (SKU, variant) pair; adding the same pair again increments Quantity.
type CartLine struct {
	ID              string  `json:"id"`
	SKU             string  `json:"sku"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	ImageURL        string  `json:"imageUrl"`
	Quantity        int     `json:"quantity"`
	SelectedVariant string  `json:"selectedVariant"`
	Shop            string  `json:"shop"`
}

// User is the signed-in shopper as returned by the server
type User struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
