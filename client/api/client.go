// Package api is the HTTP client the device SDK uses to reach the server.
// Every call carries a fixed timeout so the app degrades to cached data
// instead of hanging.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"scanpay/client/model"
)

// ErrNotFound is returned for 404 responses on lookups
var ErrNotFound = errors.New("api: not found")

const requestTimeout = 10 * time.Second

// Error is a typed server rejection
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: server returned %d: %s", e.Status, e.Message)
}

// Client talks to the scanpay server
type Client struct {
	BaseURL     string
	HTTPClient  *http.Client
	accessToken string
}

// NewClient creates an API client for the given base URL
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: requestTimeout},
	}
}

// SetAccessToken attaches a bearer token to subsequent requests
func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

// ClearAccessToken drops the bearer token, used on sign-out and 401
func (c *Client) ClearAccessToken() {
	c.accessToken = ""
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		// Expired or revoked credentials are cleared so the shell can
		// route back to sign-in
		if resp.StatusCode == http.StatusUnauthorized {
			c.accessToken = ""
		}
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &Error{Status: resp.StatusCode, Message: errBody.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("api: decode response: %w", err)
		}
	}
	return nil
}

// wireProduct is the server's product representation
type wireProduct struct {
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	Price          float64   `json:"price"`
	ImageURL       string    `json:"imageUrl"`
	Shop           string    `json:"shop"`
	Variants       []string  `json:"variants"`
	ArticleNo      string    `json:"articleNo"`
	Barcodes       []string  `json:"barcodes"`
	QRCodes        []string  `json:"qrCodes"`
	StockAvailable bool      `json:"stockAvailable"`
	LastUpdatedAt  time.Time `json:"lastUpdatedAt"`
}

func (w wireProduct) toModel() model.Product {
	return model.Product{
		SKU:            w.SKU,
		Name:           w.Name,
		Price:          w.Price,
		ImageURL:       w.ImageURL,
		Shop:           w.Shop,
		Variants:       w.Variants,
		ArticleNo:      w.ArticleNo,
		Barcodes:       w.Barcodes,
		QRCodes:        w.QRCodes,
		StockAvailable: w.StockAvailable,
		LastUpdatedAt:  w.LastUpdatedAt.UnixMilli(),
	}
}

// CatalogResponse carries a catalog delta and the server sync timestamp
// that becomes the client's next watermark
type CatalogResponse struct {
	Products []model.Product
	SyncedAt int64
}

// Catalog pulls every product changed since the given watermark
func (c *Client) Catalog(ctx context.Context, since int64) (*CatalogResponse, error) {
	var resp struct {
		Products []wireProduct `json:"products"`
		SyncedAt int64         `json:"syncedAt"`
	}
	path := fmt.Sprintf("/api/products/catalog?since=%d", since)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	out := &CatalogResponse{SyncedAt: resp.SyncedAt}
	for _, w := range resp.Products {
		out.Products = append(out.Products, w.toModel())
	}
	return out, nil
}

// Lookup resolves a single product by one key kind: "barcode", "qr",
// "articleNo" or "sku"
func (c *Client) Lookup(ctx context.Context, key, value string) (*model.Product, error) {
	var resp struct {
		Product wireProduct `json:"product"`
	}
	path := fmt.Sprintf("/api/products/lookup?%s=%s", key, url.QueryEscape(value))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	product := resp.Product.toModel()
	return &product, nil
}

// SendOTP requests a sign-in challenge
func (c *Client) SendOTP(ctx context.Context, phone, name string) error {
	body := map[string]string{"phone": phone, "name": name}
	return c.do(ctx, http.MethodPost, "/api/auth/send-otp", body, nil)
}

// AuthResponse carries the issued access token and the shopper account
type AuthResponse struct {
	AccessToken string     `json:"accessToken"`
	User        model.User `json:"user"`
}

// VerifyOTP exchanges a challenge code for an access token. The token is
// attached to the client for subsequent calls.
func (c *Client) VerifyOTP(ctx context.Context, phone, code string) (*AuthResponse, error) {
	body := map[string]string{"phone": phone, "otp": code}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/verify-otp", body, &resp); err != nil {
		return nil, err
	}
	c.accessToken = resp.AccessToken
	return &resp, nil
}

// Me returns the signed-in shopper account
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var resp struct {
		User model.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// OrderLine is a submitted checkout line; the server ignores everything
// about the local cart beyond these fields
type OrderLine struct {
	SKU             string `json:"sku"`
	Quantity        int    `json:"quantity"`
	SelectedVariant string `json:"selectedVariant"`
}

// CreateOrderResponse carries the provider order handle and the trusted
// total the server computed
type CreateOrderResponse struct {
	ProviderOrderID string  `json:"razorpayOrderId"`
	OrderID         uint    `json:"orderId"`
	Total           float64 `json:"total"`
	Key             string  `json:"key"`
}

// CreateOrder submits the cart for server-side revalidation and opens a
// payment order
func (c *Client) CreateOrder(ctx context.Context, lines []OrderLine, store string) (*CreateOrderResponse, error) {
	body := map[string]interface{}{"items": lines, "store": store}
	var resp CreateOrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/payments/create-order", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyPaymentRequest binds a completed provider payment to an order
type VerifyPaymentRequest struct {
	ProviderOrderID   string `json:"razorpayOrderId"`
	ProviderPaymentID string `json:"razorpayPaymentId"`
	ProviderSignature string `json:"razorpaySignature"`
	OrderID           uint   `json:"orderId"`
}

// VerifyPaymentResponse carries the exit-gate receipt token
type VerifyPaymentResponse struct {
	Success        bool   `json:"success"`
	ReceiptPayload string `json:"receiptPayload"`
}

// VerifyPayment submits the provider callback for signature verification
func (c *Client) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (*VerifyPaymentResponse, error) {
	var resp VerifyPaymentResponse
	if err := c.do(ctx, http.MethodPost, "/api/payments/verify", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReceiptStatus is the exit gate's verdict on a presented receipt
type ReceiptStatus struct {
	Valid   bool   `json:"valid"`
	OrderID uint   `json:"orderId"`
	PaidAt  int64  `json:"paidAt"`
	Error   string `json:"error"`
}

// VerifyReceipt checks a receipt token, as the exit gate does
func (c *Client) VerifyReceipt(ctx context.Context, token string) (*ReceiptStatus, error) {
	body := map[string]string{"receiptPayload": token}
	var resp ReceiptStatus
	err := c.do(ctx, http.MethodPost, "/api/payments/verify-receipt", body, &resp)
	if err != nil {
		var apiErr *Error
		// Rejections carry the verdict in the body; surface them as a
		// status, not a transport failure
		if errors.As(err, &apiErr) {
			return &ReceiptStatus{Valid: false, Error: apiErr.Message}, nil
		}
		return nil, err
	}
	return &resp, nil
}

// Orders returns the shopper's order history, newest first
func (c *Client) Orders(ctx context.Context) (json.RawMessage, error) {
	var resp struct {
		Orders json.RawMessage `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// Order returns a single order by id
func (c *Client) Order(ctx context.Context, id uint) (json.RawMessage, error) {
	var resp struct {
		Order json.RawMessage `json:"order"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Order, nil
}
