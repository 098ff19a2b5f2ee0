package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"scanpay/internal/checkout"
	"scanpay/internal/middleware"
	"scanpay/internal/model"
	"scanpay/internal/payment"
	"scanpay/internal/receipt"
	"scanpay/pkg/database"
	"scanpay/pkg/logger"
	"scanpay/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultStoreLabel = "ScanPay Store"

var (
	paymentProvider payment.Provider
	paymentSecret   string
	receiptIssuer   *receipt.Issuer
	paymentOrders   OrderSource
)

// OrderSource loads orders for the verification paths. A missing order is
// reported as gorm.ErrRecordNotFound; any other error is an infrastructure
// failure.
type OrderSource interface {
	OrderByID(id uint) (*model.Order, error)
}

// dbOrderSource loads orders from the order table
type dbOrderSource struct{}

// NewDBOrderSource returns the gorm-backed order source
func NewDBOrderSource() OrderSource {
	return dbOrderSource{}
}

func (dbOrderSource) OrderByID(id uint) (*model.Order, error) {
	var order model.Order
	if err := database.GetDB().First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// InitPaymentHandler wires the payment handlers with their dependencies.
// The payment secret and the receipt issuer's secret are distinct on
// purpose.
func InitPaymentHandler(provider payment.Provider, secret string, issuer *receipt.Issuer, orders OrderSource) {
	paymentProvider = provider
	paymentSecret = secret
	receiptIssuer = issuer
	paymentOrders = orders
}

// dbCatalog adapts the gorm product table to the checkout catalog interface
type dbCatalog struct {
	db *gorm.DB
}

func (c dbCatalog) ProductBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := c.db.Where("sku = ?", sku).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, checkout.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateOrder re-validates the submitted cart against the catalog, opens a
// provider order for the trusted total and persists a pending order with
// the frozen line items. The client-side cart is advisory input only.
func CreateOrder(c echo.Context) error {
	log := logger.FromEcho(c)

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}

	var req struct {
		Items []checkout.CartLine `json:"items"`
		Store string              `json:"store"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	db := database.GetDB()
	result, err := checkout.Revalidate(dbCatalog{db: db}, req.Items)
	if err != nil {
		var vErr *checkout.ValidationError
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			prometheus.OrdersRejectedCounter.WithLabelValues("empty_cart").Inc()
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Cart is empty"})
		case errors.As(err, &vErr):
			prometheus.OrdersRejectedCounter.WithLabelValues("validation").Inc()
			log.Warn("Checkout rejected",
				zap.Uint("user_id", userID),
				zap.String("sku", vErr.SKU),
				zap.String("reason", vErr.Message))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": vErr.Message})
		default:
			log.Error("Cart revalidation failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create order"})
		}
	}

	providerOrderID, err := paymentProvider.CreateOrder(
		checkout.MinorUnits(result.Total),
		"INR",
		fmt.Sprintf("rcpt_%d", time.Now().UnixMilli()),
	)
	if err != nil {
		log.Error("Failed to open provider order", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create order"})
	}

	store := req.Store
	if store == "" {
		store = defaultStoreLabel
	}

	order := model.Order{
		UserID:          userID,
		Items:           result.Items,
		Total:           result.Total,
		ProviderOrderID: providerOrderID,
		PaymentStatus:   model.PaymentStatusPending,
		Store:           store,
	}
	if err := db.Create(&order).Error; err != nil {
		log.Error("Failed to persist order", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create order"})
	}

	prometheus.OrdersCreatedCounter.Inc()
	prometheus.OrderTotalHistogram.Observe(result.Total)
	log.Info("Pending order created",
		zap.Uint("order_id", order.ID),
		zap.Uint("user_id", userID),
		zap.Float64("total", result.Total),
		zap.Int("items", len(result.Items)))

	return c.JSON(http.StatusOK, echo.Map{
		"razorpayOrderId": providerOrderID,
		"orderId":         order.ID,
		"total":           result.Total,
		"key":             paymentProvider.KeyID(),
	})
}

// VerifyPayment checks the provider callback signature, marks the order
// paid and mints the exit-gate receipt token. Verifying an already-paid
// order returns the receipt the shopper is already holding.
func VerifyPayment(c echo.Context) error {
	log := logger.FromEcho(c)

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}

	var req struct {
		ProviderOrderID   string `json:"razorpayOrderId"`
		ProviderPaymentID string `json:"razorpayPaymentId"`
		ProviderSignature string `json:"razorpaySignature"`
		OrderID           uint   `json:"orderId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if req.ProviderOrderID == "" || req.ProviderPaymentID == "" || req.ProviderSignature == "" || req.OrderID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing payment verification fields"})
	}

	if err := payment.VerifySignature(paymentSecret, req.ProviderOrderID, req.ProviderPaymentID, req.ProviderSignature); err != nil {
		prometheus.PaymentVerificationsCounter.WithLabelValues("invalid_signature").Inc()
		log.Warn("Payment signature mismatch", zap.Uint("order_id", req.OrderID))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid payment signature"})
	}

	order, err := paymentOrders.OrderByID(req.OrderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		prometheus.PaymentVerificationsCounter.WithLabelValues("order_not_found").Inc()
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Order not found"})
	}
	if err != nil {
		log.Error("Failed to load order", zap.Uint("order_id", req.OrderID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Payment verification failed"})
	}

	// The signature only proves the provider order was paid; the order it is
	// applied to must be the one that opened that provider order, and the
	// caller must own it
	if order.ProviderOrderID != req.ProviderOrderID || order.UserID != userID {
		prometheus.PaymentVerificationsCounter.WithLabelValues("order_mismatch").Inc()
		log.Warn("Payment does not match order",
			zap.Uint("order_id", order.ID),
			zap.Uint("user_id", userID))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Payment does not match order"})
	}

	// Re-verification of a paid order is idempotent: the held receipt stays
	// valid instead of being silently replaced
	if order.PaymentStatus == model.PaymentStatusPaid {
		prometheus.PaymentVerificationsCounter.WithLabelValues("already_paid").Inc()
		return c.JSON(http.StatusOK, echo.Map{"success": true, "receiptPayload": order.ReceiptToken})
	}

	token, err := receiptIssuer.Issue(order.ID, req.ProviderPaymentID, order.UserID)
	if err != nil {
		log.Error("Failed to mint receipt token", zap.Uint("order_id", order.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Payment verification failed"})
	}

	order.PaymentStatus = model.PaymentStatusPaid
	order.ProviderPaymentID = req.ProviderPaymentID
	order.ReceiptToken = token
	order.PaymentMethod = "Razorpay"
	if err := database.GetDB().Save(order).Error; err != nil {
		log.Error("Failed to update order", zap.Uint("order_id", order.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Payment verification failed"})
	}

	prometheus.PaymentVerificationsCounter.WithLabelValues("paid").Inc()
	log.Info("Order paid", zap.Uint("order_id", order.ID))

	return c.JSON(http.StatusOK, echo.Map{"success": true, "receiptPayload": token})
}

// VerifyReceipt validates an exit-gate receipt token. The gate device
// presents only the token, so this route carries no caller authentication.
func VerifyReceipt(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		ReceiptPayload string `json:"receiptPayload"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"valid": false, "error": "Invalid request data"})
	}

	claims, err := receiptIssuer.Verify(req.ReceiptPayload)
	if err != nil {
		prometheus.ReceiptVerificationsCounter.WithLabelValues("invalid_token").Inc()
		return c.JSON(http.StatusUnauthorized, echo.Map{"valid": false, "error": "Invalid or expired receipt"})
	}

	order, err := paymentOrders.OrderByID(claims.OrderID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("Failed to load order", zap.Uint("order_id", claims.OrderID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"valid": false, "error": "Receipt verification failed"})
	}
	if err != nil || order.PaymentStatus != model.PaymentStatusPaid {
		prometheus.ReceiptVerificationsCounter.WithLabelValues("not_paid").Inc()
		log.Warn("Receipt for unpaid order", zap.Uint("order_id", claims.OrderID))
		return c.JSON(http.StatusBadRequest, echo.Map{"valid": false, "error": "Order not paid"})
	}

	prometheus.ReceiptVerificationsCounter.WithLabelValues("valid").Inc()
	return c.JSON(http.StatusOK, echo.Map{
		"valid":   true,
		"orderId": claims.OrderID,
		"paidAt":  claims.Ts,
	})
}
