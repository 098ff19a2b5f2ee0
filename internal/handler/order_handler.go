package handler

import (
	"net/http"

	"scanpay/internal/middleware"
	"scanpay/internal/model"
	"scanpay/pkg/database"
	"scanpay/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListOrders returns the authenticated shopper's orders, newest first
func ListOrders(c echo.Context) error {
	log := logger.FromEcho(c)

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}

	var orders []model.Order
	result := database.GetDB().
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders)
	if result.Error != nil {
		log.Error("Failed to fetch orders", zap.Uint("user_id", userID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch orders"})
	}

	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// GetOrder returns a single order scoped to the authenticated shopper
func GetOrder(c echo.Context) error {
	log := logger.FromEcho(c)

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}

	var order model.Order
	result := database.GetDB().
		Where("id = ? AND user_id = ?", c.Param("orderId"), userID).
		First(&order)
	if result.Error != nil {
		log.Warn("Order not found",
			zap.String("order_id", c.Param("orderId")),
			zap.Uint("user_id", userID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"order": order})
}
