package handler

import (
	"net/http"
	"regexp"
	"time"

	"scanpay/internal/auth"
	"scanpay/internal/middleware"
	"scanpay/internal/model"
	"scanpay/internal/otp"
	"scanpay/pkg/database"
	"scanpay/pkg/logger"
	"scanpay/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var (
	authJWT  *auth.JWTUtil
	otpStore otp.Store
	otpTTL   time.Duration

	phonePattern = regexp.MustCompile(`^\d{10}$`)
)

// InitAuthHandler wires the auth handlers with their dependencies
func InitAuthHandler(jwtUtil *auth.JWTUtil, store otp.Store, ttl time.Duration) {
	authJWT = jwtUtil
	otpStore = store
	otpTTL = ttl
}

// SendOTP handles issuing a sign-in challenge for a phone number.
// SMS delivery is an external collaborator; the code is logged so the
// development flow works end to end without a provider.
func SendOTP(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Phone string `json:"phone"`
		Name  string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if req.Phone == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Phone and name are required"})
	}
	if !phonePattern.MatchString(req.Phone) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid phone number"})
	}

	code, err := otp.GenerateCode()
	if err != nil {
		log.Error("Failed to generate OTP", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to send OTP"})
	}

	challenge := otp.Challenge{Code: code, Name: req.Name}
	if err := otpStore.Put(c.Request().Context(), req.Phone, challenge, otpTTL); err != nil {
		log.Error("Failed to store OTP challenge", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to send OTP"})
	}

	prometheus.OtpRequestsCounter.Inc()
	// Stand-in for the SMS provider
	log.Info("OTP generated", zap.String("phone", req.Phone), zap.String("otp", code))

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "OTP sent successfully"})
}

// VerifyOTP handles verifying a challenge, upserting the shopper account
// and issuing an access token
func VerifyOTP(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Phone string `json:"phone"`
		OTP   string `json:"otp"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if req.Phone == "" || req.OTP == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Phone and OTP are required"})
	}

	challenge, err := otp.Verify(c.Request().Context(), otpStore, req.Phone, req.OTP)
	if err != nil {
		prometheus.AuthErrorsCounter.Inc()
		switch err {
		case otp.ErrNotFound:
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "OTP not found. Please request a new one."})
		case otp.ErrExpired:
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "OTP expired. Please request a new one."})
		case otp.ErrCodeMismatch:
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid OTP"})
		default:
			log.Error("OTP verification failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "OTP verification failed"})
		}
	}

	// Upsert the shopper account by phone
	db := database.GetDB()
	var user model.User
	result := db.Where("phone = ?", req.Phone).First(&user)
	if result.Error != nil {
		user = model.User{Name: challenge.Name, Phone: req.Phone}
		if err := db.Create(&user).Error; err != nil {
			log.Error("Failed to create user", zap.String("phone", req.Phone), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to sign in"})
		}
	} else if user.Name != challenge.Name {
		user.Name = challenge.Name
		if err := db.Save(&user).Error; err != nil {
			log.Error("Failed to update user", zap.String("phone", req.Phone), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to sign in"})
		}
	}

	token, err := authJWT.GenerateToken(user.ID, user.Phone)
	if err != nil {
		log.Error("Failed to generate access token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.AuthSuccessCounter.Inc()
	log.Info("Shopper signed in", zap.Uint("user_id", user.ID))

	return c.JSON(http.StatusOK, echo.Map{
		"accessToken": token,
		"user": echo.Map{
			"id":    user.ID,
			"name":  user.Name,
			"phone": user.Phone,
		},
	})
}

// Me returns the authenticated shopper's account
func Me(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}

	var user model.User
	if err := database.GetDB().First(&user, userID).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user": echo.Map{
			"id":    user.ID,
			"name":  user.Name,
			"phone": user.Phone,
		},
	})
}
