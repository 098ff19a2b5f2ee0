package main

import (
	"scanpay/internal/auth"
	"scanpay/internal/handler"
	mid "scanpay/internal/middleware"
	"scanpay/internal/model"
	"scanpay/internal/otp"
	"scanpay/internal/payment"
	"scanpay/internal/receipt"
	"scanpay/pkg/config"
	"scanpay/pkg/database"
	"scanpay/pkg/logger"
	"scanpay/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load("scanpay")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: appConfig.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting scanpay server", appConfig.LogConfig()...)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if _, err := database.InitDB(&appConfig.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(&model.User{}, &model.Product{}, &model.Order{}); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connection established")

	// OTP challenge store: redis when configured, in-process otherwise
	var otpStore otp.Store
	if appConfig.Redis.Addr != "" {
		otpStore, err = otp.NewRedisStore(&appConfig.Redis)
		if err != nil {
			log.Fatal("Failed to connect OTP store", zap.Error(err))
		}
		log.Info("Using redis OTP store", zap.String("addr", appConfig.Redis.Addr))
	} else {
		otpStore = otp.NewMemoryStore()
		log.Warn("Using in-process OTP store, single instance only")
	}

	// Token utilities and payment provider
	jwtUtil := auth.NewJWTUtil(&appConfig.JWT)
	receiptIssuer := receipt.NewIssuer(appConfig.Receipt.SigningSecret, appConfig.Receipt.TTL)
	provider := payment.NewRazorpayProvider(&appConfig.Payment)

	handler.InitAuthHandler(jwtUtil, otpStore, appConfig.OTP.TTL)
	handler.InitCatalogHandler(handler.NewDBProductSource())
	handler.InitPaymentHandler(provider, appConfig.Payment.KeySecret, receiptIssuer, handler.NewDBOrderSource())

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestLogger(log))
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authAPI := e.Group("/api/auth")
	authAPI.POST("/send-otp", handler.SendOTP)
	authAPI.POST("/verify-otp", handler.VerifyOTP)
	authAPI.GET("/me", handler.Me, mid.AuthMiddleware(jwtUtil))

	// Catalog routes: open, the client may sync before sign-in
	productAPI := e.Group("/api/products")
	productAPI.GET("/catalog", handler.CatalogDelta)
	productAPI.GET("/lookup", handler.LookupProduct)
	productAPI.GET("", handler.ListProducts)

	// Order routes
	orderAPI := e.Group("/api/orders", mid.AuthMiddleware(jwtUtil))
	orderAPI.GET("", handler.ListOrders)
	orderAPI.GET("/:orderId", handler.GetOrder)

	// Payment routes. Receipt verification is unauthenticated: the exit
	// gate presents only the token.
	paymentAPI := e.Group("/api/payments")
	paymentAPI.POST("/create-order", handler.CreateOrder, mid.AuthMiddleware(jwtUtil))
	paymentAPI.POST("/verify", handler.VerifyPayment, mid.AuthMiddleware(jwtUtil))
	paymentAPI.POST("/verify-receipt", handler.VerifyReceipt)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
