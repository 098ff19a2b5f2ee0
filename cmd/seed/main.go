package main

import (
	"fmt"

	"scanpay/internal/model"
	"scanpay/pkg/config"
	"scanpay/pkg/database"
	"scanpay/pkg/logger"

	"go.uber.org/zap"
)

var products = []model.Product{
	{
		SKU:            "HM-87492",
		Name:           "Striped Cotton T-Shirt",
		Price:          899,
		ImageURL:       "https://images.unsplash.com/photo-1523381210434-271e8be1f52b?auto=format&fit=crop&q=80&w=300",
		Shop:           "H&M",
		Variants:       model.StringSlice{"S", "M", "L", "XL"},
		ArticleNo:      "87492",
		Barcodes:       model.StringSlice{"8714234567890", "4006381333931"},
		QRCodes:        model.StringSlice{},
		StockAvailable: true,
	},
	{
		SKU:            "ZR-33821",
		Name:           "Slim Fit Chinos",
		Price:          1600,
		ImageURL:       "https://images.unsplash.com/photo-1473966968600-fa801b869a1a?auto=format&fit=crop&q=80&w=300",
		Shop:           "Zara",
		Variants:       model.StringSlice{"30", "32", "34", "36"},
		ArticleNo:      "33821",
		Barcodes:       model.StringSlice{"8714234567891"},
		QRCodes:        model.StringSlice{},
		StockAvailable: true,
	},
	{
		SKU:            "LV-55402",
		Name:           "Denim Jacket",
		Price:          2999,
		ImageURL:       "https://images.unsplash.com/photo-1576871337632-b9aef4c17ab5?auto=format&fit=crop&q=80&w=300",
		Shop:           "Levis",
		Variants:       model.StringSlice{"S", "M", "L"},
		ArticleNo:      "55402",
		Barcodes:       model.StringSlice{"8714234567892"},
		QRCodes:        model.StringSlice{},
		StockAvailable: true,
	},
	{
		SKU:            "UQ-11293",
		Name:           "Basic White Tee",
		Price:          499,
		ImageURL:       "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?auto=format&fit=crop&q=80&w=300",
		Shop:           "Uniqlo",
		Variants:       model.StringSlice{"XS", "S", "M", "L", "XL"},
		ArticleNo:      "11293",
		Barcodes:       model.StringSlice{"8714234567893"},
		QRCodes:        model.StringSlice{},
		StockAvailable: true,
	},
	{
		SKU:            "NK-99201",
		Name:           "Running Shoes",
		Price:          3499,
		ImageURL:       "https://images.unsplash.com/photo-1542291026-7eec264c27ff?auto=format&fit=crop&q=80&w=300",
		Shop:           "Nike",
		Variants:       model.StringSlice{"7", "8", "9", "10", "11"},
		ArticleNo:      "99201",
		Barcodes:       model.StringSlice{"8714234567894"},
		QRCodes:        model.StringSlice{},
		StockAvailable: true,
	},
	{
		SKU:            "SN-123456",
		Name:           "Noise Cancelling Headphones",
		Price:          5999,
		ImageURL:       "https://images.unsplash.com/photo-1612858250380-3206795f8a76?auto=format&fit=crop&q=80&w=300",
		Shop:           "Sony",
		Variants:       model.StringSlice{"One Size"},
		ArticleNo:      "123456",
		Barcodes:       model.StringSlice{"8714234567895"},
		QRCodes:        model.StringSlice{},
		StockAvailable: true,
	},
}

// checkCodeUniqueness rejects a seed set where two products share a barcode
// or QR payload. Lookups assume at most one product per code.
func checkCodeUniqueness(products []model.Product) error {
	seen := make(map[string]string)
	for _, p := range products {
		for _, code := range append(p.Barcodes, p.QRCodes...) {
			if other, dup := seen[code]; dup {
				return fmt.Errorf("code %s assigned to both %s and %s", code, other, p.SKU)
			}
			seen[code] = p.SKU
		}
	}
	return nil
}

func main() {
	appConfig, err := config.Load("scanpay")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: "scanpay-seed",
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	if err := checkCodeUniqueness(products); err != nil {
		log.Fatal("Seed catalog invalid", zap.Error(err))
	}

	db, err := database.InitDB(&appConfig.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(&model.Product{}); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	if err := db.Exec("DELETE FROM products").Error; err != nil {
		log.Fatal("Failed to clear products", zap.Error(err))
	}
	if err := db.Create(&products).Error; err != nil {
		log.Fatal("Failed to seed products", zap.Error(err))
	}

	log.Info("Catalog seeded", zap.Int("count", len(products)))
}
