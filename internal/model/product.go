package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringSlice stores a list of strings as a JSONB column
type StringSlice []string

// Value implements driver.Valuer
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Product represents the authoritative catalog entry. SKU is the primary
// identity and never changes once assigned. Barcode and QR sets map many
// codes onto one product; uniqueness of a code across products is enforced
// at seed/import time, not at query time.
type Product struct {
	ID             uint        `json:"-" gorm:"primarykey"`
	SKU            string      `json:"sku" gorm:"type:varchar(100);unique;not null"`
	Name           string      `json:"name" gorm:"type:varchar(255);not null"`
	Price          float64     `json:"price" gorm:"not null"`
	ImageURL       string      `json:"imageUrl" gorm:"type:text;default:''"`
	Shop           string      `json:"shop" gorm:"type:varchar(100);not null"`
	Variants       StringSlice `json:"variants" gorm:"type:jsonb"`
	ArticleNo      string      `json:"articleNo" gorm:"type:varchar(100);index"`
	Barcodes       StringSlice `json:"barcodes" gorm:"type:jsonb"`
	QRCodes        StringSlice `json:"qrCodes" gorm:"type:jsonb"`
	StockAvailable bool        `json:"stockAvailable" gorm:"default:true"`
	LastUpdatedAt  time.Time   `json:"lastUpdatedAt" gorm:"index;autoUpdateTime"`
}
