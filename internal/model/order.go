package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Payment status values. Orders are created pending and only the verified
// payment path moves them to paid; nothing transitions an order out of paid.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// OrderItem is a frozen copy of the product attributes at validation time.
// Prices here come from the catalog lookup during checkout, never from the
// client.
type OrderItem struct {
	SKU             string  `json:"sku"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	ImageURL        string  `json:"imageUrl"`
	Quantity        int     `json:"quantity"`
	SelectedVariant string  `json:"selectedVariant"`
	Shop            string  `json:"shop"`
	Brand           string  `json:"brand"`
	ArticleNo       string  `json:"articleNo"`
	OriginalPrice   float64 `json:"originalPrice,omitempty"`
}

// OrderItems stores the frozen line items as a JSONB column
type OrderItems []OrderItem

// Value implements driver.Valuer
func (o OrderItems) Value() (driver.Value, error) {
	if o == nil {
		return "[]", nil
	}
	b, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (o *OrderItems) Scan(value interface{}) error {
	if value == nil {
		*o = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	default:
		return fmt.Errorf("cannot scan %T into OrderItems", value)
	}
}

// Order is the server-authoritative record of a checkout. Total always
// equals the sum of the re-validated line totals.
type Order struct {
	ID                uint       `json:"id" gorm:"primarykey"`
	UserID            uint       `json:"userId" gorm:"index;not null"`
	Items             OrderItems `json:"items" gorm:"type:jsonb"`
	Total             float64    `json:"total"`
	ProviderOrderID   string     `json:"razorpayOrderId" gorm:"type:varchar(100);index"`
	ProviderPaymentID string     `json:"razorpayPaymentId,omitempty" gorm:"type:varchar(100)"`
	PaymentStatus     string     `json:"paymentStatus" gorm:"type:varchar(20);default:'pending'"`
	ReceiptToken      string     `json:"receiptQrPayload,omitempty" gorm:"type:text"`
	Store             string     `json:"store" gorm:"type:varchar(255)"`
	StoreAddress      string     `json:"storeAddress,omitempty" gorm:"type:varchar(255)"`
	StorePhone        string     `json:"storePhone,omitempty" gorm:"type:varchar(50)"`
	PaymentMethod     string     `json:"paymentMethod,omitempty" gorm:"type:varchar(50)"`
	CreatedAt         time.Time  `json:"createdAt"`
}
