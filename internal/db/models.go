package db

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID        int64
	OwnerID   int64
	ProductID int64
	Quantity  int32
	CreatedAt time.Time
}

type Order struct {
	ID              int64
	OwnerID         int64
	Status          string
	Subtotal        decimal.Decimal
	ShippingFee     decimal.Decimal
	Tax             decimal.Decimal
	Discount        decimal.Decimal
	Total           decimal.Decimal
	PromoCode       string
	Currency        string
	ShippingAddress string
	ShippingCity    string
	ShippingState   string
	ShippingZipCode string
	ShippingCountry string
	PaymentMethod   string
	CreatedAt       time.Time
}

type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Quantity  int32
}

type Product struct {
	ID            int64
	Name          string
	Slug          string
	Price         decimal.Decimal
	DiscountPrice decimal.NullDecimal
	Stock         int32
	ImageUrls     []string
	CreatedAt     time.Time
}
