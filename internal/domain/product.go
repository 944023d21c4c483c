package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// LowStockLevel is the stock below which a product is shown as running low.
const LowStockLevel = 10

type Product struct {
	ID            int64
	Name          string
	Slug          string
	Price         decimal.Decimal
	DiscountPrice decimal.NullDecimal
	Stock         int
	ImageURLs     []string
}

// NewProduct parses the wire price strings and validates the result.
// An empty discount string means the product has no discount.
func NewProduct(id int64, name, slug, price, discountPrice string, stock int, imageURLs []string) (Product, error) {
	p, err := ParsePrice(price)
	if err != nil {
		return Product{}, fmt.Errorf("price: %w", err)
	}

	var discount decimal.NullDecimal
	if strings.TrimSpace(discountPrice) != "" {
		d, err := ParsePrice(discountPrice)
		if err != nil {
			return Product{}, fmt.Errorf("discountPrice: %w", err)
		}
		discount = decimal.NewNullDecimal(d)
	}

	product := Product{
		ID:            id,
		Name:          name,
		Slug:          slug,
		Price:         p,
		DiscountPrice: discount,
		Stock:         stock,
		ImageURLs:     imageURLs,
	}
	if err := product.Validate(); err != nil {
		return Product{}, err
	}

	return product, nil
}

func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, NewValidationError("price", fmt.Sprintf("%q is not a decimal", s))
	}
	return d, nil
}

func (p Product) Validate() error {
	if p.Price.IsNegative() {
		return NewValidationError("price", "must not be negative")
	}
	if p.DiscountPrice.Valid {
		if p.DiscountPrice.Decimal.IsNegative() {
			return NewValidationError("discountPrice", "must not be negative")
		}
		if p.DiscountPrice.Decimal.GreaterThan(p.Price) {
			return NewValidationError("discountPrice", "must not exceed price")
		}
	}
	if p.Stock < 0 {
		return NewValidationError("stock", "must not be negative")
	}
	return nil
}

// EffectivePrice is the unit price used for every computation.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice.Valid {
		return p.DiscountPrice.Decimal
	}
	return p.Price
}

// DiscountPercentage is the whole-number percentage saved by the discount price.
func (p Product) DiscountPercentage() int {
	if !p.DiscountPrice.Valid || !p.Price.IsPositive() {
		return 0
	}
	saved := p.Price.Sub(p.DiscountPrice.Decimal).Div(p.Price).Mul(decimal.NewFromInt(100))
	return int(saved.Round(0).IntPart())
}

type StockStatus string

const (
	OutOfStock StockStatus = "Out of Stock"
	LowStock   StockStatus = "Low Stock"
	InStock    StockStatus = "In Stock"
)

func (p Product) StockStatus() StockStatus {
	switch {
	case p.Stock <= 0:
		return OutOfStock
	case p.Stock < LowStockLevel:
		return LowStock
	default:
		return InStock
	}
}

func (p Product) PrimaryImage() (string, bool) {
	if len(p.ImageURLs) == 0 {
		return "", false
	}
	return p.ImageURLs[0], true
}
