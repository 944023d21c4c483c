package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CheckoutPolicy holds the shipping and tax inputs of the order total calculation.
type CheckoutPolicy struct {
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
	TaxRate               decimal.Decimal
}

var (
	// CartPagePolicy is the cart/checkout page flow: free shipping from 75, flat 10, no tax.
	CartPagePolicy = CheckoutPolicy{
		FreeShippingThreshold: decimal.NewFromInt(75),
		ShippingFee:           decimal.NewFromInt(10),
		TaxRate:               decimal.Zero,
	}
	// ExpressCheckoutPolicy is the express flow: free shipping from 50, flat 9.99, 8% tax.
	ExpressCheckoutPolicy = CheckoutPolicy{
		FreeShippingThreshold: decimal.NewFromInt(50),
		ShippingFee:           decimal.RequireFromString("9.99"),
		TaxRate:               decimal.RequireFromString("0.08"),
	}

	DefaultPolicy = CartPagePolicy
)

func (p CheckoutPolicy) Validate() error {
	if p.FreeShippingThreshold.IsNegative() {
		return NewValidationError("freeShippingThreshold", "must not be negative")
	}
	if p.ShippingFee.IsNegative() {
		return NewValidationError("shippingFee", "must not be negative")
	}
	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return NewValidationError("taxRate", "must be between 0 and 1")
	}
	return nil
}

// ShippingFor charges the flat fee for a non-empty subtotal below the threshold.
func (p CheckoutPolicy) ShippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsPositive() && subtotal.LessThan(p.FreeShippingThreshold) {
		return p.ShippingFee
	}
	return decimal.Zero
}

func (p CheckoutPolicy) TaxFor(subtotal decimal.Decimal) decimal.Decimal {
	return roundCents(subtotal.Mul(p.TaxRate))
}

// AmountToFreeShipping is what must be added to qualify for free shipping, zero once qualified.
func (p CheckoutPolicy) AmountToFreeShipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.FreeShippingThreshold.Sub(subtotal)
}

type PromoKind int

const (
	PromoNone PromoKind = iota
	PromoPercentOff
	PromoFreeShipping
)

type Promo struct {
	Code    string
	Kind    PromoKind
	Percent decimal.Decimal
}

var promoCodes = map[string]Promo{
	"SAVE10":   {Code: "SAVE10", Kind: PromoPercentOff, Percent: decimal.NewFromInt(10)},
	"FREESHIP": {Code: "FREESHIP", Kind: PromoFreeShipping},
}

// ParsePromo looks a code up case-insensitively.
func ParsePromo(code string) (Promo, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Promo{}, NewValidationError("promoCode", "promo code is required")
	}
	promo, ok := promoCodes[code]
	if !ok {
		return Promo{}, NewValidationError("promoCode", "invalid promo code")
	}
	return promo, nil
}

func (p Promo) discount(subtotal, shipping decimal.Decimal) decimal.Decimal {
	switch p.Kind {
	case PromoPercentOff:
		return roundCents(subtotal.Mul(p.Percent).Div(decimal.NewFromInt(100)))
	case PromoFreeShipping:
		return shipping
	default:
		return decimal.Zero
	}
}

type OrderTotals struct {
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Tax         decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
	PromoCode   string
}

// ComputeTotals applies the policy and an optional promo to a subtotal.
// The total never goes below zero.
func ComputeTotals(subtotal decimal.Decimal, policy CheckoutPolicy, promo Promo) OrderTotals {
	shipping := policy.ShippingFor(subtotal)
	tax := policy.TaxFor(subtotal)
	discount := promo.discount(subtotal, shipping)

	total := subtotal.Add(shipping).Add(tax).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return OrderTotals{
		Subtotal:    subtotal,
		ShippingFee: shipping,
		Tax:         tax,
		Discount:    discount,
		Total:       total,
		PromoCode:   promo.Code,
	}
}
