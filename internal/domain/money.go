package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, unit currency.Unit) Money {
	return Money{Amount: amount, Currency: unit}
}

// String renders the amount with two decimals prefixed by the ISO code, e.g. "USD 12.34".
func (m Money) String() string {
	return m.Currency.String() + " " + m.Amount.StringFixed(2)
}

func roundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
