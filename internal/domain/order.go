package domain

import "strings"

const OrderStatusPending = "pending"

type ShippingAddress struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Address     string
	City        string
	State       string
	ZipCode     string
	Country     string
}

func (a ShippingAddress) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"address", a.Address},
		{"city", a.City},
		{"state", a.State},
		{"zipCode", a.ZipCode},
		{"country", a.Country},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return NewValidationError(r.field, "is required")
		}
	}
	return nil
}

type OrderLine struct {
	ProductID int64
	Name      string
	Quantity  int
	UnitPrice Money
}

// OrderRequest is the finalized order handed to the submission endpoint.
type OrderRequest struct {
	UserID        int64
	Lines         []OrderLine
	Totals        OrderTotals
	Status        string
	Shipping      ShippingAddress
	PaymentMethod string
	// IdempotencyKey lets the store recognize a resubmitted order.
	IdempotencyKey string
}
