package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	OwnerID int64
	Items   []CartItem
}

type CartItem struct {
	ID        int64
	ProductID int64
	Quantity  int
	Product   Product

	CreatedAt time.Time
}

func (i CartItem) Validate() error {
	if err := i.Product.Validate(); err != nil {
		return fmt.Errorf("product[%d]: %w", i.ProductID, err)
	}
	if i.Product.ID != i.ProductID {
		return NewValidationError("productId", fmt.Sprintf("snapshot is for product %d", i.Product.ID))
	}
	return ValidateQuantity(i.Quantity, i.Product.Stock)
}

// ValidateQuantity checks 1 <= quantity <= stock.
func ValidateQuantity(quantity, stock int) error {
	if quantity < 1 {
		return NewValidationError("quantity", "must be at least 1")
	}
	if quantity > stock {
		return NewValidationError("quantity", fmt.Sprintf("only %d in stock", stock))
	}
	return nil
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Count is the number of units in the cart.
func (c Cart) Count() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) Item(lineID int64) (CartItem, bool) {
	idx := slices.IndexFunc(c.Items, func(i CartItem) bool { return i.ID == lineID })
	if idx < 0 {
		return CartItem{}, false
	}
	return c.Items[idx], true
}

func (c Cart) ItemByProduct(productID int64) (CartItem, bool) {
	idx := slices.IndexFunc(c.Items, func(i CartItem) bool { return i.ProductID == productID })
	if idx < 0 {
		return CartItem{}, false
	}
	return c.Items[idx], true
}

// Clone returns a copy that shares no slices with c.
func (c Cart) Clone() Cart {
	out := Cart{OwnerID: c.OwnerID}
	if c.Items == nil {
		return out
	}
	out.Items = make([]CartItem, len(c.Items))
	for i, item := range c.Items {
		item.Product.ImageURLs = slices.Clone(item.Product.ImageURLs)
		out.Items[i] = item
	}
	return out
}

// NewCart checks the items returned by a store and rejects duplicate products.
// Quantities above stock are accepted here: stock may have dropped since the line was added.
func NewCart(ownerID int64, items []CartItem) (Cart, error) {
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if err := item.Product.Validate(); err != nil {
			return Cart{}, fmt.Errorf("item[%d]: %w", item.ID, err)
		}
		if item.Product.ID != item.ProductID {
			return Cart{}, fmt.Errorf("item[%d]: snapshot is for product %d", item.ID, item.Product.ID)
		}
		if item.Quantity < 1 {
			return Cart{}, fmt.Errorf("item[%d]: quantity %d", item.ID, item.Quantity)
		}
		if _, ok := seen[item.ProductID]; ok {
			return Cart{}, fmt.Errorf("item[%d]: duplicate line for product %d", item.ID, item.ProductID)
		}
		seen[item.ProductID] = struct{}{}
	}
	return Cart{OwnerID: ownerID, Items: items}, nil
}
