package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikolayk812/techhub-cart/internal/domain"
)

func item(t *testing.T, lineID, productID int64, price, discount string, quantity, stock int) domain.CartItem {
	t.Helper()
	p, err := domain.NewProduct(productID, "p", "p", price, discount, stock, []string{"a.png"})
	require.NoError(t, err)
	return domain.CartItem{ID: lineID, ProductID: productID, Quantity: quantity, Product: p}
}

func TestCart_Derived(t *testing.T) {
	c, err := domain.NewCart(1, []domain.CartItem{
		item(t, 1, 10, "59.99", "49.99", 2, 5),
		item(t, 2, 11, "12.50", "", 3, 5),
	})
	require.NoError(t, err)

	assert.Equal(t, 5, c.Count())
	assert.Equal(t, "137.48", c.Subtotal().StringFixed(2))
	assert.False(t, c.IsEmpty())

	line, ok := c.Item(2)
	require.True(t, ok)
	assert.Equal(t, int64(11), line.ProductID)

	line, ok = c.ItemByProduct(10)
	require.True(t, ok)
	assert.Equal(t, int64(1), line.ID)

	_, ok = c.Item(99)
	assert.False(t, ok)
}

func TestCart_Empty(t *testing.T) {
	var c domain.Cart
	assert.Equal(t, 0, c.Count())
	assert.True(t, c.Subtotal().IsZero())
	assert.True(t, c.IsEmpty())
}

func TestNewCart_Errors(t *testing.T) {
	mismatched := item(t, 1, 10, "5", "", 1, 5)
	mismatched.ProductID = 11

	tests := []struct {
		name      string
		items     []domain.CartItem
		wantError string
	}{
		{
			name:      "snapshot for other product: error",
			items:     []domain.CartItem{mismatched},
			wantError: "item[1]: snapshot is for product 10",
		},
		{
			name:      "zero quantity: error",
			items:     []domain.CartItem{item(t, 1, 10, "5", "", 0, 5)},
			wantError: "item[1]: quantity 0",
		},
		{
			name:      "duplicate product: error",
			items:     []domain.CartItem{item(t, 1, 10, "5", "", 1, 5), item(t, 2, 10, "5", "", 1, 5)},
			wantError: "item[2]: duplicate line for product 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewCart(1, tt.items)
			require.EqualError(t, err, tt.wantError)
		})
	}
}

func TestNewCart_AcceptsQuantityAboveStock(t *testing.T) {
	c, err := domain.NewCart(1, []domain.CartItem{item(t, 1, 10, "5", "", 4, 2)})
	require.NoError(t, err)
	assert.Equal(t, 4, c.Count())
	assert.Error(t, c.Items[0].Validate())
}

func TestValidateQuantity(t *testing.T) {
	assert.NoError(t, domain.ValidateQuantity(1, 1))
	assert.EqualError(t, domain.ValidateQuantity(0, 5), "quantity: must be at least 1")
	assert.EqualError(t, domain.ValidateQuantity(6, 5), "quantity: only 5 in stock")
}

func TestCart_Clone(t *testing.T) {
	c, err := domain.NewCart(1, []domain.CartItem{item(t, 1, 10, "5", "", 1, 5)})
	require.NoError(t, err)

	clone := c.Clone()
	clone.Items[0].Quantity = 3
	clone.Items[0].Product.ImageURLs[0] = "b.png"

	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, "a.png", c.Items[0].Product.ImageURLs[0])
	assert.Nil(t, domain.Cart{}.Clone().Items)
}
