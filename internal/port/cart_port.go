package port

import (
	"context"

	"github.com/nikolayk812/techhub-cart/internal/domain"
)

// CartStore is the remote source of truth for cart lines, scoped by owner.
// AddItem upserts: adding a product already in the cart increments its quantity.
type CartStore interface {
	ListItems(ctx context.Context, ownerID int64) ([]domain.CartItem, error)
	AddItem(ctx context.Context, ownerID int64, productID int64, quantity int) (domain.CartItem, error)
	UpdateItem(ctx context.Context, ownerID int64, lineID int64, quantity int) (domain.CartItem, error)
	DeleteItem(ctx context.Context, ownerID int64, lineID int64) error
	ClearCart(ctx context.Context, ownerID int64) error
}

// OrderSubmitter accepts a finalized order and returns its id.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, order domain.OrderRequest) (int64, error)
}

// Session exposes the authenticated user, if any.
type Session interface {
	CurrentUser() (domain.User, bool)
}

// Storefront is a backend that both holds carts and accepts orders.
type Storefront interface {
	CartStore
	OrderSubmitter
}
