package repository

import (
	"context"
	"fmt"

	"github.com/nikolayk812/techhub-cart/internal/db"
	"github.com/nikolayk812/techhub-cart/internal/domain"
	"golang.org/x/text/currency"
)

// SubmitOrder copies the stored cart into a new order and empties the cart in one transaction.
// Line prices come from the products table; an order whose subtotal disagrees
// with them is rejected as a conflict.
func (r *cartRepository) SubmitOrder(ctx context.Context, order domain.OrderRequest) (int64, error) {
	if order.UserID == 0 {
		return 0, fmt.Errorf("ownerID is empty")
	}

	unit := currency.USD
	if len(order.Lines) > 0 {
		unit = order.Lines[0].UnitPrice.Currency
	}

	t := order.Totals
	orderID, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (int64, error) {
		id, err := q.CreateOrder(ctx, db.CreateOrderParams{
			OwnerID:         order.UserID,
			Status:          order.Status,
			Subtotal:        t.Subtotal,
			ShippingFee:     t.ShippingFee,
			Tax:             t.Tax,
			Discount:        t.Discount,
			Total:           t.Total,
			PromoCode:       t.PromoCode,
			Currency:        unit.String(),
			ShippingAddress: order.Shipping.Address,
			ShippingCity:    order.Shipping.City,
			ShippingState:   order.Shipping.State,
			ShippingZipCode: order.Shipping.ZipCode,
			ShippingCountry: order.Shipping.Country,
			PaymentMethod:   order.PaymentMethod,
		})
		if err != nil {
			return 0, fmt.Errorf("q.CreateOrder: %w", err)
		}

		copied, err := q.CreateOrderItemsFromCart(ctx, db.CreateOrderItemsFromCartParams{
			OrderID: id,
			OwnerID: order.UserID,
		})
		if err != nil {
			return 0, fmt.Errorf("q.CreateOrderItemsFromCart: %w", err)
		}
		if copied == 0 {
			return 0, &domain.RemoteRejection{Kind: domain.RejectInvalid, Message: "cart is empty"}
		}

		stored, err := q.GetOrderSubtotal(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("q.GetOrderSubtotal: %w", err)
		}
		if !stored.Equal(t.Subtotal) {
			return 0, &domain.RemoteRejection{
				Kind:    domain.RejectConflict,
				Message: fmt.Sprintf("cart subtotal is %s, order says %s", stored.StringFixed(2), t.Subtotal.StringFixed(2)),
			}
		}

		if err := q.ClearCart(ctx, order.UserID); err != nil {
			return 0, fmt.Errorf("q.ClearCart: %w", err)
		}

		return id, nil
	})
	if err != nil {
		return 0, fmt.Errorf("withTx: %w", err)
	}

	return orderID, nil
}
