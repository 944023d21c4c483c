package db

import (
	"context"

	"github.com/shopspring/decimal"
)

const createOrder = `-- name: CreateOrder :one
INSERT INTO orders (owner_id, status, subtotal, shipping_fee, tax, discount, total, promo_code, currency,
                    shipping_address, shipping_city, shipping_state, shipping_zip_code, shipping_country,
                    payment_method)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING id
`

type CreateOrderParams struct {
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
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (int64, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.OwnerID,
		arg.Status,
		arg.Subtotal,
		arg.ShippingFee,
		arg.Tax,
		arg.Discount,
		arg.Total,
		arg.PromoCode,
		arg.Currency,
		arg.ShippingAddress,
		arg.ShippingCity,
		arg.ShippingState,
		arg.ShippingZipCode,
		arg.ShippingCountry,
		arg.PaymentMethod,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const createOrderItemsFromCart = `-- name: CreateOrderItemsFromCart :execrows
INSERT INTO order_items (order_id, product_id, name, price, quantity)
SELECT $1::BIGINT, p.id, p.name, COALESCE(p.discount_price, p.price), c.quantity
FROM cart_items c
         JOIN products p ON p.id = c.product_id
WHERE c.owner_id = $2::BIGINT
ORDER BY c.id
`

type CreateOrderItemsFromCartParams struct {
	OrderID int64
	OwnerID int64
}

func (q *Queries) CreateOrderItemsFromCart(ctx context.Context, arg CreateOrderItemsFromCartParams) (int64, error) {
	result, err := q.db.Exec(ctx, createOrderItemsFromCart, arg.OrderID, arg.OwnerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getOrderSubtotal = `-- name: GetOrderSubtotal :one
SELECT COALESCE(SUM(price * quantity), 0)::NUMERIC(12, 2) AS subtotal
FROM order_items
WHERE order_id = $1
`

func (q *Queries) GetOrderSubtotal(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	row := q.db.QueryRow(ctx, getOrderSubtotal, orderID)
	var subtotal decimal.Decimal
	err := row.Scan(&subtotal)
	return subtotal, err
}
