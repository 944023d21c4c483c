package db

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const clearCart = `-- name: ClearCart :exec
DELETE
FROM cart_items
WHERE owner_id = $1
`

func (q *Queries) ClearCart(ctx context.Context, ownerID int64) error {
	_, err := q.db.Exec(ctx, clearCart, ownerID)
	return err
}

const deleteItem = `-- name: DeleteItem :execrows
DELETE
FROM cart_items
WHERE owner_id = $1
  AND id = $2
`

type DeleteItemParams struct {
	OwnerID int64
	ID      int64
}

func (q *Queries) DeleteItem(ctx context.Context, arg DeleteItemParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteItem, arg.OwnerID, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getCart = `-- name: GetCart :many
SELECT c.id, c.owner_id, c.product_id, c.quantity, c.created_at,
       p.name, p.slug, p.price, p.discount_price, p.stock, p.image_urls
FROM cart_items c
         JOIN products p ON p.id = c.product_id
WHERE c.owner_id = $1
ORDER BY c.id
`

type GetCartRow struct {
	ID            int64
	OwnerID       int64
	ProductID     int64
	Quantity      int32
	CreatedAt     time.Time
	Name          string
	Slug          string
	Price         decimal.Decimal
	DiscountPrice decimal.NullDecimal
	Stock         int32
	ImageUrls     []string
}

func (q *Queries) GetCart(ctx context.Context, ownerID int64) ([]GetCartRow, error) {
	rows, err := q.db.Query(ctx, getCart, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetCartRow
	for rows.Next() {
		var i GetCartRow
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.ProductID,
			&i.Quantity,
			&i.CreatedAt,
			&i.Name,
			&i.Slug,
			&i.Price,
			&i.DiscountPrice,
			&i.Stock,
			&i.ImageUrls,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getCartItem = `-- name: GetCartItem :one
SELECT c.id, c.owner_id, c.product_id, c.quantity, c.created_at,
       p.name, p.slug, p.price, p.discount_price, p.stock, p.image_urls
FROM cart_items c
         JOIN products p ON p.id = c.product_id
WHERE c.owner_id = $1
  AND c.id = $2
`

type GetCartItemParams struct {
	OwnerID int64
	ID      int64
}

type GetCartItemRow struct {
	ID            int64
	OwnerID       int64
	ProductID     int64
	Quantity      int32
	CreatedAt     time.Time
	Name          string
	Slug          string
	Price         decimal.Decimal
	DiscountPrice decimal.NullDecimal
	Stock         int32
	ImageUrls     []string
}

func (q *Queries) GetCartItem(ctx context.Context, arg GetCartItemParams) (GetCartItemRow, error) {
	row := q.db.QueryRow(ctx, getCartItem, arg.OwnerID, arg.ID)
	var i GetCartItemRow
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.ProductID,
		&i.Quantity,
		&i.CreatedAt,
		&i.Name,
		&i.Slug,
		&i.Price,
		&i.DiscountPrice,
		&i.Stock,
		&i.ImageUrls,
	)
	return i, err
}

const getItemQuantity = `-- name: GetItemQuantity :one
SELECT quantity
FROM cart_items
WHERE owner_id = $1
  AND product_id = $2
`

type GetItemQuantityParams struct {
	OwnerID   int64
	ProductID int64
}

func (q *Queries) GetItemQuantity(ctx context.Context, arg GetItemQuantityParams) (int32, error) {
	row := q.db.QueryRow(ctx, getItemQuantity, arg.OwnerID, arg.ProductID)
	var quantity int32
	err := row.Scan(&quantity)
	return quantity, err
}

const getItemStockForUpdate = `-- name: GetItemStockForUpdate :one
SELECT p.stock
FROM cart_items c
         JOIN products p ON p.id = c.product_id
WHERE c.owner_id = $1
  AND c.id = $2
    FOR UPDATE OF p
`

type GetItemStockForUpdateParams struct {
	OwnerID int64
	ID      int64
}

func (q *Queries) GetItemStockForUpdate(ctx context.Context, arg GetItemStockForUpdateParams) (int32, error) {
	row := q.db.QueryRow(ctx, getItemStockForUpdate, arg.OwnerID, arg.ID)
	var stock int32
	err := row.Scan(&stock)
	return stock, err
}

const getProductStockForUpdate = `-- name: GetProductStockForUpdate :one
SELECT stock
FROM products
WHERE id = $1
    FOR UPDATE
`

func (q *Queries) GetProductStockForUpdate(ctx context.Context, id int64) (int32, error) {
	row := q.db.QueryRow(ctx, getProductStockForUpdate, id)
	var stock int32
	err := row.Scan(&stock)
	return stock, err
}

const setItemQuantity = `-- name: SetItemQuantity :execrows
UPDATE cart_items
SET quantity = $3
WHERE owner_id = $1
  AND id = $2
`

type SetItemQuantityParams struct {
	OwnerID  int64
	ID       int64
	Quantity int32
}

func (q *Queries) SetItemQuantity(ctx context.Context, arg SetItemQuantityParams) (int64, error) {
	result, err := q.db.Exec(ctx, setItemQuantity, arg.OwnerID, arg.ID, arg.Quantity)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const upsertItem = `-- name: UpsertItem :one
INSERT INTO cart_items (owner_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (owner_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
RETURNING id
`

type UpsertItemParams struct {
	OwnerID   int64
	ProductID int64
	Quantity  int32
}

func (q *Queries) UpsertItem(ctx context.Context, arg UpsertItemParams) (int64, error) {
	row := q.db.QueryRow(ctx, upsertItem, arg.OwnerID, arg.ProductID, arg.Quantity)
	var id int64
	err := row.Scan(&id)
	return id, err
}
