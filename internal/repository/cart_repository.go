package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/techhub-cart/internal/db"
	"github.com/nikolayk812/techhub-cart/internal/domain"
	"github.com/nikolayk812/techhub-cart/internal/port"
)

type cartRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) (port.Storefront, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &cartRepository{
		q:    db.New(pool),
		pool: pool,
	}, nil
}

func NewCartWithTx(tx pgx.Tx) port.Storefront {
	return &cartRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *cartRepository) ListItems(ctx context.Context, ownerID int64) ([]domain.CartItem, error) {
	if ownerID == 0 {
		return nil, fmt.Errorf("ownerID is empty")
	}

	rows, err := r.q.GetCart(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("q.GetCart: %w", err)
	}

	items, err := mapGetCartRowsToDomain(rows)
	if err != nil {
		return nil, fmt.Errorf("mapGetCartRowsToDomain: %w", err)
	}

	return items, nil
}

// AddItem merges into the owner's line for the product, rejecting a total above stock.
func (r *cartRepository) AddItem(ctx context.Context, ownerID int64, productID int64, quantity int) (domain.CartItem, error) {
	if ownerID == 0 {
		return domain.CartItem{}, fmt.Errorf("ownerID is empty")
	}
	if quantity < 1 {
		return domain.CartItem{}, invalidQuantity()
	}

	lineID, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (int64, error) {
		stock, err := q.GetProductStockForUpdate(ctx, productID)
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &domain.RemoteRejection{Kind: domain.RejectNotFound, Message: fmt.Sprintf("product %d not found", productID)}
		}
		if err != nil {
			return 0, fmt.Errorf("q.GetProductStockForUpdate: %w", err)
		}

		existing, err := q.GetItemQuantity(ctx, db.GetItemQuantityParams{
			OwnerID:   ownerID,
			ProductID: productID,
		})
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("q.GetItemQuantity: %w", err)
		}

		if int(existing)+quantity > int(stock) {
			return 0, stockExceeded(int(stock))
		}

		id, err := q.UpsertItem(ctx, db.UpsertItemParams{
			OwnerID:   ownerID,
			ProductID: productID,
			Quantity:  int32(quantity),
		})
		if err != nil {
			return 0, fmt.Errorf("q.UpsertItem: %w", err)
		}

		return id, nil
	})
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("withTx: %w", err)
	}

	return r.getItem(ctx, ownerID, lineID)
}

func (r *cartRepository) UpdateItem(ctx context.Context, ownerID int64, lineID int64, quantity int) (domain.CartItem, error) {
	if ownerID == 0 {
		return domain.CartItem{}, fmt.Errorf("ownerID is empty")
	}
	if quantity < 1 {
		return domain.CartItem{}, invalidQuantity()
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (int64, error) {
		stock, err := q.GetItemStockForUpdate(ctx, db.GetItemStockForUpdateParams{
			OwnerID: ownerID,
			ID:      lineID,
		})
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, lineNotFound(lineID)
		}
		if err != nil {
			return 0, fmt.Errorf("q.GetItemStockForUpdate: %w", err)
		}

		if quantity > int(stock) {
			return 0, stockExceeded(int(stock))
		}

		return q.SetItemQuantity(ctx, db.SetItemQuantityParams{
			OwnerID:  ownerID,
			ID:       lineID,
			Quantity: int32(quantity),
		})
	})
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("withTx: %w", err)
	}

	return r.getItem(ctx, ownerID, lineID)
}

func (r *cartRepository) DeleteItem(ctx context.Context, ownerID int64, lineID int64) error {
	if ownerID == 0 {
		return fmt.Errorf("ownerID is empty")
	}

	rowsAffected, err := r.q.DeleteItem(ctx, db.DeleteItemParams{
		OwnerID: ownerID,
		ID:      lineID,
	})
	if err != nil {
		return fmt.Errorf("q.DeleteItem: %w", err)
	}
	if rowsAffected == 0 {
		return lineNotFound(lineID)
	}

	return nil
}

func (r *cartRepository) ClearCart(ctx context.Context, ownerID int64) error {
	if ownerID == 0 {
		return fmt.Errorf("ownerID is empty")
	}

	if err := r.q.ClearCart(ctx, ownerID); err != nil {
		return fmt.Errorf("q.ClearCart: %w", err)
	}

	return nil
}

func (r *cartRepository) getItem(ctx context.Context, ownerID, lineID int64) (domain.CartItem, error) {
	row, err := r.q.GetCartItem(ctx, db.GetCartItemParams{
		OwnerID: ownerID,
		ID:      lineID,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CartItem{}, lineNotFound(lineID)
	}
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("q.GetCartItem: %w", err)
	}

	return mapGetCartRowToDomain(db.GetCartRow(row))
}

func invalidQuantity() error {
	return &domain.RemoteRejection{Kind: domain.RejectInvalid, Message: "quantity must be at least 1"}
}

func stockExceeded(stock int) error {
	return &domain.RemoteRejection{Kind: domain.RejectStockExceeded, Message: fmt.Sprintf("only %d in stock", stock)}
}

func lineNotFound(lineID int64) error {
	return &domain.RemoteRejection{Kind: domain.RejectNotFound, Message: fmt.Sprintf("cart item %d not found", lineID)}
}

func mapGetCartRowToDomain(row db.GetCartRow) (domain.CartItem, error) {
	product := domain.Product{
		ID:            row.ProductID,
		Name:          row.Name,
		Slug:          row.Slug,
		Price:         row.Price,
		DiscountPrice: row.DiscountPrice,
		Stock:         int(row.Stock),
		ImageURLs:     row.ImageUrls,
	}
	if err := product.Validate(); err != nil {
		return domain.CartItem{}, fmt.Errorf("product[%d] is not valid: %w", row.ProductID, err)
	}

	return domain.CartItem{
		ID:        row.ID,
		ProductID: row.ProductID,
		Quantity:  int(row.Quantity),
		Product:   product,
		CreatedAt: row.CreatedAt,
	}, nil
}

func mapGetCartRowsToDomain(rows []db.GetCartRow) ([]domain.CartItem, error) {
	var items []domain.CartItem

	for _, row := range rows {
		item, err := mapGetCartRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapGetCartRowToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}
