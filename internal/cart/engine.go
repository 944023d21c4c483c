// Package cart holds the local reflection of a user's cart and mediates every
// mutation against the remote store. The store is the source of truth: after a
// successful mutation the engine refetches instead of patching items in place.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nikolayk812/techhub-cart/internal/domain"
	"github.com/nikolayk812/techhub-cart/internal/port"
)

// Engine keeps one user's cart in sync with a CartStore. It is safe for
// concurrent use.
type Engine struct {
	store   port.CartStore
	session port.Session
	logger  *zap.Logger
	timeout time.Duration

	// mutations hold this for their whole round trip, refetch included
	mutation sync.Mutex

	mu      sync.RWMutex
	cart    domain.Cart
	applied uint64

	generation atomic.Uint64
	pending    atomic.Int32
}

type Option func(*Engine)

// WithLogger sets the logger; nil keeps the no-op default.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTimeout bounds every store call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// New returns an engine with an empty cart. Call LoadCart to fill it.
func New(store port.CartStore, session port.Session, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if session == nil {
		return nil, fmt.Errorf("session is nil")
	}

	e := &Engine{
		store:   store,
		session: session,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// LoadCart replaces the local cart with the store's list. An anonymous session,
// or a store that answers with ErrAuthRequired, yields an empty cart and no error.
func (e *Engine) LoadCart(ctx context.Context) (domain.Cart, error) {
	e.pending.Add(1)
	defer e.pending.Add(-1)

	user, ok := e.session.CurrentUser()
	if !ok {
		e.apply(e.generation.Add(1), domain.Cart{})
		return e.Cart(), nil
	}

	if err := e.refetch(ctx, user); err != nil {
		return e.Cart(), err
	}

	return e.Cart(), nil
}

// AddToCart asks the store to add quantity units of a product. The store merges
// into an existing line for that product.
func (e *Engine) AddToCart(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		return domain.NewValidationError("quantity", "must be at least 1")
	}

	user, ok := e.session.CurrentUser()
	if !ok {
		return domain.ErrAuthRequired
	}

	if item, found := e.Cart().ItemByProduct(productID); found && quantity > item.Product.Stock {
		return domain.NewValidationError("quantity", fmt.Sprintf("only %d in stock", item.Product.Stock))
	}

	return e.mutate(ctx, user, "AddItem", func(ctx context.Context) error {
		_, err := e.store.AddItem(ctx, user.ID, productID, quantity)
		return err
	})
}

// UpdateQuantity sets the absolute quantity of a line. Out-of-range quantities
// are rejected before any store call; the current quantity is a no-op.
func (e *Engine) UpdateQuantity(ctx context.Context, lineID int64, quantity int) error {
	if quantity < 1 {
		return domain.NewValidationError("quantity", "must be at least 1")
	}

	user, ok := e.session.CurrentUser()
	if !ok {
		return domain.ErrAuthRequired
	}

	item, found := e.Cart().Item(lineID)
	if !found {
		return domain.NewValidationError("lineItemId", fmt.Sprintf("line %d is not in the cart", lineID))
	}
	if err := domain.ValidateQuantity(quantity, item.Product.Stock); err != nil {
		return err
	}
	if quantity == item.Quantity {
		return nil
	}

	return e.mutate(ctx, user, "UpdateItem", func(ctx context.Context) error {
		_, err := e.store.UpdateItem(ctx, user.ID, lineID, quantity)
		return err
	})
}

func (e *Engine) RemoveFromCart(ctx context.Context, lineID int64) error {
	user, ok := e.session.CurrentUser()
	if !ok {
		return domain.ErrAuthRequired
	}

	return e.mutate(ctx, user, "DeleteItem", func(ctx context.Context) error {
		return e.store.DeleteItem(ctx, user.ID, lineID)
	})
}

// ClearCart deletes every line in one store call and empties the local cart.
func (e *Engine) ClearCart(ctx context.Context) error {
	user, ok := e.session.CurrentUser()
	if !ok {
		return domain.ErrAuthRequired
	}

	e.mutation.Lock()
	defer e.mutation.Unlock()

	e.pending.Add(1)
	defer e.pending.Add(-1)

	err := e.call(ctx, "ClearCart", func(ctx context.Context) error {
		return e.store.ClearCart(ctx, user.ID)
	})
	if err != nil {
		e.logger.Debug("clear cart failed", zap.Int64("owner_id", user.ID), zap.Error(err))
		return err
	}

	// reads issued before this point may still hold the cleared lines
	e.apply(e.generation.Add(1), domain.Cart{OwnerID: user.ID})

	return nil
}

// Cart returns a snapshot that is safe to keep and modify.
func (e *Engine) Cart() domain.Cart {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.cart.Clone()
}

func (e *Engine) Items() []domain.CartItem {
	return e.Cart().Items
}

func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.cart.Count()
}

func (e *Engine) Subtotal() decimal.Decimal {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.cart.Subtotal()
}

// Loading reports whether a load or mutation is outstanding.
func (e *Engine) Loading() bool {
	return e.pending.Load() > 0
}

func (e *Engine) mutate(ctx context.Context, user domain.User, op string, fn func(ctx context.Context) error) error {
	e.mutation.Lock()
	defer e.mutation.Unlock()

	e.pending.Add(1)
	defer e.pending.Add(-1)

	if err := e.call(ctx, op, fn); err != nil {
		e.logger.Debug("cart mutation failed",
			zap.String("op", op), zap.Int64("owner_id", user.ID), zap.Error(err))
		return err
	}

	if err := e.refetch(ctx, user); err != nil {
		return fmt.Errorf("refetch after %s: %w", op, err)
	}

	e.logger.Debug("cart mutation applied", zap.String("op", op), zap.Int64("owner_id", user.ID))

	return nil
}

// refetch takes its generation when the read is issued, so a read that was
// issued earlier but completes later never overwrites a newer one.
func (e *Engine) refetch(ctx context.Context, user domain.User) error {
	gen := e.generation.Add(1)

	var items []domain.CartItem
	err := e.call(ctx, "ListItems", func(ctx context.Context) error {
		var err error
		items, err = e.store.ListItems(ctx, user.ID)
		return err
	})
	if errors.Is(err, domain.ErrAuthRequired) {
		e.apply(gen, domain.Cart{})
		return nil
	}
	if err != nil {
		return err
	}

	cart, err := domain.NewCart(user.ID, items)
	if err != nil {
		return fmt.Errorf("domain.NewCart: %w", err)
	}

	e.apply(gen, cart)

	return nil
}

func (e *Engine) apply(gen uint64, cart domain.Cart) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen <= e.applied {
		e.logger.Debug("stale cart result dropped", zap.Uint64("generation", gen), zap.Uint64("applied", e.applied))
		return
	}

	e.applied = gen
	e.cart = cart
}

func (e *Engine) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	err := fn(ctx)
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) && !domain.IsTransport(err) {
		return domain.NewTransportError("store."+op, err)
	}

	return fmt.Errorf("store.%s: %w", op, err)
}
