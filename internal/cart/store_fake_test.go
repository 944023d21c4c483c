package cart_test

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/nikolayk812/techhub-cart/internal/domain"
)

// fakeStore mimics the storefront API: upsert on add, stock checks, 404 on unknown lines.
type fakeStore struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	lines    map[int64][]domain.CartItem
	nextID   int64

	// failNext is returned, once, by the next mutating call
	failNext error
	calls    map[string]int

	// onList runs after ListItems took its snapshot, outside the lock
	onList func(call int)
}

func newFakeStore(products ...domain.Product) *fakeStore {
	s := &fakeStore{
		products: make(map[int64]domain.Product),
		lines:    make(map[int64][]domain.CartItem),
		calls:    make(map[string]int),
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeStore) ListItems(_ context.Context, ownerID int64) ([]domain.CartItem, error) {
	s.mu.Lock()
	s.calls["ListItems"]++
	call := s.calls["ListItems"]
	items := slices.Clone(s.lines[ownerID])
	hook := s.onList
	s.mu.Unlock()

	if hook != nil {
		hook(call)
	}

	return items, nil
}

func (s *fakeStore) AddItem(_ context.Context, ownerID int64, productID int64, quantity int) (domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls["AddItem"]++
	if err := s.takeFailure(); err != nil {
		return domain.CartItem{}, err
	}

	product, ok := s.products[productID]
	if !ok {
		return domain.CartItem{}, &domain.RemoteRejection{Status: 404, Kind: domain.RejectNotFound, Message: "Product not found"}
	}

	lines := s.lines[ownerID]
	for i, line := range lines {
		if line.ProductID != productID {
			continue
		}
		if line.Quantity+quantity > product.Stock {
			return domain.CartItem{}, stockExceeded(product)
		}
		lines[i].Quantity += quantity
		return lines[i], nil
	}

	if quantity > product.Stock {
		return domain.CartItem{}, stockExceeded(product)
	}

	s.nextID++
	line := domain.CartItem{ID: s.nextID, ProductID: productID, Quantity: quantity, Product: product}
	s.lines[ownerID] = append(lines, line)

	return line, nil
}

func (s *fakeStore) UpdateItem(_ context.Context, ownerID int64, lineID int64, quantity int) (domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls["UpdateItem"]++
	if err := s.takeFailure(); err != nil {
		return domain.CartItem{}, err
	}

	lines := s.lines[ownerID]
	for i, line := range lines {
		if line.ID == lineID {
			lines[i].Quantity = quantity
			return lines[i], nil
		}
	}

	return domain.CartItem{}, notFound(lineID)
}

func (s *fakeStore) DeleteItem(_ context.Context, ownerID int64, lineID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls["DeleteItem"]++
	if err := s.takeFailure(); err != nil {
		return err
	}

	lines := s.lines[ownerID]
	idx := slices.IndexFunc(lines, func(i domain.CartItem) bool { return i.ID == lineID })
	if idx < 0 {
		return notFound(lineID)
	}
	s.lines[ownerID] = slices.Delete(lines, idx, idx+1)

	return nil
}

func (s *fakeStore) ClearCart(_ context.Context, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls["ClearCart"]++
	if err := s.takeFailure(); err != nil {
		return err
	}

	delete(s.lines, ownerID)

	return nil
}

func (s *fakeStore) failOnce(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

func (s *fakeStore) callCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *fakeStore) takeFailure() error {
	err := s.failNext
	s.failNext = nil
	return err
}

func stockExceeded(p domain.Product) error {
	return &domain.RemoteRejection{
		Status:  400,
		Kind:    domain.RejectStockExceeded,
		Message: fmt.Sprintf("Only %d of %s available", p.Stock, p.Name),
	}
}

func notFound(lineID int64) error {
	return &domain.RemoteRejection{Status: 404, Kind: domain.RejectNotFound, Message: fmt.Sprintf("Cart item %d not found", lineID)}
}

func mustProduct(id int64, price, discount string, stock int) domain.Product {
	p, err := domain.NewProduct(id, gofakeit.ProductName(), gofakeit.UUID(), price, discount, stock, []string{gofakeit.URL()})
	if err != nil {
		panic(err)
	}
	return p
}

func randomProduct(id int64) domain.Product {
	price := decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(2)
	return mustProduct(id, price.String(), "", gofakeit.IntRange(5, 50))
}

var decimalComparer = cmp.Comparer(func(x, y decimal.Decimal) bool {
	return x.Equal(y)
})
