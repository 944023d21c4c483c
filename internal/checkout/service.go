package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/currency"

	"github.com/nikolayk812/techhub-cart/internal/cart"
	"github.com/nikolayk812/techhub-cart/internal/domain"
	"github.com/nikolayk812/techhub-cart/internal/port"
)

// OrderDetails is what the checkout form collects besides the cart itself.
type OrderDetails struct {
	Shipping      domain.ShippingAddress
	PaymentMethod string
	PromoCode     string
}

type Service struct {
	engine    *cart.Engine
	submitter port.OrderSubmitter
	session   port.Session
	policy    domain.CheckoutPolicy
	currency  currency.Unit
	timeout   time.Duration
	logger    *zap.Logger
}

type Option func(*Service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTimeout bounds the order submission call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

func WithCurrency(unit currency.Unit) Option {
	return func(s *Service) {
		s.currency = unit
	}
}

func New(engine *cart.Engine, submitter port.OrderSubmitter, session port.Session, policy domain.CheckoutPolicy, opts ...Option) (*Service, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine is nil")
	}
	if submitter == nil {
		return nil, fmt.Errorf("submitter is nil")
	}
	if session == nil {
		return nil, fmt.Errorf("session is nil")
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("policy.Validate: %w", err)
	}

	s := &Service{
		engine:    engine,
		submitter: submitter,
		session:   session,
		policy:    policy,
		currency:  currency.USD,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *Service) Policy() domain.CheckoutPolicy {
	return s.policy
}

// Totals prices the engine's current cart. A blank promo code means no promo.
func (s *Service) Totals(promoCode string) (domain.OrderTotals, error) {
	return s.totals(s.engine.Cart(), promoCode)
}

// PlaceOrder validates the checkout form, submits the order and refreshes the
// cart, which the store empties once the order is placed.
func (s *Service) PlaceOrder(ctx context.Context, details OrderDetails) (int64, error) {
	user, ok := s.session.CurrentUser()
	if !ok {
		return 0, domain.ErrAuthRequired
	}

	snapshot := s.engine.Cart()
	if snapshot.IsEmpty() {
		return 0, domain.NewValidationError("", "cart is empty")
	}
	if err := details.Shipping.Validate(); err != nil {
		return 0, err
	}
	if strings.TrimSpace(details.PaymentMethod) == "" {
		return 0, domain.NewValidationError("paymentMethod", "is required")
	}

	totals, err := s.totals(snapshot, details.PromoCode)
	if err != nil {
		return 0, err
	}

	order := domain.OrderRequest{
		UserID:         user.ID,
		Lines:          s.lines(snapshot),
		Totals:         totals,
		Status:         domain.OrderStatusPending,
		Shipping:       details.Shipping,
		PaymentMethod:  strings.TrimSpace(details.PaymentMethod),
		IdempotencyKey: uuid.NewString(),
	}

	orderID, err := s.submit(ctx, order)
	if err != nil {
		return 0, err
	}

	s.logger.Info("order placed",
		zap.Int64("order_id", orderID),
		zap.Int64("owner_id", user.ID),
		zap.String("idempotency_key", order.IdempotencyKey),
		zap.String("total", totals.Total.StringFixed(2)))

	if _, err := s.engine.LoadCart(ctx); err != nil {
		s.logger.Warn("cart refresh after order failed", zap.Int64("order_id", orderID), zap.Error(err))
	}

	return orderID, nil
}

func (s *Service) submit(ctx context.Context, order domain.OrderRequest) (int64, error) {
	submitCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	orderID, err := s.submitter.SubmitOrder(submitCtx, order)
	if err == nil {
		return orderID, nil
	}

	if errors.Is(err, context.DeadlineExceeded) && !domain.IsTransport(err) {
		err = domain.NewTransportError("submitter.SubmitOrder", err)
	}
	s.logger.Warn("order submission failed",
		zap.Int64("owner_id", order.UserID),
		zap.String("idempotency_key", order.IdempotencyKey),
		zap.Error(err))

	return 0, fmt.Errorf("submitter.SubmitOrder: %w", err)
}

func (s *Service) totals(c domain.Cart, promoCode string) (domain.OrderTotals, error) {
	var promo domain.Promo
	if strings.TrimSpace(promoCode) != "" {
		var err error
		promo, err = domain.ParsePromo(promoCode)
		if err != nil {
			return domain.OrderTotals{}, err
		}
	}

	return domain.ComputeTotals(c.Subtotal(), s.policy, promo), nil
}

func (s *Service) lines(c domain.Cart) []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, domain.OrderLine{
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			UnitPrice: domain.NewMoney(item.Product.EffectivePrice(), s.currency),
		})
	}
	return lines
}
