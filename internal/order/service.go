package order

import (
	"context"
	"errors"
	"fmt"

	"ftour-be/internal/cart"
	"ftour-be/internal/delivery"
	"ftour-be/internal/logger"
	"ftour-be/internal/metrics"
	"ftour-be/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartStore gives exclusive access to a session's cart.
type CartStore interface {
	With(ctx context.Context, sessionID string, fn func(*cart.Cart) error) error
}

// FeeQuoter prices delivery at the current time.
type FeeQuoter interface {
	Quote(ctx context.Context) (delivery.Quote, error)
}

type Service interface {
	Checkout(ctx context.Context, sessionID string, customer CustomerInfo) (*Order, error)
	GetOrder(ctx context.Context, id string) (*Order, error)
	ListOrders(ctx context.Context, filter ListFilter) ([]*Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Order, error)
}

const (
	MetricSubmitted      = "checkout.submitted"
	MetricRejectedClosed = "checkout.rejected_closed"
	MetricFailed         = "checkout.failed"
	MetricDurationMs     = "checkout.duration_ms_total"
)

type service struct {
	repo     Repository
	carts    CartStore
	fees     FeeQuoter
	metrics  *metrics.Registry
	validate *validator.Validate
}

func NewService(repo Repository, carts CartStore, fees FeeQuoter, m *metrics.Registry) Service {
	if m == nil {
		m = metrics.NewRegistry()
	}
	return &service{
		repo:     repo,
		carts:    carts,
		fees:     fees,
		metrics:  m,
		validate: validator.New(),
	}
}

// Checkout submits the session cart as an order. The cart is cleared only
// after the order is stored; any failure leaves it untouched.
func (s *service) Checkout(ctx context.Context, sessionID string, customer CustomerInfo) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
	)
	log.Debug("start checkout")

	timer := metrics.StartTimer()
	defer timer.ObserveInto(s.metrics.Counter(MetricDurationMs))

	var placed *Order
	err := s.carts.With(ctx, sessionID, func(c *cart.Cart) error {
		if c.Len() == 0 {
			return ErrEmptyCart
		}
		if err := s.validate.Struct(customer); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidCustomer, err)
		}

		quote, err := s.fees.Quote(ctx)
		if err != nil {
			if errors.Is(err, delivery.ErrOrderingClosed) {
				s.metrics.Counter(MetricRejectedClosed).Inc()
			}
			return err
		}

		o := &Order{
			ID:          uuid.NewString(),
			Number:      utils.GenerateOrderNumber(quote.At),
			SessionID:   sessionID,
			Customer:    customer,
			Items:       itemsFromLines(c.Lines()),
			TotalPrice:  c.Total(),
			DeliveryFee: quote.Fee,
			Status:      StatusPending,
			OrderDate:   quote.At,
		}

		if err := s.repo.CreateOrder(ctx, o); err != nil {
			s.metrics.Counter(MetricFailed).Inc()
			log.Error("order submission failed", zap.Error(err))
			return fmt.Errorf("%w: %w", ErrOrderSubmissionFailed, err)
		}

		c.Clear()
		placed = o
		return nil
	})
	if err != nil {
		log.Warn("checkout rejected", zap.Error(err))
		return nil, err
	}

	s.metrics.Counter(MetricSubmitted).Inc()
	log.Info("order placed",
		zap.String("order_id", placed.ID),
		zap.String("number", placed.Number),
		zap.String("total_price", placed.TotalPrice.String()),
		zap.String("delivery_fee", placed.DeliveryFee.String()),
	)
	return placed, nil
}

// GetOrder returns an order to its owning session or to an admin.
func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	sessionID, ok := utils.GetSessionIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.SessionID != sessionID && !utils.IsAdmin(ctx) {
		return nil, ErrForbidden
	}
	return o, nil
}

// ListOrders is the admin order listing.
func (s *service) ListOrders(ctx context.Context, filter ListFilter) ([]*Order, error) {
	if _, ok := utils.GetSessionIDFromContext(ctx); !ok {
		return nil, ErrUnauthenticated
	}
	if !utils.IsAdmin(ctx) {
		return nil, ErrForbidden
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.ListOrders(ctx, filter)
}

// UpdateStatus applies an admin status transition.
func (s *service) UpdateStatus(ctx context.Context, id string, status Status) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateStatus"),
		zap.String("order_id", id),
		zap.String("status", string(status)),
	)

	if !utils.IsAdmin(ctx) {
		return nil, ErrForbidden
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(status) {
		log.Warn("status transition rejected", zap.String("current", string(o.Status)))
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, o.Status, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, o.Status, status); err != nil {
		return nil, err
	}
	o.Status = status

	log.Info("order status updated")
	return o, nil
}
