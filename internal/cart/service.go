package cart

import (
	"context"

	"ftour-be/internal/catalog"
	"ftour-be/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Catalog is the read side of the product catalog the cart prices from.
type Catalog interface {
	Product(id string) (catalog.Product, error)
}

// Service defines the session-scoped cart operations.
type Service interface {
	GetCart(ctx context.Context, sessionID string) (Snapshot, error)
	AddItem(ctx context.Context, sessionID, productID string) (Snapshot, error)
	UpdateQuantity(ctx context.Context, sessionID, lineID string, quantity int) (Snapshot, error)
	RemoveItem(ctx context.Context, sessionID, lineID string) (Snapshot, error)
	AddPackage(ctx context.Context, sessionID string, components []Component, price decimal.Decimal, name string) (Line, error)
	PackageSavings(ctx context.Context, sessionID, lineID string) (decimal.Decimal, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	carts   *Registry
	catalog Catalog
}

func NewService(carts *Registry, catalog Catalog) Service {
	return &service{carts: carts, catalog: catalog}
}

func (s *service) GetCart(ctx context.Context, sessionID string) (Snapshot, error) {
	var snap Snapshot
	err := s.carts.With(ctx, sessionID, func(c *Cart) error {
		snap = c.Snapshot()
		return nil
	})
	return snap, err
}

// AddItem adds one unit of a catalog product. Name and price always come
// from the catalog.
func (s *service) AddItem(ctx context.Context, sessionID, productID string) (Snapshot, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.String("product_id", productID),
	)
	log.Debug("adding item to cart")

	p, err := s.catalog.Product(productID)
	if err != nil {
		log.Warn("product lookup failed", zap.Error(err))
		return Snapshot{}, err
	}

	var snap Snapshot
	err = s.carts.With(ctx, sessionID, func(c *Cart) error {
		if err := c.AddItem(p.ID, p.Name, p.Price); err != nil {
			return err
		}
		snap = c.Snapshot()
		return nil
	})
	if err != nil {
		log.Warn("add item rejected", zap.Error(err))
		return Snapshot{}, err
	}

	log.Info("item added to cart", zap.String("total", snap.Total.String()))
	return snap, nil
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID, lineID string, quantity int) (Snapshot, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateQuantity"),
		zap.String("line_id", lineID),
		zap.Int("quantity", quantity),
	)

	var snap Snapshot
	err := s.carts.With(ctx, sessionID, func(c *Cart) error {
		if _, ok := c.Line(lineID); !ok {
			return ErrLineNotFound
		}
		if err := c.UpdateQuantity(lineID, quantity); err != nil {
			return err
		}
		snap = c.Snapshot()
		return nil
	})
	if err != nil {
		log.Warn("update quantity rejected", zap.Error(err))
		return Snapshot{}, err
	}

	log.Info("cart quantity updated", zap.String("total", snap.Total.String()))
	return snap, nil
}

// RemoveItem removes a line. Removing an absent line succeeds.
func (s *service) RemoveItem(ctx context.Context, sessionID, lineID string) (Snapshot, error) {
	var snap Snapshot
	err := s.carts.With(ctx, sessionID, func(c *Cart) error {
		c.RemoveItem(lineID)
		snap = c.Snapshot()
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	logger.FromCtx(ctx).Info("cart line removed",
		zap.String("layer", "service"),
		zap.String("method", "RemoveItem"),
		zap.String("line_id", lineID),
	)
	return snap, nil
}

func (s *service) AddPackage(ctx context.Context, sessionID string, components []Component, price decimal.Decimal, name string) (Line, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddPackage"),
		zap.String("package_name", name),
		zap.Int("components", len(components)),
	)

	var line Line
	err := s.carts.With(ctx, sessionID, func(c *Cart) error {
		var err error
		line, err = c.AddPackageResult(components, price, name)
		return err
	})
	if err != nil {
		log.Warn("add package rejected", zap.Error(err))
		return Line{}, err
	}

	log.Info("package added to cart", zap.String("line_id", line.ID))
	return line, nil
}

func (s *service) PackageSavings(ctx context.Context, sessionID, lineID string) (decimal.Decimal, error) {
	var savings decimal.Decimal
	err := s.carts.With(ctx, sessionID, func(c *Cart) error {
		var err error
		savings, err = c.PackageSavings(lineID)
		return err
	})
	return savings, err
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	err := s.carts.With(ctx, sessionID, func(c *Cart) error {
		c.Clear()
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("cart cleared",
		zap.String("layer", "service"),
		zap.String("method", "Clear"),
	)
	return nil
}
