package packages

import (
	"context"
	"sync"
	"time"

	"ftour-be/internal/cart"
	"ftour-be/internal/catalog"
	"ftour-be/internal/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Templates resolves package templates from the catalog.
type Templates interface {
	Package(id string) (catalog.PackageTemplate, error)
}

// CartWriter receives finalized packages.
type CartWriter interface {
	AddPackage(ctx context.Context, sessionID string, components []cart.Component, price decimal.Decimal, name string) (cart.Line, error)
}

type CategoryView struct {
	Name       string                  `json:"name"`
	Selected   int                     `json:"selected"`
	Required   int                     `json:"required"`
	Options    []catalog.PackageOption `json:"options"`
	Selections []Selection             `json:"selections"`
}

// View is a read model of a package session.
type View struct {
	ID          string          `json:"id"`
	TemplateID  string          `json:"templateId"`
	Title       string          `json:"title"`
	PersonCount int             `json:"persons"`
	State       State           `json:"state"`
	Price       decimal.Decimal `json:"price"`
	ListPrice   decimal.Decimal `json:"listPrice"`
	Progress    float64         `json:"progress"`
	Remaining   int             `json:"remaining"`
	Categories  []CategoryView  `json:"categories"`
}

type Service interface {
	Open(ctx context.Context, sessionID, templateID string) (View, error)
	Get(ctx context.Context, sessionID, builderID string) (View, error)
	Select(ctx context.Context, sessionID, builderID, category, optionID string) (View, error)
	Adjust(ctx context.Context, sessionID, builderID, category, optionID string, delta int) (View, error)
	Remove(ctx context.Context, sessionID, builderID, category, optionID string) (View, error)
	Finalize(ctx context.Context, sessionID, builderID string) (cart.Line, error)
	Cancel(ctx context.Context, sessionID, builderID string) error
	// Run drops abandoned package sessions until ctx is done.
	Run(ctx context.Context)
}

const (
	builderIdleTTL  = time.Hour
	cleanupInterval = 5 * time.Minute
)

// builderSession guards one builder. The service lock covers only the map.
type builderSession struct {
	mu       sync.Mutex
	owner    string
	builder  *Builder
	lastSeen time.Time
	closed   bool
}

type service struct {
	mu          sync.Mutex
	builders    map[string]*builderSession
	templates   Templates
	carts       CartWriter
	defaultRate decimal.Decimal
	now         func() time.Time
}

func NewService(templates Templates, carts CartWriter, defaultRate decimal.Decimal) Service {
	return &service{
		builders:    make(map[string]*builderSession),
		templates:   templates,
		carts:       carts,
		defaultRate: defaultRate,
		now:         time.Now,
	}
}

func (s *service) Open(ctx context.Context, sessionID, templateID string) (View, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Open"),
		zap.String("template_id", templateID),
	)

	if sessionID == "" {
		return View{}, cart.ErrMissingSession
	}
	t, err := s.templates.Package(templateID)
	if err != nil {
		log.Warn("package template lookup failed", zap.Error(err))
		return View{}, err
	}

	id := uuid.NewString()
	b := NewBuilder(t, s.defaultRate)

	s.mu.Lock()
	s.builders[id] = &builderSession{owner: sessionID, builder: b, lastSeen: s.now()}
	s.mu.Unlock()

	log.Info("package session opened", zap.String("builder_id", id))
	return view(id, b), nil
}

func (s *service) Get(ctx context.Context, sessionID, builderID string) (View, error) {
	var v View
	err := s.with(sessionID, builderID, func(b *Builder) error {
		v = view(builderID, b)
		return nil
	})
	return v, err
}

func (s *service) Select(ctx context.Context, sessionID, builderID, category, optionID string) (View, error) {
	return s.mutate(ctx, "Select", sessionID, builderID, func(b *Builder) error {
		return b.Select(category, optionID)
	})
}

func (s *service) Adjust(ctx context.Context, sessionID, builderID, category, optionID string, delta int) (View, error) {
	return s.mutate(ctx, "Adjust", sessionID, builderID, func(b *Builder) error {
		return b.AdjustQuantity(category, optionID, delta)
	})
}

func (s *service) Remove(ctx context.Context, sessionID, builderID, category, optionID string) (View, error) {
	return s.mutate(ctx, "Remove", sessionID, builderID, func(b *Builder) error {
		return b.RemoveSelection(category, optionID)
	})
}

// Finalize adds the completed package to the session cart and discards the
// package session. A cart failure leaves the package session intact.
func (s *service) Finalize(ctx context.Context, sessionID, builderID string) (cart.Line, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Finalize"),
		zap.String("builder_id", builderID),
	)

	var line cart.Line
	err := s.withSession(sessionID, builderID, func(bs *builderSession) error {
		r, err := bs.builder.Result()
		if err != nil {
			return err
		}
		line, err = s.carts.AddPackage(ctx, sessionID, r.Components, r.Price, r.Name)
		if err != nil {
			return err
		}
		if _, err := bs.builder.Finalize(); err != nil {
			return err
		}
		s.discard(builderID, bs)
		return nil
	})
	if err != nil {
		log.Warn("package finalize rejected", zap.Error(err))
		return cart.Line{}, err
	}

	log.Info("package finalized",
		zap.String("line_id", line.ID),
		zap.String("price", line.UnitPrice.String()),
	)
	return line, nil
}

func (s *service) Cancel(ctx context.Context, sessionID, builderID string) error {
	err := s.withSession(sessionID, builderID, func(bs *builderSession) error {
		if err := bs.builder.Cancel(); err != nil {
			return err
		}
		s.discard(builderID, bs)
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("package session cancelled",
		zap.String("layer", "service"),
		zap.String("method", "Cancel"),
		zap.String("builder_id", builderID),
	)
	return nil
}

func (s *service) mutate(ctx context.Context, method, sessionID, builderID string, fn func(*Builder) error) (View, error) {
	var v View
	err := s.with(sessionID, builderID, func(b *Builder) error {
		if err := fn(b); err != nil {
			return err
		}
		v = view(builderID, b)
		return nil
	})
	if err != nil {
		logger.FromCtx(ctx).Warn("package selection rejected",
			zap.String("layer", "service"),
			zap.String("method", method),
			zap.String("builder_id", builderID),
			zap.Error(err),
		)
		return View{}, err
	}
	return v, nil
}

// with runs fn on the builder while holding that builder's lock. Builders
// owned by another session are reported as not found.
func (s *service) with(sessionID, builderID string, fn func(*Builder) error) error {
	return s.withSession(sessionID, builderID, func(bs *builderSession) error {
		return fn(bs.builder)
	})
}

func (s *service) withSession(sessionID, builderID string, fn func(*builderSession) error) error {
	s.mu.Lock()
	bs, ok := s.builders[builderID]
	if ok {
		bs.lastSeen = s.now()
	}
	s.mu.Unlock()

	if !ok || bs.owner != sessionID {
		return ErrBuilderNotFound
	}

	bs.mu.Lock()
	defer bs.mu.Unlock()

	// finalized, cancelled or evicted while we waited for the lock
	if bs.closed {
		return ErrBuilderNotFound
	}
	return fn(bs)
}

// discard removes a builder session. The caller holds bs.mu.
func (s *service) discard(builderID string, bs *builderSession) {
	bs.closed = true
	s.mu.Lock()
	delete(s.builders, builderID)
	s.mu.Unlock()
}

func (s *service) Run(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *service) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, bs := range s.builders {
		if s.now().Sub(bs.lastSeen) <= builderIdleTTL {
			continue
		}
		if !bs.mu.TryLock() {
			continue
		}
		bs.closed = true
		delete(s.builders, id)
		bs.mu.Unlock()
		evicted++
	}

	if evicted > 0 {
		logger.L().Debug("idle package sessions evicted",
			zap.String("layer", "service"),
			zap.Int("evicted", evicted),
			zap.Int("remaining", len(s.builders)),
		)
	}
}

func (s *service) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.builders)
}

func view(id string, b *Builder) View {
	t := b.Template()
	v := View{
		ID:          id,
		TemplateID:  t.ID,
		Title:       b.Name(),
		PersonCount: t.PersonCount,
		State:       b.State(),
		Price:       b.Price(),
		ListPrice:   b.ListPrice(),
		Progress:    b.Progress(),
		Remaining:   b.Remaining(),
		Categories:  make([]CategoryView, 0, len(t.Categories)),
	}
	for _, cat := range t.Categories {
		selected, required := b.CategoryProgress(cat.Name)
		v.Categories = append(v.Categories, CategoryView{
			Name:       cat.Name,
			Selected:   selected,
			Required:   required,
			Options:    cat.Options,
			Selections: b.Selections(cat.Name),
		})
	}
	return v
}
