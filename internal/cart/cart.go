package cart

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Observer receives the cart state after every successful mutation.
type Observer func(Snapshot)

type Option func(*Cart)

// WithObserver installs a post-mutation hook, typically persistence.
func WithObserver(fn Observer) Option {
	return func(c *Cart) {
		c.observer = fn
	}
}

// WithIDGenerator overrides how package line ids are generated.
func WithIDGenerator(fn func() string) Option {
	return func(c *Cart) {
		c.newID = fn
	}
}

func newPackageID() string {
	return "package_" + uuid.NewString()
}

// Cart holds the lines of one session and a cached running total that always
// equals the sum of unit price times quantity over its lines.
//
// A Cart is not safe for concurrent use; Registry serializes access per session.
type Cart struct {
	order    []string
	lines    map[string]*Line
	total    decimal.Decimal
	observer Observer
	newID    func() string
}

func New(opts ...Option) *Cart {
	c := &Cart{
		lines: make(map[string]*Line),
		total: decimal.Zero,
		newID: newPackageID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddItem adds one unit of a simple product, inserting the line on first add.
func (c *Cart) AddItem(id, name string, unitPrice decimal.Decimal) error {
	if id == "" {
		return ErrInvalidLineID
	}
	if unitPrice.IsNegative() {
		return ErrInvalidPrice
	}

	if line, ok := c.lines[id]; ok {
		if line.IsComposite() {
			return ErrLineKindMismatch
		}
		line.Quantity++
		c.total = c.total.Add(line.UnitPrice)
		c.notify()
		return nil
	}

	c.insert(&Line{
		ID:        id,
		Kind:      KindSimple,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  1,
	})
	c.total = c.total.Add(unitPrice)
	c.notify()
	return nil
}

// RemoveItem deletes the line. Removing an absent line is a no-op.
func (c *Cart) RemoveItem(id string) {
	if !c.remove(id) {
		return
	}
	c.notify()
}

// UpdateQuantity sets the quantity of a line of either kind. Zero removes the
// line and an absent line is a no-op.
func (c *Cart) UpdateQuantity(id string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	line, ok := c.lines[id]
	if !ok {
		return nil
	}
	if quantity == 0 {
		c.RemoveItem(id)
		return nil
	}
	if quantity == line.Quantity {
		return nil
	}

	delta := decimal.NewFromInt(int64(quantity - line.Quantity))
	c.total = c.total.Add(line.UnitPrice.Mul(delta))
	line.Quantity = quantity
	c.notify()
	return nil
}

// AddPackageResult stores a finalized package as a new composite line with
// quantity 1 and returns it.
func (c *Cart) AddPackageResult(components []Component, packagePrice decimal.Decimal, name string) (Line, error) {
	if packagePrice.IsNegative() {
		return Line{}, ErrInvalidPrice
	}
	for _, comp := range components {
		if comp.Quantity < 1 {
			return Line{}, fmt.Errorf("%w: component %q", ErrInvalidQuantity, comp.ID)
		}
	}

	id := c.newID()
	if _, taken := c.lines[id]; taken || id == "" {
		return Line{}, fmt.Errorf("%w: generated id %q", ErrInvalidLineID, id)
	}

	line := &Line{
		ID:         id,
		Kind:       KindComposite,
		Name:       name,
		UnitPrice:  packagePrice,
		Quantity:   1,
		Components: append([]Component(nil), components...),
	}
	c.insert(line)
	c.total = c.total.Add(packagePrice)
	c.notify()
	return line.clone(), nil
}

func (c *Cart) Clear() {
	c.order = nil
	c.lines = make(map[string]*Line)
	c.total = decimal.Zero
	c.notify()
}

func (c *Cart) Total() decimal.Decimal {
	return c.total
}

// Lines returns copies of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.lines[id].clone())
	}
	return out
}

func (c *Cart) Line(id string) (Line, bool) {
	line, ok := c.lines[id]
	if !ok {
		return Line{}, false
	}
	return line.clone(), true
}

func (c *Cart) Len() int {
	return len(c.order)
}

// ItemCount is the number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, line := range c.lines {
		n += line.Quantity
	}
	return n
}

func (c *Cart) Snapshot() Snapshot {
	return Snapshot{Lines: c.Lines(), Total: c.total}
}

// Restore replaces the cart content with a snapshot. The stored total is
// ignored and recomputed from the lines. The observer is not called.
func (c *Cart) Restore(s Snapshot) error {
	order := make([]string, 0, len(s.Lines))
	lines := make(map[string]*Line, len(s.Lines))
	total := decimal.Zero

	for _, l := range s.Lines {
		switch {
		case l.ID == "":
			return fmt.Errorf("%w: %w", ErrInvalidSnapshot, ErrInvalidLineID)
		case l.Quantity < 1:
			return fmt.Errorf("%w: %w", ErrInvalidSnapshot, ErrInvalidQuantity)
		case l.UnitPrice.IsNegative():
			return fmt.Errorf("%w: %w", ErrInvalidSnapshot, ErrInvalidPrice)
		case l.Kind != KindSimple && l.Kind != KindComposite:
			return fmt.Errorf("%w: %w", ErrInvalidSnapshot, ErrLineKindMismatch)
		}
		if _, dup := lines[l.ID]; dup {
			return fmt.Errorf("%w: duplicate line %q", ErrInvalidSnapshot, l.ID)
		}

		line := l.clone()
		if line.Kind == KindSimple {
			line.Components = nil
		}
		order = append(order, line.ID)
		lines[line.ID] = &line
		total = total.Add(line.Subtotal())
	}

	c.order = order
	c.lines = lines
	c.total = total
	return nil
}

// PackageSavings returns the list price of a package line's components minus
// the package price.
func (c *Cart) PackageSavings(id string) (decimal.Decimal, error) {
	line, ok := c.lines[id]
	if !ok {
		return decimal.Zero, ErrLineNotFound
	}
	if !line.IsComposite() {
		return decimal.Zero, ErrLineKindMismatch
	}

	list := decimal.Zero
	for _, comp := range line.Components {
		list = list.Add(comp.ListPrice.Mul(decimal.NewFromInt(int64(comp.Quantity))))
	}
	return list.Sub(line.UnitPrice), nil
}

func (c *Cart) insert(line *Line) {
	c.order = append(c.order, line.ID)
	c.lines[line.ID] = line
}

func (c *Cart) remove(id string) bool {
	line, ok := c.lines[id]
	if !ok {
		return false
	}
	c.total = c.total.Sub(line.Subtotal())
	delete(c.lines, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *Cart) notify() {
	if c.observer != nil {
		c.observer(c.Snapshot())
	}
}
