package packages

import (
	"fmt"

	"ftour-be/internal/cart"
	"ftour-be/internal/catalog"

	"github.com/shopspring/decimal"
)

type State string

const (
	StateOpen      State = "open"
	StatePartial   State = "partial"
	StateComplete  State = "complete"
	StateFinalized State = "finalized"
	StateCancelled State = "cancelled"
)

type Selection struct {
	OptionID string          `json:"optionId"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Result is a finalized package ready to become a composite cart line.
type Result struct {
	TemplateID string
	Name       string
	Price      decimal.Decimal
	Components []cart.Component
}

// Builder tracks the selections of one package customization. It is not safe
// for concurrent use.
type Builder struct {
	template   catalog.PackageTemplate
	rate       decimal.Decimal
	selections map[string][]Selection
	closed     State
}

// NewBuilder starts a customization of t. The template price is the
// per-person rate; defaultRate applies when the template has none.
func NewBuilder(t catalog.PackageTemplate, defaultRate decimal.Decimal) *Builder {
	rate := t.Price
	if !rate.IsPositive() {
		rate = defaultRate
	}
	return &Builder{
		template:   t,
		rate:       rate,
		selections: make(map[string][]Selection, len(t.Categories)),
	}
}

func (b *Builder) Template() catalog.PackageTemplate {
	return b.template
}

func (b *Builder) capacity() int {
	return b.template.PersonCount
}

func (b *Builder) category(name string) (catalog.PackageCategory, error) {
	if b.closed != "" {
		return catalog.PackageCategory{}, ErrSessionClosed
	}
	cat, ok := b.template.Category(name)
	if !ok {
		return catalog.PackageCategory{}, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return cat, nil
}

// Select picks an option. Single-person packages replace the category's
// selection; larger packages append one unit while capacity remains.
func (b *Builder) Select(category, optionID string) error {
	cat, err := b.category(category)
	if err != nil {
		return err
	}
	opt, ok := cat.Option(optionID)
	if !ok {
		return fmt.Errorf("%w: %q in %q", ErrUnknownOption, optionID, category)
	}

	sel := Selection{OptionID: opt.ID, Name: opt.Name, Price: opt.Price, Quantity: 1}
	if b.capacity() == 1 {
		b.selections[category] = []Selection{sel}
		return nil
	}

	if b.CategoryTotal(category) >= b.capacity() {
		return &CapacityError{Category: category, Capacity: b.capacity()}
	}
	b.selections[category] = append(b.selections[category], sel)
	return nil
}

// AdjustQuantity changes the first selection of optionID by delta, clamped to
// [1, capacity - other selections in the category].
func (b *Builder) AdjustQuantity(category, optionID string, delta int) error {
	if _, err := b.category(category); err != nil {
		return err
	}

	sels := b.selections[category]
	idx := -1
	for i, s := range sels {
		if s.OptionID == optionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %q in %q", ErrSelectionNotFound, optionID, category)
	}

	others := b.CategoryTotal(category) - sels[idx].Quantity
	q := sels[idx].Quantity + delta
	if upper := b.capacity() - others; q > upper {
		q = upper
	}
	if q < 1 {
		q = 1
	}
	sels[idx].Quantity = q
	return nil
}

// RemoveSelection drops every selection of optionID in the category.
// Removing an option that is not selected is a no-op.
func (b *Builder) RemoveSelection(category, optionID string) error {
	if _, err := b.category(category); err != nil {
		return err
	}

	sels := b.selections[category]
	kept := sels[:0]
	for _, s := range sels {
		if s.OptionID != optionID {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		delete(b.selections, category)
		return nil
	}
	b.selections[category] = kept
	return nil
}

func (b *Builder) CategoryTotal(category string) int {
	n := 0
	for _, s := range b.selections[category] {
		n += s.Quantity
	}
	return n
}

// CategoryProgress returns the selected and required units of a category.
func (b *Builder) CategoryProgress(category string) (selected, required int) {
	return b.CategoryTotal(category), b.capacity()
}

func (b *Builder) IsComplete() bool {
	for _, cat := range b.template.Categories {
		if b.CategoryTotal(cat.Name) != b.capacity() {
			return false
		}
	}
	return true
}

// Remaining is the number of units still needed across all categories.
func (b *Builder) Remaining() int {
	n := 0
	for _, cat := range b.template.Categories {
		if missing := b.capacity() - b.CategoryTotal(cat.Name); missing > 0 {
			n += missing
		}
	}
	return n
}

// Progress is the completion percentage over all categories.
func (b *Builder) Progress() float64 {
	required := len(b.template.Categories) * b.capacity()
	if required == 0 {
		return 0
	}
	selected := 0
	for _, cat := range b.template.Categories {
		selected += b.CategoryTotal(cat.Name)
	}
	return float64(selected) / float64(required) * 100
}

func (b *Builder) State() State {
	switch {
	case b.closed != "":
		return b.closed
	case b.IsComplete():
		return StateComplete
	case len(b.selections) > 0:
		return StatePartial
	default:
		return StateOpen
	}
}

// Selections returns a copy of the selections of a category.
func (b *Builder) Selections(category string) []Selection {
	return append([]Selection(nil), b.selections[category]...)
}

// Price is the flat package price: persons times the per-person rate.
func (b *Builder) Price() decimal.Decimal {
	return b.rate.Mul(decimal.NewFromInt(int64(b.capacity())))
}

// ListPrice sums the option prices of the current selections. It does not
// affect what the package costs.
func (b *Builder) ListPrice() decimal.Decimal {
	sum := decimal.Zero
	for _, cat := range b.template.Categories {
		for _, s := range b.selections[cat.Name] {
			sum = sum.Add(s.Price.Mul(decimal.NewFromInt(int64(s.Quantity))))
		}
	}
	return sum
}

func (b *Builder) Name() string {
	if b.template.Title != "" {
		return b.template.Title
	}
	return fmt.Sprintf("%d Person Package", b.capacity())
}

// Result builds the package result without closing the builder.
func (b *Builder) Result() (Result, error) {
	if b.closed != "" {
		return Result{}, ErrSessionClosed
	}
	if !b.IsComplete() {
		return Result{}, &IncompleteError{Remaining: b.Remaining()}
	}

	var components []cart.Component
	for _, cat := range b.template.Categories {
		for _, s := range b.selections[cat.Name] {
			components = append(components, cart.Component{
				ID:        s.OptionID,
				Name:      s.Name,
				Quantity:  s.Quantity,
				ListPrice: s.Price,
			})
		}
	}

	return Result{
		TemplateID: b.template.ID,
		Name:       b.Name(),
		Price:      b.Price(),
		Components: components,
	}, nil
}

// Finalize returns the result and closes the builder.
func (b *Builder) Finalize() (Result, error) {
	r, err := b.Result()
	if err != nil {
		return Result{}, err
	}
	b.closed = StateFinalized
	b.selections = nil
	return r, nil
}

func (b *Builder) Cancel() error {
	if b.closed != "" {
		return ErrSessionClosed
	}
	b.closed = StateCancelled
	b.selections = nil
	return nil
}
