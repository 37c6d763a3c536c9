package cart

import "github.com/shopspring/decimal"

// Kind discriminates simple product lines from composite package lines.
type Kind string

const (
	KindSimple    Kind = "simple"
	KindComposite Kind = "composite"
)

// Component is one resolved selection inside a package line. ListPrice is the
// option price in the package template; it is informational and never
// charged on its own.
type Component struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	ListPrice decimal.Decimal `json:"listPrice"`
}

type Line struct {
	ID         string          `json:"id"`
	Kind       Kind            `json:"kind"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity"`
	Components []Component     `json:"components,omitempty"`
}

func (l Line) IsComposite() bool {
	return l.Kind == KindComposite
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l Line) clone() Line {
	l.Components = append([]Component(nil), l.Components...)
	return l
}

// Snapshot is the serializable state of a cart.
type Snapshot struct {
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"total"`
}
