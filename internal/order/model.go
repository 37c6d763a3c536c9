package order

import (
	"time"

	"ftour-be/internal/cart"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusDelivered, StatusCancelled},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an order in s may move to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type CustomerInfo struct {
	Name         string `json:"name" validate:"required,max=120"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required,min=6,max=32"`
	Address      string `json:"address" validate:"required,max=500"`
	DeliverySlot string `json:"deliverySlot" validate:"omitempty,max=64"`
}

type Item struct {
	LineID     string           `json:"lineId"`
	Kind       cart.Kind        `json:"kind"`
	Name       string           `json:"name"`
	UnitPrice  decimal.Decimal  `json:"unitPrice"`
	Quantity   int              `json:"quantity"`
	Components []cart.Component `json:"components,omitempty"`
}

func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID          string          `json:"id"`
	Number      string          `json:"number"`
	SessionID   string          `json:"-"`
	Customer    CustomerInfo    `json:"customerInfo"`
	Items       []Item          `json:"items"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Status      Status          `json:"status"`
	OrderDate   time.Time       `json:"orderDate"`
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ListFilter narrows and pages an order listing. An empty Status lists every
// status; pages start at 1.
type ListFilter struct {
	Status Status
	Limit  int
	Page   int
}

// normalize applies the default page size, caps it, and returns the offset.
func (f ListFilter) normalize() (ListFilter, int) {
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	return f, (f.Page - 1) * f.Limit
}

// AmountDue is the cart total plus the delivery fee.
func (o Order) AmountDue() decimal.Decimal {
	return o.TotalPrice.Add(o.DeliveryFee)
}

func itemsFromLines(lines []cart.Line) []Item {
	items := make([]Item, len(lines))
	for i, l := range lines {
		items[i] = Item{
			LineID:     l.ID,
			Kind:       l.Kind,
			Name:       l.Name,
			UnitPrice:  l.UnitPrice,
			Quantity:   l.Quantity,
			Components: l.Components,
		}
	}
	return items
}
