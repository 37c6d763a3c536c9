package order

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu       sync.RWMutex
	orders   map[string]*Order
	byNumber map[string]string
}

// NewMemoryRepository keeps orders in process memory. It backs the server
// when no database is configured.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		orders:   make(map[string]*Order),
		byNumber: make(map[string]string),
	}
}

func (r *memoryRepository) CreateOrder(ctx context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[o.ID]; ok {
		return ErrDuplicateOrder
	}
	if _, ok := r.byNumber[o.Number]; ok {
		return ErrDuplicateOrder
	}
	r.orders[o.ID] = cloneOrder(o)
	r.byNumber[o.Number] = o.ID
	return nil
}

func (r *memoryRepository) GetOrder(ctx context.Context, id string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *memoryRepository) ListOrders(ctx context.Context, filter ListFilter) ([]*Order, error) {
	filter, offset := filter.normalize()

	r.mu.RLock()
	matched := make([]*Order, 0, len(r.orders))
	for _, o := range r.orders {
		if filter.Status == "" || o.Status == filter.Status {
			matched = append(matched, cloneOrder(o))
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].OrderDate.Equal(matched[j].OrderDate) {
			return matched[i].OrderDate.After(matched[j].OrderDate)
		}
		return matched[i].Number > matched[j].Number
	})

	if offset >= len(matched) {
		return []*Order{}, nil
	}
	end := min(offset+filter.Limit, len(matched))
	return matched[offset:end], nil
}

func (r *memoryRepository) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	if o.Status != from {
		return ErrInvalidStatusTransition
	}
	o.Status = to
	return nil
}

func cloneOrder(o *Order) *Order {
	c := *o
	c.Items = make([]Item, len(o.Items))
	for i, item := range o.Items {
		item.Components = append(item.Components[:0:0], item.Components...)
		c.Items[i] = item
	}
	return &c
}
