package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ftour-be/internal/cart"
	"ftour-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	CreateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id string) (*Order, error)
	// ListOrders returns orders newest first, items included.
	ListOrders(ctx context.Context, filter ListFilter) ([]*Order, error)
	// UpdateStatus moves the order from one status to another. It fails
	// with ErrInvalidStatusTransition when the order is no longer in from.
	UpdateStatus(ctx context.Context, id string, from, to Status) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrder(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrder"),
		zap.String("order_id", o.ID),
		zap.Int("items", len(o.Items)),
	)
	start := time.Now()

	customer, err := json.Marshal(o.Customer)
	if err != nil {
		return fmt.Errorf("encode customer: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	// 1. Insert order
	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, number, session_id, customer,
			total_price, delivery_fee, status, order_date
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		o.ID,
		o.Number,
		o.SessionID,
		customer,
		o.TotalPrice,
		o.DeliveryFee,
		o.Status,
		o.OrderDate,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
			log.Warn("duplicate order", zap.String("number", o.Number))
			return ErrDuplicateOrder
		}
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	// 2. Insert order items
	for i, item := range o.Items {
		components := item.Components
		if components == nil {
			components = []cart.Component{}
		}
		payload, err := json.Marshal(components)
		if err != nil {
			return fmt.Errorf("encode components: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, position, line_id, kind,
				name, unit_price, quantity, components
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`,
			o.ID,
			i,
			item.LineID,
			item.Kind,
			item.Name,
			item.UnitPrice,
			item.Quantity,
			payload,
		)
		if err != nil {
			log.Error("failed to insert order item", zap.Error(err), zap.Int("position", i))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order", zap.Error(err))
		return err
	}

	log.Info("order stored", zap.Duration("duration", time.Since(start)))
	return nil
}

func (r *repository) GetOrder(ctx context.Context, id string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetOrder"),
		zap.String("order_id", id),
	)

	var (
		o        Order
		customer []byte
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, number, session_id, customer,
			total_price, delivery_fee, status, order_date
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&o.ID,
		&o.Number,
		&o.SessionID,
		&customer,
		&o.TotalPrice,
		&o.DeliveryFee,
		&o.Status,
		&o.OrderDate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		log.Error("failed to query order", zap.Error(err))
		return nil, err
	}
	if err := json.Unmarshal(customer, &o.Customer); err != nil {
		return nil, fmt.Errorf("decode customer: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, line_id, kind, name, unit_price, quantity, components
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		log.Error("failed to query order items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	if err := scanItems(rows, map[string]*Order{o.ID: &o}); err != nil {
		log.Error("failed to scan order items", zap.Error(err))
		return nil, err
	}
	return &o, nil
}

func (r *repository) ListOrders(ctx context.Context, filter ListFilter) ([]*Order, error) {
	filter, offset := filter.normalize()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListOrders"),
		zap.String("status", string(filter.Status)),
		zap.Int("limit", filter.Limit),
		zap.Int("page", filter.Page),
	)

	// ---------- BASE QUERY ----------
	var query strings.Builder
	query.WriteString(`
		SELECT id, number, session_id, customer,
			total_price, delivery_fee, status, order_date
		FROM orders
		WHERE 1=1
	`)
	args := []any{}
	argIndex := 1

	// ---------- FILTERING ----------
	if filter.Status != "" {
		fmt.Fprintf(&query, " AND status = $%d", argIndex)
		args = append(args, filter.Status)
		argIndex++
	}

	// ---------- PAGINATION ----------
	fmt.Fprintf(&query, " ORDER BY order_date DESC, number DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, offset)

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	byID := make(map[string]*Order)
	ids := []string{}
	for rows.Next() {
		var (
			o        Order
			customer []byte
		)
		if err := rows.Scan(
			&o.ID,
			&o.Number,
			&o.SessionID,
			&customer,
			&o.TotalPrice,
			&o.DeliveryFee,
			&o.Status,
			&o.OrderDate,
		); err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		if err := json.Unmarshal(customer, &o.Customer); err != nil {
			return nil, fmt.Errorf("decode customer: %w", err)
		}
		orders = append(orders, &o)
		byID[o.ID] = &o
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration error", zap.Error(err))
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT order_id, line_id, kind, name, unit_price, quantity, components
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`, pq.Array(ids))
	if err != nil {
		log.Error("failed to query order items", zap.Error(err))
		return nil, err
	}
	defer itemRows.Close()

	if err := scanItems(itemRows, byID); err != nil {
		log.Error("failed to scan order items", zap.Error(err))
		return nil, err
	}

	log.Debug("orders listed", zap.Int("count", len(orders)))
	return orders, nil
}

// scanItems appends each item row to its order in byID.
func scanItems(rows *sql.Rows, byID map[string]*Order) error {
	for rows.Next() {
		var (
			orderID    string
			item       Item
			components []byte
		)
		if err := rows.Scan(
			&orderID,
			&item.LineID,
			&item.Kind,
			&item.Name,
			&item.UnitPrice,
			&item.Quantity,
			&components,
		); err != nil {
			return err
		}
		if len(components) > 0 {
			if err := json.Unmarshal(components, &item.Components); err != nil {
				return fmt.Errorf("decode components: %w", err)
			}
			if len(item.Components) == 0 {
				item.Components = nil
			}
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateStatus"),
		zap.String("order_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		log.Warn("order status changed concurrently")
		return ErrInvalidStatusTransition
	}
	return nil
}
