package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/99minutos/order-service/internal/core/domain"
)

// OrderRepository implements ports.OrderRepository on PostgreSQL.
type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, user_id, total_price, status, created_at, updated_at`

// Create inserts the order row and every item row in a single transaction.
// A product removed between validation and write surfaces as
// domain.ErrUnknownProduct and nothing is kept.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return WithTransaction(ctx, r.db, DefaultTxOptions(), func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO orders (user_id, total_price, status, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			RETURNING id, created_at, updated_at`,
			order.UserID, order.TotalPrice, string(order.Status),
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i := range order.Items {
			item := &order.Items[i]
			err := tx.QueryRowContext(ctx, `
				INSERT INTO order_items (order_id, product_id, quantity, price)
				VALUES ($1, $2, $3, $4)
				RETURNING id`,
				order.ID, item.ProductID, item.Quantity, item.Price,
			).Scan(&item.ID)
			if err != nil {
				if isForeignKeyViolation(err) {
					return domain.ErrUnknownProduct
				}
				return fmt.Errorf("insert order item: %w", err)
			}
			item.OrderID = order.ID
		}

		return nil
	})
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	if err := r.attachItems(ctx, []*domain.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return r.collect(ctx, rows)
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	return r.collect(ctx, rows)
}

// UpdateStatus is a compare-and-set on the current status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING `+orderColumns,
		string(to), id, string(from))

	order, err := scanOrder(row)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("update order status: %w", err)
		}
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)", id).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check order exists: %w", err)
		}
		if !exists {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.ErrStatusConflict
	}

	if err := r.attachItems(ctx, []*domain.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// Delete removes the order; its items go with it through ON DELETE CASCADE.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) collect(ctx context.Context, rows *sql.Rows) ([]*domain.Order, error) {
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	rows.Close()

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the items of all given orders with one query.
func (r *OrderRepository) attachItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Order, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		o.Items = make([]domain.OrderItem, 0)
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate order items: %w", err)
	}
	return nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	if err := row.Scan(&o.ID, &o.UserID, &o.TotalPrice, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	return &o, nil
}
