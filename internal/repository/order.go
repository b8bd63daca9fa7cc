package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/model"
)

const orderColumns = `
	o.id, o.restaurant_id, o.user_id, o.cart_items,
	o.delivery_email, o.delivery_name, o.delivery_address_line1, o.delivery_city,
	o.total_amount, o.status, o.checkout_session_id, o.created_at`

type OrderRepository struct {
	db          *sql.DB
	restaurants *RestaurantRepository
}

func NewOrderRepository(db *sql.DB, restaurants *RestaurantRepository) *OrderRepository {
	return &OrderRepository{db: db, restaurants: restaurants}
}

func (r *OrderRepository) Create(ctx context.Context, o *model.Order) error {
	cart, err := json.Marshal(o.CartItems)
	if err != nil {
		return fmt.Errorf("encode cart items: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO orders (
			id, restaurant_id, user_id, cart_items,
			delivery_email, delivery_name, delivery_address_line1, delivery_city,
			total_amount, status, checkout_session_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		o.ID, o.RestaurantID, o.UserID, cart,
		o.DeliveryDetails.Email, o.DeliveryDetails.Name, o.DeliveryDetails.AddressLine1, o.DeliveryDetails.City,
		o.TotalAmount, string(o.Status), o.CheckoutSessionID, o.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// ListByUser returns the user's orders, newest first, with restaurant and user expanded.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	if !validID(userID) {
		return []model.Order{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`,
			u.id, u.email, u.name, u.address_line1, u.city, u.created_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var u model.User
		o, err := scanOrder(rows, &u.ID, &u.Email, &u.Name, &u.AddressLine1, &u.City, &u.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.User = &u
		orders = append(orders, *o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	restaurants := make(map[string]*model.Restaurant)
	for i := range orders {
		id := orders[i].RestaurantID
		rest, ok := restaurants[id]
		if !ok {
			rest, err = r.restaurants.GetByID(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("expand restaurant %s: %w", id, err)
			}
			restaurants[id] = rest
		}
		orders[i].Restaurant = rest
	}

	return orders, nil
}

// MarkPaid moves a placed order to paid with the reported amount.
// It returns false without error when the order exists but is no longer placed.
func (r *OrderRepository) MarkPaid(ctx context.Context, id string, amount int64) (bool, error) {
	if !validID(id) {
		return false, ErrNotFound
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET total_amount = $1, status = $2 WHERE id = $3 AND status = $4`,
		amount, string(model.OrderStatusPaid), id, string(model.OrderStatusPlaced),
	)
	if err != nil {
		return false, fmt.Errorf("update order: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 1 {
		return true, nil
	}

	var exists bool
	err = r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check order: %w", err)
	}
	if !exists {
		return false, ErrNotFound
	}
	return false, nil
}

// ListStalePlaced returns placed orders created inside (after, before), least
// recently reconciled first, so abandoned checkouts cannot starve newer ones.
func (r *OrderRepository) ListStalePlaced(ctx context.Context, after, before time.Time, limit int) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		WHERE o.status = $1
			AND o.created_at > $2 AND o.created_at < $3
			AND o.checkout_session_id <> ''
		ORDER BY o.reconciled_at ASC NULLS FIRST, o.created_at ASC
		LIMIT $4
	`, string(model.OrderStatusPlaced), after, before, limit)
	if err != nil {
		return nil, fmt.Errorf("query stale orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return orders, nil
}

// TouchReconciled records that the order's session was just checked.
func (r *OrderRepository) TouchReconciled(ctx context.Context, id string, at time.Time) error {
	if !validID(id) {
		return ErrNotFound
	}

	_, err := r.db.ExecContext(ctx, `UPDATE orders SET reconciled_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("touch order: %w", err)
	}
	return nil
}

func scanOrder(row scanner, extra ...any) (*model.Order, error) {
	var (
		o      model.Order
		cart   []byte
		status string
	)
	dest := []any{
		&o.ID, &o.RestaurantID, &o.UserID, &cart,
		&o.DeliveryDetails.Email, &o.DeliveryDetails.Name, &o.DeliveryDetails.AddressLine1, &o.DeliveryDetails.City,
		&o.TotalAmount, &status, &o.CheckoutSessionID, &o.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(cart, &o.CartItems); err != nil {
		return nil, fmt.Errorf("decode cart items: %w", err)
	}
	o.Status = model.OrderStatus(status)

	return &o, nil
}
