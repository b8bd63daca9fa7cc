package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"fooddelivery/internal/model"
)

type RestaurantRepository struct {
	db *sql.DB
}

func NewRestaurantRepository(db *sql.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

func (r *RestaurantRepository) GetByID(ctx context.Context, id string) (*model.Restaurant, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	var (
		rest     model.Restaurant
		cuisines []byte
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, city, country, delivery_price, estimated_delivery_time, cuisines, image_url, last_updated
		FROM restaurants WHERE id = $1
	`, id).Scan(&rest.ID, &rest.UserID, &rest.Name, &rest.City, &rest.Country, &rest.DeliveryPrice,
		&rest.EstimatedDeliveryTime, &cuisines, &rest.ImageURL, &rest.LastUpdated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}

	if err := json.Unmarshal(cuisines, &rest.Cuisines); err != nil {
		return nil, fmt.Errorf("decode cuisines: %w", err)
	}

	rest.MenuItems, err = r.menuItems(ctx, rest.ID)
	if err != nil {
		return nil, err
	}

	return &rest, nil
}

func (r *RestaurantRepository) menuItems(ctx context.Context, restaurantID string) ([]model.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, price FROM menu_items WHERE restaurant_id = $1 ORDER BY position`,
		restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}
	defer rows.Close()

	items := []model.MenuItem{}
	for rows.Next() {
		var item model.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return items, nil
}
