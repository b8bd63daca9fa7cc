package service

import (
	"context"
	"errors"
	"fmt"

	"fooddelivery/internal/model"
	"fooddelivery/internal/repository"
)

type RestaurantService struct {
	restaurants RestaurantStore
}

func NewRestaurantService(restaurants RestaurantStore) *RestaurantService {
	return &RestaurantService{restaurants: restaurants}
}

func (s *RestaurantService) Get(ctx context.Context, id string) (*model.Restaurant, error) {
	rest, err := s.restaurants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("%w: get restaurant: %v", ErrPersistence, err)
	}
	return rest, nil
}
