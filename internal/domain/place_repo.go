package domain

import "context"

type Place struct {
	ID     int64
	UserID int64
	Name   string
	Valid  bool
}

type PlaceRepo interface {
	PlaceExists(ctx context.Context, userID int64, name string) (bool, error)
	CreatePlace(ctx context.Context, p Place) (int64, error)
	GetPlaces(ctx context.Context, userID int64) ([]Place, error)
	InvalidatePlace(ctx context.Context, userID int64, name string) error
}
