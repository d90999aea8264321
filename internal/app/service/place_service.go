package service

import (
	"context"
	"fmt"
	"strings"

	"shiftbook/internal/domain"
)

type PlaceService struct {
	Repo domain.PlaceRepo
}

func NewPlaceService(repo domain.PlaceRepo) *PlaceService {
	return &PlaceService{Repo: repo}
}

// AddPlace: false для пустого имени или уже существующего места.
func (s *PlaceService) AddPlace(ctx context.Context, userID int64, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" || userID <= 0 {
		return false, nil
	}
	exists, err := s.Repo.PlaceExists(ctx, userID, name)
	if err != nil {
		return false, fmt.Errorf("check place: %w", err)
	}
	if exists {
		return false, nil
	}
	if _, err := s.Repo.CreatePlace(ctx, domain.Place{UserID: userID, Name: name}); err != nil {
		return false, fmt.Errorf("create place: %w", err)
	}
	return true, nil
}

func (s *PlaceService) GetPlaces(ctx context.Context, userID int64) ([]string, error) {
	places, err := s.Repo.GetPlaces(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get places: %w", err)
	}
	names := make([]string, 0, len(places))
	for _, p := range places {
		names = append(names, p.Name)
	}
	return names, nil
}

// DeletePlace не трогает смены: они хранят название места на момент создания.
func (s *PlaceService) DeletePlace(ctx context.Context, userID int64, name string) error {
	if err := s.Repo.InvalidatePlace(ctx, userID, strings.TrimSpace(name)); err != nil {
		return fmt.Errorf("delete place: %w", err)
	}
	return nil
}
