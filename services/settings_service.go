package services

import (
	"context"
	"errors"

	"github.com/amirfagh/justeat/entity"
	"github.com/amirfagh/justeat/repository"
	"gorm.io/gorm"
)

type SettingsService struct {
	Repo *repository.SettingRepository
}

func NewSettingsService(repo *repository.SettingRepository) *SettingsService {
	return &SettingsService{Repo: repo}
}

// Restaurant reports whether the restaurant takes orders. No document means closed.
func (s *SettingsService) Restaurant(ctx context.Context) (*entity.Setting, error) {
	st, err := s.Repo.Get(ctx, entity.RestaurantSettingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &entity.Setting{ID: entity.RestaurantSettingID, IsOpen: false}, nil
	}
	return st, err
}

func (s *SettingsService) SetRestaurantOpen(ctx context.Context, open bool) (*entity.Setting, error) {
	st := &entity.Setting{ID: entity.RestaurantSettingID, IsOpen: open}
	if err := s.Repo.Save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}
