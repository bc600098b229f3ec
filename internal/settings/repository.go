package settings

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Get(ctx context.Context) (*WorkshopSettings, error)
	Save(ctx context.Context, settings *WorkshopSettings) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Get(ctx context.Context) (*WorkshopSettings, error) {
	var settings WorkshopSettings
	err := r.db.WithContext(ctx).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &settings, err
}

func (r *gormRepository) Save(ctx context.Context, settings *WorkshopSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
