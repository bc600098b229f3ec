package team

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, member *Member) error
	GetByID(ctx context.Context, id uint) (*Member, error)
	GetByEmail(ctx context.Context, email string) (*Member, error)
	GetByUserID(ctx context.Context, userID uint) (*Member, error)
	List(ctx context.Context) ([]Member, error)
	ListByLevel(ctx context.Context, level string) ([]Member, error)
	Update(ctx context.Context, member *Member) error
	Delete(ctx context.Context, id uint) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, member *Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uint) (*Member, error) {
	var member Member
	err := r.db.WithContext(ctx).First(&member, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &member, err
}

func (r *gormRepository) GetByEmail(ctx context.Context, email string) (*Member, error) {
	var member Member
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &member, err
}

func (r *gormRepository) GetByUserID(ctx context.Context, userID uint) (*Member, error) {
	var member Member
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &member, err
}

func (r *gormRepository) List(ctx context.Context) ([]Member, error) {
	var members []Member
	err := r.db.WithContext(ctx).Order("name").Find(&members).Error
	return members, err
}

func (r *gormRepository) ListByLevel(ctx context.Context, level string) ([]Member, error) {
	var members []Member
	err := r.db.WithContext(ctx).Where("hierarchy_level = ? AND active", level).Find(&members).Error
	return members, err
}

func (r *gormRepository) Update(ctx context.Context, member *Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *gormRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&Member{}, id).Error
}
