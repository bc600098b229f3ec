package materials

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"usinahub/usinahub-backend/pkg/apperrors"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type MaterialInput struct {
	Name          string `json:"name" binding:"required"`
	Supplier      string `json:"supplier"`
	PurchasePrice int64  `json:"purchase_price" binding:"required"`
	WidthMm       int64  `json:"width_mm" binding:"required"`
	LengthMm      int64  `json:"length_mm" binding:"required"`
}

func (s *Service) Create(ctx context.Context, input MaterialInput) (*Material, error) {
	if input.WidthMm <= 0 || input.LengthMm <= 0 {
		return nil, apperrors.Validation("dimensões da chapa devem ser positivas")
	}
	material := &Material{
		Name:          input.Name,
		Supplier:      input.Supplier,
		PurchasePrice: input.PurchasePrice,
		WidthMm:       input.WidthMm,
		LengthMm:      input.LengthMm,
		CostPerMm2:    ComputeCostPerMm2(input.PurchasePrice, input.WidthMm, input.LengthMm),
	}
	if err := s.db.WithContext(ctx).Create(material).Error; err != nil {
		return nil, err
	}
	return material, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Material, error) {
	var material Material
	err := s.db.WithContext(ctx).First(&material, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("material não encontrado")
	}
	return &material, err
}

func (s *Service) List(ctx context.Context) ([]Material, error) {
	var list []Material
	err := s.db.WithContext(ctx).Order("name").Find(&list).Error
	return list, err
}

func (s *Service) Update(ctx context.Context, id uint, input MaterialInput) (*Material, error) {
	material, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.WidthMm <= 0 || input.LengthMm <= 0 {
		return nil, apperrors.Validation("dimensões da chapa devem ser positivas")
	}
	material.Name = input.Name
	material.Supplier = input.Supplier
	material.PurchasePrice = input.PurchasePrice
	material.WidthMm = input.WidthMm
	material.LengthMm = input.LengthMm
	material.CostPerMm2 = ComputeCostPerMm2(input.PurchasePrice, input.WidthMm, input.LengthMm)
	if err := s.db.WithContext(ctx).Save(material).Error; err != nil {
		return nil, err
	}
	return material, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&Material{}, id).Error
}
