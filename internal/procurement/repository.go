package procurement

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// WithTx runs fn inside one database transaction; the Repository
	// passed to fn is bound to that transaction.
	WithTx(ctx context.Context, fn func(Repository) error) error

	CreateMaterial(ctx context.Context, material *ProjectMaterial) error
	GetMaterial(ctx context.Context, id uint) (*ProjectMaterial, error)
	// GetMaterialForUpdate locks the material row for the duration of the
	// surrounding transaction.
	GetMaterialForUpdate(ctx context.Context, id uint) (*ProjectMaterial, error)
	ListMaterialsByProject(ctx context.Context, projectID uint) ([]ProjectMaterial, error)
	UpdateMaterial(ctx context.Context, material *ProjectMaterial) error
	DeleteMaterial(ctx context.Context, id uint) error

	CreateApproval(ctx context.Context, approval *MaterialApproval) error
	ListApprovals(ctx context.Context, materialID uint) ([]MaterialApproval, error)

	CreateQuotation(ctx context.Context, quotation *MaterialQuotation) error
	GetQuotation(ctx context.Context, id uint) (*MaterialQuotation, error)
	ListQuotations(ctx context.Context, materialID uint) ([]MaterialQuotation, error)
	UpdateQuotation(ctx context.Context, quotation *MaterialQuotation) error
	DeleteQuotation(ctx context.Context, id uint) error
	// ClearRecommended unsets IsRecommended on every quotation of the material.
	ClearRecommended(ctx context.Context, materialID uint) error
	SetRecommended(ctx context.Context, quotationID uint) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) WithTx(ctx context.Context, fn func(Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (r *gormRepository) CreateMaterial(ctx context.Context, material *ProjectMaterial) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *gormRepository) GetMaterial(ctx context.Context, id uint) (*ProjectMaterial, error) {
	var material ProjectMaterial
	err := r.db.WithContext(ctx).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("material_approvals.created_at")
		}).
		Preload("Quotations").
		First(&material, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &material, err
}

func (r *gormRepository) GetMaterialForUpdate(ctx context.Context, id uint) (*ProjectMaterial, error) {
	var material ProjectMaterial
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&material, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &material, err
}

func (r *gormRepository) ListMaterialsByProject(ctx context.Context, projectID uint) ([]ProjectMaterial, error) {
	var list []ProjectMaterial
	err := r.db.WithContext(ctx).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("material_approvals.created_at")
		}).
		Preload("Quotations").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *gormRepository) UpdateMaterial(ctx context.Context, material *ProjectMaterial) error {
	return r.db.WithContext(ctx).Save(material).Error
}

func (r *gormRepository) DeleteMaterial(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("material_id = ?", id).Delete(&MaterialQuotation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("material_id = ?", id).Delete(&MaterialApproval{}).Error; err != nil {
			return err
		}
		return tx.Delete(&ProjectMaterial{}, id).Error
	})
}

func (r *gormRepository) CreateApproval(ctx context.Context, approval *MaterialApproval) error {
	return r.db.WithContext(ctx).Create(approval).Error
}

func (r *gormRepository) ListApprovals(ctx context.Context, materialID uint) ([]MaterialApproval, error) {
	var list []MaterialApproval
	err := r.db.WithContext(ctx).
		Where("material_id = ?", materialID).
		Order("created_at").
		Find(&list).Error
	return list, err
}

func (r *gormRepository) CreateQuotation(ctx context.Context, quotation *MaterialQuotation) error {
	return r.db.WithContext(ctx).Create(quotation).Error
}

func (r *gormRepository) GetQuotation(ctx context.Context, id uint) (*MaterialQuotation, error) {
	var quotation MaterialQuotation
	err := r.db.WithContext(ctx).First(&quotation, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &quotation, err
}

func (r *gormRepository) ListQuotations(ctx context.Context, materialID uint) ([]MaterialQuotation, error) {
	var list []MaterialQuotation
	err := r.db.WithContext(ctx).
		Where("material_id = ?", materialID).
		Order("quoted_price").
		Find(&list).Error
	return list, err
}

func (r *gormRepository) UpdateQuotation(ctx context.Context, quotation *MaterialQuotation) error {
	return r.db.WithContext(ctx).Save(quotation).Error
}

func (r *gormRepository) DeleteQuotation(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&MaterialQuotation{}, id).Error
}

func (r *gormRepository) ClearRecommended(ctx context.Context, materialID uint) error {
	return r.db.WithContext(ctx).
		Model(&MaterialQuotation{}).
		Where("material_id = ?", materialID).
		Update("is_recommended", false).Error
}

func (r *gormRepository) SetRecommended(ctx context.Context, quotationID uint) error {
	return r.db.WithContext(ctx).
		Model(&MaterialQuotation{}).
		Where("id = ?", quotationID).
		Update("is_recommended", true).Error
}
