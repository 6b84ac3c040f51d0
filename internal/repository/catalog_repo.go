package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CatalogRepository interface {
	Create(ctx context.Context, svc *model.MortuaryService) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MortuaryService, error)
	List(ctx context.Context, activeOnly bool, page, limit int) ([]model.MortuaryService, int64, error)
	Update(ctx context.Context, svc *model.MortuaryService) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) Create(ctx context.Context, svc *model.MortuaryService) error {
	return GetDB(ctx, r.db).Create(svc).Error
}

func (r *catalogRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MortuaryService, error) {
	var svc model.MortuaryService
	if err := GetDB(ctx, r.db).First(&svc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *catalogRepository) List(ctx context.Context, activeOnly bool, page, limit int) ([]model.MortuaryService, int64, error) {
	var services []model.MortuaryService
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.MortuaryService{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("name asc").Offset(offset).Limit(limit).Find(&services).Error; err != nil {
		return nil, 0, err
	}

	return services, total, nil
}

func (r *catalogRepository) Update(ctx context.Context, svc *model.MortuaryService) error {
	return GetDB(ctx, r.db).Save(svc).Error
}

func (r *catalogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.MortuaryService{}).Error
}
