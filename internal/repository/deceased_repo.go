package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeceasedListFilter narrows the deceased-record listing.
type DeceasedListFilter struct {
	Status string // IN_STORAGE, RELEASED or empty for all
	Search string // partial match on full_name or tag_number
	Page   int
	Limit  int
}

type DeceasedRepository interface {
	Create(ctx context.Context, record *model.DeceasedRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DeceasedRecord, error)
	List(ctx context.Context, filter DeceasedListFilter) ([]model.DeceasedRecord, int64, error)
	Update(ctx context.Context, record *model.DeceasedRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
}

type deceasedRepository struct {
	db *gorm.DB
}

func NewDeceasedRepository(db *gorm.DB) DeceasedRepository {
	return &deceasedRepository{db: db}
}

func (r *deceasedRepository) Create(ctx context.Context, record *model.DeceasedRecord) error {
	return GetDB(ctx, r.db).Create(record).Error
}

func (r *deceasedRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.DeceasedRecord, error) {
	var record model.DeceasedRecord
	if err := GetDB(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *deceasedRepository) List(ctx context.Context, filter DeceasedListFilter) ([]model.DeceasedRecord, int64, error) {
	var records []model.DeceasedRecord
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.DeceasedRecord{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("full_name ILIKE ? OR tag_number ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Order("created_at desc").Offset(offset).Limit(filter.Limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *deceasedRepository) Update(ctx context.Context, record *model.DeceasedRecord) error {
	return GetDB(ctx, r.db).Save(record).Error
}

func (r *deceasedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.DeceasedRecord{}).Error
}

func (r *deceasedRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.DeceasedRecord{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *deceasedRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.DeceasedRecord{}).Unscoped().Where("tag_number LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
