package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseListFilter narrows the embalming-case listing.
type CaseListFilter struct {
	Status     string // PENDING, IN_PROGRESS, COMPLETED or empty for all
	EmbalmerID string
	Page       int
	Limit      int
}

type CaseRepository interface {
	Create(ctx context.Context, c *model.EmbalmingCase) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.EmbalmingCase, error)
	List(ctx context.Context, filter CaseListFilter) ([]model.EmbalmingCase, int64, error)
	Update(ctx context.Context, c *model.EmbalmingCase) error
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
	CountGroupedByStatus(ctx context.Context) (map[string]int64, error)
}

type caseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) CaseRepository {
	return &caseRepository{db: db}
}

func (r *caseRepository) Create(ctx context.Context, c *model.EmbalmingCase) error {
	return GetDB(ctx, r.db).Create(c).Error
}

func (r *caseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.EmbalmingCase, error) {
	var c model.EmbalmingCase
	if err := GetDB(ctx, r.db).Preload("Deceased").Preload("Embalmer").First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepository) List(ctx context.Context, filter CaseListFilter) ([]model.EmbalmingCase, int64, error) {
	var cases []model.EmbalmingCase
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.EmbalmingCase{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.EmbalmerID != "" {
		query = query.Where("embalmer_id = ?", filter.EmbalmerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Preload("Deceased").Preload("Embalmer").
		Order("created_at desc").Offset(offset).Limit(filter.Limit).Find(&cases).Error; err != nil {
		return nil, 0, err
	}

	return cases, total, nil
}

func (r *caseRepository) Update(ctx context.Context, c *model.EmbalmingCase) error {
	return GetDB(ctx, r.db).Save(c).Error
}

func (r *caseRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.EmbalmingCase{}).Where("case_no LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *caseRepository) CountGroupedByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	if err := GetDB(ctx, r.db).Model(&model.EmbalmingCase{}).
		Select("status, count(*) as count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, rw := range rows {
		result[rw.Status] = rw.Count
	}
	return result, nil
}
