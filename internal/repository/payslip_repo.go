package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PayslipListFilter narrows the payslip listing.
type PayslipListFilter struct {
	EmployeeID string
	Period     string // YYYY-MM
	Page       int
	Limit      int
}

type PayslipRepository interface {
	CreateRun(ctx context.Context, run *model.PayrollRun) error
	Create(ctx context.Context, slip *model.Payslip) error
	CreateBatch(ctx context.Context, slips []model.Payslip) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payslip, error)
	List(ctx context.Context, filter PayslipListFilter) ([]model.Payslip, int64, error)
	ExistsForPeriod(ctx context.Context, employeeID uuid.UUID, period string) (bool, error)
}

type payslipRepository struct {
	db *gorm.DB
}

func NewPayslipRepository(db *gorm.DB) PayslipRepository {
	return &payslipRepository{db: db}
}

func (r *payslipRepository) CreateRun(ctx context.Context, run *model.PayrollRun) error {
	return GetDB(ctx, r.db).Create(run).Error
}

func (r *payslipRepository) Create(ctx context.Context, slip *model.Payslip) error {
	return GetDB(ctx, r.db).Create(slip).Error
}

func (r *payslipRepository) CreateBatch(ctx context.Context, slips []model.Payslip) error {
	if len(slips) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&slips).Error
}

func (r *payslipRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Payslip, error) {
	var slip model.Payslip
	if err := GetDB(ctx, r.db).Preload("Employee").First(&slip, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &slip, nil
}

func (r *payslipRepository) List(ctx context.Context, filter PayslipListFilter) ([]model.Payslip, int64, error) {
	var slips []model.Payslip
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Payslip{})
	if filter.EmployeeID != "" {
		query = query.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Period != "" {
		query = query.Where("period = ?", filter.Period)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Preload("Employee").
		Order("created_at desc").Offset(offset).Limit(filter.Limit).Find(&slips).Error; err != nil {
		return nil, 0, err
	}

	return slips, total, nil
}

func (r *payslipRepository) ExistsForPeriod(ctx context.Context, employeeID uuid.UUID, period string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Payslip{}).
		Where("employee_id = ? AND period = ?", employeeID, period).
		Count(&count).Error
	return count > 0, err
}
