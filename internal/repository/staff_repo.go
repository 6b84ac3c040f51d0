package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeListFilter narrows the employee listing.
type EmployeeListFilter struct {
	ActiveOnly bool
	Search     string // partial match on full_name or staff_no
	Page       int
	Limit      int
}

type EmployeeRepository interface {
	Create(ctx context.Context, emp *model.Employee) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	FindByIDWithSalaryStructure(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	List(ctx context.Context, filter EmployeeListFilter) ([]model.Employee, int64, error)
	ListActiveWithSalaryStructure(ctx context.Context) ([]model.Employee, error)
	Update(ctx context.Context, emp *model.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceComponents(ctx context.Context, employeeID uuid.UUID, components []model.SalaryComponent) error
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, emp *model.Employee) error {
	return GetDB(ctx, r.db).Create(emp).Error
}

func (r *employeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var emp model.Employee
	if err := GetDB(ctx, r.db).First(&emp, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepository) FindByIDWithSalaryStructure(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var emp model.Employee
	if err := GetDB(ctx, r.db).
		Preload("Components").
		Preload("Loans", "is_active = ?", true).
		First(&emp, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeListFilter) ([]model.Employee, int64, error) {
	var employees []model.Employee
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Employee{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("full_name ILIKE ? OR staff_no ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Preload("Components").Preload("Loans").
		Order("full_name asc").Offset(offset).Limit(filter.Limit).Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *employeeRepository) ListActiveWithSalaryStructure(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	if err := GetDB(ctx, r.db).
		Preload("Components").
		Preload("Loans", "is_active = ?", true).
		Where("is_active = ?", true).
		Order("staff_no asc").
		Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *employeeRepository) Update(ctx context.Context, emp *model.Employee) error {
	return GetDB(ctx, r.db).Save(emp).Error
}

func (r *employeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Employee{}).Error
}

// ReplaceComponents swaps the employee's salary components for a new set in
// one shot (the UI edits the structure as a whole).
func (r *employeeRepository) ReplaceComponents(ctx context.Context, employeeID uuid.UUID, components []model.SalaryComponent) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("employee_id = ?", employeeID).Delete(&model.SalaryComponent{}).Error; err != nil {
		return err
	}
	if len(components) == 0 {
		return nil
	}
	return db.Create(&components).Error
}

func (r *employeeRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Employee{}).Unscoped().Where("staff_no LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
