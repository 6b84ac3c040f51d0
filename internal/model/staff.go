package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalaryComponentKind enum constants
const (
	ComponentAllowance = "ALLOWANCE"
	ComponentDeduction = "DEDUCTION"
	ComponentBonus     = "BONUS"
)

// Employee is a staff member with a salary structure used by payroll runs.
type Employee struct {
	ID            uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StaffNo       string            `gorm:"type:varchar(30);uniqueIndex;not null" json:"staff_no"`
	FullName      string            `gorm:"type:varchar(255);not null" json:"full_name"`
	Position      string            `gorm:"type:varchar(100)" json:"position"` // embalmer, driver, receptionist...
	Phone         string            `gorm:"type:varchar(50)" json:"phone"`
	Email         string            `gorm:"type:varchar(255)" json:"email"`
	HireDate      *time.Time        `gorm:"type:date" json:"hire_date"`
	BaseSalary    decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0" json:"base_salary"`
	OvertimeHours decimal.Decimal   `gorm:"type:decimal(10,2);not null;default:0" json:"overtime_hours"`
	OvertimeRate  decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0" json:"overtime_rate"`
	IsActive      bool              `gorm:"default:true;index" json:"is_active"`
	Components    []SalaryComponent `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"components"`
	Loans         []StaffLoan       `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"loans"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeletedAt     gorm.DeletedAt    `gorm:"index" json:"-"`
}

// SalaryComponent is a named recurring allowance, deduction, or bonus.
type SalaryComponent struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null;index" json:"employee_id"`
	Kind       string          `gorm:"type:varchar(20);not null" json:"kind"` // ALLOWANCE, DEDUCTION, BONUS
	Name       string          `gorm:"type:varchar(100);not null" json:"name"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
}

// StaffLoan is an employee loan repaid through a fixed monthly payroll
// deduction while active.
type StaffLoan struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"employee_id"`
	Name             string          `gorm:"type:varchar(100);not null" json:"name"`
	Principal        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"principal"`
	MonthlyDeduction decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"monthly_deduction"`
	IsActive         bool            `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
}

// PayrollRun groups the payslips generated by one bulk run for a period.
type PayrollRun struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Period        string     `gorm:"type:varchar(7);not null;index" json:"period"` // YYYY-MM
	EmployeeCount int        `gorm:"type:int;not null" json:"employee_count"`
	CreatedBy     *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Payslip persists one employee's computed pay for a period, including the
// component subtotals so the slip remains readable after the salary structure
// changes. Flagged marks a negative net pay for review instead of clamping it.
type Payslip struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee        *Employee       `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	PayrollRunID    *uuid.UUID      `gorm:"type:uuid;index" json:"payroll_run_id"`
	Period          string          `gorm:"type:varchar(7);not null;index" json:"period"` // YYYY-MM
	GrossPay        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"gross_pay"`
	NetPay          decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"net_pay"`
	TotalAllowances decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_allowances"`
	TotalDeductions decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_deductions"`
	TotalBonuses    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_bonuses"`
	OvertimePay     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"overtime_pay"`
	LoanDeductions  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"loan_deductions"`
	Flagged         bool            `gorm:"default:false" json:"flagged"` // net pay negative, needs review
	CreatedAt       time.Time       `json:"created_at"`
}
