package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type SalaryComponentRequest struct {
	Kind   string `json:"kind" binding:"required,oneof=ALLOWANCE DEDUCTION BONUS"`
	Name   string `json:"name" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

type CreateEmployeeRequest struct {
	FullName     string                   `json:"full_name" binding:"required"`
	Position     string                   `json:"position"`
	Phone        string                   `json:"phone"`
	Email        string                   `json:"email" binding:"omitempty,email"`
	HireDate     string                   `json:"hire_date"` // YYYY-MM-DD
	BaseSalary   string                   `json:"base_salary" binding:"required"`
	OvertimeRate string                   `json:"overtime_rate"`
	Components   []SalaryComponentRequest `json:"components" binding:"omitempty,dive"`
}

type UpdateEmployeeRequest struct {
	FullName      *string `json:"full_name"`
	Position      *string `json:"position"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email" binding:"omitempty,email"`
	BaseSalary    *string `json:"base_salary"`
	OvertimeHours *string `json:"overtime_hours"`
	OvertimeRate  *string `json:"overtime_rate"`
	IsActive      *bool   `json:"is_active"`
}

type LoanRequest struct {
	Name             string `json:"name" binding:"required"`
	Principal        string `json:"principal" binding:"required"`
	MonthlyDeduction string `json:"monthly_deduction" binding:"required"`
}

type SalaryComponentResponse struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type LoanResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Principal        string `json:"principal"`
	MonthlyDeduction string `json:"monthly_deduction"`
	IsActive         bool   `json:"is_active"`
}

type EmployeeResponse struct {
	ID            string                    `json:"id"`
	StaffNo       string                    `json:"staff_no"`
	FullName      string                    `json:"full_name"`
	Position      string                    `json:"position"`
	Phone         string                    `json:"phone"`
	Email         string                    `json:"email"`
	HireDate      *string                   `json:"hire_date"`
	BaseSalary    string                    `json:"base_salary"`
	OvertimeHours string                    `json:"overtime_hours"`
	OvertimeRate  string                    `json:"overtime_rate"`
	IsActive      bool                      `json:"is_active"`
	Components    []SalaryComponentResponse `json:"components"`
	Loans         []LoanResponse            `json:"loans"`
}

type EmployeeFilter struct {
	ActiveOnly bool
	Search     string
	Page       int
	Limit      int
}

// --- Interface ---

type StaffService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, int64, error)
	UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	DeleteEmployee(ctx context.Context, id string) error
	SetSalaryComponents(ctx context.Context, id string, reqs []SalaryComponentRequest) (EmployeeResponse, error)
	AddLoan(ctx context.Context, id string, req LoanRequest) (EmployeeResponse, error)
	CloseLoan(ctx context.Context, id, loanID string) (EmployeeResponse, error)
}

type staffService struct {
	employeeRepo repository.EmployeeRepository
	txManager    repository.TransactionManager
}

func NewStaffService(employeeRepo repository.EmployeeRepository, txManager repository.TransactionManager) StaffService {
	return &staffService{employeeRepo: employeeRepo, txManager: txManager}
}

// --- Implementation ---

func (s *staffService) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	baseSalary, err := decimal.NewFromString(req.BaseSalary)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("invalid base_salary: %w", err)
	}
	if baseSalary.IsNegative() {
		return EmployeeResponse{}, fmt.Errorf("base_salary must not be negative")
	}

	overtimeRate := decimal.Zero
	if req.OvertimeRate != "" {
		overtimeRate, err = decimal.NewFromString(req.OvertimeRate)
		if err != nil {
			return EmployeeResponse{}, fmt.Errorf("invalid overtime_rate: %w", err)
		}
	}

	var hireDate *time.Time
	if req.HireDate != "" {
		parsed, err := time.Parse("2006-01-02", req.HireDate)
		if err != nil {
			return EmployeeResponse{}, fmt.Errorf("invalid hire_date: %w", err)
		}
		hireDate = &parsed
	}

	components, err := parseComponents(req.Components)
	if err != nil {
		return EmployeeResponse{}, err
	}

	emp := model.Employee{
		FullName:     req.FullName,
		Position:     req.Position,
		Phone:        req.Phone,
		Email:        req.Email,
		HireDate:     hireDate,
		BaseSalary:   baseSalary,
		OvertimeRate: overtimeRate,
		IsActive:     true,
		Components:   components,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		staffNo, err := s.generateStaffNo(txCtx)
		if err != nil {
			return fmt.Errorf("failed to generate staff number: %w", err)
		}
		emp.StaffNo = staffNo
		if err := s.employeeRepo.Create(txCtx, &emp); err != nil {
			return fmt.Errorf("failed to create employee: %w", err)
		}
		return nil
	})
	if err != nil {
		return EmployeeResponse{}, err
	}

	return s.reload(ctx, emp.ID)
}

func (s *staffService) GetEmployee(ctx context.Context, id string) (EmployeeResponse, error) {
	empID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("invalid employee id: %w", err)
	}
	return s.reload(ctx, empID)
}

func (s *staffService) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	employees, total, err := s.employeeRepo.List(ctx, repository.EmployeeListFilter{
		ActiveOnly: filter.ActiveOnly,
		Search:     filter.Search,
		Page:       filter.Page,
		Limit:      filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch employees: %w", err)
	}

	result := make([]EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		result = append(result, toEmployeeResponse(emp))
	}
	return result, total, nil
}

func (s *staffService) UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	empID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("invalid employee id: %w", err)
	}

	emp, err := s.employeeRepo.FindByID(ctx, empID)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("employee not found: %w", err)
	}

	if req.FullName != nil {
		emp.FullName = *req.FullName
	}
	if req.Position != nil {
		emp.Position = *req.Position
	}
	if req.Phone != nil {
		emp.Phone = *req.Phone
	}
	if req.Email != nil {
		emp.Email = *req.Email
	}
	if req.BaseSalary != nil {
		baseSalary, err := decimal.NewFromString(*req.BaseSalary)
		if err != nil {
			return EmployeeResponse{}, fmt.Errorf("invalid base_salary: %w", err)
		}
		emp.BaseSalary = baseSalary
	}
	if req.OvertimeHours != nil {
		hours, err := decimal.NewFromString(*req.OvertimeHours)
		if err != nil {
			return EmployeeResponse{}, fmt.Errorf("invalid overtime_hours: %w", err)
		}
		emp.OvertimeHours = hours
	}
	if req.OvertimeRate != nil {
		rate, err := decimal.NewFromString(*req.OvertimeRate)
		if err != nil {
			return EmployeeResponse{}, fmt.Errorf("invalid overtime_rate: %w", err)
		}
		emp.OvertimeRate = rate
	}
	if req.IsActive != nil {
		emp.IsActive = *req.IsActive
	}

	if err := s.employeeRepo.Update(ctx, emp); err != nil {
		return EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	return s.reload(ctx, empID)
}

func (s *staffService) DeleteEmployee(ctx context.Context, id string) error {
	empID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid employee id: %w", err)
	}
	return s.employeeRepo.Delete(ctx, empID)
}

func (s *staffService) SetSalaryComponents(ctx context.Context, id string, reqs []SalaryComponentRequest) (EmployeeResponse, error) {
	empID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("invalid employee id: %w", err)
	}

	components, err := parseComponents(reqs)
	if err != nil {
		return EmployeeResponse{}, err
	}
	for i := range components {
		components[i].EmployeeID = empID
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.employeeRepo.FindByID(txCtx, empID); err != nil {
			return fmt.Errorf("employee not found: %w", err)
		}
		return s.employeeRepo.ReplaceComponents(txCtx, empID, components)
	})
	if err != nil {
		return EmployeeResponse{}, err
	}

	return s.reload(ctx, empID)
}

func (s *staffService) AddLoan(ctx context.Context, id string, req LoanRequest) (EmployeeResponse, error) {
	empID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("invalid employee id: %w", err)
	}

	principal, err := decimal.NewFromString(req.Principal)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("invalid principal: %w", err)
	}
	monthly, err := decimal.NewFromString(req.MonthlyDeduction)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("invalid monthly_deduction: %w", err)
	}
	if principal.IsNegative() || monthly.IsNegative() {
		return EmployeeResponse{}, fmt.Errorf("loan amounts must not be negative")
	}

	emp, err := s.employeeRepo.FindByID(ctx, empID)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("employee not found: %w", err)
	}

	emp.Loans = append(emp.Loans, model.StaffLoan{
		EmployeeID:       empID,
		Name:             req.Name,
		Principal:        principal,
		MonthlyDeduction: monthly,
		IsActive:         true,
	})
	if err := s.employeeRepo.Update(ctx, emp); err != nil {
		return EmployeeResponse{}, fmt.Errorf("failed to add loan: %w", err)
	}

	return s.reload(ctx, empID)
}

func (s *staffService) CloseLoan(ctx context.Context, id, loanID string) (EmployeeResponse, error) {
	empID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("invalid employee id: %w", err)
	}
	parsedLoanID, err := uuid.Parse(loanID)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("invalid loan id: %w", err)
	}

	emp, err := s.employeeRepo.FindByIDWithSalaryStructure(ctx, empID)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("employee not found: %w", err)
	}

	found := false
	for i := range emp.Loans {
		if emp.Loans[i].ID == parsedLoanID {
			emp.Loans[i].IsActive = false
			found = true
			break
		}
	}
	if !found {
		return EmployeeResponse{}, fmt.Errorf("loan not found on employee")
	}

	if err := s.employeeRepo.Update(ctx, emp); err != nil {
		return EmployeeResponse{}, fmt.Errorf("failed to close loan: %w", err)
	}

	return s.reload(ctx, empID)
}

// --- Helpers ---

func (s *staffService) generateStaffNo(ctx context.Context) (string, error) {
	count, err := s.employeeRepo.CountByPrefix(ctx, "EMP-")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("EMP-%05d", count+1), nil
}

func (s *staffService) reload(ctx context.Context, id uuid.UUID) (EmployeeResponse, error) {
	emp, err := s.employeeRepo.FindByIDWithSalaryStructure(ctx, id)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("failed to reload employee: %w", err)
	}
	return toEmployeeResponse(*emp), nil
}

func parseComponents(reqs []SalaryComponentRequest) ([]model.SalaryComponent, error) {
	components := make([]model.SalaryComponent, 0, len(reqs))
	for _, req := range reqs {
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount for %s: %w", req.Name, err)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("amount for %s must not be negative", req.Name)
		}
		components = append(components, model.SalaryComponent{
			Kind:   req.Kind,
			Name:   req.Name,
			Amount: amount,
		})
	}
	return components, nil
}

// --- Mapping ---

func toEmployeeResponse(emp model.Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:            emp.ID.String(),
		StaffNo:       emp.StaffNo,
		FullName:      emp.FullName,
		Position:      emp.Position,
		Phone:         emp.Phone,
		Email:         emp.Email,
		BaseSalary:    emp.BaseSalary.StringFixed(4),
		OvertimeHours: emp.OvertimeHours.StringFixed(2),
		OvertimeRate:  emp.OvertimeRate.StringFixed(4),
		IsActive:      emp.IsActive,
	}

	if emp.HireDate != nil {
		d := emp.HireDate.Format("2006-01-02")
		resp.HireDate = &d
	}

	resp.Components = make([]SalaryComponentResponse, 0, len(emp.Components))
	for _, comp := range emp.Components {
		resp.Components = append(resp.Components, SalaryComponentResponse{
			ID:     comp.ID.String(),
			Kind:   comp.Kind,
			Name:   comp.Name,
			Amount: comp.Amount.StringFixed(4),
		})
	}

	resp.Loans = make([]LoanResponse, 0, len(emp.Loans))
	for _, loan := range emp.Loans {
		resp.Loans = append(resp.Loans, LoanResponse{
			ID:               loan.ID.String(),
			Name:             loan.Name,
			Principal:        loan.Principal.StringFixed(4),
			MonthlyDeduction: loan.MonthlyDeduction.StringFixed(4),
			IsActive:         loan.IsActive,
		})
	}

	return resp
}
