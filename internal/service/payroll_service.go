package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"backend/internal/model"
	"backend/internal/payroll"
	"backend/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type GeneratePayslipRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Period     string `json:"period" binding:"required"` // YYYY-MM
}

type RunPayrollRequest struct {
	Period string `json:"period" binding:"required"` // YYYY-MM
}

type PayslipResponse struct {
	ID              string `json:"id"`
	EmployeeID      string `json:"employee_id"`
	EmployeeName    string `json:"employee_name,omitempty"`
	StaffNo         string `json:"staff_no,omitempty"`
	Period          string `json:"period"`
	GrossPay        string `json:"gross_pay"`
	NetPay          string `json:"net_pay"`
	TotalAllowances string `json:"total_allowances"`
	TotalDeductions string `json:"total_deductions"`
	TotalBonuses    string `json:"total_bonuses"`
	OvertimePay     string `json:"overtime_pay"`
	LoanDeductions  string `json:"loan_deductions"`
	Flagged         bool   `json:"flagged"`
	CreatedAt       string `json:"created_at"`
}

type PayrollRunResponse struct {
	ID            string            `json:"id"`
	Period        string            `json:"period"`
	EmployeeCount int               `json:"employee_count"`
	Skipped       []string          `json:"skipped,omitempty"` // staff numbers already paid for the period
	Payslips      []PayslipResponse `json:"payslips"`
}

type PayslipFilter struct {
	EmployeeID string
	Period     string
	Page       int
	Limit      int
}

// --- Interface ---

type PayrollService interface {
	GeneratePayslip(ctx context.Context, userID string, req GeneratePayslipRequest) (PayslipResponse, error)
	RunPayroll(ctx context.Context, userID string, req RunPayrollRequest) (PayrollRunResponse, error)
	GetPayslip(ctx context.Context, id string) (PayslipResponse, error)
	ListPayslips(ctx context.Context, filter PayslipFilter) ([]PayslipResponse, int64, error)
}

type payrollService struct {
	payslipRepo  repository.PayslipRepository
	employeeRepo repository.EmployeeRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewPayrollService(
	payslipRepo repository.PayslipRepository,
	employeeRepo repository.EmployeeRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) PayrollService {
	return &payrollService{
		payslipRepo:  payslipRepo,
		employeeRepo: employeeRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

// --- Implementation ---

func (s *payrollService) GeneratePayslip(ctx context.Context, userID string, req GeneratePayslipRequest) (PayslipResponse, error) {
	if err := validatePeriod(req.Period); err != nil {
		return PayslipResponse{}, err
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return PayslipResponse{}, fmt.Errorf("invalid employee_id: %w", err)
	}

	var slip model.Payslip
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		exists, err := s.payslipRepo.ExistsForPeriod(txCtx, employeeID, req.Period)
		if err != nil {
			return fmt.Errorf("failed to check existing payslips: %w", err)
		}
		if exists {
			return fmt.Errorf("payslip already exists for employee in period %s", req.Period)
		}

		emp, err := s.employeeRepo.FindByIDWithSalaryStructure(txCtx, employeeID)
		if err != nil {
			return fmt.Errorf("employee not found: %w", err)
		}
		if !emp.IsActive {
			return fmt.Errorf("employee %s is not active", emp.StaffNo)
		}

		slip = buildPayslip(*emp, req.Period, nil)
		if err := s.payslipRepo.Create(txCtx, &slip); err != nil {
			return fmt.Errorf("failed to create payslip: %w", err)
		}

		s.logAudit(txCtx, userID, model.ActionGeneratePayslip, slip.ID.String(), emp.StaffNo,
			map[string]string{"period": req.Period, "net_pay": slip.NetPay.StringFixed(4)})
		return nil
	})
	if err != nil {
		return PayslipResponse{}, err
	}

	if slip.Flagged {
		log.Printf("payslip %s flagged: negative net pay %s", slip.ID, slip.NetPay.StringFixed(4))
	}

	return s.reloadPayslip(ctx, slip.ID)
}

// RunPayroll generates payslips for every active employee in one transaction.
// Employees who already have a slip for the period are skipped, not failed, so
// a partial rerun after adding staff mid-month behaves predictably.
func (s *payrollService) RunPayroll(ctx context.Context, userID string, req RunPayrollRequest) (PayrollRunResponse, error) {
	if err := validatePeriod(req.Period); err != nil {
		return PayrollRunResponse{}, err
	}

	var run model.PayrollRun
	var slips []model.Payslip
	var skipped []string

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		employees, err := s.employeeRepo.ListActiveWithSalaryStructure(txCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch employees: %w", err)
		}
		if len(employees) == 0 {
			return fmt.Errorf("no active employees to pay")
		}

		run = model.PayrollRun{Period: req.Period}
		if uid, err := uuid.Parse(userID); err == nil {
			run.CreatedBy = &uid
		}

		if err := s.payslipRepo.CreateRun(txCtx, &run); err != nil {
			return fmt.Errorf("failed to create payroll run: %w", err)
		}

		slips = slips[:0]
		skipped = skipped[:0]
		for _, emp := range employees {
			exists, err := s.payslipRepo.ExistsForPeriod(txCtx, emp.ID, req.Period)
			if err != nil {
				return fmt.Errorf("failed to check existing payslips: %w", err)
			}
			if exists {
				skipped = append(skipped, emp.StaffNo)
				continue
			}
			slips = append(slips, buildPayslip(emp, req.Period, &run.ID))
		}

		if len(slips) == 0 {
			return fmt.Errorf("all active employees already have payslips for period %s", req.Period)
		}

		if err := s.payslipRepo.CreateBatch(txCtx, slips); err != nil {
			return fmt.Errorf("failed to create payslips: %w", err)
		}

		run.EmployeeCount = len(slips)
		s.logAudit(txCtx, userID, model.ActionRunPayroll, run.ID.String(), req.Period,
			map[string]interface{}{"period": req.Period, "employee_count": len(slips), "skipped": skipped})
		return nil
	})
	if err != nil {
		return PayrollRunResponse{}, err
	}

	resp := PayrollRunResponse{
		ID:            run.ID.String(),
		Period:        run.Period,
		EmployeeCount: len(slips),
		Skipped:       skipped,
		Payslips:      make([]PayslipResponse, 0, len(slips)),
	}
	for _, slip := range slips {
		if slip.Flagged {
			log.Printf("payslip %s flagged: negative net pay %s", slip.ID, slip.NetPay.StringFixed(4))
		}
		resp.Payslips = append(resp.Payslips, toPayslipResponse(slip))
	}
	return resp, nil
}

func (s *payrollService) GetPayslip(ctx context.Context, id string) (PayslipResponse, error) {
	slipID, err := uuid.Parse(id)
	if err != nil {
		return PayslipResponse{}, fmt.Errorf("invalid payslip id: %w", err)
	}
	return s.reloadPayslip(ctx, slipID)
}

func (s *payrollService) ListPayslips(ctx context.Context, filter PayslipFilter) ([]PayslipResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	slips, total, err := s.payslipRepo.List(ctx, repository.PayslipListFilter{
		EmployeeID: filter.EmployeeID,
		Period:     filter.Period,
		Page:       filter.Page,
		Limit:      filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payslips: %w", err)
	}

	result := make([]PayslipResponse, 0, len(slips))
	for _, slip := range slips {
		result = append(result, toPayslipResponse(slip))
	}
	return result, total, nil
}

// --- Helpers ---

// buildPayslip maps an employee's salary structure into the pay computation
// and persists the subtotals alongside the result.
func buildPayslip(emp model.Employee, period string, runID *uuid.UUID) model.Payslip {
	in := payroll.Input{
		BaseSalary:    emp.BaseSalary,
		OvertimeHours: emp.OvertimeHours,
		OvertimeRate:  emp.OvertimeRate,
	}
	for _, comp := range emp.Components {
		item := payroll.Component{Name: comp.Name, Amount: comp.Amount}
		switch comp.Kind {
		case model.ComponentAllowance:
			in.Allowances = append(in.Allowances, item)
		case model.ComponentDeduction:
			in.Deductions = append(in.Deductions, item)
		case model.ComponentBonus:
			in.Bonuses = append(in.Bonuses, item)
		}
	}
	for _, loan := range emp.Loans {
		if !loan.IsActive {
			continue
		}
		in.Loans = append(in.Loans, payroll.Loan{Name: loan.Name, MonthlyDeduction: loan.MonthlyDeduction})
	}

	result := payroll.Compute(in)

	return model.Payslip{
		EmployeeID:      emp.ID,
		PayrollRunID:    runID,
		Period:          period,
		GrossPay:        result.GrossPay,
		NetPay:          result.NetPay,
		TotalAllowances: result.TotalAllowances,
		TotalDeductions: result.TotalDeductions,
		TotalBonuses:    result.TotalBonuses,
		OvertimePay:     result.OvertimePay,
		LoanDeductions:  result.LoanDeductions,
		Flagged:         result.NetPay.IsNegative(),
	}
}

func validatePeriod(period string) error {
	if _, err := time.Parse("2006-01", period); err != nil {
		return fmt.Errorf("invalid period, expected YYYY-MM: %w", err)
	}
	return nil
}

func (s *payrollService) reloadPayslip(ctx context.Context, id uuid.UUID) (PayslipResponse, error) {
	slip, err := s.payslipRepo.FindByID(ctx, id)
	if err != nil {
		return PayslipResponse{}, fmt.Errorf("payslip not found: %w", err)
	}
	return toPayslipResponse(*slip), nil
}

func (s *payrollService) logAudit(ctx context.Context, userID, action, entityID, entityName string, payload interface{}) {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}
	details, _ := json.Marshal(payload)
	_ = s.auditRepo.Log(ctx, &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(details),
	})
}

// --- Mapping ---

func toPayslipResponse(slip model.Payslip) PayslipResponse {
	resp := PayslipResponse{
		ID:              slip.ID.String(),
		EmployeeID:      slip.EmployeeID.String(),
		Period:          slip.Period,
		GrossPay:        slip.GrossPay.StringFixed(4),
		NetPay:          slip.NetPay.StringFixed(4),
		TotalAllowances: slip.TotalAllowances.StringFixed(4),
		TotalDeductions: slip.TotalDeductions.StringFixed(4),
		TotalBonuses:    slip.TotalBonuses.StringFixed(4),
		OvertimePay:     slip.OvertimePay.StringFixed(4),
		LoanDeductions:  slip.LoanDeductions.StringFixed(4),
		Flagged:         slip.Flagged,
		CreatedAt:       slip.CreatedAt.Format(time.RFC3339),
	}
	if slip.Employee != nil {
		resp.EmployeeName = slip.Employee.FullName
		resp.StaffNo = slip.Employee.StaffNo
	}
	return resp
}
