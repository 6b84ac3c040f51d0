package service

import (
	"context"
	"testing"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPayrollServiceForTest(payslipRepo *mockPayslipRepo, employeeRepo *mockEmployeeRepo, auditRepo *mockAuditRepo) PayrollService {
	return NewPayrollService(payslipRepo, employeeRepo, auditRepo, &mockTxManager{})
}

func testEmployee(id uuid.UUID, staffNo string) model.Employee {
	return model.Employee{
		ID:            id,
		StaffNo:       staffNo,
		FullName:      "Test Employee",
		BaseSalary:    decimal.RequireFromString("3000"),
		OvertimeHours: decimal.RequireFromString("10"),
		OvertimeRate:  decimal.RequireFromString("25"),
		IsActive:      true,
		Components: []model.SalaryComponent{
			{Kind: model.ComponentAllowance, Name: "housing", Amount: decimal.RequireFromString("400")},
			{Kind: model.ComponentDeduction, Name: "insurance", Amount: decimal.RequireFromString("150")},
			{Kind: model.ComponentBonus, Name: "hazard", Amount: decimal.RequireFromString("100")},
		},
		Loans: []model.StaffLoan{
			{Name: "advance", MonthlyDeduction: decimal.RequireFromString("200"), IsActive: true},
			{Name: "settled", MonthlyDeduction: decimal.RequireFromString("999"), IsActive: false},
		},
	}
}

func TestGeneratePayslip_ComputesFromSalaryStructure(t *testing.T) {
	payslipRepo := &mockPayslipRepo{}
	employeeRepo := &mockEmployeeRepo{}
	auditRepo := &mockAuditRepo{}
	service := newPayrollServiceForTest(payslipRepo, employeeRepo, auditRepo)

	employeeID := uuid.New()
	emp := testEmployee(employeeID, "EMP-00001")

	payslipRepo.On("ExistsForPeriod", mock.Anything, employeeID, "2025-03").Return(false, nil)
	employeeRepo.On("FindByIDWithSalaryStructure", mock.Anything, employeeID).Return(&emp, nil)
	auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil)

	var created *model.Payslip
	payslipRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*model.Payslip)
		created.ID = uuid.New()
	}).Return(nil)
	payslipRepo.On("FindByID", mock.Anything, mock.Anything).Return(&model.Payslip{
		EmployeeID: employeeID,
		Period:     "2025-03",
	}, nil)

	_, err := service.GeneratePayslip(context.Background(), uuid.New().String(), GeneratePayslipRequest{
		EmployeeID: employeeID.String(),
		Period:     "2025-03",
	})

	require.NoError(t, err)
	require.NotNil(t, created)

	// gross = 3000 base + 400 allowance + 250 overtime + 100 bonus = 3750
	// net   = 3750 - 150 insurance - 200 active loan = 3400 (closed loan ignored)
	assert.True(t, created.GrossPay.Equal(decimal.RequireFromString("3750")), "gross %s", created.GrossPay)
	assert.True(t, created.NetPay.Equal(decimal.RequireFromString("3400")), "net %s", created.NetPay)
	assert.True(t, created.LoanDeductions.Equal(decimal.RequireFromString("200")))
	assert.False(t, created.Flagged)
	assert.Equal(t, "2025-03", created.Period)
}

func TestGeneratePayslip_FlagsNegativeNetPay(t *testing.T) {
	payslipRepo := &mockPayslipRepo{}
	employeeRepo := &mockEmployeeRepo{}
	auditRepo := &mockAuditRepo{}
	service := newPayrollServiceForTest(payslipRepo, employeeRepo, auditRepo)

	employeeID := uuid.New()
	emp := model.Employee{
		ID:         employeeID,
		StaffNo:    "EMP-00002",
		BaseSalary: decimal.RequireFromString("500"),
		IsActive:   true,
		Loans: []model.StaffLoan{
			{Name: "big advance", MonthlyDeduction: decimal.RequireFromString("800"), IsActive: true},
		},
	}

	payslipRepo.On("ExistsForPeriod", mock.Anything, employeeID, "2025-03").Return(false, nil)
	employeeRepo.On("FindByIDWithSalaryStructure", mock.Anything, employeeID).Return(&emp, nil)
	auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil)

	var created *model.Payslip
	payslipRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*model.Payslip)
		created.ID = uuid.New()
	}).Return(nil)
	payslipRepo.On("FindByID", mock.Anything, mock.Anything).Return(&model.Payslip{EmployeeID: employeeID}, nil)

	_, err := service.GeneratePayslip(context.Background(), uuid.New().String(), GeneratePayslipRequest{
		EmployeeID: employeeID.String(),
		Period:     "2025-03",
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.True(t, created.NetPay.Equal(decimal.RequireFromString("-300")), "net %s", created.NetPay)
	assert.True(t, created.Flagged, "negative net pay should be flagged, not clamped")
}

func TestGeneratePayslip_RejectsDuplicatePeriod(t *testing.T) {
	payslipRepo := &mockPayslipRepo{}
	employeeRepo := &mockEmployeeRepo{}
	service := newPayrollServiceForTest(payslipRepo, employeeRepo, &mockAuditRepo{})

	employeeID := uuid.New()
	payslipRepo.On("ExistsForPeriod", mock.Anything, employeeID, "2025-03").Return(true, nil)

	_, err := service.GeneratePayslip(context.Background(), uuid.New().String(), GeneratePayslipRequest{
		EmployeeID: employeeID.String(),
		Period:     "2025-03",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	payslipRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGeneratePayslip_RejectsBadPeriod(t *testing.T) {
	service := newPayrollServiceForTest(&mockPayslipRepo{}, &mockEmployeeRepo{}, &mockAuditRepo{})

	_, err := service.GeneratePayslip(context.Background(), uuid.New().String(), GeneratePayslipRequest{
		EmployeeID: uuid.New().String(),
		Period:     "March 2025",
	})

	require.Error(t, err)
}

func TestRunPayroll_SkipsEmployeesAlreadyPaid(t *testing.T) {
	payslipRepo := &mockPayslipRepo{}
	employeeRepo := &mockEmployeeRepo{}
	auditRepo := &mockAuditRepo{}
	service := newPayrollServiceForTest(payslipRepo, employeeRepo, auditRepo)

	paidID := uuid.New()
	unpaidID := uuid.New()
	paid := testEmployee(paidID, "EMP-00010")
	unpaid := testEmployee(unpaidID, "EMP-00011")

	employeeRepo.On("ListActiveWithSalaryStructure", mock.Anything).Return([]model.Employee{paid, unpaid}, nil)
	payslipRepo.On("CreateRun", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*model.PayrollRun).ID = uuid.New()
	}).Return(nil)
	payslipRepo.On("ExistsForPeriod", mock.Anything, paidID, "2025-03").Return(true, nil)
	payslipRepo.On("ExistsForPeriod", mock.Anything, unpaidID, "2025-03").Return(false, nil)
	payslipRepo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(slips []model.Payslip) bool {
		return len(slips) == 1 && slips[0].EmployeeID == unpaidID
	})).Return(nil)
	auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil)

	run, err := service.RunPayroll(context.Background(), uuid.New().String(), RunPayrollRequest{Period: "2025-03"})

	require.NoError(t, err)
	assert.Equal(t, 1, run.EmployeeCount)
	assert.Equal(t, []string{"EMP-00010"}, run.Skipped)
	require.Len(t, run.Payslips, 1)
	payslipRepo.AssertExpectations(t)
}

func TestRunPayroll_FailsWhenNothingToPay(t *testing.T) {
	payslipRepo := &mockPayslipRepo{}
	employeeRepo := &mockEmployeeRepo{}
	service := newPayrollServiceForTest(payslipRepo, employeeRepo, &mockAuditRepo{})

	empID := uuid.New()
	emp := testEmployee(empID, "EMP-00020")

	employeeRepo.On("ListActiveWithSalaryStructure", mock.Anything).Return([]model.Employee{emp}, nil)
	payslipRepo.On("CreateRun", mock.Anything, mock.Anything).Return(nil)
	payslipRepo.On("ExistsForPeriod", mock.Anything, empID, "2025-03").Return(true, nil)

	_, err := service.RunPayroll(context.Background(), uuid.New().String(), RunPayrollRequest{Period: "2025-03"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already have payslips")
	payslipRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}
