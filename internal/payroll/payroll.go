// Package payroll holds the pure pay computation used for both single payslips
// and bulk payroll runs. It has no persistence or framework dependencies: each
// call reads only its input and allocates a fresh result, so bulk runs can
// compute employees in any order (or concurrently) with identical output.
package payroll

import "github.com/shopspring/decimal"

// Component is a named monetary line (allowance, deduction, or bonus).
type Component struct {
	Name   string
	Amount decimal.Decimal
}

// Loan is an active staff loan repaid via a fixed monthly deduction.
type Loan struct {
	Name             string
	MonthlyDeduction decimal.Decimal
}

// Input is everything needed to compute one employee's pay for a period.
type Input struct {
	BaseSalary    decimal.Decimal
	Allowances    []Component
	Deductions    []Component
	Bonuses       []Component
	OvertimeHours decimal.Decimal
	OvertimeRate  decimal.Decimal
	Loans         []Loan
}

// Result holds the computed pay and its component subtotals.
// NetPay may be negative when deductions exceed earnings; the caller decides
// how to surface that; it is never silently clamped here.
type Result struct {
	GrossPay        decimal.Decimal
	NetPay          decimal.Decimal
	TotalAllowances decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalBonuses    decimal.Decimal
	OvertimePay     decimal.Decimal
	LoanDeductions  decimal.Decimal
}

// Compute derives gross and net pay from an employee's salary structure:
//
//	gross = base + allowances + overtimeHours*overtimeRate + bonuses
//	net   = gross - (deductions + loan monthly deductions)
func Compute(in Input) Result {
	var r Result

	r.TotalAllowances = sumComponents(in.Allowances)
	r.TotalBonuses = sumComponents(in.Bonuses)
	r.OvertimePay = in.OvertimeHours.Mul(in.OvertimeRate)

	r.GrossPay = in.BaseSalary.
		Add(r.TotalAllowances).
		Add(r.OvertimePay).
		Add(r.TotalBonuses)

	for _, loan := range in.Loans {
		r.LoanDeductions = r.LoanDeductions.Add(loan.MonthlyDeduction)
	}
	r.TotalDeductions = sumComponents(in.Deductions).Add(r.LoanDeductions)

	r.NetPay = r.GrossPay.Sub(r.TotalDeductions)
	return r
}

func sumComponents(items []Component) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}
