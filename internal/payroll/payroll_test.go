package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestCompute(t *testing.T) {
	in := Input{
		BaseSalary: d(5000),
		Allowances: []Component{
			{Name: "housing", Amount: d(500)},
			{Name: "transport", Amount: d(300)},
		},
		Deductions: []Component{
			{Name: "pension", Amount: d(450)},
			{Name: "health", Amount: d(200)},
		},
		OvertimeHours: d(10),
		OvertimeRate:  d(25),
	}

	r := Compute(in)

	assert.True(t, r.TotalAllowances.Equal(d(800)))
	assert.True(t, r.OvertimePay.Equal(d(250)))
	assert.True(t, r.GrossPay.Equal(d(6050)))
	assert.True(t, r.TotalDeductions.Equal(d(650)))
	assert.True(t, r.NetPay.Equal(d(5400)))
}

func TestComputeWithBonusesAndLoans(t *testing.T) {
	in := Input{
		BaseSalary: d(4000),
		Bonuses: []Component{
			{Name: "performance", Amount: d(600)},
		},
		Deductions: []Component{
			{Name: "tax", Amount: d(300)},
		},
		Loans: []Loan{
			{Name: "staff advance", MonthlyDeduction: d(250)},
			{Name: "vehicle loan", MonthlyDeduction: d(150)},
		},
	}

	r := Compute(in)

	assert.True(t, r.TotalBonuses.Equal(d(600)))
	assert.True(t, r.LoanDeductions.Equal(d(400)))
	assert.True(t, r.GrossPay.Equal(d(4600)))
	assert.True(t, r.TotalDeductions.Equal(d(700)))
	assert.True(t, r.NetPay.Equal(d(3900)))
}

func TestComputeEmptyOptionalFields(t *testing.T) {
	r := Compute(Input{BaseSalary: d(3000)})

	assert.True(t, r.GrossPay.Equal(d(3000)))
	assert.True(t, r.NetPay.Equal(d(3000)))
	assert.True(t, r.OvertimePay.IsZero())
	assert.True(t, r.TotalBonuses.IsZero())
	assert.True(t, r.LoanDeductions.IsZero())
}

func TestComputeNetMayGoNegative(t *testing.T) {
	in := Input{
		BaseSalary: d(1000),
		Deductions: []Component{{Name: "garnishment", Amount: d(1500)}},
	}

	r := Compute(in)

	// Never clamped; the caller flags it.
	assert.True(t, r.NetPay.Equal(d(-500)))
}

func TestComputeIdentities(t *testing.T) {
	in := Input{
		BaseSalary:    d(3200),
		Allowances:    []Component{{Name: "meal", Amount: d(120)}},
		Deductions:    []Component{{Name: "pension", Amount: d(260)}},
		Bonuses:       []Component{{Name: "holiday", Amount: d(90)}},
		OvertimeHours: d(6),
		OvertimeRate:  d(15),
		Loans:         []Loan{{Name: "advance", MonthlyDeduction: d(100)}},
	}

	r := Compute(in)

	gross := in.BaseSalary.Add(r.TotalAllowances).Add(r.OvertimePay).Add(r.TotalBonuses)
	assert.True(t, r.GrossPay.Equal(gross))
	assert.True(t, r.NetPay.Equal(r.GrossPay.Sub(r.TotalDeductions)))
}

func TestComputeIsIndependentPerEmployee(t *testing.T) {
	inputs := []Input{
		{BaseSalary: d(1000), Allowances: []Component{{Name: "a", Amount: d(100)}}},
		{BaseSalary: d(2000), Deductions: []Component{{Name: "b", Amount: d(200)}}},
		{BaseSalary: d(3000), Bonuses: []Component{{Name: "c", Amount: d(300)}}},
	}

	forward := make([]Result, len(inputs))
	for i, in := range inputs {
		forward[i] = Compute(in)
	}

	// Reverse iteration order must produce identical results: no shared state.
	for i := len(inputs) - 1; i >= 0; i-- {
		r := Compute(inputs[i])
		assert.True(t, r.NetPay.Equal(forward[i].NetPay))
		assert.True(t, r.GrossPay.Equal(forward[i].GrossPay))
	}
}
