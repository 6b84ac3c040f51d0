package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestStayDays(t *testing.T) {
	tests := []struct {
		name     string
		receive  *time.Time
		release  *time.Time
		expected int
	}{
		{"four full days", date("2023-12-10"), date("2023-12-14"), 4},
		{"same day", date("2023-12-10"), date("2023-12-10"), 0},
		{"release before receive clamps to zero", date("2023-12-14"), date("2023-12-10"), 0},
		{"missing receive date", nil, date("2023-12-14"), 0},
		{"missing release date", date("2023-12-10"), nil, 0},
		{"both dates missing", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StayDays(tt.receive, tt.release))
		})
	}
}

func TestStayDaysRoundsPartialDaysUp(t *testing.T) {
	receive := time.Date(2023, 12, 10, 22, 0, 0, 0, time.UTC)
	release := time.Date(2023, 12, 11, 4, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, StayDays(&receive, &release))

	release = time.Date(2023, 12, 12, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, StayDays(&receive, &release))
}

func TestLineAmount(t *testing.T) {
	oneTime := RateCard{Type: ServiceTypeOneTime, BasePrice: decimal.NewFromInt(300)}
	daily := RateCard{
		Type:      ServiceTypeDaily,
		BasePrice: decimal.NewFromInt(100),
		DailyRate: decimal.NewFromInt(50),
	}

	tests := []struct {
		name         string
		card         RateCard
		quantity     int
		stayDays     int
		expectedAmt  string
		expectedDays int
	}{
		{"one-time single", oneTime, 1, 4, "300", 0},
		{"one-time is linear in quantity", oneTime, 3, 4, "900", 0},
		{"daily four-day stay", daily, 1, 4, "250", 4}, // 100 + 50*3
		{"daily one-day stay bills base only", daily, 1, 1, "100", 1},
		{"daily zero days bills base only", daily, 1, 0, "100", 0},
		{"daily with quantity", daily, 2, 4, "500", 4},
		{"negative stay days treated as zero", daily, 1, -3, "100", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := LineAmount(tt.card, tt.quantity, tt.stayDays)
			require.NoError(t, err)
			assert.True(t, line.Amount.Equal(decimal.RequireFromString(tt.expectedAmt)),
				"amount = %s, want %s", line.Amount, tt.expectedAmt)
			assert.Equal(t, tt.expectedDays, line.DaysCharged)
		})
	}
}

func TestLineAmountRejectsNonPositiveQuantity(t *testing.T) {
	card := RateCard{Type: ServiceTypeOneTime, BasePrice: decimal.NewFromInt(100)}

	_, err := LineAmount(card, 0, 0)
	require.Error(t, err)

	_, err = LineAmount(card, -2, 0)
	require.Error(t, err)
}

func TestComputeTotals(t *testing.T) {
	amounts := []decimal.Decimal{
		decimal.NewFromInt(250),
		decimal.NewFromInt(300),
	}
	taxRate := decimal.RequireFromString("0.1")

	totals := ComputeTotals(amounts, taxRate, decimal.NewFromInt(50))

	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(550)))
	assert.True(t, totals.TaxAmount.Equal(decimal.NewFromInt(55)))
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(555)))

	// total == subtotal + tax - discount, exactly
	assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.TaxAmount).Sub(decimal.NewFromInt(50))))
}

func TestComputeTotalsEmptyInvoice(t *testing.T) {
	totals := ComputeTotals(nil, decimal.RequireFromString("0.1"), decimal.Zero)
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestComputeTotalsDiscountExceedingSubtotalGoesNegative(t *testing.T) {
	amounts := []decimal.Decimal{decimal.NewFromInt(100)}
	totals := ComputeTotals(amounts, decimal.Zero, decimal.NewFromInt(150))

	// Not clamped: the caller is responsible for flagging negative totals.
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(-50)))
}
