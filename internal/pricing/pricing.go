package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ServiceType enum constants
const (
	ServiceTypeOneTime = "ONE_TIME"
	ServiceTypeDaily   = "DAILY"
)

const millisPerDay = 86_400_000

// RateCard carries the pricing fields of a catalog service. Daily services bill
// the base price for the first day and one daily-rate increment per extra day.
type RateCard struct {
	Type      string // ONE_TIME, DAILY
	BasePrice decimal.Decimal
	DailyRate decimal.Decimal
}

// Line is a computed invoice line amount with the number of days it charged for.
type Line struct {
	Amount      decimal.Decimal
	DaysCharged int // 0 for one-time services
}

// Totals aggregates invoice-level amounts. Subtotal, TaxAmount, and Total are
// always produced together so they cannot drift apart.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// StayDays returns the stay duration in whole days, rounding partial days up.
// A missing date, or a release before the receive date, counts as a same-day
// stay of zero days.
func StayDays(receive, release *time.Time) int {
	if receive == nil || release == nil {
		return 0
	}
	ms := release.Sub(*receive).Milliseconds()
	if ms <= 0 {
		return 0
	}
	return int((ms + millisPerDay - 1) / millisPerDay)
}

// LineAmount computes the amount for one invoice line.
// One-time services charge basePrice * quantity. Daily services charge
// (basePrice + dailyRate * max(0, stayDays-1)) * quantity; the first day is
// covered by the base price.
func LineAmount(card RateCard, quantity, stayDays int) (Line, error) {
	if quantity < 1 {
		return Line{}, fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}
	if stayDays < 0 {
		stayDays = 0
	}

	qty := decimal.NewFromInt(int64(quantity))

	if card.Type == ServiceTypeDaily {
		extraDays := stayDays - 1
		if extraDays < 0 {
			extraDays = 0
		}
		rate := card.BasePrice.Add(card.DailyRate.Mul(decimal.NewFromInt(int64(extraDays))))
		return Line{Amount: rate.Mul(qty), DaysCharged: stayDays}, nil
	}

	return Line{Amount: card.BasePrice.Mul(qty), DaysCharged: 0}, nil
}

// ComputeTotals aggregates line amounts into subtotal, tax, and total.
// taxRate is a fraction (0.1 = 10%), discount a flat currency amount.
// The total is not clamped at zero when the discount exceeds the subtotal;
// callers are expected to flag negative totals to the user.
func ComputeTotals(amounts []decimal.Decimal, taxRate, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, a := range amounts {
		subtotal = subtotal.Add(a)
	}
	taxAmount := subtotal.Mul(taxRate)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal.Add(taxAmount).Sub(discount),
	}
}
