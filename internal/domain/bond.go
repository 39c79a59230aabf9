package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BondState represents the single bond configuration record in the domain layer
// It is a value type: consumers replace it wholesale, derived fields are never stored
type BondState struct {
	TotalAmount      decimal.Decimal // Total monetary liability of the bond
	TotalServiceDays int             // Length of the service obligation in days
	StartDate        time.Time       // Day the service started (may be in the future)
}

// DerivedFields holds every value computed from a BondState at a point in time
type DerivedFields struct {
	DaysServed           int
	DaysRemaining        int
	CompletionPercentage decimal.Decimal // 0..100
	DailyCost            decimal.Decimal
	RemainingAmount      decimal.Decimal
	IsConfigured         bool
}

// NewBondState creates a BondState from its three raw inputs
func NewBondState(totalAmount decimal.Decimal, totalServiceDays int, startDate time.Time) BondState {
	return BondState{
		TotalAmount:      totalAmount,
		TotalServiceDays: totalServiceDays,
		StartDate:        startDate,
	}
}

// Derive computes all derived fields against the given wall-clock time.
// It never fails: zero days, zero amount and future start dates are clamped.
func (b BondState) Derive(now time.Time) DerivedFields {
	return DerivedFields{
		DaysServed:           b.DaysServed(now),
		DaysRemaining:        b.DaysRemaining(now),
		CompletionPercentage: b.CompletionPercentage(now),
		DailyCost:            b.DailyCost(),
		RemainingAmount:      b.RemainingAmount(now),
		IsConfigured:         b.IsConfigured(),
	}
}

// DaysServed returns the whole calendar days elapsed since StartDate.
// A future start date yields 0; the value is not capped by TotalServiceDays.
func (b BondState) DaysServed(now time.Time) int {
	return max(0, CalendarDaysBetween(b.StartDate, now))
}

// DaysRemaining returns how many service days are left, never negative
func (b BondState) DaysRemaining(now time.Time) int {
	return max(0, b.TotalServiceDays-b.DaysServed(now))
}

// CompletionPercentage returns progress in the range [0, 100]
func (b BondState) CompletionPercentage(now time.Time) decimal.Decimal {
	if b.TotalServiceDays <= 0 {
		return decimal.Zero
	}

	percentage := decimal.NewFromInt(int64(b.DaysServed(now))).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(b.TotalServiceDays)))

	return decimal.Min(hundred, decimal.Max(decimal.Zero, percentage))
}

// DailyCost returns the bond liability released per served day
func (b BondState) DailyCost() decimal.Decimal {
	if b.TotalServiceDays <= 0 {
		return decimal.Zero
	}
	return b.TotalAmount.Div(decimal.NewFromInt(int64(b.TotalServiceDays)))
}

// RemainingAmount returns the outstanding liability, pro rata to days remaining.
// Without a service length the whole amount is outstanding.
func (b BondState) RemainingAmount(now time.Time) decimal.Decimal {
	if b.TotalServiceDays <= 0 {
		return decimal.Max(decimal.Zero, b.TotalAmount)
	}

	remaining := b.TotalAmount.
		Mul(decimal.NewFromInt(int64(b.DaysRemaining(now)))).
		Div(decimal.NewFromInt(int64(b.TotalServiceDays)))

	return decimal.Max(decimal.Zero, remaining)
}

// IsConfigured reports whether both the amount and the service length are positive.
// Unconfigured state routes consumers to setup instead of tracking.
func (b BondState) IsConfigured() bool {
	return b.TotalAmount.GreaterThan(decimal.Zero) && b.TotalServiceDays > 0
}

// IsComplete reports whether a configured bond has no service days left
func (b BondState) IsComplete(now time.Time) bool {
	return b.IsConfigured() && b.DaysRemaining(now) == 0
}

// EstimatedEndDate projects the last day of service from now
func (b BondState) EstimatedEndDate(now time.Time) time.Time {
	return now.AddDate(0, 0, b.DaysRemaining(now))
}
