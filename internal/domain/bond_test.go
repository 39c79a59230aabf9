package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, time.October, 19, 15, 30, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}

func TestBondState_Derive_Scenarios(t *testing.T) {
	tests := []struct {
		name              string
		state             BondState
		wantServed        int
		wantRemainingDays int
		wantPercentage    float64
		wantDailyCost     float64
		wantRemaining     float64
		wantConfigured    bool
	}{
		{
			// Remaining amount follows the pro rata formula: 20000 * 995 / 1095
			name:              "Three year bond 100 days in",
			state:             NewBondState(decimal.NewFromInt(20000), 1095, daysAgo(100)),
			wantServed:        100,
			wantRemainingDays: 995,
			wantPercentage:    9.13,
			wantDailyCost:     18.26,
			wantRemaining:     18173.52,
			wantConfigured:    true,
		},
		{
			name:              "Zero service days is unconfigured",
			state:             NewBondState(decimal.NewFromInt(10000), 0, daysAgo(12)),
			wantServed:        12,
			wantRemainingDays: 0,
			wantPercentage:    0,
			wantDailyCost:     0,
			wantRemaining:     10000,
			wantConfigured:    false,
		},
		{
			name:              "Served past the end is not capped",
			state:             NewBondState(decimal.NewFromInt(5000), 30, daysAgo(40)),
			wantServed:        40,
			wantRemainingDays: 0,
			wantPercentage:    100,
			wantDailyCost:     166.67,
			wantRemaining:     0,
			wantConfigured:    true,
		},
		{
			name:              "Future start date",
			state:             NewBondState(decimal.NewFromInt(5000), 30, testNow.AddDate(0, 0, 7)),
			wantServed:        0,
			wantRemainingDays: 30,
			wantPercentage:    0,
			wantDailyCost:     166.67,
			wantRemaining:     5000,
			wantConfigured:    true,
		},
		{
			name:              "Zero amount is unconfigured",
			state:             NewBondState(decimal.Zero, 365, daysAgo(10)),
			wantServed:        10,
			wantRemainingDays: 355,
			wantPercentage:    2.74,
			wantDailyCost:     0,
			wantRemaining:     0,
			wantConfigured:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.state.Derive(testNow)

			assert.Equal(t, tt.wantServed, got.DaysServed)
			assert.Equal(t, tt.wantRemainingDays, got.DaysRemaining)
			assert.InDelta(t, tt.wantPercentage, got.CompletionPercentage.InexactFloat64(), 0.01)
			assert.InDelta(t, tt.wantDailyCost, got.DailyCost.InexactFloat64(), 0.01)
			assert.InDelta(t, tt.wantRemaining, got.RemainingAmount.InexactFloat64(), 0.01)
			assert.Equal(t, tt.wantConfigured, got.IsConfigured)
		})
	}
}

func TestBondState_NonPositiveServiceDays(t *testing.T) {
	for _, days := range []int{0, -1, -365} {
		state := NewBondState(decimal.NewFromFloat(1234.56), days, daysAgo(50))
		got := state.Derive(testNow)

		assert.True(t, got.CompletionPercentage.IsZero(), "days=%d", days)
		assert.True(t, got.DailyCost.IsZero(), "days=%d", days)
		assert.True(t, got.RemainingAmount.Equal(state.TotalAmount), "days=%d", days)
	}
}

func TestBondState_Bounds(t *testing.T) {
	amounts := []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5), decimal.NewFromInt(1), decimal.NewFromFloat(99999.99)}
	days := []int{-10, 0, 1, 30, 1095}
	offsets := []int{-500, -31, -1, 0, 1, 29, 30, 31, 2000}

	for _, amount := range amounts {
		for _, d := range days {
			for _, offset := range offsets {
				got := NewBondState(amount, d, daysAgo(offset)).Derive(testNow)

				assert.True(t, got.CompletionPercentage.GreaterThanOrEqual(decimal.Zero))
				assert.True(t, got.CompletionPercentage.LessThanOrEqual(decimal.NewFromInt(100)))
				assert.True(t, got.RemainingAmount.GreaterThanOrEqual(decimal.Zero),
					"amount=%s days=%d offset=%d", amount, d, offset)
				assert.GreaterOrEqual(t, got.DaysServed, 0)
				assert.GreaterOrEqual(t, got.DaysRemaining, 0)
			}
		}
	}
}

func TestBondState_FutureStartDate(t *testing.T) {
	state := NewBondState(decimal.NewFromInt(20000), 1095, testNow.AddDate(1, 0, 0))
	got := state.Derive(testNow)

	assert.Equal(t, 0, got.DaysServed)
	assert.Equal(t, 1095, got.DaysRemaining)
	assert.True(t, got.CompletionPercentage.IsZero())
	assert.True(t, got.RemainingAmount.Equal(decimal.NewFromInt(20000)))
}

func TestBondState_CompletedService(t *testing.T) {
	state := NewBondState(decimal.NewFromInt(20000), 1095, daysAgo(1095))
	got := state.Derive(testNow)

	assert.Equal(t, 0, got.DaysRemaining)
	assert.True(t, got.CompletionPercentage.Equal(decimal.NewFromInt(100)))
	assert.True(t, got.RemainingAmount.IsZero())
	assert.True(t, state.IsComplete(testNow))
}

func TestBondState_IsConfigured(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		days   int
		want   bool
	}{
		{"Both positive", decimal.NewFromInt(100), 10, true},
		{"Zero amount", decimal.Zero, 10, false},
		{"Zero days", decimal.NewFromInt(100), 0, false},
		{"Both zero", decimal.Zero, 0, false},
		{"Negative amount", decimal.NewFromInt(-5), 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewBondState(tt.amount, tt.days, testNow)
			assert.Equal(t, tt.want, state.IsConfigured())
		})
	}
}

func TestBondState_RemainingAmountIsMonotonic(t *testing.T) {
	state := NewBondState(decimal.NewFromInt(5000), 30, testNow)

	previous := state.RemainingAmount(testNow)
	for hours := 1; hours <= 24*45; hours++ {
		at := testNow.Add(time.Duration(hours) * time.Hour)
		current := state.RemainingAmount(at)

		assert.True(t, current.LessThanOrEqual(previous), "remaining increased at +%dh", hours)
		assert.True(t, current.GreaterThanOrEqual(decimal.Zero))
		previous = current
	}
	assert.True(t, previous.IsZero())
}

func TestBondState_PartialDayDoesNotCount(t *testing.T) {
	state := NewBondState(decimal.NewFromInt(1000), 10, testNow.Add(-23*time.Hour))

	assert.Equal(t, 0, state.DaysServed(testNow))
	assert.Equal(t, 1, state.DaysServed(testNow.Add(time.Hour)))
}

func TestBondState_EstimatedEndDate(t *testing.T) {
	state := NewBondState(decimal.NewFromInt(20000), 1095, daysAgo(100))

	assert.Equal(t, testNow.AddDate(0, 0, 995), state.EstimatedEndDate(testNow))
	assert.False(t, state.IsComplete(testNow))
}
