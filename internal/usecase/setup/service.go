package setup

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/bondtracker-backend/internal/domain"
	"github.com/simaogato/bondtracker-backend/internal/usecase/bondstore"
)

// Form fields reported by ValidationError
const (
	FieldAmount = "amount"
	FieldDays   = "days"
)

// ValidationError identifies which setup field was rejected and why.
// Message is meant to be shown to the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// SetupInput is the raw text of the setup form
type SetupInput struct {
	Amount    string
	Days      string
	StartDate time.Time
}

// SetupService handles configuring the bond from user input
type SetupService struct {
	Store *bondstore.BondStateStore
}

// NewSetupService creates a new SetupService instance
func NewSetupService(store *bondstore.BondStateStore) *SetupService {
	return &SetupService{Store: store}
}

// ParseInput validates raw form input and builds the BondState to save.
// The amount is checked before the day count, so only the first failing
// field is reported. The start date keeps its calendar day only: it is moved
// to local midnight so served days tick over at the widget's midnight refresh.
func ParseInput(input SetupInput) (domain.BondState, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(input.Amount))
	if err != nil || amount.LessThanOrEqual(decimal.Zero) || !storable(amount) {
		return domain.BondState{}, &ValidationError{
			Field:   FieldAmount,
			Message: "Please enter a valid bond amount greater than 0",
		}
	}

	days, err := strconv.Atoi(strings.TrimSpace(input.Days))
	if err != nil || days <= 0 {
		return domain.BondState{}, &ValidationError{
			Field:   FieldDays,
			Message: "Please enter valid service days greater than 0",
		}
	}

	return domain.NewBondState(amount, days, domain.StartOfDay(input.StartDate)), nil
}

// storable reports whether amount survives the float64 storage round trip
// unchanged. Overflowing amounts become +Inf, and more than about 15
// significant digits are rounded away.
func storable(amount decimal.Decimal) bool {
	f := amount.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return false
	}
	return decimal.NewFromFloat(f).Equal(amount)
}

// Configure validates input and, when valid, saves it as the new bond state.
// Invalid input never reaches the store.
func (s *SetupService) Configure(ctx context.Context, input SetupInput) (domain.BondState, error) {
	state, err := ParseInput(input)
	if err != nil {
		return domain.BondState{}, err
	}

	if err := s.Store.Save(ctx, state); err != nil {
		return domain.BondState{}, fmt.Errorf("failed to save bond state: %w", err)
	}

	return state, nil
}

// Prefill returns the current state as form values for editing.
// Unconfigured fields come back empty rather than as "0".
func (s *SetupService) Prefill() SetupInput {
	current := s.Store.Current()

	input := SetupInput{StartDate: current.StartDate}
	if current.TotalAmount.GreaterThan(decimal.Zero) {
		input.Amount = current.TotalAmount.String()
	}
	if current.TotalServiceDays > 0 {
		input.Days = strconv.Itoa(current.TotalServiceDays)
	}
	return input
}
