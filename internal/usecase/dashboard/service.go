package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/simaogato/bondtracker-backend/internal/domain"
	"github.com/simaogato/bondtracker-backend/internal/usecase/bondstore"
)

// Route tells the interactive consumer which flow to show
type Route string

const (
	RouteSetup    Route = "SETUP"
	RouteTracking Route = "TRACKING"
)

// DateLayout is the long date format used for start and end dates
const DateLayout = "January 2, 2006"

// TrackingSummary represents everything the main tracking view renders
type TrackingSummary struct {
	Route   Route
	State   domain.BondState
	Derived domain.DerivedFields

	Remaining        string // "$18,173.52"
	Progress         string // "9.1%"
	DailyCost        string
	TotalAmount      string
	StartDate        string
	EstimatedEndDate string // empty once service is complete
	Complete         bool
}

// DashboardService handles the main interactive view
type DashboardService struct {
	Store *bondstore.BondStateStore

	printer *message.Printer
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(store *bondstore.BondStateStore) *DashboardService {
	return &DashboardService{
		Store:   store,
		printer: message.NewPrinter(language.English),
	}
}

// GetSummary computes the tracking summary of the live state at now
// Logic:
//   - Unconfigured state routes to setup; derived fields are still filled in
//   - Money is shown with two decimals and thousands separators
//   - An estimated end date is shown while days remain, otherwise completion
func (s *DashboardService) GetSummary(now time.Time) TrackingSummary {
	state := s.Store.Current()
	derived := state.Derive(now)

	summary := TrackingSummary{
		Route:       RouteSetup,
		State:       state,
		Derived:     derived,
		Remaining:   s.formatMoney(derived.RemainingAmount),
		Progress:    s.printer.Sprintf("%.1f%%", derived.CompletionPercentage.InexactFloat64()),
		DailyCost:   s.formatMoney(derived.DailyCost),
		TotalAmount: s.formatMoney(state.TotalAmount),
		StartDate:   state.StartDate.Format(DateLayout),
	}

	if derived.IsConfigured {
		summary.Route = RouteTracking
	}

	if state.IsComplete(now) {
		summary.Complete = true
	} else {
		summary.EstimatedEndDate = state.EstimatedEndDate(now).Format(DateLayout)
	}

	return summary
}

func (s *DashboardService) formatMoney(amount decimal.Decimal) string {
	return s.printer.Sprintf("$%.2f", amount.Round(2).InexactFloat64())
}
