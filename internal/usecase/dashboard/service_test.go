package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/bondtracker-backend/internal/adapter/repository/memory"
	"github.com/simaogato/bondtracker-backend/internal/domain"
	"github.com/simaogato/bondtracker-backend/internal/usecase/bondstore"
)

var now = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, state *domain.BondState) *DashboardService {
	t.Helper()
	store := bondstore.NewBondStateStore(memory.NewSettings(), nil, nil)
	store.Now = func() time.Time { return now }
	store.Load(context.Background())
	if state != nil {
		require.NoError(t, store.Save(context.Background(), *state))
	}
	return NewDashboardService(store)
}

func TestGetSummary_Unconfigured(t *testing.T) {
	service := newService(t, nil)

	summary := service.GetSummary(now)

	assert.Equal(t, RouteSetup, summary.Route)
	assert.False(t, summary.Derived.IsConfigured)
	assert.Equal(t, "$0.00", summary.Remaining)
	assert.False(t, summary.Complete)
}

func TestGetSummary_Tracking(t *testing.T) {
	state := domain.NewBondState(decimal.NewFromInt(20000), 1095, now.AddDate(0, 0, -100))
	service := newService(t, &state)

	summary := service.GetSummary(now)

	assert.Equal(t, RouteTracking, summary.Route)
	assert.Equal(t, 100, summary.Derived.DaysServed)
	assert.Equal(t, 995, summary.Derived.DaysRemaining)
	assert.Equal(t, "$18,173.52", summary.Remaining)
	assert.Equal(t, "9.1%", summary.Progress)
	assert.Equal(t, "$18.26", summary.DailyCost)
	assert.Equal(t, "$20,000.00", summary.TotalAmount)
	assert.Equal(t, "July 11, 2026", summary.StartDate)
	assert.Equal(t, "July 10, 2029", summary.EstimatedEndDate)
	assert.False(t, summary.Complete)
}

func TestGetSummary_Complete(t *testing.T) {
	state := domain.NewBondState(decimal.NewFromInt(5000), 30, now.AddDate(0, 0, -40))
	service := newService(t, &state)

	summary := service.GetSummary(now)

	assert.Equal(t, RouteTracking, summary.Route)
	assert.True(t, summary.Complete)
	assert.Empty(t, summary.EstimatedEndDate)
	assert.Equal(t, "$0.00", summary.Remaining)
	assert.Equal(t, "100.0%", summary.Progress)
}

func TestGetSummary_FollowsStoreUpdates(t *testing.T) {
	service := newService(t, nil)
	assert.Equal(t, RouteSetup, service.GetSummary(now).Route)

	state := domain.NewBondState(decimal.NewFromInt(1000), 10, now)
	require.NoError(t, service.Store.Save(context.Background(), state))

	summary := service.GetSummary(now)
	assert.Equal(t, RouteTracking, summary.Route)
	assert.Equal(t, "$1,000.00", summary.Remaining)
}
