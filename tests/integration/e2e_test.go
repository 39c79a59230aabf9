//go:build integration

package integration

import (
	"context"
	"fmt"
	"net"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	grpcadapter "github.com/simaogato/bondtracker-backend/internal/adapter/grpc"
	"github.com/simaogato/bondtracker-backend/internal/adapter/redis"
	"github.com/simaogato/bondtracker-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/bondtracker-backend/internal/domain"
	"github.com/simaogato/bondtracker-backend/internal/usecase/bondstore"
	"github.com/simaogato/bondtracker-backend/internal/usecase/setup"
	"github.com/simaogato/bondtracker-backend/internal/usecase/widget"
)

var db *postgres.DB

// TestMain sets up the test environment
func TestMain(m *testing.M) {
	// 1. Connect to Database
	var err error
	db, err = postgres.NewDB(context.Background(), getDBConnectionString(), "")
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	// 2. Create the settings table
	if err := db.Migrate(context.Background()); err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}

	// Run tests
	code := m.Run()

	_ = db.Close()
	os.Exit(code)
}

// getDBConnectionString builds the connection string from environment variables
func getDBConnectionString() string {
	connStr := os.Getenv("DB_CONN_STR")
	if connStr != "" {
		return connStr
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		envOr("DB_HOST", "localhost"),
		envOr("DB_PORT", "5432"),
		envOr("DB_USER", "postgres"),
		envOr("DB_PASSWORD", "postgres"),
		envOr("DB_NAME", "bondtracker"),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testNamespace isolates each test's rows in the shared table
func testNamespace(t *testing.T) string {
	t.Helper()
	ns := "test." + uuid.NewString()
	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM bond_settings WHERE namespace = $1`, ns)
	})
	return ns
}

// TestEndToEndFlow covers Setup -> Save -> widget timeline served over gRPC
func TestEndToEndFlow(t *testing.T) {
	ctx := context.Background()
	ns := testNamespace(t)

	// Interactive side: its own repository instance
	store := bondstore.NewBondStateStore(postgres.NewSettingsRepository(db, ns), nil, nil)
	store.Load(ctx)
	assert.False(t, store.Current().IsConfigured(), "fresh namespace should be unconfigured")

	// Widget side: a separate repository instance on the same table
	provider := widget.NewTimelineProvider(postgres.NewSettingsRepository(db, ns), nil)
	provider.EntriesAhead = 1

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	server := grpc.NewServer()
	grpcadapter.RegisterWidgetTimelineServer(server, grpcadapter.NewServer(provider))
	go func() { _ = server.Serve(lis) }()
	defer server.Stop()

	client, conn, err := grpcadapter.Dial(lis.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	before, err := client.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Setup Required", widget.Summarize(before).Headline)

	// Configure through the setup service
	now := time.Now()
	start := domain.StartOfDay(now).AddDate(0, 0, -100)
	_, err = setup.NewSetupService(store).Configure(ctx, setup.SetupInput{
		Amount:    "20000",
		Days:      "1095",
		StartDate: start,
	})
	require.NoError(t, err)

	timeline, err := client.Timeline(ctx)
	require.NoError(t, err)
	require.Len(t, timeline.Entries, 2)

	first := timeline.Entries[0]
	assert.True(t, first.State.TotalAmount.Equal(decimal.NewFromInt(20000)))
	assert.Equal(t, 1095, first.State.TotalServiceDays)
	assert.True(t, start.Equal(first.State.StartDate))
	assert.Equal(t, 995, first.Derived.DaysRemaining)
	assert.Equal(t, 994, timeline.Entries[1].Derived.DaysRemaining)
	assert.True(t, timeline.NextRefresh.After(timeline.Entries[1].Date))
}

// TestStorageIsNamespaced verifies two deployments on one database stay apart
func TestStorageIsNamespaced(t *testing.T) {
	ctx := context.Background()
	first := postgres.NewSettingsRepository(db, testNamespace(t))
	second := postgres.NewSettingsRepository(db, testNamespace(t))

	require.NoError(t, first.SetInt(ctx, domain.KeyTotalServiceDays, 30))

	_, ok, err := second.GetInt(ctx, domain.KeyTotalServiceDays)
	require.NoError(t, err)
	assert.False(t, ok)

	days, ok, err := first.GetInt(ctx, domain.KeyTotalServiceDays)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 30, days)
}

// TestDBSettingsUseConnectionNamespace verifies the connection-scoped repository
func TestDBSettingsUseConnectionNamespace(t *testing.T) {
	ctx := context.Background()
	ns := testNamespace(t)

	scoped, err := postgres.NewDB(ctx, getDBConnectionString(), ns)
	require.NoError(t, err)
	defer scoped.Close()

	assert.Equal(t, domain.DefaultNamespace, db.Namespace())
	assert.Equal(t, ns, scoped.Namespace())

	require.NoError(t, scoped.Settings().SetInt(ctx, domain.KeyTotalServiceDays, 45))

	days, ok, err := postgres.NewSettingsRepository(db, ns).GetInt(ctx, domain.KeyTotalServiceDays)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 45, days)
}

// TestReloadOverRedis verifies a save wakes a subscriber. Skipped without REDIS_ADDR.
func TestReloadOverRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ns := testNamespace(t)

	client, err := redis.New(ctx, redis.ClientConfig{Addr: addr})
	require.NoError(t, err)
	defer client.Close()

	channel := "bondtracker:test:" + uuid.NewString()
	bus := redis.NewRefreshBus(client, channel, ns, nil)
	reloads, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	store := bondstore.NewBondStateStore(postgres.NewSettingsRepository(db, ns), bus, nil)
	require.NoError(t, store.Save(ctx, domain.NewBondState(decimal.NewFromInt(100), 10, time.Now())))

	select {
	case <-reloads:
	case <-ctx.Done():
		t.Fatal("reload was not delivered")
	}
}
