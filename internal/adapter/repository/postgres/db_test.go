package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Nothing listens on port 1, so every ping is refused
const unreachableDSN = "host=127.0.0.1 port=1 user=postgres password=postgres dbname=bondtracker sslmode=disable connect_timeout=1"

func TestNewDB_CancelledContextFailsFast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	db, err := NewDB(ctx, unreachableDSN, "")

	require.Error(t, err)
	assert.Nil(t, db)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewDB_StopsRetryingAtDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	db, err := NewDB(ctx, unreachableDSN, "test")

	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "failed to ping database")
	// Well short of pingAttempts * pingBackoff
	assert.Less(t, time.Since(start), pingBackoff*(pingAttempts-1))
}
