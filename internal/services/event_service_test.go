package services

import (
	"context"
	"testing"
	"time"

	"github.com/isdelr/messenger-auth/internal/database"
	"github.com/isdelr/messenger-auth/internal/models"
	"github.com/stretchr/testify/require"
)

func TestEventService_CreateAndPrune(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.db.Exec(database.Rebind(database.DriverSQLite,
		"INSERT INTO events (id, type, level, message, user_id, created_at) VALUES (?, ?, ?, ?, ?, ?)"),
		"old-1", models.EventPasswordReset, models.EventLevelInfo, "old", nil, time.Now().UTC().Add(-48*time.Hour))
	require.NoError(t, err)

	userID := "u-1"
	require.NoError(t, f.events.CreateEvent(ctx, models.EventUserRegister, models.EventLevelInfo, "new", &userID))

	require.Equal(t, 2, f.eventCount(t))
	events, err := f.events.GetUserEvents(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "new", events[0].Message)
	require.NotNil(t, events[0].UserID)
	require.Equal(t, "u-1", *events[0].UserID)

	n, err := f.events.PruneEvents(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	require.Equal(t, 1, f.eventCount(t))
	require.Equal(t, []string{models.EventUserRegister}, f.eventTypes(t))
}

func TestEventService_GetUserEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, bob := "u-alice", "u-bob"
	require.NoError(t, f.events.CreateEvent(ctx, models.EventUserRegister, models.EventLevelInfo, "alice joined", &alice))
	require.NoError(t, f.events.CreateEvent(ctx, models.EventUserRegister, models.EventLevelInfo, "bob joined", &bob))
	require.NoError(t, f.events.CreateEvent(ctx, models.EventUserLoginFailed, models.EventLevelWarn, "anonymous", nil))

	events, err := f.events.GetUserEvents(ctx, alice, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "alice joined", events[0].Message)

	events, err = f.events.GetUserEvents(ctx, "u-nobody", 10)
	require.NoError(t, err)
	require.Empty(t, events)
}
