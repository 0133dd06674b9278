package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/messenger-auth/internal/auth"
	"github.com/isdelr/messenger-auth/internal/database"
	"github.com/isdelr/messenger-auth/internal/store"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fastHasher keeps bcrypt but ignores the requested cost so tests stay quick.
type fastHasher struct {
	auth.BcryptHasher
	mu    sync.Mutex
	costs []int
}

func (h *fastHasher) Hash(plaintext string, cost int) (string, error) {
	h.mu.Lock()
	h.costs = append(h.costs, cost)
	h.mu.Unlock()
	return h.BcryptHasher.Hash(plaintext, bcrypt.MinCost)
}

type fixture struct {
	db          *sql.DB
	users       *store.SQLUserStore
	hasher      *fastHasher
	events      *EventService
	credentials *CredentialService
	recovery    *RecoveryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.New(database.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db, database.DriverSQLite))

	users := store.NewSQLUserStore(db, database.DriverSQLite)
	hasher := &fastHasher{}
	events := NewEventService(db, database.DriverSQLite)
	authn := auth.NewJWTAuthenticator(users, hasher, "test-secret", time.Hour)

	return &fixture{
		db:          db,
		users:       users,
		hasher:      hasher,
		events:      events,
		credentials: NewCredentialService(users, hasher, authn, events),
		recovery:    NewRecoveryService(users, hasher, events),
	}
}

func (f *fixture) register(t *testing.T, email, password, answer string) Registration {
	t.Helper()
	reg, err := f.credentials.Register(context.Background(), RegisterInput{
		Email:          email,
		Name:           "Bob",
		Password:       password,
		SecretQuestion: "Dogs_Name",
		SecretAnswer:   answer,
	})
	require.NoError(t, err)
	return reg
}

func (f *fixture) storedHash(t *testing.T, email string) string {
	t.Helper()
	u, err := f.users.FindByEmail(context.Background(), email)
	require.NoError(t, err)
	return u.HashedPassword
}

func (f *fixture) eventCount(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&n))
	return n
}

func (f *fixture) eventTypes(t *testing.T) []string {
	t.Helper()
	rows, err := f.db.Query("SELECT type FROM events ORDER BY created_at DESC")
	require.NoError(t, err)
	defer rows.Close()
	var types []string
	for rows.Next() {
		var eventType string
		require.NoError(t, rows.Scan(&eventType))
		types = append(types, eventType)
	}
	require.NoError(t, rows.Err())
	return types
}
