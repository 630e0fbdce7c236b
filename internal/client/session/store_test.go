package session

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/aleksmelnik/mediavault/internal/client/models"
	"github.com/aleksmelnik/mediavault/internal/logging"
)

// ---- helpers ----

var dbSeq int

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	dbSeq++
	db, err := sql.Open("sqlite", fmt.Sprintf("file:sessionstore%d?mode=memory&cache=shared", dbSeq))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func metaValue(t *testing.T, db *sql.DB, key string) []byte {
	t.Helper()
	var v []byte
	err := db.QueryRow(`SELECT value FROM metadata WHERE key=?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return nil
	}
	require.NoError(t, err)
	return v
}

type fakeNav struct {
	mu         sync.Mutex
	calls      int
	onNavigate func()
}

func (n *fakeNav) NavigateToSignIn() {
	n.mu.Lock()
	n.calls++
	fn := n.onNavigate
	n.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (n *fakeNav) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

func newTestStore(t *testing.T) (*Store, *fakeNav, *sql.DB) {
	t.Helper()
	db := setupDB(t)
	nav := &fakeNav{}
	log := logging.NewNopLogger()
	return NewStore(db, nav, log), nav, db
}

func validToken(t *testing.T) string {
	return makeToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
}

// ---- tests ----

func TestStore_AuthenticatePersistsAndPublishes(t *testing.T) {
	ctx := context.Background()
	s, _, db := newTestStore(t)

	ch, cancel := s.Subscribe()
	defer cancel()
	require.Nil(t, <-ch)

	token := validToken(t)
	user := &models.User{ID: "u1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	require.NoError(t, s.Authenticate(ctx, token, user))

	require.True(t, s.IsAuthenticated(ctx))
	require.Equal(t, token, s.Token())
	require.Same(t, user, s.Current())
	require.Equal(t, StateAuthenticated, s.State())

	require.Equal(t, []byte(token), metaValue(t, db, keyAccessToken))
	require.NotEmpty(t, metaValue(t, db, keyUser))

	published := <-ch
	require.Same(t, user, published)
}

func TestStore_LogoutConcurrentSingleFire(t *testing.T) {
	ctx := context.Background()
	s, nav, db := newTestStore(t)
	require.NoError(t, s.Authenticate(ctx, validToken(t), &models.User{ID: "u1"}))

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			s.Logout(ctx)
		}()
	}
	wg.Wait()

	require.Equal(t, 1, nav.callCount())
	require.Equal(t, StateUnauthenticated, s.State())
	require.Nil(t, s.Current())
	require.Empty(t, s.Token())
	require.Nil(t, metaValue(t, db, keyAccessToken))
	require.Nil(t, metaValue(t, db, keyUser))
}

func TestStore_LogoutClearsUserBeforeNavigation(t *testing.T) {
	ctx := context.Background()
	s, nav, _ := newTestStore(t)
	require.NoError(t, s.Authenticate(ctx, validToken(t), &models.User{ID: "u1"}))

	// The displayed user must be gone by the time navigation runs.
	nav.onNavigate = func() {
		require.Nil(t, s.Current())
		require.False(t, s.IsAuthenticated(ctx))
	}

	s.Logout(ctx)
	require.Equal(t, 1, nav.callCount())
}

func TestStore_LogoutWhenSignedOutIsNoop(t *testing.T) {
	ctx := context.Background()
	s, nav, _ := newTestStore(t)

	s.Logout(ctx)
	s.Logout(ctx)

	require.Equal(t, 0, nav.callCount())
	require.Equal(t, StateUnauthenticated, s.State())
}

func TestStore_ExpiredTokenTriggersImplicitLogout(t *testing.T) {
	ctx := context.Background()
	s, nav, db := newTestStore(t)
	require.NoError(t, s.Authenticate(ctx, validToken(t), &models.User{ID: "u1"}))

	// Jump past the token's expiry.
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	require.False(t, s.IsAuthenticated(ctx))
	require.Equal(t, 1, nav.callCount())
	require.Nil(t, s.Current())
	require.Nil(t, metaValue(t, db, keyAccessToken))
}

func TestStore_RestoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	s1, _, db := newTestStore(t)
	token := validToken(t)
	user := &models.User{ID: "u1", Email: "ada@example.com"}
	require.NoError(t, s1.Authenticate(ctx, token, user))

	s2 := NewStore(db, &fakeNav{}, logging.NewNopLogger())
	require.NoError(t, s2.Restore(ctx))

	require.True(t, s2.IsAuthenticated(ctx))
	require.Equal(t, token, s2.Token())
	require.NotNil(t, s2.Current())
	require.Equal(t, "ada@example.com", s2.Current().Email)
}

func TestStore_RestoreDiscardsExpiredSession(t *testing.T) {
	ctx := context.Background()
	s1, _, db := newTestStore(t)
	expired := makeToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})
	require.NoError(t, s1.Authenticate(ctx, expired, &models.User{ID: "u1"}))

	s2 := NewStore(db, &fakeNav{}, logging.NewNopLogger())
	require.NoError(t, s2.Restore(ctx))

	require.False(t, s2.IsAuthenticated(ctx))
	require.Nil(t, s2.Current())
	require.Nil(t, metaValue(t, db, keyAccessToken))
	require.Nil(t, metaValue(t, db, keyUser))
}

func TestStore_HandleUnauthorizedWhileAuthenticated(t *testing.T) {
	ctx := context.Background()
	s, nav, db := newTestStore(t)
	require.NoError(t, s.Authenticate(ctx, validToken(t), &models.User{ID: "u1"}))

	s.HandleUnauthorized(ctx)

	require.Equal(t, 1, nav.callCount())
	require.Equal(t, StateUnauthenticated, s.State())
	require.Nil(t, metaValue(t, db, keyAccessToken))
}

func TestStore_HandleUnauthorizedAfterSessionCleared(t *testing.T) {
	ctx := context.Background()
	s, nav, _ := newTestStore(t)
	require.NoError(t, s.Authenticate(ctx, validToken(t), &models.User{ID: "u1"}))

	s.Logout(ctx)
	navsAfterLogout := nav.callCount()

	// A second 401 arriving after the session is already cleared skips the
	// logout sequence and goes straight to navigation.
	s.HandleUnauthorized(ctx)

	require.Equal(t, navsAfterLogout+1, nav.callCount())
	require.Equal(t, StateUnauthenticated, s.State())
}
