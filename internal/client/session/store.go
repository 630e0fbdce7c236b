// Package session owns the token-backed session lifecycle: the durable
// token/user pair, the reactive current-user stream, expiry detection, and
// the single-fire logout sequence. Only this package writes the session
// entries of the durable store; every other component reads through its
// accessors.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aleksmelnik/mediavault/internal/client/models"
	"github.com/aleksmelnik/mediavault/internal/client/repositories/metadata"
	"github.com/aleksmelnik/mediavault/internal/dbx"
	"github.com/aleksmelnik/mediavault/internal/logging"
)

// Durable store keys for the persisted session. Both are written on
// authenticate and cleared atomically on logout.
const (
	keyAccessToken = "access_token"
	keyUser        = "user"
)

// Navigator abstracts "take the user to the sign-in view". Implementations
// must be idempotent: navigating to sign-in while already there is a no-op.
type Navigator interface {
	NavigateToSignIn()
}

// State is the session lifecycle state.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateLoggingOut
)

// Store owns the current token/user pair.
//
// Invariant: token and user are set together or both absent, in memory and
// in the durable store. Logout is single-fire: concurrent invocations (for
// example a manual logout racing a 401 handler) perform the clear-and-
// navigate sequence exactly once.
type Store struct {
	mu     sync.Mutex
	state  State
	token  string
	user   *models.User
	db     *sql.DB
	stream *UserStream
	nav    Navigator
	log    logging.Logger

	// now is a test seam for the expiry check.
	now func() time.Time
}

func NewStore(db *sql.DB, nav Navigator, log logging.Logger) *Store {
	return &Store{
		db:     db,
		stream: NewUserStream(),
		nav:    nav,
		log:    log,
		now:    time.Now,
	}
}

// Restore loads a previously persisted session into memory. An expired or
// partial persisted session is discarded silently. Call once at startup,
// before any authenticated request is issued.
func (s *Store) Restore(ctx context.Context) error {
	repo := metadata.NewSQLiteRepository(s.db)

	tokenBytes, err := repo.Get(ctx, keyAccessToken)
	if err != nil {
		return fmt.Errorf("restore token: %w", err)
	}
	userBytes, err := repo.Get(ctx, keyUser)
	if err != nil {
		return fmt.Errorf("restore user: %w", err)
	}

	token := string(tokenBytes)
	if token == "" || len(userBytes) == 0 || TokenExpired(token, s.now()) {
		return s.clearPersisted(ctx)
	}

	var user models.User
	if err := json.Unmarshal(userBytes, &user); err != nil {
		s.log.Warn(ctx, "discarding unreadable persisted user", "error", err)
		return s.clearPersisted(ctx)
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.state = StateAuthenticated
	s.mu.Unlock()

	s.stream.Publish(&user)
	return nil
}

// Authenticate stores the token/user pair durably and in memory and
// publishes the new user. Subsequent IsAuthenticated calls observe the new
// state immediately.
func (s *Store) Authenticate(ctx context.Context, token string, user *models.User) error {
	userBytes, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyAccessToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, keyUser, userBytes)
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.state = StateAuthenticated
	s.mu.Unlock()

	s.stream.Publish(user)
	return nil
}

// IsAuthenticated reports whether a live session exists. It returns false
// while a logout is in progress, false when no token is held, and false —
// triggering an implicit logout — when the held token has expired. The check
// must be re-run on every navigation attempt since expiry is time-dependent.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	s.mu.Lock()
	if s.state != StateAuthenticated {
		s.mu.Unlock()
		return false
	}
	token := s.token
	s.mu.Unlock()

	if token == "" {
		return false
	}
	if TokenExpired(token, s.now()) {
		s.log.Info(ctx, "access token expired, logging out")
		s.Logout(ctx)
		return false
	}
	return true
}

// Logout clears the session exactly once. The logging-out state is entered
// synchronously before any asynchronous step, so a concurrent second call
// (manual click racing a 401, or several 401s at once) observes it and
// no-ops. Sequence: clear durable entries, publish nil on the user stream,
// navigate to sign-in, then settle into the unauthenticated state. Dependent
// UI therefore loses the user before or concurrently with navigation, never
// after.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	if s.state != StateAuthenticated {
		s.mu.Unlock()
		return
	}
	s.state = StateLoggingOut
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.clearPersisted(ctx); err != nil {
		// The in-memory session is already gone; a stale durable entry will
		// be discarded on next Restore because the token check fails closed.
		s.log.Warn(ctx, "clearing persisted session failed", "error", err)
	}

	s.stream.Publish(nil)
	s.nav.NavigateToSignIn()

	s.mu.Lock()
	s.state = StateUnauthenticated
	s.mu.Unlock()
}

// HandleUnauthorized is the global 401 handler. Session presence is
// re-checked at handle time, not at request-issue time: an earlier
// concurrent 401 may have already cleared the session, in which case this
// skips straight to navigation instead of re-running the logout sequence.
func (s *Store) HandleUnauthorized(ctx context.Context) {
	if s.IsAuthenticated(ctx) {
		s.Logout(ctx)
		return
	}
	s.nav.NavigateToSignIn()
}

// Token implements api.TokenProvider.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Current returns a snapshot of the current user, nil when signed out.
func (s *Store) Current() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Subscribe registers a subscriber on the current-user stream. See
// UserStream.Subscribe.
func (s *Store) Subscribe() (<-chan *models.User, func()) {
	return s.stream.Subscribe()
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) clearPersisted(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, keyAccessToken); err != nil {
			return err
		}
		return repo.Delete(ctx, keyUser)
	})
}
