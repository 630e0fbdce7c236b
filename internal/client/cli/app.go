// Package cli is the interactive front end: a small REPL over the session
// store, the media view controller, and the storage tracker.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	_ "modernc.org/sqlite"

	"github.com/aleksmelnik/mediavault/internal/client/api"
	"github.com/aleksmelnik/mediavault/internal/client/config"
	"github.com/aleksmelnik/mediavault/internal/client/localdb"
	"github.com/aleksmelnik/mediavault/internal/client/media"
	"github.com/aleksmelnik/mediavault/internal/client/session"
	"github.com/aleksmelnik/mediavault/internal/client/storage"
	"github.com/aleksmelnik/mediavault/internal/logging"
)

// consoleNavigator is the CLI's sign-in "view": being signed out means being
// back at the login prompt. The atomic flag makes navigation idempotent, so
// a burst of concurrent 401 handlers produces a single message.
type consoleNavigator struct {
	atSignIn atomic.Bool
}

func (n *consoleNavigator) NavigateToSignIn() {
	if n.atSignIn.CompareAndSwap(false, true) {
		printlnFn("You are signed out. Use 'login' or 'register' to continue.")
	}
}

func (n *consoleNavigator) reset() {
	n.atSignIn.Store(false)
}

// App wires the client components together and carries REPL state.
type App struct {
	config     *config.Config
	log        logging.Logger
	db         *sql.DB
	nav        *consoleNavigator
	session    *session.Store
	gate       *session.Gate
	api        api.Client
	controller *media.Controller
	tracker    *storage.Tracker
	validate   *validator.Validate
	reader     *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := localdb.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open local database: %w", err)
	}

	nav := &consoleNavigator{}
	store := session.NewStore(db, nav, log)

	apiClient := api.NewHTTPClient(cfg.ServerBaseURL, cfg.RequestTimeout, store, func() {
		store.HandleUnauthorized(context.Background())
	}, log)

	tracker := storage.NewTracker(apiClient, log)
	controller := media.NewController(apiClient, store, tracker, log)

	return &App{
		config:     cfg,
		log:        log,
		db:         db,
		nav:        nav,
		session:    store,
		gate:       session.NewGate(store, nav),
		api:        apiClient,
		controller: controller,
		tracker:    tracker,
		validate:   validator.New(),
		reader:     bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.session.Current() != nil
}

// Close releases the local database handle.
func (a *App) Close() error {
	return a.db.Close()
}
