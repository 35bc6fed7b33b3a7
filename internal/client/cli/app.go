package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"

	"profilecli/internal/client/api"
	"profilecli/internal/client/config"
	"profilecli/internal/client/profile"
	"profilecli/internal/client/repositories/localstore"
	"profilecli/internal/client/session"
	"profilecli/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the account client together: the HTTP API, the local session
// store, the session manager, and the profile controller.
type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	api     *api.HTTPClient
	session *session.Manager
	profile *profile.Controller
	reader  *bufio.Reader

	// route and email feed the prompt. The navigator writes them from the
	// deferred-navigation timer goroutine while the REPL goroutine reads
	// them, so both are guarded by mu.
	mu    sync.Mutex
	route string
	email string
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := localstore.Open(ctx, c.StorePath)
	if err != nil {
		log.Error(ctx, "error initializing session store", "err", err)
		return nil, err
	}

	a := &App{
		config: c,
		log:    log,
		db:     db,
		api:    api.NewHTTPClient(c.APIBaseURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		route:  session.RouteLogin,
	}

	store := session.NewStore(localstore.NewSQLiteRepository(db))
	a.session = session.NewManager(a.api, store, session.NavigatorFunc(a.navigate),
		log, c.LoginRedirectDelay, c.SignupRedirectDelay)
	a.profile = profile.NewController(a.session, log)

	return a, nil
}

// navigate is the Navigator hook: it records the new route and announces it.
// A switch to the login route drops the prompt's email. Called from the
// session manager's timer goroutine as well as the REPL goroutine.
func (a *App) navigate(route string) {
	a.mu.Lock()
	a.route = route
	if route == session.RouteLogin {
		a.email = ""
	}
	a.mu.Unlock()
	fmt.Printf("\n-> %s\n", route)
}

func (a *App) setEmail(email string) {
	a.mu.Lock()
	a.email = email
	a.mu.Unlock()
}

// Run restores a persisted session if one survives and starts the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if sess, err := a.session.Load(ctx); err == nil {
		a.mu.Lock()
		a.route = session.RouteProfile
		if sess.User != nil {
			a.email = sess.User.Email
		}
		a.mu.Unlock()
		fmt.Println("Restored previous session")
	}

	a.Root(ctx)
}

// Close releases the session manager and the store database.
func (a *App) Close() {
	a.session.Close()
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.email != ""
}

// getStatus builds the prompt decoration: logged-in email plus route.
func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := ""
	if a.email != "" {
		s = a.email + " "
	}
	s += a.route
	return fmt.Sprintf("(%s)", s)
}
