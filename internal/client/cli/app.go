package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/MacaulyV/foodbridge/internal/client/client"
	"github.com/MacaulyV/foodbridge/internal/client/config"
	"github.com/MacaulyV/foodbridge/internal/client/models"
	"github.com/MacaulyV/foodbridge/internal/client/repositories/metadata"
	"github.com/MacaulyV/foodbridge/internal/client/repositories/requests"
	"github.com/MacaulyV/foodbridge/internal/client/services"
	"github.com/MacaulyV/foodbridge/internal/filex"
	"github.com/MacaulyV/foodbridge/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

// pingTimeout bounds one watcher probe.
const pingTimeout = 3 * time.Second

var (
	errOffline       = errors.New("this action needs a connection")
	errLoginRequired = errors.New("login required")
)

type App struct {
	config          *config.Config
	log             logging.Logger
	db              *sql.DB
	authService     services.AuthService
	userService     services.UserService
	donationService services.DonationService
	requestService  services.RequestService

	session *models.Session
	reader  *bufio.Reader
	out     io.Writer

	mu   sync.RWMutex
	mode Mode
}

// NewApp opens the local store under cfg.DataDir and wires the API client
// and services.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	dataDir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	c.DataDir = dataDir

	db, err := client.InitDatabase(ctx, c.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	meta := metadata.NewSQLiteRepository(db)
	reqs := requests.NewSQLiteRepository(db)

	api, err := client.New(client.Options{
		BaseURL: c.BaseURL(),
		Timeout: c.RequestTimeout,
		Debug:   c.IsDevelopment(),
		Tokens:  services.TokenFromStore(meta),
		Logger:  log.With("component", "api"),
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	users := services.NewUserService(api, meta, reqs, dataDir, log)
	return &App{
		config:          c,
		log:             log,
		db:              db,
		authService:     services.NewAuthService(api, db, meta, log),
		userService:     users,
		donationService: services.NewDonationService(api, users, log),
		requestService:  services.NewRequestService(reqs, users, log),
		reader:          bufio.NewReader(os.Stdin),
		out:             os.Stdout,
	}, nil
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) isOnline() bool {
	return a.Mode() == ModeOnline
}

// Run restores the session, starts the connectivity watcher and blocks in
// the REPL until the user exits or ctx ends.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.Root(ctx)
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) close(ctx context.Context) {
	if err := a.authService.Close(ctx); err != nil {
		a.log.Warn(ctx, "close api client", "error", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(ctx, "close database", "error", err)
		}
	}
}

// StartOnlineStatusWatcher pings the API every interval and flips the mode
// between online and offline. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.authService.Ping(pingCtx)
	cancel()

	if err != nil {
		if a.Mode() != ModeOffline {
			a.setMode(ModeOffline)
		}
		return
	}
	if a.Mode() != ModeOnline {
		a.setMode(ModeOnline)
	}
}

func (a *App) getStatus() string {
	s := ""
	if a.session != nil {
		name := a.session.User.Name
		if name == "" {
			name = a.session.User.Email
		}
		s = name + " "
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// report prints the user-facing message for err and logs the detail.
func (a *App) report(ctx context.Context, action string, err error) error {
	if err == nil {
		return nil
	}
	a.log.Debug(ctx, action+" failed", "error", err)

	msg := client.Classify(err)
	var verr *models.ValidationError
	switch {
	case errors.Is(err, errOffline):
		msg = "You are offline; this action needs a connection."
	case errors.Is(err, errLoginRequired):
		msg = "Please log in first."
	case errors.As(err, &verr):
		msg = verr.Error()
	case errors.Is(err, services.ErrDuplicateRequest),
		errors.Is(err, services.ErrOwnDonation),
		errors.Is(err, services.ErrInvalidTransition):
		msg = "Not allowed: " + err.Error()
	}
	a.println(msg)
	return err
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) requireSession() error {
	if a.session == nil {
		return errLoginRequired
	}
	return nil
}

func (a *App) requireOnline() error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if !a.isOnline() || a.session.Offline {
		return errOffline
	}
	return nil
}
