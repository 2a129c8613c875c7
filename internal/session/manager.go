package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/geocoder89/lentpath/internal/auth"
	"github.com/geocoder89/lentpath/internal/cache"
	"github.com/geocoder89/lentpath/internal/daily"
	reposheets "github.com/geocoder89/lentpath/internal/repo/sheets"
	"github.com/geocoder89/lentpath/internal/sheets"
)

// Workspace is one visitor's view of the two workbooks, loaded when the
// session starts. Handlers hold the lock for the whole request.
type Workspace struct {
	mu sync.Mutex

	Users   *reposheets.UsersRepo
	Content *reposheets.ContentRepo
	Auth    *auth.Authenticator
	Daily   *daily.Resolver
}

func (w *Workspace) Lock()   { w.mu.Lock() }
func (w *Workspace) Unlock() { w.mu.Unlock() }

// Degraded is true when the Users workbook could not be loaded; login and
// registration then answer "service unavailable".
func (w *Workspace) Degraded() bool {
	return !w.Users.Available()
}

type Metrics interface {
	ObserveWorkspace(degraded bool)
	SetWorkspaces(n int)
}

type Options struct {
	UsersSheet   string
	ContentSheet string
	// Timeout bounds the loading of both workbooks.
	Timeout  time.Duration
	TTL      time.Duration
	Location *time.Location
	Now      func() time.Time
}

type Manager struct {
	gw      sheets.Gateway
	opts    Options
	log     *slog.Logger
	metrics Metrics

	workspaces *cache.Cache[*Workspace]
}

func NewManager(gw sheets.Gateway, opts Options, log *slog.Logger, metrics Metrics) *Manager {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.TTL <= 0 {
		opts.TTL = 2 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}

	return &Manager{
		gw:         gw,
		opts:       opts,
		log:        log,
		metrics:    metrics,
		workspaces: cache.New[*Workspace](opts.TTL, cache.Sliding(), cache.WithClock(opts.Now)),
	}
}

// Workspace returns the workspace of sid, building it on first use. Building
// never fails: unreachable workbooks leave the workspace degraded.
func (m *Manager) Workspace(ctx context.Context, sid string) *Workspace {
	ws, _ := m.workspaces.GetOrLoad(sid, func() (*Workspace, error) {
		return m.build(ctx, sid), nil
	})

	if m.metrics != nil {
		m.metrics.SetWorkspaces(m.workspaces.Len())
	}

	return ws
}

func (m *Manager) build(ctx context.Context, sid string) *Workspace {
	ctx, cancel := context.WithTimeout(ctx, m.opts.Timeout)
	defer cancel()

	users := reposheets.LoadUsers(ctx, m.gw, m.opts.UsersSheet)
	content := reposheets.LoadContent(ctx, m.gw, m.opts.ContentSheet)

	ws := &Workspace{
		Users:   users,
		Content: content,
		Auth:    auth.NewAuthenticator(users, m.opts.Now),
		Daily:   daily.NewResolver(content, m.opts.Location, m.opts.Now),
	}

	if err := users.LoadErr(); err != nil {
		m.log.WarnContext(ctx, "sheets_open_failed", "table", m.opts.UsersSheet, "err", err)
	}
	if err := content.LoadErr(); err != nil {
		m.log.WarnContext(ctx, "sheets_open_failed", "table", m.opts.ContentSheet, "err", err)
	}

	m.log.InfoContext(ctx, "workspace_loaded",
		"sid", sid,
		"users", users.Len(),
		"content_rows", content.Len(),
		"degraded", ws.Degraded(),
	)

	if m.metrics != nil {
		m.metrics.ObserveWorkspace(ws.Degraded())
	}

	return ws
}

// Drop forgets the workspace of sid, on logout.
func (m *Manager) Drop(sid string) {
	m.workspaces.Delete(sid)
}

func (m *Manager) Len() int {
	return m.workspaces.Len()
}

// Run purges idle workspaces every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.workspaces.Purge(); n > 0 {
				m.log.Debug("workspaces_purged", "count", n)
			}
			if m.metrics != nil {
				m.metrics.SetWorkspaces(m.workspaces.Len())
			}
		}
	}
}
