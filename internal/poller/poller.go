package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Whiskey24/arkserver-notify/internal/config"
	"github.com/Whiskey24/arkserver-notify/internal/notify"
	"github.com/Whiskey24/arkserver-notify/internal/rcon"
	"github.com/Whiskey24/arkserver-notify/internal/reconcile"
	"github.com/Whiskey24/arkserver-notify/internal/storage"
)

// Runner polls every configured server, reconciles the result against
// that server's presence store and dispatches the resulting
// notifications. Servers are processed sequentially; one server's
// failure never aborts the others.
type Runner struct {
	cfg        *config.Config
	registry   *notify.Registry
	reconciler *reconcile.Reconciler
	sources    map[string]rcon.Source
	locks      map[string]*sync.Mutex
}

// New creates a Runner for the configured servers.
func New(cfg *config.Config, registry *notify.Registry) *Runner {
	sources := make(map[string]rcon.Source, len(cfg.ServerConfigs))
	locks := make(map[string]*sync.Mutex, len(cfg.ServerConfigs))
	for _, sc := range cfg.ServerConfigs {
		if sc.RconDumpFile != "" {
			sources[sc.Section] = rcon.FileSource{Path: sc.RconDumpFile}
		} else {
			sources[sc.Section] = rcon.NewClient(sc.RconHost, sc.RconPort, sc.RconPassword)
		}
		locks[sc.Section] = &sync.Mutex{}
	}

	return &Runner{
		cfg:        cfg,
		registry:   registry,
		reconciler: reconcile.New(time.Duration(cfg.NotifyIntervalHours) * time.Hour),
		sources:    sources,
		locks:      locks,
	}
}

// RunOnce polls all servers one time.
func (r *Runner) RunOnce(ctx context.Context) {
	for _, sc := range r.cfg.ServerConfigs {
		select {
		case <-ctx.Done():
			return
		default:
			r.checkServer(ctx, sc)
		}
	}
}

// Run keeps polling on a ticker until the context is cancelled.
func (r *Runner) Run(ctx context.Context, interval time.Duration) {
	slog.Info("Starting poll loop", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial poll
	r.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Poll loop stopped (context cancelled)")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// checkServer runs one poll cycle for a single server. The per-server
// lock keeps at most one reconcile in flight per server when ticks
// overlap a slow pass.
func (r *Runner) checkServer(ctx context.Context, sc config.ServerConfig) {
	lock := r.locks[sc.Section]
	if !lock.TryLock() {
		slog.Warn("Previous poll still running, skipping", "server", sc.Section)
		return
	}
	defer lock.Unlock()

	repo, err := storage.Open(sc.DBFile, sc.ID)
	if err != nil {
		slog.Error("Failed to open presence store", "server", sc.Section, "error", err)
		return
	}
	defer repo.Close()

	outcome := r.sources[sc.Section].Poll(ctx)
	now := time.Now()

	events, err := r.reconciler.Reconcile(repo, outcome, now)
	if err != nil {
		// Events produced before the failure are still dispatched; the
		// next successful cycle self-corrects.
		slog.Error("Reconcile pass aborted", "server", sc.Section, "error", err)
	}

	if len(events) == 0 {
		slog.Debug("No state changes", "server", sc.Section)
		return
	}

	r.dispatch(ctx, sc, events, now)
}

// dispatch composes and sends one message per event. Send failures are
// logged and do not block the remaining events.
func (r *Runner) dispatch(ctx context.Context, sc config.ServerConfig, events []reconcile.Event, now time.Time) {
	notifier, err := r.registry.Get(notify.Kind(sc.Notify))
	if err != nil {
		slog.Error("No notifier for server", "server", sc.Section, "kind", sc.Notify, "error", err)
		return
	}

	composer := notify.Composer{ServerName: sc.Name}
	for _, ev := range events {
		text, ok := composeEvent(composer, ev, now)
		if !ok {
			slog.Error("Unknown event kind, skipping", "server", sc.Section, "kind", ev.Kind)
			continue
		}
		if err := notifier.Send(ctx, sc.NotifyTarget(), text); err != nil {
			slog.Error("Failed to send notification", "server", sc.Section, "error", err)
		} else {
			slog.Info("Sent notification", "server", sc.Section, "text", text)
		}
	}
}

func composeEvent(c notify.Composer, ev reconcile.Event, now time.Time) (string, bool) {
	switch ev.Kind {
	case reconcile.ServerDown:
		return c.ServerDown(), true
	case reconcile.ServerUp:
		return c.ServerUp(), true
	case reconcile.PlayerOnline:
		return c.PlayerOnline(ev.PlayerName, ev.LastLogoff, toRoster(ev.Roster), now), true
	case reconcile.PlayerOffline:
		return c.PlayerOffline(ev.PlayerName, ev.LastLogon, toRoster(ev.Roster), now), true
	}
	return "", false
}

func toRoster(players []storage.Player) []notify.OnlinePlayer {
	roster := make([]notify.OnlinePlayer, 0, len(players))
	for _, p := range players {
		entry := notify.OnlinePlayer{Name: p.Name}
		if p.LastLogon.Valid {
			entry.Since = p.LastLogon.Time
		}
		roster = append(roster, entry)
	}
	return roster
}
