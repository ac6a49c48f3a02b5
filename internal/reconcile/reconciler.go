package reconcile

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Whiskey24/arkserver-notify/internal/rcon"
	"github.com/Whiskey24/arkserver-notify/internal/storage"
)

// Store is the slice of the presence store the reconciler needs.
// Satisfied by *storage.Repository.
type Store interface {
	Status() (storage.ServerStatus, error)
	MarkServerOnline(now time.Time) error
	MarkServerOffline(now time.Time) error
	SetLastNotified(now time.Time) error
	AllPlayers() ([]storage.Player, error)
	OnlinePlayers() ([]storage.Player, error)
	InsertPlayerOnline(steamID int64, name string, now time.Time) error
	MarkPlayerOnline(steamID int64, now time.Time) error
	MarkPlayerOffline(steamID int64, now time.Time) error
}

// Reconciler computes state transitions between a fresh poll outcome
// and the presence store, updating the store as it goes.
type Reconciler struct {
	throttle Throttle
}

// New creates a Reconciler with the given down-notification interval.
func New(notifyInterval time.Duration) *Reconciler {
	return &Reconciler{throttle: Throttle{Interval: notifyInterval}}
}

// Reconcile applies one poll outcome to the store and returns the
// transitions to notify about: the server event (if any) first, then
// player events in store order with first-ever sightings last.
//
// A failure to flip a single player skips that player's event and
// moves on; a status-level store failure abandons the remainder for
// this server, with the events produced so far still returned so they
// can be dispatched. The next successful pass self-corrects either
// way, since every pass is computed fresh from current store contents.
func (r *Reconciler) Reconcile(repo Store, outcome rcon.Outcome, now time.Time) ([]Event, error) {
	status, err := repo.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to read server status: %w", err)
	}

	if !outcome.Reachable {
		return r.serverDown(repo, status, now)
	}

	var events []Event

	if err := repo.MarkServerOnline(now); err != nil {
		return nil, fmt.Errorf("failed to update server status: %w", err)
	}

	// A recovery re-arms the throttle so the next outage notifies
	// immediately. A NULL server_online means this is the first poll
	// ever; that is not a recovery.
	if status.ServerOnline.Valid && !status.ServerOnline.Bool {
		if err := repo.SetLastNotified(now); err != nil {
			return nil, fmt.Errorf("failed to reset notification time: %w", err)
		}
		events = append(events, Event{Kind: ServerUp})
	}

	playerEvents, err := r.diffPlayers(repo, outcome.Players, now)
	events = append(events, playerEvents...)
	return events, err
}

// serverDown handles an unreachable poll. Player rows are left
// untouched: no snapshot was obtained, and absence of data must never
// be conflated with player departure.
func (r *Reconciler) serverDown(repo Store, status storage.ServerStatus, now time.Time) ([]Event, error) {
	if err := repo.MarkServerOffline(now); err != nil {
		return nil, fmt.Errorf("failed to update server status: %w", err)
	}

	if !r.throttle.ShouldNotifyDown(status, now) {
		slog.Debug("Server still down, notification throttled")
		return nil, nil
	}

	if err := repo.SetLastNotified(now); err != nil {
		return nil, fmt.Errorf("failed to record notification time: %w", err)
	}

	return []Event{{Kind: ServerDown}}, nil
}

// diffPlayers walks the stored players against the snapshot, flipping
// states and emitting events. Players present in both the stored-online
// set and the snapshot are steady state: no event, no mutation. A
// failed flip (an unknown identity, a write error) is logged and the
// player skipped; the rest of the diff still runs.
func (r *Reconciler) diffPlayers(repo Store, snapshot rcon.Snapshot, now time.Time) ([]Event, error) {
	players, err := repo.AllPlayers()
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	remaining := make(rcon.Snapshot, len(snapshot))
	for id, name := range snapshot {
		remaining[id] = name
	}

	var events []Event
	for _, p := range players {
		_, present := remaining[p.SteamID]
		switch {
		case present && !p.OnlineNow:
			// Known player came back online. The stored name stays as
			// it was at first insert.
			delete(remaining, p.SteamID)
			if err := repo.MarkPlayerOnline(p.SteamID, now); err != nil {
				slog.Error("Failed to mark player online", "steamID", p.SteamID, "error", err)
				continue
			}
			slog.Info("Player came online", "steamID", p.SteamID, "name", p.Name)
			ev := Event{Kind: PlayerOnline, SteamID: p.SteamID, PlayerName: p.Name}
			if p.LastLogoff.Valid {
				t := p.LastLogoff.Time
				ev.LastLogoff = &t
			}
			ev.Roster = r.rosterExcluding(repo, p.SteamID)
			events = append(events, ev)

		case !present && p.OnlineNow:
			if err := repo.MarkPlayerOffline(p.SteamID, now); err != nil {
				slog.Error("Failed to mark player offline", "steamID", p.SteamID, "error", err)
				continue
			}
			slog.Info("Player went offline", "steamID", p.SteamID, "name", p.Name)
			ev := Event{Kind: PlayerOffline, SteamID: p.SteamID, PlayerName: p.Name}
			if p.LastLogon.Valid {
				t := p.LastLogon.Time
				ev.LastLogon = &t
			}
			ev.Roster = r.rosterExcluding(repo, p.SteamID)
			events = append(events, ev)

		case present:
			// Still online, nothing to do.
			delete(remaining, p.SteamID)
		}
	}

	// Whatever is left in the snapshot has never been seen before; a
	// first sighting is always an arrival.
	ids := make([]int64, 0, len(remaining))
	for id := range remaining {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		name := remaining[id]
		if err := repo.InsertPlayerOnline(id, name, now); err != nil {
			slog.Error("Failed to insert player", "steamID", id, "error", err)
			continue
		}
		slog.Info("New player came online", "steamID", id, "name", name)
		ev := Event{Kind: PlayerOnline, SteamID: id, PlayerName: name}
		ev.Roster = r.rosterExcluding(repo, id)
		events = append(events, ev)
	}

	return events, nil
}

// rosterExcluding returns the players online right now, minus the one
// the event is about. A read failure only costs the roster sentence in
// the message, so it is logged and swallowed.
func (r *Reconciler) rosterExcluding(repo Store, steamID int64) []storage.Player {
	online, err := repo.OnlinePlayers()
	if err != nil {
		slog.Error("Failed to read online players for roster", "error", err)
		return nil
	}
	roster := online[:0]
	for _, p := range online {
		if p.SteamID != steamID {
			roster = append(roster, p)
		}
	}
	return roster
}
