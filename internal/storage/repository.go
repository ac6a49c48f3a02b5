package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Repository handles all database operations for one server's presence
// store. Every mutation is committed immediately, so a crash between
// steps leaves the last-known-good state rather than losing a
// transition.
type Repository struct {
	db       *sql.DB
	serverID int64
}

// Open opens (creating if necessary) the SQLite store at dbPath and
// makes sure the schema and the server's status row exist. Opening an
// already-initialized store is a no-op beyond connecting.
func Open(dbPath string, serverID int64) (*Repository, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := &Repository{db: db, serverID: serverID}

	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate creates the schema and the status row. Safe to run on every
// open.
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS player_log (
			steam_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			last_logon TIMESTAMP,
			last_logoff TIMESTAMP,
			online_now BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS server_status (
			server_id INTEGER PRIMARY KEY,
			checked_on TIMESTAMP,
			last_online TIMESTAMP,
			last_offline TIMESTAMP,
			last_notified TIMESTAMP,
			server_online BOOLEAN
		)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	_, err := r.db.Exec(
		`INSERT OR IGNORE INTO server_status (server_id) VALUES (?)`,
		r.serverID,
	)
	if err != nil {
		return fmt.Errorf("failed to create status row: %w", err)
	}

	return nil
}

// Player operations

// AllPlayers returns every known player, ordered by steam ID.
func (r *Repository) AllPlayers() ([]Player, error) {
	return r.queryPlayers(
		`SELECT steam_id, name, last_logon, last_logoff, online_now
		 FROM player_log ORDER BY steam_id`,
	)
}

// OnlinePlayers returns the players currently marked online, ordered by
// steam ID.
func (r *Repository) OnlinePlayers() ([]Player, error) {
	return r.queryPlayers(
		`SELECT steam_id, name, last_logon, last_logoff, online_now
		 FROM player_log WHERE online_now = 1 ORDER BY steam_id`,
	)
}

func (r *Repository) queryPlayers(query string) ([]Player, error) {
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.SteamID, &p.Name, &p.LastLogon, &p.LastLogoff, &p.OnlineNow); err != nil {
			return nil, err
		}
		players = append(players, p)
	}

	return players, rows.Err()
}

// InsertPlayerOnline records a never-before-seen player as online. The
// stored name is fixed at this point and not refreshed on later
// sightings.
func (r *Repository) InsertPlayerOnline(steamID int64, name string, now time.Time) error {
	_, err := r.db.Exec(
		`INSERT INTO player_log (steam_id, name, last_logon, online_now) VALUES (?, ?, ?, 1)`,
		steamID, name, now,
	)
	return err
}

// MarkPlayerOnline flips a known player back to online.
func (r *Repository) MarkPlayerOnline(steamID int64, now time.Time) error {
	return r.flipPlayer(
		`UPDATE player_log SET last_logon = ?, online_now = 1 WHERE steam_id = ?`,
		steamID, now,
	)
}

// MarkPlayerOffline flips a known player to offline.
func (r *Repository) MarkPlayerOffline(steamID int64, now time.Time) error {
	return r.flipPlayer(
		`UPDATE player_log SET last_logoff = ?, online_now = 0 WHERE steam_id = ?`,
		steamID, now,
	)
}

func (r *Repository) flipPlayer(query string, steamID int64, now time.Time) error {
	result, err := r.db.Exec(query, now, steamID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("unknown player %d", steamID)
	}
	return nil
}

// Status operations

// Status reads the server's status row.
func (r *Repository) Status() (ServerStatus, error) {
	var s ServerStatus
	err := r.db.QueryRow(
		`SELECT server_id, checked_on, last_online, last_offline, last_notified, server_online
		 FROM server_status WHERE server_id = ?`,
		r.serverID,
	).Scan(&s.ServerID, &s.CheckedOn, &s.LastOnline, &s.LastOffline, &s.LastNotified, &s.ServerOnline)
	if err != nil {
		return ServerStatus{}, err
	}
	return s, nil
}

// MarkServerOnline records a successful poll.
func (r *Repository) MarkServerOnline(now time.Time) error {
	_, err := r.db.Exec(
		`UPDATE server_status SET checked_on = ?, last_online = ?, server_online = 1 WHERE server_id = ?`,
		now, now, r.serverID,
	)
	return err
}

// MarkServerOffline records a failed poll.
func (r *Repository) MarkServerOffline(now time.Time) error {
	_, err := r.db.Exec(
		`UPDATE server_status SET checked_on = ?, last_offline = ?, server_online = 0 WHERE server_id = ?`,
		now, now, r.serverID,
	)
	return err
}

// SetLastNotified records when a down notification was last sent (or
// re-arms the throttle after a recovery).
func (r *Repository) SetLastNotified(now time.Time) error {
	_, err := r.db.Exec(
		`UPDATE server_status SET last_notified = ? WHERE server_id = ?`,
		now, r.serverID,
	)
	return err
}
