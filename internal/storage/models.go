package storage

import "database/sql"

// Player is one row of the per-server player log. A row is created the
// first time a steam ID shows up in a player list and is never deleted;
// the timestamps always reflect the latest transition in each direction.
type Player struct {
	SteamID    int64
	Name       string
	LastLogon  sql.NullTime
	LastLogoff sql.NullTime
	OnlineNow  bool
}

// ServerStatus is the single status row of a server's store. All
// timestamps start out NULL; ServerOnline is NULL until the server has
// been polled at least once.
type ServerStatus struct {
	ServerID     int64
	CheckedOn    sql.NullTime
	LastOnline   sql.NullTime
	LastOffline  sql.NullTime
	LastNotified sql.NullTime
	ServerOnline sql.NullBool
}
