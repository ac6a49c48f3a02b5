package reconcile

import (
	"time"

	"github.com/Whiskey24/arkserver-notify/internal/storage"
)

// Kind identifies a state transition worth notifying about.
type Kind int

const (
	ServerDown Kind = iota + 1
	ServerUp
	PlayerOnline
	PlayerOffline
)

// Event is one state transition produced by a reconcile pass.
type Event struct {
	Kind       Kind
	SteamID    int64
	PlayerName string

	// LastLogon is the start of the session that just ended, set on
	// PlayerOffline events for duration phrasing.
	LastLogon *time.Time

	// LastLogoff is the previous logoff, set on PlayerOnline events for
	// "last seen" phrasing. Nil for a first-ever sighting.
	LastLogoff *time.Time

	// Roster holds the other players online after the transition was
	// applied. Only set on player events.
	Roster []storage.Player
}
