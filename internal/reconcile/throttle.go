package reconcile

import (
	"time"

	"github.com/Whiskey24/arkserver-notify/internal/storage"
)

// DefaultNotifyInterval is the minimum time between consecutive
// down notifications for the same server.
const DefaultNotifyInterval = time.Hour

// Throttle decides whether a down notification may be sent again.
type Throttle struct {
	Interval time.Duration
}

// ShouldNotifyDown reports whether a down notification should go out
// now. status is the row as read before this poll's writes: a server
// that was still marked online has just gone down, which always
// notifies; a server already marked offline stays quiet until Interval
// has passed since the last notification. When this returns true the
// caller must record now as the new last-notified time together with
// the decision.
func (t Throttle) ShouldNotifyDown(status storage.ServerStatus, now time.Time) bool {
	if !status.LastNotified.Valid {
		return true
	}
	stillOffline := status.ServerOnline.Valid && !status.ServerOnline.Bool
	if stillOffline && now.Before(status.LastNotified.Time.Add(t.Interval)) {
		return false
	}
	return true
}
