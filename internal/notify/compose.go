package notify

import (
	"fmt"
	"strings"
	"time"
)

// OnlinePlayer is one roster entry: a player currently online and when
// they logged on.
type OnlinePlayer struct {
	Name  string
	Since time.Time
}

// Composer renders notification text for one server. All phrasing is
// deterministic given the inputs and now; fixed formats, no locale.
type Composer struct {
	ServerName string
}

// PlayerOnline renders an arrival message. lastLogoff is nil for a
// first-ever sighting.
func (c Composer) PlayerOnline(player string, lastLogoff *time.Time, roster []OnlinePlayer, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ark player %s is now online.", player)
	if lastLogoff != nil {
		clock := lastLogoff.Format("15:04")
		switch {
		case sameDay(now, *lastLogoff):
			fmt.Fprintf(&b, " Player went last offline today at %s.", clock)
		case sameDay(now.AddDate(0, 0, -1), *lastLogoff):
			fmt.Fprintf(&b, " Player went last offline yesterday at %s.", clock)
		default:
			daysAgo := int(now.Sub(*lastLogoff).Hours() / 24)
			fmt.Fprintf(&b, " Player went last offline on %s, %d days ago.",
				lastLogoff.Format("Monday 02 Jan 2006 15:04"), daysAgo)
		}
	}
	b.WriteString(rosterSentence(roster, now))
	return b.String()
}

// PlayerOffline renders a departure message. lastLogon is nil when the
// session start was never recorded.
func (c Composer) PlayerOffline(player string, lastLogon *time.Time, roster []OnlinePlayer, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ark player %s is now offline.", player)
	if lastLogon != nil {
		d := now.Sub(*lastLogon)
		fmt.Fprintf(&b, " Player was online for %d:%02d.", int(d.Hours()), int(d.Minutes())%60)
	}
	b.WriteString(rosterSentence(roster, now))
	return b.String()
}

// ServerDown renders the unreachable-server message.
func (c Composer) ServerDown() string {
	return fmt.Sprintf("Ark server %s seems to be down, rcon connect failed.", c.ServerName)
}

// ServerUp renders the recovery message.
func (c Composer) ServerUp() string {
	return fmt.Sprintf("Ark server %s is back online.", c.ServerName)
}

// rosterSentence lists the other players online, each with logon clock
// time and elapsed duration.
func rosterSentence(roster []OnlinePlayer, now time.Time) string {
	if len(roster) == 0 {
		return " No other players online."
	}

	parts := make([]string, len(roster))
	for i, p := range roster {
		d := now.Sub(p.Since)
		parts[i] = fmt.Sprintf("%s (since %s, %du%02dm)",
			p.Name, p.Since.Format("15:04"), int(d.Hours()), int(d.Minutes())%60)
	}

	if len(roster) == 1 {
		return fmt.Sprintf(" There is 1 player online: %s.", parts[0])
	}
	return fmt.Sprintf(" There are %d players online: %s.", len(roster), strings.Join(parts, ", "))
}

func sameDay(a, b time.Time) bool {
	return a.Format("20060102") == b.Format("20060102")
}
