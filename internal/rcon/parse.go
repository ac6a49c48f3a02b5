package rcon

import (
	"regexp"
	"strconv"
	"strings"
)

// noPlayersSentinel is what the ARK server answers to listplayers when
// the map is empty.
const noPlayersSentinel = "No Players Connected"

// playerLine matches one entry of a listplayers response:
// "0. PlayerName, 76561198000000000". The name is free text; the last
// comma-delimited numeric field is the steam ID.
var playerLine = regexp.MustCompile(`(\d+)\. (.+), (\d+)`)

// Snapshot maps a steam ID to the display name reported by one poll.
type Snapshot map[int64]string

// ParsePlayerList turns a raw listplayers response into a Snapshot.
// Lines that do not look like player entries (banners, headers) are
// skipped. Pure function of its input.
func ParsePlayerList(raw string) Snapshot {
	players := Snapshot{}
	if strings.Contains(raw, noPlayersSentinel) {
		return players
	}
	for _, line := range strings.Split(raw, "\n") {
		m := playerLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		steamID, err := strconv.ParseInt(m[3], 10, 64)
		if err != nil {
			continue
		}
		players[steamID] = m[2]
	}
	return players
}
