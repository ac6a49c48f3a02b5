package rcon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	gorcon "github.com/gorcon/rcon"
)

// Outcome is the result of one poll. When Reachable is false no
// snapshot was obtained and Players is empty; partial results never
// happen.
type Outcome struct {
	Reachable bool
	Players   Snapshot
}

// Source supplies a player-list snapshot, or reports the server
// unreachable.
type Source interface {
	Poll(ctx context.Context) Outcome
}

// Client polls an ARK server over Source RCON. Any failure to connect,
// authenticate or execute the command collapses to an unreachable
// outcome.
type Client struct {
	addr     string
	password string
	timeout  time.Duration
}

// NewClient creates an RCON client for the given server.
func NewClient(host string, port int, password string) *Client {
	return &Client{
		addr:     fmt.Sprintf("%s:%d", host, port),
		password: password,
		timeout:  10 * time.Second,
	}
}

// Poll connects, runs listplayers and parses the response.
func (c *Client) Poll(ctx context.Context) Outcome {
	if ctx.Err() != nil {
		return Outcome{}
	}

	conn, err := gorcon.Dial(c.addr, c.password,
		gorcon.SetDialTimeout(c.timeout),
		gorcon.SetDeadline(c.timeout),
	)
	if err != nil {
		slog.Warn("Error retrieving player list via rcon", "addr", c.addr, "error", err)
		return Outcome{}
	}
	defer conn.Close()

	raw, err := conn.Execute("listplayers")
	if err != nil {
		slog.Warn("Error retrieving player list via rcon", "addr", c.addr, "error", err)
		return Outcome{}
	}

	return Outcome{Reachable: true, Players: ParsePlayerList(raw)}
}

// FileSource reads a saved RCON response from disk instead of polling a
// live server, selected per server with RCON_DUMP_FILE. Useful for dry
// runs against a captured listplayers dump.
type FileSource struct {
	Path string
}

// Poll reads and parses the file; a read error counts as unreachable.
func (f FileSource) Poll(ctx context.Context) Outcome {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		slog.Warn("Error reading rcon dump file", "path", f.Path, "error", err)
		return Outcome{}
	}
	return Outcome{Reachable: true, Players: ParsePlayerList(string(raw))}
}
