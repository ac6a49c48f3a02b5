package rcon

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileSourcePoll(t *testing.T) {
	t.Parallel()

	t.Run("round trip through a captured dump", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "rconOutput.txt")
		dump := "1. Alice, 111\n2. Bob, 222\n"
		require.NoError(t, os.WriteFile(path, []byte(dump), 0644))

		outcome := FileSource{Path: path}.Poll(context.Background())
		require.True(t, outcome.Reachable)
		require.Equal(t, Snapshot{111: "Alice", 222: "Bob"}, outcome.Players)
	})

	t.Run("empty server dump", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "rconOutput.txt")
		require.NoError(t, os.WriteFile(path, []byte("No Players Connected"), 0644))

		outcome := FileSource{Path: path}.Poll(context.Background())
		require.True(t, outcome.Reachable)
		require.Empty(t, outcome.Players)
	})

	t.Run("missing file counts as unreachable", func(t *testing.T) {
		t.Parallel()

		outcome := FileSource{Path: filepath.Join(t.TempDir(), "nope.txt")}.Poll(context.Background())
		require.False(t, outcome.Reachable)
		require.Empty(t, outcome.Players)
	})
}
