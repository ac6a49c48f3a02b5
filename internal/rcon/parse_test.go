package rcon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePlayerList(t *testing.T) {
	t.Parallel()

	t.Run("two players", func(t *testing.T) {
		t.Parallel()

		got := ParsePlayerList("1. Alice, 111\n2. Bob, 222")
		require.Equal(t, Snapshot{111: "Alice", 222: "Bob"}, got)
	})

	t.Run("no players sentinel", func(t *testing.T) {
		t.Parallel()

		require.Empty(t, ParsePlayerList("No Players Connected"))
	})

	t.Run("sentinel anywhere in output", func(t *testing.T) {
		t.Parallel()

		require.Empty(t, ParsePlayerList("Server received, But no response!!\nNo Players Connected\n"))
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		require.Empty(t, ParsePlayerList(""))
	})

	t.Run("banner lines are skipped", func(t *testing.T) {
		t.Parallel()

		raw := "Connected players:\n\n1. Survivor Joe, 76561198000000001\ngarbage line\n2. Ark Queen, 76561198000000002\n"
		got := ParsePlayerList(raw)
		require.Equal(t, Snapshot{
			76561198000000001: "Survivor Joe",
			76561198000000002: "Ark Queen",
		}, got)
	})

	t.Run("name containing a comma", func(t *testing.T) {
		t.Parallel()

		got := ParsePlayerList("1. Smith, John, 333")
		require.Equal(t, Snapshot{333: "Smith, John"}, got)
	})

	t.Run("windows line endings", func(t *testing.T) {
		t.Parallel()

		got := ParsePlayerList("1. Alice, 111\r\n2. Bob, 222\r\n")
		require.Equal(t, Snapshot{111: "Alice", 222: "Bob"}, got)
	})
}
