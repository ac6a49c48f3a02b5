package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setValidServer(t *testing.T, prefix string) {
	t.Helper()

	t.Setenv(prefix+"_RCON_HOST", "ark.example.com")
	t.Setenv(prefix+"_RCON_PORT", "27020")
	t.Setenv(prefix+"_RCON_PASSWORD", "hunter2")
	t.Setenv(prefix+"_TELEGRAM_CHAT_ID", "-100200300")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	setValidServer(t, "ARK")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, []string{"ark"}, cfg.Servers)
	require.Equal(t, 1, cfg.NotifyIntervalHours)
	require.False(t, cfg.DryRun)
	require.Equal(t, 0, cfg.DaemonIntervalSeconds)
	require.Equal(t, "info", cfg.LogLevel)

	require.Len(t, cfg.ServerConfigs, 1)
	sc := cfg.ServerConfigs[0]
	require.Equal(t, "ark", sc.Section)
	require.Equal(t, int64(1), sc.ID)
	require.Equal(t, "ark", sc.Name)
	require.Equal(t, "telegram", sc.Notify)
	require.Equal(t, "-100200300", sc.NotifyTarget())
	require.Equal(t, filepath.Join("./data", "ark.db"), sc.DBFile)
}

func TestLoadMultipleServers(t *testing.T) {
	t.Setenv("SERVERS", "island,scorched")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("DISCORD_BOT_TOKEN", "tok2")

	setValidServer(t, "ISLAND")
	t.Setenv("ISLAND_NAME", "The Island")

	t.Setenv("SCORCHED_RCON_HOST", "scorched.example.com")
	t.Setenv("SCORCHED_RCON_PORT", "27021")
	t.Setenv("SCORCHED_RCON_PASSWORD", "hunter3")
	t.Setenv("SCORCHED_NOTIFY", "discord")
	t.Setenv("SCORCHED_DISCORD_CHANNEL_ID", "1234567890")
	t.Setenv("SCORCHED_DB_FILE", "/var/lib/ark/scorched.db")

	cfg, err := Load()
	require.NoError(t, err)
	require.Len(t, cfg.ServerConfigs, 2)

	island := cfg.ServerConfigs[0]
	require.Equal(t, "The Island", island.Name)
	require.Equal(t, int64(1), island.ID)

	scorched := cfg.ServerConfigs[1]
	require.Equal(t, "scorched", scorched.Name)
	require.Equal(t, int64(2), scorched.ID)
	require.Equal(t, "discord", scorched.Notify)
	require.Equal(t, "1234567890", scorched.NotifyTarget())
	require.Equal(t, "/var/lib/ark/scorched.db", scorched.DBFile)
}

func TestLoadValidationErrorsNameTheSection(t *testing.T) {
	t.Run("missing rcon host", func(t *testing.T) {
		t.Setenv("SERVERS", "island")
		t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
		t.Setenv("ISLAND_RCON_PORT", "27020")
		t.Setenv("ISLAND_RCON_PASSWORD", "hunter2")
		t.Setenv("ISLAND_TELEGRAM_CHAT_ID", "-1")

		_, err := Load()
		require.ErrorContains(t, err, `server "island"`)
		require.ErrorContains(t, err, "RCON_HOST")
	})

	t.Run("unknown notify kind", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
		setValidServer(t, "ARK")
		t.Setenv("ARK_NOTIFY", "carrier-pigeon")

		_, err := Load()
		require.ErrorContains(t, err, "unknown NOTIFY value")
	})

	t.Run("telegram without chat id", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
		setValidServer(t, "ARK")
		t.Setenv("ARK_TELEGRAM_CHAT_ID", "")

		_, err := Load()
		require.ErrorContains(t, err, "TELEGRAM_CHAT_ID")
	})

	t.Run("transport without token", func(t *testing.T) {
		setValidServer(t, "ARK")

		_, err := Load()
		require.ErrorContains(t, err, "TELEGRAM_BOT_TOKEN")
	})

	t.Run("token not needed in dry run", func(t *testing.T) {
		setValidServer(t, "ARK")
		t.Setenv("DRY_RUN", "true")

		_, err := Load()
		require.NoError(t, err)
	})

	t.Run("dump file replaces rcon settings", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
		t.Setenv("ARK_RCON_DUMP_FILE", "testdata/rconOutput.txt")
		t.Setenv("ARK_TELEGRAM_CHAT_ID", "-1")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "testdata/rconOutput.txt", cfg.ServerConfigs[0].RconDumpFile)
	})

	t.Run("zero notify interval", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
		setValidServer(t, "ARK")
		t.Setenv("NOTIFY_INTERVAL_HOURS", "0")

		_, err := Load()
		require.ErrorContains(t, err, "NOTIFY_INTERVAL_HOURS")
	})
}
