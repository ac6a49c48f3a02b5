package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for one run.
type Config struct {
	// Servers lists the configured server section names; each section's
	// settings come from <SECTION>_-prefixed variables.
	Servers []string `env:"SERVERS" envDefault:"ark" envSeparator:","`

	// DataDir is where per-server SQLite files live.
	DataDir string `env:"DATA_DIR" envDefault:"./data"`

	// NotifyIntervalHours is the minimum time between consecutive
	// down notifications for the same server.
	NotifyIntervalHours int `env:"NOTIFY_INTERVAL_HOURS" envDefault:"1"`

	// DryRun composes and logs messages without sending anything.
	DryRun bool `env:"DRY_RUN" envDefault:"false"`

	// DaemonIntervalSeconds keeps the process running and polls on a
	// ticker when greater than zero; zero means run once and exit.
	DaemonIntervalSeconds int `env:"DAEMON_INTERVAL_SECONDS" envDefault:"0"`

	// Shared notification credentials.
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	DiscordBotToken  string `env:"DISCORD_BOT_TOKEN"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// ServerConfigs is filled from the per-section variables.
	ServerConfigs []ServerConfig `env:"-"`
}

// ServerConfig holds one server's settings, read from variables
// prefixed with the uppercased section name.
type ServerConfig struct {
	// Section is the name used in SERVERS and as the variable prefix.
	Section string `env:"-"`

	// ID keys the status row in this server's store.
	ID int64 `env:"-"`

	// Name is the display name used in messages; defaults to Section.
	Name string `env:"NAME"`

	RconHost     string `env:"RCON_HOST"`
	RconPort     int    `env:"RCON_PORT"`
	RconPassword string `env:"RCON_PASSWORD"`

	// RconDumpFile reads a captured listplayers dump from disk instead
	// of polling the live server. RCON settings are ignored when set.
	RconDumpFile string `env:"RCON_DUMP_FILE"`

	// Notify selects the transport: "telegram" or "discord".
	Notify string `env:"NOTIFY" envDefault:"telegram"`

	TelegramChatID   string `env:"TELEGRAM_CHAT_ID"`
	DiscordChannelID string `env:"DISCORD_CHANNEL_ID"`

	// DBFile overrides the store path, default <DATA_DIR>/<section>.db.
	DBFile string `env:"DB_FILE"`
}

// NotifyTarget returns the destination for the configured transport.
func (s ServerConfig) NotifyTarget() string {
	if s.Notify == "discord" {
		return s.DiscordChannelID
	}
	return s.TelegramChatID
}

// Load reads configuration from environment variables, loading .env
// first if present. Malformed configuration is fatal at startup: every
// error names the offending variable or server section.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if len(cfg.Servers) == 0 {
		return nil, fmt.Errorf("SERVERS must name at least one server section")
	}
	if cfg.NotifyIntervalHours < 1 {
		return nil, fmt.Errorf("NOTIFY_INTERVAL_HOURS must be at least 1")
	}

	for i, section := range cfg.Servers {
		section = strings.TrimSpace(section)
		if section == "" {
			return nil, fmt.Errorf("SERVERS contains an empty section name")
		}

		sc := ServerConfig{Section: section, ID: int64(i + 1)}
		opts := env.Options{Prefix: strings.ToUpper(section) + "_"}
		if err := env.ParseWithOptions(&sc, opts); err != nil {
			return nil, fmt.Errorf("failed to parse configuration for server %q: %w", section, err)
		}

		if sc.Name == "" {
			sc.Name = section
		}
		if sc.DBFile == "" {
			sc.DBFile = filepath.Join(cfg.DataDir, section+".db")
		}

		if err := cfg.validateServer(sc); err != nil {
			return nil, err
		}

		cfg.ServerConfigs = append(cfg.ServerConfigs, sc)
	}

	return cfg, nil
}

func (c *Config) validateServer(sc ServerConfig) error {
	if sc.RconDumpFile == "" {
		if sc.RconHost == "" {
			return fmt.Errorf("server %q: RCON_HOST is required", sc.Section)
		}
		if sc.RconPort <= 0 || sc.RconPort > 65535 {
			return fmt.Errorf("server %q: RCON_PORT must be a valid port", sc.Section)
		}
		if sc.RconPassword == "" {
			return fmt.Errorf("server %q: RCON_PASSWORD is required", sc.Section)
		}
	}

	switch sc.Notify {
	case "telegram":
		if sc.TelegramChatID == "" {
			return fmt.Errorf("server %q: TELEGRAM_CHAT_ID is required for telegram notifications", sc.Section)
		}
		if c.TelegramBotToken == "" && !c.DryRun {
			return fmt.Errorf("server %q uses telegram notifications but TELEGRAM_BOT_TOKEN is not set", sc.Section)
		}
	case "discord":
		if sc.DiscordChannelID == "" {
			return fmt.Errorf("server %q: DISCORD_CHANNEL_ID is required for discord notifications", sc.Section)
		}
		if c.DiscordBotToken == "" && !c.DryRun {
			return fmt.Errorf("server %q uses discord notifications but DISCORD_BOT_TOKEN is not set", sc.Section)
		}
	default:
		return fmt.Errorf("server %q: unknown NOTIFY value %q (want telegram or discord)", sc.Section, sc.Notify)
	}

	return nil
}
