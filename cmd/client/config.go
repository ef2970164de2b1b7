package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/luca-patrignani/blackjack/protocol"
	"github.com/luca-patrignani/blackjack/telemetry"
)

// Config holds the player configuration. Flags override the environment.
type Config struct {
	Team            string        `env:"BLACKJACK_CLIENT_TEAM" envDefault:"Team Joker"`
	DiscoveryPort   uint          `env:"BLACKJACK_CLIENT_DISCOVERY_PORT" envDefault:"13122"`
	Server          string        `env:"BLACKJACK_CLIENT_SERVER"`
	Rounds          uint          `env:"BLACKJACK_CLIENT_ROUNDS" envDefault:"0"`
	Auto            bool          `env:"BLACKJACK_CLIENT_AUTO" envDefault:"false"`
	StandAt         int           `env:"BLACKJACK_CLIENT_STAND_AT" envDefault:"17"`
	ReadTimeout     time.Duration `env:"BLACKJACK_CLIENT_READ_TIMEOUT" envDefault:"60s"`
	Once            bool          `env:"BLACKJACK_CLIENT_ONCE" envDefault:"false"`
	OTelEndpoint    string        `env:"BLACKJACK_OTEL_ENDPOINT"`
	OTelEnabled     bool          `env:"BLACKJACK_OTEL_ENABLED" envDefault:"true"`
	OTelSampleRatio float64       `env:"BLACKJACK_OTEL_SAMPLE_RATIO" envDefault:"1"`
	Verbose         bool          `env:"BLACKJACK_CLIENT_VERBOSE" envDefault:"false"`
}

// ParseConfig loads .env, then the environment, then flags.
func ParseConfig(fset *flag.FlagSet, args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	fset.StringVar(&cfg.Team, "team", cfg.Team, "Team name sent to the dealer")
	fset.UintVar(&cfg.DiscoveryPort, "discovery-port", cfg.DiscoveryPort, "UDP port to listen for offers on")
	fset.StringVar(&cfg.Server, "server", cfg.Server, "Dealer host:port, skips discovery")
	fset.UintVar(&cfg.Rounds, "rounds", cfg.Rounds, "Rounds per game (1-255), 0 asks every time")
	fset.BoolVar(&cfg.Auto, "auto", cfg.Auto, "Play automatically instead of asking for every decision")
	fset.IntVar(&cfg.StandAt, "stand-at", cfg.StandAt, "With -auto, hit while the hand is below this total")
	fset.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "Wait for each dealer packet, 0 waits forever")
	fset.BoolVar(&cfg.Once, "once", cfg.Once, "Exit after one game")
	fset.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Debug logging")
	fset.StringVar(&cfg.OTelEndpoint, "otel-endpoint", cfg.OTelEndpoint, "OTLP HTTP collector URL, empty disables tracing")
	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.DiscoveryPort == 0 || cfg.DiscoveryPort > 65535 {
		return Config{}, fmt.Errorf("invalid discovery port %d", cfg.DiscoveryPort)
	}
	if cfg.Rounds > 255 {
		return Config{}, fmt.Errorf("invalid number of rounds %d, expected 1-255", cfg.Rounds)
	}
	cfg.Team = protocol.Truncate(cfg.Team, protocol.NameSize)
	return cfg, nil
}

func (c Config) tracing() telemetry.Config {
	return telemetry.Config{
		Endpoint:    c.OTelEndpoint,
		Enabled:     c.OTelEnabled,
		SampleRatio: c.OTelSampleRatio,
	}
}
