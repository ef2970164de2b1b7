package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/luca-patrignani/blackjack/network"
	"github.com/luca-patrignani/blackjack/protocol"
	"github.com/luca-patrignani/blackjack/telemetry"
)

// Config holds the dealer configuration. Flags override the environment.
type Config struct {
	Name            string        `env:"BLACKJACK_SERVER_NAME" envDefault:"Blackjack Dealer"`
	Address         string        `env:"BLACKJACK_SERVER_ADDRESS" envDefault:":0"`
	DiscoveryPort   uint          `env:"BLACKJACK_SERVER_DISCOVERY_PORT" envDefault:"13122"`
	Broadcast       string        `env:"BLACKJACK_SERVER_BROADCAST" envDefault:"auto"`
	Interval        time.Duration `env:"BLACKJACK_SERVER_OFFER_INTERVAL" envDefault:"1s"`
	RequestTimeout  time.Duration `env:"BLACKJACK_SERVER_REQUEST_TIMEOUT" envDefault:"60s"`
	ReadTimeout     time.Duration `env:"BLACKJACK_SERVER_READ_TIMEOUT" envDefault:"60s"`
	MaxInvalid      int           `env:"BLACKJACK_SERVER_MAX_INVALID" envDefault:"3"`
	OTelEndpoint    string        `env:"BLACKJACK_OTEL_ENDPOINT"`
	OTelEnabled     bool          `env:"BLACKJACK_OTEL_ENABLED" envDefault:"true"`
	OTelSampleRatio float64       `env:"BLACKJACK_OTEL_SAMPLE_RATIO" envDefault:"1"`
	Verbose         bool          `env:"BLACKJACK_SERVER_VERBOSE" envDefault:"false"`
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
	fset.StringVar(&cfg.Name, "name", cfg.Name, "Server name advertised in offers")
	fset.StringVar(&cfg.Address, "address", cfg.Address, "TCP address players connect to")
	fset.UintVar(&cfg.DiscoveryPort, "discovery-port", cfg.DiscoveryPort, "UDP port offers are sent to")
	fset.StringVar(&cfg.Broadcast, "broadcast", cfg.Broadcast, `Offer destination: "auto" for the local subnet, or an IPv4 address`)
	fset.DurationVar(&cfg.Interval, "interval", cfg.Interval, "Time between two offers")
	fset.DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "Wait for the session request, 0 waits forever")
	fset.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "Wait for each decision, 0 waits forever")
	fset.IntVar(&cfg.MaxInvalid, "max-invalid", cfg.MaxInvalid, "Rejected packets in a row before a session is dropped")
	fset.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Log every round")
	fset.StringVar(&cfg.OTelEndpoint, "otel-endpoint", cfg.OTelEndpoint, "OTLP HTTP collector URL, empty disables tracing")
	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.DiscoveryPort == 0 || cfg.DiscoveryPort > 65535 {
		return Config{}, fmt.Errorf("invalid discovery port %d", cfg.DiscoveryPort)
	}
	if cfg.Name == "" {
		return Config{}, errors.New("server name is required")
	}
	cfg.Name = protocol.Truncate(cfg.Name, protocol.NameSize)
	return cfg, nil
}

func (c Config) options() []network.Option {
	return []network.Option{
		network.WithRequestTimeout(c.RequestTimeout),
		network.WithReadTimeout(c.ReadTimeout),
		network.WithMaxInvalidDecisions(c.MaxInvalid),
	}
}

func (c Config) tracing() telemetry.Config {
	return telemetry.Config{
		Endpoint:    c.OTelEndpoint,
		Enabled:     c.OTelEnabled,
		SampleRatio: c.OTelSampleRatio,
	}
}
