package discovery

import (
	"log/slog"
	"time"

	"github.com/luca-patrignani/blackjack/protocol"
)

const (
	// DefaultInterval is the time between two offers.
	DefaultInterval = time.Second
	// DefaultBroadcastAddress is the limited broadcast address.
	DefaultBroadcastAddress = "255.255.255.255"
)

type Option func(*settings)

type settings struct {
	port     uint16
	interval time.Duration
	address  string
	logger   *slog.Logger
}

func newSettings(opts []Option) settings {
	s := settings{
		port:     protocol.DiscoveryPort,
		interval: DefaultInterval,
		address:  DefaultBroadcastAddress,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithPort changes the UDP port offers are sent to and listened on.
func WithPort(port uint16) Option {
	return func(s *settings) {
		s.port = port
	}
}

// WithInterval changes the time between two offers.
func WithInterval(interval time.Duration) Option {
	return func(s *settings) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithAddress changes the destination of the offers, e.g. a subnet broadcast
// address or a loopback address in tests.
func WithAddress(address string) Option {
	return func(s *settings) {
		s.address = address
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}
