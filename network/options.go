package network

import (
	"log/slog"
	"time"

	"github.com/luca-patrignani/blackjack/discovery"
	"github.com/luca-patrignani/blackjack/domain/blackjack"
)

const (
	// DefaultRequestTimeout bounds the wait for the first packet of a session.
	DefaultRequestTimeout = 60 * time.Second
	// DefaultReadTimeout bounds every other receive.
	DefaultReadTimeout = 60 * time.Second
	// DefaultMaxInvalidDecisions is how many rejected packets in a row end a session.
	DefaultMaxInvalidDecisions = 3
)

type Option func(*settings)

type settings struct {
	logger         *slog.Logger
	requestTimeout time.Duration
	readTimeout    time.Duration
	maxInvalid     int
	newDealer      func() blackjack.Dealer
	discovery      []discovery.Option
	broadcast      bool
	onUpdate       func(Update)
}

func newSettings(opts []Option) settings {
	s := settings{
		logger:         slog.Default(),
		requestTimeout: DefaultRequestTimeout,
		readTimeout:    DefaultReadTimeout,
		maxInvalid:     DefaultMaxInvalidDecisions,
		newDealer: func() blackjack.Dealer {
			return blackjack.NewRandomDealer(blackjack.NewSeed())
		},
		broadcast: true,
		onUpdate:  func(Update) {},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRequestTimeout bounds the wait for the session request. Zero waits forever.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		s.requestTimeout = timeout
	}
}

// WithReadTimeout bounds the wait for decisions (server) and for dealer
// packets (client). Zero waits forever.
func WithReadTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		s.readTimeout = timeout
	}
}

// WithMaxInvalidDecisions sets how many rejected packets in a row a session
// tolerates before giving up.
func WithMaxInvalidDecisions(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxInvalid = n
		}
	}
}

// WithDealer replaces the per-session deck source, e.g. with a
// blackjack.FixedDealer to replay a known game.
func WithDealer(newDealer func() blackjack.Dealer) Option {
	return func(s *settings) {
		if newDealer != nil {
			s.newDealer = newDealer
		}
	}
}

// WithDiscovery passes options to the server's offer broadcaster.
func WithDiscovery(opts ...discovery.Option) Option {
	return func(s *settings) {
		s.discovery = append(s.discovery, opts...)
	}
}

// WithoutBroadcast disables the offer broadcaster.
func WithoutBroadcast() Option {
	return func(s *settings) {
		s.broadcast = false
	}
}

// WithUpdates registers a callback the client calls for every packet of the
// game, in order. It runs on the goroutine calling Play.
func WithUpdates(onUpdate func(Update)) Option {
	return func(s *settings) {
		if onUpdate != nil {
			s.onUpdate = onUpdate
		}
	}
}
