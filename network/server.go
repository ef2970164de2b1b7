package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/luca-patrignani/blackjack/discovery"
)

const maxAcceptBackoff = time.Second

// Server accepts players and runs one Session per connection while
// broadcasting offers on the local network.
type Server struct {
	Name     string
	listener net.Listener
	cfg      settings
	sessions sync.WaitGroup

	mu     sync.Mutex
	closed bool
	cancel context.CancelFunc
}

// Listen binds the TCP socket players connect to. Use ":0" to let the system
// pick a free port; Port reports the one actually bound.
func Listen(address string, name string, opts ...Option) (*Server, error) {
	l, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", address, err)
	}
	return NewServer(l, name, opts...), nil
}

// NewServer serves players on an already bound listener.
func NewServer(l net.Listener, name string, opts ...Option) *Server {
	return &Server{
		Name:     name,
		listener: l,
		cfg:      newSettings(opts),
	}
}

// Addr returns the address the server accepts players on.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Port returns the bound TCP port, the one advertised in offers.
func (s *Server) Port() uint16 {
	if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
		return uint16(addr.Port)
	}
	return 0
}

// Serve runs the broadcaster and the accept loop until ctx is done or Close is
// called, then waits for every running session to stop. Sessions are cancelled
// together with ctx. Serve on a closed server returns net.ErrClosed.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return net.ErrClosed
	}
	s.cancel = cancel
	s.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	if s.cfg.broadcast {
		opts := append([]discovery.Option{discovery.WithLogger(s.cfg.logger)}, s.cfg.discovery...)
		broadcaster := discovery.NewBroadcaster(s.Name, s.Port(), opts...)
		g.Go(func() error {
			return broadcaster.Run(ctx)
		})
	}
	g.Go(func() error {
		return s.accept(ctx)
	})
	err := g.Wait()
	s.sessions.Wait()
	return err
}

// Close stops the broadcaster and the accept loop and cancels running
// sessions. A Serve in progress returns once its sessions are done.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

func (s *Server) accept(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		s.listener.Close()
	})
	defer stop()

	s.cfg.logger.Info("accepting players", "address", s.listener.Addr().String())
	var backoff time.Duration
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			backoff = min(max(2*backoff, 5*time.Millisecond), maxAcceptBackoff)
			s.cfg.logger.Error("accept failed", "error", err, "retry_in", backoff)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			continue
		}
		backoff = 0

		session := newSession(conn, s.cfg)
		session.logger.Info("new connection")
		s.sessions.Add(1)
		go func() {
			defer s.sessions.Done()
			if err := session.Run(ctx); err != nil {
				session.logger.Warn("session aborted", "error", err)
			}
		}()
	}
}
