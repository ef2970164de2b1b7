package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"strconv"

	"github.com/luca-patrignani/blackjack/protocol"
)

const bufferSize = 1024

// Server is a dealer found on the network.
type Server struct {
	Addr netip.Addr
	Port uint16
	Name string
}

// Address returns the host:port to dial.
func (s Server) Address() string {
	return netip.AddrPortFrom(s.Addr, s.Port).String()
}

// Listener waits for offers on the discovery port.
type Listener struct {
	Port   uint16
	logger *slog.Logger
}

func NewListener(opts ...Option) *Listener {
	s := newSettings(opts)
	return &Listener{Port: s.port, logger: s.logger}
}

// Find blocks until the first valid offer arrives and returns its sender.
// Datagrams that are too short or do not decode as an Offer are dropped.
// When ctx is done the socket is closed and ctx.Err() is returned.
func (l *Listener) Find(ctx context.Context) (Server, error) {
	port, logger := l.Port, l.logger
	if port == 0 {
		port = protocol.DiscoveryPort
	}
	if logger == nil {
		logger = slog.Default()
	}
	lc := net.ListenConfig{Control: reuseControl}
	conn, err := lc.ListenPacket(ctx, "udp4", ":"+strconv.Itoa(int(port)))
	if err != nil {
		return Server{}, fmt.Errorf("listen for offers: %w", err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	buffer := make([]byte, bufferSize)
	for {
		n, addr, err := conn.ReadFrom(buffer)
		if err != nil {
			if ctx.Err() != nil {
				return Server{}, ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return Server{}, err
			}
			logger.Warn("receive offer failed", "error", err)
			continue
		}
		if n < protocol.OfferSize {
			logger.Debug("dropping short datagram", "from", addr, "bytes", n)
			continue
		}
		offer, err := protocol.DecodeOffer(buffer[:protocol.OfferSize])
		if err != nil {
			logger.Debug("dropping datagram", "from", addr, "error", err)
			continue
		}
		udpAddr, ok := addr.(*net.UDPAddr)
		if !ok {
			continue
		}
		return Server{
			Addr: udpAddr.AddrPort().Addr().Unmap(),
			Port: offer.ServerPort,
			Name: offer.ServerName,
		}, nil
	}
}
