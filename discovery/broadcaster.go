package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/luca-patrignani/blackjack/protocol"
)

// Broadcaster announces a server on the local network by sending an Offer
// packet at a fixed interval. Nothing is expected back.
type Broadcaster struct {
	Name     string
	TCPPort  uint16
	Port     uint16
	Interval time.Duration
	Address  string
	logger   *slog.Logger
}

// NewBroadcaster prepares the offers of a server named name accepting players
// on tcpPort.
func NewBroadcaster(name string, tcpPort uint16, opts ...Option) *Broadcaster {
	s := newSettings(opts)
	return &Broadcaster{
		Name:     name,
		TCPPort:  tcpPort,
		Port:     s.port,
		Interval: s.interval,
		Address:  s.address,
		logger:   s.logger,
	}
}

// Run sends offers until ctx is done. Send failures are logged and retried at
// the next tick; Run only fails if the socket cannot be opened. Zero fields of
// a Broadcaster built without NewBroadcaster take the package defaults.
func (b *Broadcaster) Run(ctx context.Context) error {
	b.applyDefaults()
	packet, err := protocol.Offer{ServerPort: b.TCPPort, ServerName: b.Name}.MarshalBinary()
	if err != nil {
		return err
	}
	dst, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(b.Address, strconv.Itoa(int(b.Port))))
	if err != nil {
		return fmt.Errorf("resolve broadcast address: %w", err)
	}
	lc := net.ListenConfig{Control: broadcastControl}
	conn, err := lc.ListenPacket(ctx, "udp4", ":0")
	if err != nil {
		return fmt.Errorf("open broadcast socket: %w", err)
	}
	defer conn.Close()

	b.logger.Info("broadcasting offers", "address", dst.String(), "tcp_port", b.TCPPort, "interval", b.Interval)
	ticker := time.NewTicker(b.Interval)
	defer ticker.Stop()
	for {
		if _, err := conn.WriteTo(packet, dst); err != nil {
			b.logger.Warn("broadcast failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (b *Broadcaster) applyDefaults() {
	if b.Port == 0 {
		b.Port = protocol.DiscoveryPort
	}
	if b.Interval <= 0 {
		b.Interval = DefaultInterval
	}
	if b.Address == "" {
		b.Address = DefaultBroadcastAddress
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
}
