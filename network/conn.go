package network

import (
	"encoding"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"
)

var (
	// ErrConnectionClosed is returned when the peer closes the connection or
	// the connection breaks.
	ErrConnectionClosed = errors.New("connection closed")
	// ErrTimeout is returned when a receive exceeds its deadline.
	ErrTimeout = errors.New("receive timed out")
)

// packetConn reads and writes fixed-size packets on a stream connection.
// It must be used by a single goroutine.
type packetConn struct {
	conn net.Conn
}

func newPacketConn(conn net.Conn) *packetConn {
	return &packetConn{conn: conn}
}

// read returns exactly size bytes. A zero timeout waits forever.
func (c *packetConn) read(size int, timeout time.Duration) ([]byte, error) {
	deadline := time.Time{}
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nil, classify(err)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(c.conn, buf); err != nil {
		return nil, classify(err)
	}
	return buf, nil
}

func (c *packetConn) write(packet encoding.BinaryMarshaler) error {
	buf, err := packet.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := c.conn.Write(buf); err != nil {
		return classify(err)
	}
	return nil
}

func (c *packetConn) Close() error {
	return c.conn.Close()
}

func (c *packetConn) remote() string {
	return c.conn.RemoteAddr().String()
}

// classify maps low level errors to ErrTimeout or ErrConnectionClosed so
// callers can match them with errors.Is.
func classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	if isConnectionError(err) {
		return fmt.Errorf("%w: %w", ErrConnectionClosed, err)
	}
	return err
}

// isConnectionError checks if the error indicates a broken/lost connection
func isConnectionError(err error) bool {
	if errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var syscallErr *os.SyscallError
	return errors.As(err, &syscallErr)
}
