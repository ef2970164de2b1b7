//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package discovery

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// reuseControl lets several listeners on the same host share the discovery port.
func reuseControl(network, address string, c syscall.RawConn) error {
	return setsockopts(c, unix.SO_REUSEADDR, unix.SO_REUSEPORT)
}

func broadcastControl(network, address string, c syscall.RawConn) error {
	return setsockopts(c, unix.SO_BROADCAST)
}

func setsockopts(c syscall.RawConn, opts ...int) error {
	var opErr error
	err := c.Control(func(fd uintptr) {
		for _, opt := range opts {
			if opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, opt, 1); opErr != nil {
				return
			}
		}
	})
	if err != nil {
		return err
	}
	return opErr
}
