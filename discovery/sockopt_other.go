//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package discovery

import "syscall"

// Go already enables broadcast on datagram sockets; port sharing is not
// available here, so only one listener per host can run.
var (
	reuseControl     func(network, address string, c syscall.RawConn) error
	broadcastControl func(network, address string, c syscall.RawConn) error
)
