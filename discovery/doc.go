// Package discovery lets players find a dealer on the local network.
//
// A server runs a Broadcaster that sends an Offer packet (its name and the TCP
// port it accepts players on) to the broadcast address every second:
//
//	b := discovery.NewBroadcaster("Dealer", tcpPort)
//	go b.Run(ctx)
//
// A client runs a Listener on the same well-known UDP port (13122 by default)
// and takes the first valid offer:
//
//	server, err := discovery.NewListener().Find(ctx)
//	if err != nil {
//		return err
//	}
//	conn, err := net.Dial("tcp", server.Address())
//
// Behavior:
//   - The listening socket is opened with SO_REUSEADDR and SO_REUSEPORT so
//     several clients can run on the same host.
//   - Packets shorter than an Offer or with a wrong cookie or type are dropped.
//   - Broadcast send errors are logged and do not stop the Broadcaster.
package discovery
