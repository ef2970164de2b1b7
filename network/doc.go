// Package network runs blackjack games over TCP.
//
// # Server side
//
// Server accepts players and gives each connection its own Session. A Session
// reads one Request, then plays the requested number of rounds against the
// player, each with a freshly shuffled deck. While the server runs it also
// broadcasts offers through the discovery package so players can find it.
//
// # Client side
//
// Client connects to a server, sends the Request and plays every round with a
// Strategy, reporting each received packet through the WithUpdates callback.
//
// # Packets after a decision
//
// After Hittt the dealer sends exactly one card. Its result is Loss when the
// player went over 21, and nothing else follows for that round.
//
// After Stand the dealer sends its hidden card and every card it draws, then
// a final packet with no card and the result of the round.
//
// A packet the dealer cannot use is answered with a rejection: no card and a
// Playing result. The player must decide again.
package network
