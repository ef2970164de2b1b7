// Package protocol implements the binary wire format shared by blackjack
// servers and clients.
//
// # Packets
//
// Every packet starts with the 4-byte magic cookie 0xabcddcba followed by a
// 1-byte message type. All integers are big-endian and all strings are
// fixed-width UTF-8, zero padded on the right.
//
//	Offer          (UDP)  cookie | 0x2 | port(2) | server name(32)   39 bytes
//	Request        (TCP)  cookie | 0x3 | rounds(1) | team name(32)   38 bytes
//	ClientPayload  (TCP)  cookie | 0x4 | "Hittt" or "Stand"          10 bytes
//	ServerPayload  (TCP)  cookie | 0x4 | result | rank | suit         8 bytes
//
// Each packet type implements encoding.BinaryMarshaler and has a matching
// Decode function; decoding fails with ErrMalformedPacket when the length,
// cookie or type does not match.
//
// A ServerPayload with rank 0 carries no card. With a terminal result it closes
// the round; with result Playing it tells the client that its last packet was
// rejected and the dealer is still waiting for a decision.
package protocol
