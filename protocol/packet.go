package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MagicCookie prefixes every packet of the protocol.
const MagicCookie uint32 = 0xabcddcba

// DiscoveryPort is the well-known UDP port offers are broadcast to.
const DiscoveryPort uint16 = 13122

// Message types
const (
	TypeOffer   byte = 0x2
	TypeRequest byte = 0x3
	TypePayload byte = 0x4
)

// Field widths and total packet sizes.
const (
	headerSize   = 5 // cookie(4) + type(1)
	NameSize     = 32
	DecisionSize = 5

	OfferSize         = headerSize + 2 + NameSize
	RequestSize       = headerSize + 1 + NameSize
	ClientPayloadSize = headerSize + DecisionSize
	ServerPayloadSize = headerSize + 3
)

// ErrMalformedPacket is returned by every Decode function when the buffer has
// the wrong length, the wrong cookie or the wrong message type.
var ErrMalformedPacket = errors.New("malformed packet")

// Result is the outcome carried by a server payload.
type Result uint8

const (
	Playing Result = 0x0
	Tie     Result = 0x1
	Loss    Result = 0x2
	Win     Result = 0x3
)

// String returns the label shown to the player.
func (r Result) String() string {
	switch r {
	case Playing:
		return "Playing"
	case Tie:
		return "Tie"
	case Loss:
		return "Loss"
	case Win:
		return "Win"
	default:
		return fmt.Sprintf("Result(%d)", uint8(r))
	}
}

// Decision is the 5-byte player action of a client payload.
type Decision string

const (
	Hit   Decision = "Hittt"
	Stand Decision = "Stand"
)

// Valid reports whether d is one of the two decisions the dealer understands.
func (d Decision) Valid() bool {
	return d == Hit || d == Stand
}

// ParseDecision maps the words typed by a player ("hit", "stand") to a Decision.
func ParseDecision(s string) (Decision, error) {
	switch s {
	case "hit", "Hit", "h", string(Hit):
		return Hit, nil
	case "stand", "Stand", "s":
		return Stand, nil
	}
	return "", fmt.Errorf("unknown decision %q", s)
}

// Offer is broadcast over UDP by servers waiting for players.
type Offer struct {
	ServerPort uint16
	ServerName string
}

// Request opens a session and asks for a number of rounds.
type Request struct {
	Rounds   uint8
	TeamName string
}

// ClientPayload carries the player decision during a round.
type ClientPayload struct {
	Decision Decision
}

// ServerPayload carries one dealt card and the round result.
// Rank 0 and Suit 0 mean that no card is attached.
type ServerPayload struct {
	Result Result
	Rank   uint8
	Suit   uint8
}

// HasCard reports whether the payload carries a real card.
func (p ServerPayload) HasCard() bool {
	return p.Rank != 0
}

func putHeader(buf []byte, msgType byte) {
	binary.BigEndian.PutUint32(buf[0:4], MagicCookie)
	buf[4] = msgType
}

// checkHeader validates length, cookie and type of an incoming packet.
func checkHeader(buf []byte, size int, msgType byte) error {
	if len(buf) != size {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedPacket, size, len(buf))
	}
	if cookie := binary.BigEndian.Uint32(buf[0:4]); cookie != MagicCookie {
		return fmt.Errorf("%w: invalid magic cookie %#x", ErrMalformedPacket, cookie)
	}
	if buf[4] != msgType {
		return fmt.Errorf("%w: expected type %#x, got %#x", ErrMalformedPacket, msgType, buf[4])
	}
	return nil
}

// MarshalBinary encodes the offer into its 39-byte layout.
func (o Offer) MarshalBinary() ([]byte, error) {
	buf := make([]byte, OfferSize)
	putHeader(buf, TypeOffer)
	binary.BigEndian.PutUint16(buf[5:7], o.ServerPort)
	putString(buf[7:], o.ServerName)
	return buf, nil
}

// DecodeOffer parses a 39-byte offer.
func DecodeOffer(buf []byte) (Offer, error) {
	if err := checkHeader(buf, OfferSize, TypeOffer); err != nil {
		return Offer{}, err
	}
	return Offer{
		ServerPort: binary.BigEndian.Uint16(buf[5:7]),
		ServerName: getString(buf[7:]),
	}, nil
}

// MarshalBinary encodes the request into its 38-byte layout.
func (r Request) MarshalBinary() ([]byte, error) {
	buf := make([]byte, RequestSize)
	putHeader(buf, TypeRequest)
	buf[5] = r.Rounds
	putString(buf[6:], r.TeamName)
	return buf, nil
}

// DecodeRequest parses a 38-byte request.
func DecodeRequest(buf []byte) (Request, error) {
	if err := checkHeader(buf, RequestSize, TypeRequest); err != nil {
		return Request{}, err
	}
	return Request{
		Rounds:   buf[5],
		TeamName: getString(buf[6:]),
	}, nil
}

// MarshalBinary encodes the decision into a 10-byte payload.
func (p ClientPayload) MarshalBinary() ([]byte, error) {
	buf := make([]byte, ClientPayloadSize)
	putHeader(buf, TypePayload)
	putString(buf[5:], string(p.Decision))
	return buf, nil
}

// DecodeClientPayload parses a 10-byte player payload. It does not check the
// decision itself: deciding what to do with an unknown decision is up to the
// session.
func DecodeClientPayload(buf []byte) (ClientPayload, error) {
	if err := checkHeader(buf, ClientPayloadSize, TypePayload); err != nil {
		return ClientPayload{}, err
	}
	return ClientPayload{Decision: Decision(getString(buf[5:]))}, nil
}

// MarshalBinary encodes the result and card into an 8-byte payload.
func (p ServerPayload) MarshalBinary() ([]byte, error) {
	buf := make([]byte, ServerPayloadSize)
	putHeader(buf, TypePayload)
	buf[5] = uint8(p.Result)
	buf[6] = p.Rank
	buf[7] = p.Suit
	return buf, nil
}

// DecodeServerPayload parses an 8-byte dealer payload.
func DecodeServerPayload(buf []byte) (ServerPayload, error) {
	if err := checkHeader(buf, ServerPayloadSize, TypePayload); err != nil {
		return ServerPayload{}, err
	}
	return ServerPayload{
		Result: Result(buf[5]),
		Rank:   buf[6],
		Suit:   buf[7],
	}, nil
}
