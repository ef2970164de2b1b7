package blackjack

import (
	"encoding/binary"

	"go.dedis.ch/kyber/v4/suites"
)

var suite suites.Suite = suites.MustFind("Ed25519")

// NewSeed returns 64 bits read from the suite's cryptographic random stream.
// Sessions use it to seed the generator that shuffles their decks.
func NewSeed() uint64 {
	var b [8]byte
	suite.RandomStream().XORKeyStream(b[:], b[:])
	return binary.BigEndian.Uint64(b[:])
}
