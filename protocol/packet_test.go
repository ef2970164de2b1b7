package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"
)

func TestOfferRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		offer    Offer
		expected Offer
	}{
		{
			name:     "short name",
			offer:    Offer{ServerPort: 40123, ServerName: "Dealer"},
			expected: Offer{ServerPort: 40123, ServerName: "Dealer"},
		},
		{
			name:     "exact width",
			offer:    Offer{ServerPort: 1, ServerName: strings.Repeat("x", NameSize)},
			expected: Offer{ServerPort: 1, ServerName: strings.Repeat("x", NameSize)},
		},
		{
			name:     "over-length name is truncated",
			offer:    Offer{ServerPort: 65535, ServerName: strings.Repeat("abcd", 10)},
			expected: Offer{ServerPort: 65535, ServerName: strings.Repeat("abcd", 8)},
		},
		{
			name:     "empty name",
			offer:    Offer{ServerPort: 0},
			expected: Offer{ServerPort: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := tt.offer.MarshalBinary()
			if err != nil {
				t.Fatal(err)
			}
			if len(buf) != OfferSize {
				t.Fatalf("expected %d bytes, got %d", OfferSize, len(buf))
			}
			decoded, err := DecodeOffer(buf)
			if err != nil {
				t.Fatal(err)
			}
			if decoded != tt.expected {
				t.Fatalf("expected %+v, got %+v", tt.expected, decoded)
			}
		})
	}
}

func TestOfferLayout(t *testing.T) {
	buf, err := Offer{ServerPort: 0x1234, ServerName: "ab"}.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	expected := []byte{0xab, 0xcd, 0xdc, 0xba, 0x02, 0x12, 0x34, 'a', 'b'}
	if !bytes.Equal(buf[:len(expected)], expected) {
		t.Fatalf("expected prefix %x, got %x", expected, buf[:len(expected)])
	}
	if !bytes.Equal(buf[len(expected):], make([]byte, OfferSize-len(expected))) {
		t.Fatalf("name is not zero padded: %x", buf)
	}
}

func TestRequestRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		request  Request
		expected Request
	}{
		{"one round", Request{Rounds: 1, TeamName: "Team Joker"}, Request{Rounds: 1, TeamName: "Team Joker"}},
		{"max rounds", Request{Rounds: 255, TeamName: "T"}, Request{Rounds: 255, TeamName: "T"}},
		{
			"long name",
			Request{Rounds: 3, TeamName: strings.Repeat("0123456789", 4)},
			Request{Rounds: 3, TeamName: "01234567890123456789012345678901"},
		},
		{
			// 31 ASCII bytes + a 2-byte rune: the rune does not fit and is dropped.
			"multi-byte rune on the boundary",
			Request{Rounds: 2, TeamName: strings.Repeat("a", 31) + "é"},
			Request{Rounds: 2, TeamName: strings.Repeat("a", 31)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := tt.request.MarshalBinary()
			if err != nil {
				t.Fatal(err)
			}
			if len(buf) != RequestSize {
				t.Fatalf("expected %d bytes, got %d", RequestSize, len(buf))
			}
			decoded, err := DecodeRequest(buf)
			if err != nil {
				t.Fatal(err)
			}
			if decoded != tt.expected {
				t.Fatalf("expected %+v, got %+v", tt.expected, decoded)
			}
		})
	}
}

func TestClientPayloadRoundTrip(t *testing.T) {
	for _, d := range []Decision{Hit, Stand} {
		buf, err := ClientPayload{Decision: d}.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		if len(buf) != ClientPayloadSize {
			t.Fatalf("expected %d bytes, got %d", ClientPayloadSize, len(buf))
		}
		if string(buf[5:]) != string(d) {
			t.Fatalf("expected decision bytes %q, got %q", d, buf[5:])
		}
		decoded, err := DecodeClientPayload(buf)
		if err != nil {
			t.Fatal(err)
		}
		if decoded.Decision != d {
			t.Fatalf("expected %q, got %q", d, decoded.Decision)
		}
	}
}

func TestClientPayloadUnknownDecisionDecodes(t *testing.T) {
	buf, err := ClientPayload{Decision: "Fold"}.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := DecodeClientPayload(buf)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Decision.Valid() {
		t.Fatalf("decision %q should not be valid", decoded.Decision)
	}
}

func TestServerPayloadRoundTrip(t *testing.T) {
	payloads := []ServerPayload{
		{Result: Playing, Rank: 1, Suit: 0},
		{Result: Loss, Rank: 13, Suit: 3},
		{Result: Win},
		{Result: Tie},
	}
	for _, p := range payloads {
		buf, err := p.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		if len(buf) != ServerPayloadSize {
			t.Fatalf("expected %d bytes, got %d", ServerPayloadSize, len(buf))
		}
		decoded, err := DecodeServerPayload(buf)
		if err != nil {
			t.Fatal(err)
		}
		if decoded != p {
			t.Fatalf("expected %+v, got %+v", p, decoded)
		}
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	offer, _ := Offer{ServerPort: 1, ServerName: "s"}.MarshalBinary()
	request, _ := Request{Rounds: 1, TeamName: "t"}.MarshalBinary()
	client, _ := ClientPayload{Decision: Stand}.MarshalBinary()
	server, _ := ServerPayload{Result: Win}.MarshalBinary()

	decoders := []struct {
		name   string
		valid  []byte
		decode func([]byte) error
	}{
		{"offer", offer, func(b []byte) error { _, err := DecodeOffer(b); return err }},
		{"request", request, func(b []byte) error { _, err := DecodeRequest(b); return err }},
		{"client payload", client, func(b []byte) error { _, err := DecodeClientPayload(b); return err }},
		{"server payload", server, func(b []byte) error { _, err := DecodeServerPayload(b); return err }},
	}
	for _, d := range decoders {
		t.Run(d.name+"/short", func(t *testing.T) {
			if err := d.decode(d.valid[:len(d.valid)-1]); !errors.Is(err, ErrMalformedPacket) {
				t.Fatalf("expected ErrMalformedPacket, got %v", err)
			}
		})
		t.Run(d.name+"/long", func(t *testing.T) {
			if err := d.decode(append(bytes.Clone(d.valid), 0)); !errors.Is(err, ErrMalformedPacket) {
				t.Fatalf("expected ErrMalformedPacket, got %v", err)
			}
		})
		t.Run(d.name+"/cookie", func(t *testing.T) {
			buf := bytes.Clone(d.valid)
			binary.BigEndian.PutUint32(buf, 0xdeadbeef)
			if err := d.decode(buf); !errors.Is(err, ErrMalformedPacket) {
				t.Fatalf("expected ErrMalformedPacket, got %v", err)
			}
		})
		t.Run(d.name+"/type", func(t *testing.T) {
			buf := bytes.Clone(d.valid)
			buf[4] = 0x7
			if err := d.decode(buf); !errors.Is(err, ErrMalformedPacket) {
				t.Fatalf("expected ErrMalformedPacket, got %v", err)
			}
		})
	}
}

func TestParseDecision(t *testing.T) {
	tests := []struct {
		input    string
		expected Decision
		wantErr  bool
	}{
		{"hit", Hit, false},
		{"stand", Stand, false},
		{"Hittt", Hit, false},
		{"fold", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		d, err := ParseDecision(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tt.input, err)
		}
		if d != tt.expected {
			t.Fatalf("%q: expected %q, got %q", tt.input, tt.expected, d)
		}
	}
}
