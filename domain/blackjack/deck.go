package blackjack

import (
	"errors"
	"math/rand/v2"
)

// DeckSize is the number of cards of a full French deck.
const DeckSize = 52

// ErrDeckExhausted is returned when drawing from an empty deck.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck is the ordered pile a round draws from. It is never refilled.
type Deck struct {
	cards []Card
	next  int
}

// NewDeck returns a deck that deals cards in the given order.
func NewDeck(cards ...Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// NewShuffledDeck returns the 52 cards permuted by rng.
func NewShuffledDeck(rng *rand.Rand) *Deck {
	cards := make([]Card, 0, DeckSize)
	for suit := uint8(Club); suit <= Spade; suit++ {
		for rank := uint8(Ace); rank <= King; rank++ {
			cards = append(cards, Card{suit: suit, rank: rank})
		}
	}
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return &Deck{cards: cards}
}

// Draw removes the top card of the deck.
func (d *Deck) Draw() (Card, error) {
	if d.next >= len(d.cards) {
		return Card{}, ErrDeckExhausted
	}
	c := d.cards[d.next]
	d.next++
	return c, nil
}

// Len returns the number of cards left.
func (d *Deck) Len() int {
	return len(d.cards) - d.next
}

// Dealer builds a fresh deck for every round.
type Dealer interface {
	NewDeck() *Deck
}

// RandomDealer shuffles a new deck with its own generator.
// It is not safe for concurrent use; every session owns one.
type RandomDealer struct {
	rng *rand.Rand
}

func NewRandomDealer(seed uint64) *RandomDealer {
	return &RandomDealer{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (d *RandomDealer) NewDeck() *Deck {
	return NewShuffledDeck(d.rng)
}

// FixedDealer hands out the given decks in order, then falls back to shuffled
// decks generated from a zero seed.
type FixedDealer struct {
	Decks    []*Deck
	fallback *RandomDealer
}

func (d *FixedDealer) NewDeck() *Deck {
	if len(d.Decks) > 0 {
		deck := d.Decks[0]
		d.Decks = d.Decks[1:]
		return deck
	}
	if d.fallback == nil {
		d.fallback = NewRandomDealer(0)
	}
	return d.fallback.NewDeck()
}
