package blackjack

import (
	"fmt"

	"github.com/luca-patrignani/blackjack/protocol"
)

// Phase is the stage a Round is in.
type Phase string

const (
	Dealing    Phase = "dealing"
	PlayerTurn Phase = "player-turn"
	DealerTurn Phase = "dealer-turn"
	Complete   Phase = "complete"
)

// Event is one packet the dealer sends to the player: a card and the round
// result at the moment it is sent. An Event with the zero Card closes the round.
type Event struct {
	Card   Card
	Result protocol.Result
}

// Payload converts the event to its wire representation.
func (e Event) Payload() protocol.ServerPayload {
	return protocol.ServerPayload{
		Result: e.Result,
		Rank:   e.Card.rank,
		Suit:   e.Card.suit,
	}
}

// Round is a single deal-to-outcome game between the player and the dealer.
// It performs no I/O: every transition returns the events to transmit, in order.
type Round struct {
	deck   *Deck
	player Hand
	dealer Hand
	hidden Card
	phase  Phase
	result protocol.Result
}

// NewRound prepares a round that will draw from deck.
func NewRound(deck *Deck) *Round {
	return &Round{
		deck:   deck,
		phase:  Dealing,
		result: protocol.Playing,
	}
}

// Deal gives two cards to the player and one visible card to the dealer. The
// dealer's second card is drawn too but kept hidden until the dealer's turn.
func (r *Round) Deal() ([]Event, error) {
	if r.phase != Dealing {
		return nil, fmt.Errorf("deal: %w", r.wrongPhase(Dealing))
	}
	events := make([]Event, 0, 3)
	for range 2 {
		c, err := r.draw()
		if err != nil {
			return nil, err
		}
		r.player = append(r.player, c)
		events = append(events, Event{Card: c, Result: protocol.Playing})
	}
	up, err := r.draw()
	if err != nil {
		return nil, err
	}
	r.dealer = append(r.dealer, up)
	events = append(events, Event{Card: up, Result: protocol.Playing})

	r.hidden, err = r.draw()
	if err != nil {
		return nil, err
	}
	r.dealer = append(r.dealer, r.hidden)
	r.phase = PlayerTurn
	return events, nil
}

// Hit draws a card for the player. If the player goes over 21 the card is sent
// with a Loss result and the round is over: the dealer does not play.
func (r *Round) Hit() ([]Event, error) {
	if r.phase != PlayerTurn {
		return nil, fmt.Errorf("hit: %w", r.wrongPhase(PlayerTurn))
	}
	c, err := r.draw()
	if err != nil {
		return nil, err
	}
	r.player = append(r.player, c)
	if r.player.Busted() {
		r.finish(protocol.Loss)
		return []Event{{Card: c, Result: protocol.Loss}}, nil
	}
	return []Event{{Card: c, Result: protocol.Playing}}, nil
}

// Stand ends the player's turn and plays the dealer: the hidden card is shown,
// then the dealer draws while under 17. The last event carries no card and the
// final result.
func (r *Round) Stand() ([]Event, error) {
	if r.phase != PlayerTurn {
		return nil, fmt.Errorf("stand: %w", r.wrongPhase(PlayerTurn))
	}
	r.phase = DealerTurn
	events := []Event{{Card: r.hidden, Result: protocol.Playing}}
	for r.dealer.Score() < DealerStandsAt {
		c, err := r.draw()
		if err != nil {
			return nil, err
		}
		r.dealer = append(r.dealer, c)
		events = append(events, Event{Card: c, Result: protocol.Playing})
	}
	r.finish(Outcome(r.player, r.dealer))
	return append(events, Event{Result: r.result}), nil
}

// Outcome compares the two hands once the dealer is done, from the player's
// point of view.
func Outcome(player, dealer Hand) protocol.Result {
	p, d := player.Score(), dealer.Score()
	switch {
	case d > Blackjack:
		return protocol.Win
	case p > d:
		return protocol.Win
	case d > p:
		return protocol.Loss
	default:
		return protocol.Tie
	}
}

// Phase returns the current stage of the round.
func (r *Round) Phase() Phase {
	return r.phase
}

// Result returns Playing until the round is complete.
func (r *Round) Result() protocol.Result {
	return r.result
}

// Player returns a copy of the player's hand.
func (r *Round) Player() Hand {
	return append(Hand(nil), r.player...)
}

// Dealer returns a copy of the dealer's hand, hidden card included.
func (r *Round) Dealer() Hand {
	return append(Hand(nil), r.dealer...)
}

func (r *Round) finish(result protocol.Result) {
	r.result = result
	r.phase = Complete
}

func (r *Round) draw() (Card, error) {
	c, err := r.deck.Draw()
	if err != nil {
		return Card{}, fmt.Errorf("round in phase %s: %w", r.phase, err)
	}
	return c, nil
}

func (r *Round) wrongPhase(expected Phase) error {
	return &PhaseError{Expected: expected, Actual: r.phase}
}

// PhaseError is returned when an action is attempted in the wrong phase.
type PhaseError struct {
	Expected Phase
	Actual   Phase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("round is in phase %s, expected %s", e.Actual, e.Expected)
}
