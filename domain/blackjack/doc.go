// Package blackjack implements the game played between a player and the
// dealer: cards, decks, hand scoring and the round state machine.
//
// # Core Types
//
// Card: a playing card with suit and rank. The zero Card means "no card".
//
// Deck: the pile a round draws from, either shuffled or in a fixed order.
//
// Hand: the cards of the player or of the dealer, scored with soft aces.
//
// Round: one deal-to-outcome game. Its methods return the events the dealer
// has to transmit so the same deck and decisions always give the same packets.
//
// # Game Flow
//
// A round progresses through phases: Dealing → PlayerTurn → DealerTurn →
// Complete. A player bust jumps straight from PlayerTurn to Complete.
package blackjack
