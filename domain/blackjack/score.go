package blackjack

import "strings"

// Blackjack is the best possible total.
const Blackjack = 21

// DealerStandsAt is the total at which the dealer stops drawing.
const DealerStandsAt = 17

// Hand is the ordered list of cards held by the player or by the dealer.
type Hand []Card

// Score computes the blackjack total of the hand. Aces count 11 as long as the
// total does not go over 21, otherwise they count 1.
func Score(hand Hand) int {
	total := 0
	softAces := 0
	for _, c := range hand {
		switch {
		case c.rank == Ace:
			total += 11
			softAces++
		case c.rank >= Jack:
			total += 10
		default:
			total += int(c.rank)
		}
	}
	for total > Blackjack && softAces > 0 {
		total -= 10
		softAces--
	}
	return total
}

// Score is a shorthand for Score(h).
func (h Hand) Score() int {
	return Score(h)
}

// Busted reports whether the hand is over 21.
func (h Hand) Busted() bool {
	return Score(h) > Blackjack
}

func (h Hand) String() string {
	cards := make([]string, len(h))
	for i, c := range h {
		cards[i] = c.String()
	}
	return strings.Join(cards, " - ")
}
