package ledger

import (
	"github.com/luca-patrignani/blackjack/domain/blackjack"
	"github.com/luca-patrignani/blackjack/protocol"
)

// Block records one finished round.
type Block struct {
	Index     int         `json:"index"`
	Timestamp int64       `json:"timestamp"`
	PrevHash  string      `json:"prev_hash"`
	Hash      string      `json:"hash"`
	Record    RoundRecord `json:"record"`
}

// RoundRecord is what the ledger keeps of a round.
type RoundRecord struct {
	Round  int             `json:"round"`
	Team   string          `json:"team"`
	Player []CardRecord    `json:"player"`
	Dealer []CardRecord    `json:"dealer"`
	Result protocol.Result `json:"result"`
}

type CardRecord struct {
	Suit uint8 `json:"suit"`
	Rank uint8 `json:"rank"`
}

// NewRoundRecord builds a record from the two final hands.
func NewRoundRecord(round int, team string, player, dealer blackjack.Hand, result protocol.Result) RoundRecord {
	return RoundRecord{
		Round:  round,
		Team:   team,
		Player: cardRecords(player),
		Dealer: cardRecords(dealer),
		Result: result,
	}
}

func cardRecords(hand blackjack.Hand) []CardRecord {
	records := make([]CardRecord, len(hand))
	for i, c := range hand {
		records[i] = CardRecord{Suit: c.Suit(), Rank: c.Rank()}
	}
	return records
}

// Summary counts the outcomes of the recorded rounds.
type Summary struct {
	Rounds int
	Wins   int
	Losses int
	Ties   int
}

// WinRate returns the fraction of rounds won, 0 when nothing was played.
func (s Summary) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}
