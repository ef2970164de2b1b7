package network

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/luca-patrignani/blackjack/domain/blackjack"
	"github.com/luca-patrignani/blackjack/protocol"
)

// playPipe connects a client to a session through a pipe.
func playPipe(t *testing.T, rounds uint8, strategy Strategy, serverOpts []Option, clientOpts ...Option) (*Client, error) {
	t.Helper()
	server, conn := net.Pipe()
	s := NewSession(server, append([]Option{quiet}, serverOpts...)...)
	fatal := make(chan error, 1)
	go func() {
		fatal <- s.Run(context.Background())
	}()

	c := NewClient(conn, "Team Joker", append([]Option{quiet, WithReadTimeout(5 * time.Second)}, clientOpts...)...)
	defer c.Close()
	_, err := c.Play(context.Background(), rounds, strategy)
	if serverErr := waitRun(t, fatal); err == nil && serverErr != nil {
		t.Fatalf("session: %v", serverErr)
	}
	return c, err
}

func TestClientPlaysWithStandAt(t *testing.T) {
	// Player 7,9 hits a 4 and stands on 20, dealer 5 + Queen draws a 2 and stops at 17.
	hitDeck := blackjack.NewDeck(
		blackjack.MustCard(blackjack.Heart, 7),
		blackjack.MustCard(blackjack.Club, 9),
		blackjack.MustCard(blackjack.Spade, 5),
		blackjack.MustCard(blackjack.Diamond, blackjack.Queen),
		blackjack.MustCard(blackjack.Club, 4),
		blackjack.MustCard(blackjack.Diamond, 2),
	)
	var updates []Update
	c, err := playPipe(t, 2, StandAt(17),
		[]Option{fixedDealer(hitDeck, bustDeck())},
		WithUpdates(func(u Update) { updates = append(updates, u) }),
	)
	if err != nil {
		t.Fatal(err)
	}

	summary := c.Ledger().Tally()
	if summary.Rounds != 2 || summary.Wins != 1 || summary.Losses != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	first, err := c.Ledger().ByIndex(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Record.Player) != 3 || first.Record.Result != protocol.Win {
		t.Fatalf("expected the player to hit once, got hand %+v", first.Record.Player)
	}
	if err := c.Ledger().Verify(); err != nil {
		t.Fatal(err)
	}

	last := updates[len(updates)-1]
	if last.Kind != RoundOver || last.View.Round != 2 || last.View.Rounds != 2 {
		t.Fatalf("unexpected last update %+v", last)
	}
	// K,9 stands on 19, dealer 10,6 draws a 5.
	if last.Result != protocol.Loss || last.View.Player.Score() != 19 || last.View.Dealer.Score() != 21 {
		t.Fatalf("expected 19 against 21, got %s with %d against %d",
			last.Result, last.View.Player.Score(), last.View.Dealer.Score())
	}
}

func TestClientSeesDealerCards(t *testing.T) {
	var dealer blackjack.Hand
	var result protocol.Result
	_, err := playPipe(t, 1, StandAt(0),
		[]Option{fixedDealer(standDeck())},
		WithUpdates(func(u Update) {
			if u.Kind == RoundOver {
				dealer = u.View.Dealer
				result = u.Result
			}
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if dealer.Score() != 19 || len(dealer) != 3 {
		t.Fatalf("expected the dealer to reach 19 with 3 cards, got %v", dealer)
	}
	if result != protocol.Loss {
		t.Fatalf("expected %s, got %s", protocol.Loss, result)
	}
}

func TestClientIsRejected(t *testing.T) {
	calls := 0
	strategy := StrategyFunc(func(context.Context, RoundView) (protocol.Decision, error) {
		calls++
		if calls == 1 {
			return "Hold!", nil
		}
		return protocol.Stand, nil
	})
	rejections := 0
	_, err := playPipe(t, 1, strategy,
		[]Option{fixedDealer(standDeck())},
		WithUpdates(func(u Update) {
			if u.Kind == Rejected {
				rejections++
			}
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if rejections != 1 || calls != 2 {
		t.Fatalf("expected 1 rejection and 2 decisions, got %d and %d", rejections, calls)
	}
}

func TestClientStrategyError(t *testing.T) {
	failure := errors.New("no idea")
	strategy := StrategyFunc(func(context.Context, RoundView) (protocol.Decision, error) {
		return "", failure
	})
	server, conn := net.Pipe()
	defer server.Close()
	go func() {
		// Drain the request and deal a hand, then wait for the client to leave.
		s := NewSession(server, quiet, fixedDealer(standDeck()))
		_ = s.Run(context.Background())
	}()
	c := NewClient(conn, "Team Joker", quiet)
	defer c.Close()
	if _, err := c.Play(context.Background(), 1, strategy); !errors.Is(err, failure) {
		t.Fatalf("expected the strategy error, got %v", err)
	}
}

func TestClientRejectsZeroRounds(t *testing.T) {
	_, conn := net.Pipe()
	c := NewClient(conn, "Team Joker", quiet)
	defer c.Close()
	if _, err := c.Play(context.Background(), 0, StandAt(17)); !errors.Is(err, ErrNoRounds) {
		t.Fatalf("expected ErrNoRounds, got %v", err)
	}
}

func TestClientCancel(t *testing.T) {
	server, conn := net.Pipe()
	defer server.Close()
	go func() {
		// Read the request and never answer.
		buf := make([]byte, protocol.RequestSize)
		_, _ = server.Read(buf)
	}()
	ctx, cancel := context.WithCancel(context.Background())
	c := NewClient(conn, "Team Joker", quiet, WithReadTimeout(0))
	fatal := make(chan error, 1)
	go func() {
		_, err := c.Play(ctx, 1, StandAt(17))
		fatal <- err
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-fatal:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("client did not stop")
	}
}

func TestClientUnexpectedPacket(t *testing.T) {
	server, conn := net.Pipe()
	defer server.Close()
	go func() {
		buf := make([]byte, protocol.RequestSize)
		if _, err := server.Read(buf); err != nil {
			return
		}
		// A result during the deal.
		packet, _ := protocol.ServerPayload{Result: protocol.Win, Suit: 0, Rank: 1}.MarshalBinary()
		_, _ = server.Write(packet)
	}()
	c := NewClient(conn, "Team Joker", quiet, WithReadTimeout(5*time.Second))
	defer c.Close()
	if _, err := c.Play(context.Background(), 1, StandAt(17)); !errors.Is(err, ErrUnexpectedPacket) {
		t.Fatalf("expected ErrUnexpectedPacket, got %v", err)
	}
}
