package network

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/luca-patrignani/blackjack/domain/blackjack"
	"github.com/luca-patrignani/blackjack/ledger"
	"github.com/luca-patrignani/blackjack/protocol"
)

// ErrUnexpectedPacket is returned by the client when the dealer sends a packet
// that does not fit the current stage of the round.
var ErrUnexpectedPacket = errors.New("unexpected packet")

// RoundView is what the player knows about the current round.
type RoundView struct {
	Round  int
	Rounds int
	Player blackjack.Hand
	Dealer blackjack.Hand
}

// Strategy chooses the next move of the player.
type Strategy interface {
	Decide(ctx context.Context, view RoundView) (protocol.Decision, error)
}

type StrategyFunc func(ctx context.Context, view RoundView) (protocol.Decision, error)

func (f StrategyFunc) Decide(ctx context.Context, view RoundView) (protocol.Decision, error) {
	return f(ctx, view)
}

// StandAt hits while the player's total is below threshold.
func StandAt(threshold int) Strategy {
	return StrategyFunc(func(_ context.Context, view RoundView) (protocol.Decision, error) {
		if view.Player.Score() < threshold {
			return protocol.Hit, nil
		}
		return protocol.Stand, nil
	})
}

type UpdateKind string

const (
	PlayerCard UpdateKind = "player-card"
	DealerCard UpdateKind = "dealer-card"
	Rejected   UpdateKind = "rejected"
	RoundOver  UpdateKind = "round-over"
)

// Update describes one packet received from the dealer.
type Update struct {
	Kind   UpdateKind
	Card   blackjack.Card
	Result protocol.Result
	View   RoundView
}

// Client is the player side of a session.
type Client struct {
	Team   string
	conn   *packetConn
	ledger *ledger.Ledger
	cfg    settings
}

// Dial connects to a dealer.
func Dial(ctx context.Context, address string, team string, opts ...Option) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}
	return NewClient(conn, team, opts...), nil
}

func NewClient(conn net.Conn, team string, opts ...Option) *Client {
	return &Client{
		Team:   team,
		conn:   newPacketConn(conn),
		ledger: ledger.New(),
		cfg:    newSettings(opts),
	}
}

// Ledger returns the rounds played so far.
func (c *Client) Ledger() *ledger.Ledger {
	return c.ledger
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Play requests rounds from the dealer and plays them with strategy. It returns
// the tally of the rounds completed, even when it fails halfway.
func (c *Client) Play(ctx context.Context, rounds uint8, strategy Strategy) (ledger.Summary, error) {
	if rounds == 0 {
		return ledger.Summary{}, ErrNoRounds
	}
	stop := context.AfterFunc(ctx, func() {
		c.conn.Close()
	})
	defer stop()

	fail := func(err error) (ledger.Summary, error) {
		if ctx.Err() != nil {
			err = context.Cause(ctx)
		}
		return c.ledger.Tally(), err
	}
	if err := c.conn.write(protocol.Request{Rounds: rounds, TeamName: c.Team}); err != nil {
		return fail(fmt.Errorf("send request: %w", err))
	}
	for i := 1; i <= int(rounds); i++ {
		if err := c.playRound(ctx, RoundView{Round: i, Rounds: int(rounds)}, strategy); err != nil {
			return fail(fmt.Errorf("round %d: %w", i, err))
		}
	}
	return c.ledger.Tally(), nil
}

func (c *Client) playRound(ctx context.Context, view RoundView, strategy Strategy) error {
	for i := range 3 {
		card, payload, err := c.receiveCard()
		if err != nil {
			return err
		}
		if payload.Result != protocol.Playing {
			return fmt.Errorf("%w: result %s during the deal", ErrUnexpectedPacket, payload.Result)
		}
		kind := PlayerCard
		if i < 2 {
			view.Player = append(view.Player, card)
		} else {
			view.Dealer = append(view.Dealer, card)
			kind = DealerCard
		}
		c.cfg.onUpdate(Update{Kind: kind, Card: card, Result: payload.Result, View: view})
	}

	result := protocol.Playing
	for result == protocol.Playing {
		decision, err := strategy.Decide(ctx, view)
		if err != nil {
			return fmt.Errorf("decide: %w", err)
		}
		if err := c.conn.write(protocol.ClientPayload{Decision: decision}); err != nil {
			return err
		}
		payload, err := c.receive()
		if err != nil {
			return err
		}
		if payload == rejected {
			c.cfg.onUpdate(Update{Kind: Rejected, View: view})
			continue
		}
		if decision == protocol.Hit {
			card, err := toCard(payload)
			if err != nil {
				return err
			}
			view.Player = append(view.Player, card)
			c.cfg.onUpdate(Update{Kind: PlayerCard, Card: card, Result: payload.Result, View: view})
			result = payload.Result
			continue
		}
		// Stand: the dealer plays until a packet carries the result.
		for {
			if payload.HasCard() {
				card, err := toCard(payload)
				if err != nil {
					return err
				}
				view.Dealer = append(view.Dealer, card)
				c.cfg.onUpdate(Update{Kind: DealerCard, Card: card, Result: payload.Result, View: view})
			}
			if payload.Result != protocol.Playing {
				result = payload.Result
				break
			}
			if payload, err = c.receive(); err != nil {
				return err
			}
		}
	}

	c.cfg.onUpdate(Update{Kind: RoundOver, Result: result, View: view})
	_, err := c.ledger.Append(ledger.NewRoundRecord(view.Round, c.Team, view.Player, view.Dealer, result))
	return err
}

func (c *Client) receive() (protocol.ServerPayload, error) {
	buf, err := c.conn.read(protocol.ServerPayloadSize, c.cfg.readTimeout)
	if err != nil {
		return protocol.ServerPayload{}, err
	}
	return protocol.DecodeServerPayload(buf)
}

func (c *Client) receiveCard() (blackjack.Card, protocol.ServerPayload, error) {
	payload, err := c.receive()
	if err != nil {
		return blackjack.Card{}, payload, err
	}
	card, err := toCard(payload)
	return card, payload, err
}

func toCard(p protocol.ServerPayload) (blackjack.Card, error) {
	card, err := blackjack.NewCard(p.Suit, p.Rank)
	if err != nil {
		return blackjack.Card{}, fmt.Errorf("%w: %w", ErrUnexpectedPacket, err)
	}
	return card, nil
}
