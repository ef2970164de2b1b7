package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/luca-patrignani/blackjack/domain/blackjack"
	"github.com/luca-patrignani/blackjack/ledger"
	"github.com/luca-patrignani/blackjack/protocol"
)

const tracerName = "github.com/luca-patrignani/blackjack/network"

var (
	// ErrNoRounds is returned when a request asks for zero rounds.
	ErrNoRounds = errors.New("request for zero rounds")
	// ErrUnknownDecision is returned for a client payload that is neither Hittt nor Stand.
	ErrUnknownDecision = errors.New("unknown decision")
	// ErrTooManyInvalid ends a session that keeps sending packets the dealer rejects.
	ErrTooManyInvalid = errors.New("too many invalid packets")
)

// rejected is sent after a packet the dealer could not use: no card, round
// still running, the player has to decide again.
var rejected = protocol.ServerPayload{Result: protocol.Playing}

// Session is the dealer side of one TCP connection: it reads the request and
// plays every requested round with the player. Sessions share no state.
type Session struct {
	ID     string
	conn   *packetConn
	dealer blackjack.Dealer
	ledger *ledger.Ledger
	logger *slog.Logger
	cfg    settings
	team   string
}

// NewSession wraps an accepted connection. The session owns conn and closes it
// when Run returns.
func NewSession(conn net.Conn, opts ...Option) *Session {
	return newSession(conn, newSettings(opts))
}

func newSession(conn net.Conn, cfg settings) *Session {
	id := uuid.NewString()
	pc := newPacketConn(conn)
	return &Session{
		ID:     id,
		conn:   pc,
		dealer: cfg.newDealer(),
		ledger: ledger.New(),
		logger: cfg.logger.With("session", id, "remote", pc.remote()),
		cfg:    cfg,
	}
}

// Ledger returns the rounds played so far.
func (s *Session) Ledger() *ledger.Ledger {
	return s.ledger
}

// Run plays the whole session. Cancelling ctx closes the connection, which
// unblocks any pending receive.
func (s *Session) Run(ctx context.Context) (err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "blackjack.session",
		trace.WithAttributes(attribute.String("blackjack.session.id", s.ID)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	defer s.conn.Close()
	stop := context.AfterFunc(ctx, func() {
		s.conn.Close()
	})
	defer stop()

	request, err := s.awaitRequest()
	if err != nil {
		return s.abort(ctx, fmt.Errorf("await request: %w", err))
	}
	s.team = request.TeamName
	s.logger = s.logger.With("team", s.team)
	span.SetAttributes(
		attribute.String("blackjack.team", s.team),
		attribute.Int("blackjack.rounds", int(request.Rounds)),
	)
	s.logger.Info("player requested rounds", "rounds", request.Rounds)

	for i := 1; i <= int(request.Rounds); i++ {
		if err := s.playRound(ctx, i); err != nil {
			return s.abort(ctx, fmt.Errorf("round %d: %w", i, err))
		}
	}
	summary := s.ledger.Tally()
	s.logger.Info("session complete",
		"rounds", summary.Rounds, "wins", summary.Wins, "losses", summary.Losses, "ties", summary.Ties)
	return nil
}

// abort prefers the cancellation cause over the error the closed connection produced.
func (s *Session) abort(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("session %s: %w", s.ID, context.Cause(ctx))
	}
	return fmt.Errorf("session %s: %w", s.ID, err)
}

func (s *Session) awaitRequest() (protocol.Request, error) {
	buf, err := s.conn.read(protocol.RequestSize, s.cfg.requestTimeout)
	if err != nil {
		return protocol.Request{}, err
	}
	request, err := protocol.DecodeRequest(buf)
	if err != nil {
		return protocol.Request{}, err
	}
	if request.Rounds == 0 {
		return protocol.Request{}, ErrNoRounds
	}
	return request, nil
}

func (s *Session) playRound(ctx context.Context, number int) (err error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "blackjack.round",
		trace.WithAttributes(attribute.Int("blackjack.round", number)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	round := blackjack.NewRound(s.dealer.NewDeck())
	events, err := round.Deal()
	if err != nil {
		return err
	}
	if err := s.send(events); err != nil {
		return err
	}
	for round.Phase() == blackjack.PlayerTurn {
		decision, err := s.awaitDecision()
		if err != nil {
			return err
		}
		switch decision {
		case protocol.Hit:
			events, err = round.Hit()
		case protocol.Stand:
			events, err = round.Stand()
		}
		if err != nil {
			return err
		}
		if err := s.send(events); err != nil {
			return err
		}
	}

	player, dealer := round.Player(), round.Dealer()
	span.SetAttributes(
		attribute.String("blackjack.result", round.Result().String()),
		attribute.Int("blackjack.player.score", player.Score()),
		attribute.Int("blackjack.dealer.score", dealer.Score()),
	)
	s.logger.Debug("round complete",
		"round", number,
		"result", round.Result().String(),
		"player", player.Score(),
		"dealer", dealer.Score())
	if _, err := s.ledger.Append(ledger.NewRoundRecord(number, s.team, player, dealer, round.Result())); err != nil {
		return err
	}
	return nil
}

// awaitDecision reads client payloads until one carries a valid decision.
// Every unusable packet is answered with a rejection; after maxInvalid of them
// in a row the session gives up.
func (s *Session) awaitDecision() (protocol.Decision, error) {
	invalid := 0
	for {
		buf, err := s.conn.read(protocol.ClientPayloadSize, s.cfg.readTimeout)
		if err != nil {
			return "", err
		}
		payload, err := protocol.DecodeClientPayload(buf)
		if err == nil {
			if payload.Decision.Valid() {
				return payload.Decision, nil
			}
			err = fmt.Errorf("%w %q", ErrUnknownDecision, payload.Decision)
		}
		invalid++
		s.logger.Warn("rejecting packet", "error", err, "attempt", invalid)
		if invalid >= s.cfg.maxInvalid {
			return "", fmt.Errorf("%w: %w", ErrTooManyInvalid, err)
		}
		if err := s.conn.write(rejected); err != nil {
			return "", err
		}
	}
}

func (s *Session) send(events []blackjack.Event) error {
	for _, e := range events {
		if err := s.conn.write(e.Payload()); err != nil {
			return err
		}
	}
	return nil
}
