// Command client finds a blackjack dealer on the local network and plays with
// it, interactively or with a fixed strategy.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/luca-patrignani/blackjack/discovery"
	"github.com/luca-patrignani/blackjack/network"
	"github.com/luca-patrignani/blackjack/protocol"
	"github.com/luca-patrignani/blackjack/telemetry"
)

const (
	shutdownTimeout = 5 * time.Second
	retryDelay      = time.Second
)

var errInvalidRounds = errors.New("enter a number between 1 and 255")

func main() {
	cfg, err := ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		pterm.Error.Printfln("parse flags: %v", err)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *slog.Logger {
	logger := &pterm.DefaultLogger
	if verbose {
		logger = logger.WithLevel(pterm.LogLevelDebug)
	}
	return slog.New(pterm.NewSlogHandler(logger))
}

func run(ctx context.Context, cfg Config) error {
	logger := newLogger(cfg.Verbose)

	shutdown, err := telemetry.Setup(ctx, "blackjack-client", cfg.tracing())
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("otel shutdown", "error", err)
		}
	}()

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Black", pterm.FgDarkGray.ToStyle()),
		putils.LettersFromStringWithStyle("jack", pterm.FgRed.ToStyle()),
	).Render()
	pterm.Info.Printfln("Playing as %s", pterm.LightCyan(cfg.Team))

	for {
		err := playGame(ctx, cfg, logger)
		if ctx.Err() != nil {
			return nil
		}
		if cfg.Once {
			return err
		}
		if err != nil {
			logger.Error("game aborted", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(retryDelay):
			}
		}
	}
}

// playGame finds a dealer, plays the requested rounds and prints the summary.
func playGame(ctx context.Context, cfg Config, logger *slog.Logger) error {
	address := cfg.Server
	if address == "" {
		spinner, _ := pterm.DefaultSpinner.Start("Client started, listening for offer requests...")
		listener := discovery.NewListener(
			discovery.WithPort(uint16(cfg.DiscoveryPort)),
			discovery.WithLogger(logger),
		)
		server, err := listener.Find(ctx)
		if err != nil {
			spinner.Fail()
			return err
		}
		spinner.Success(fmt.Sprintf("Received offer from %s at %s", server.Name, server.Addr))
		address = server.Address()
	}

	rounds := uint8(cfg.Rounds)
	if rounds == 0 {
		var err error
		if rounds, err = askRounds(); err != nil {
			return err
		}
	}

	var strategy network.Strategy = network.StandAt(cfg.StandAt)
	if !cfg.Auto {
		strategy = network.StrategyFunc(askDecision)
	}

	logger.Debug("connecting", "address", address)
	client, err := network.Dial(ctx, address, cfg.Team,
		network.WithLogger(logger),
		network.WithReadTimeout(cfg.ReadTimeout),
		network.WithUpdates(printUpdate),
	)
	if err != nil {
		return err
	}
	defer client.Close()
	pterm.Success.Printfln("Connected to %s, requesting %d round(s)", address, rounds)

	summary, err := client.Play(ctx, rounds, strategy)
	pterm.Info.Println(summaryLine(summary))
	return err
}

func parseRounds(input string) (uint8, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > 255 {
		return 0, fmt.Errorf("%w: %q", errInvalidRounds, input)
	}
	return uint8(n), nil
}

func askRounds() (uint8, error) {
	for {
		input, err := pterm.DefaultInteractiveTextInput.
			WithDefaultText("Enter number of rounds to play (1-255)").
			WithDefaultValue("3").
			Show()
		if err != nil {
			return 0, err
		}
		rounds, err := parseRounds(input)
		if err == nil {
			return rounds, nil
		}
		pterm.Warning.Println(err)
	}
}

func askDecision(_ context.Context, view network.RoundView) (protocol.Decision, error) {
	printTable(view, true)
	choice, err := pterm.DefaultInteractiveSelect.
		WithOptions([]string{"Hit", "Stand"}).
		WithDefaultText("Your move").
		Show()
	if err != nil {
		return "", err
	}
	return protocol.ParseDecision(choice)
}
