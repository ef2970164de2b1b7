// Command server runs a blackjack dealer. It advertises itself on the local
// network and plays with every player that connects.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/luca-patrignani/blackjack/discovery"
	"github.com/luca-patrignani/blackjack/network"
	"github.com/luca-patrignani/blackjack/telemetry"
)

const shutdownTimeout = 5 * time.Second

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

	shutdown, err := telemetry.Setup(ctx, "blackjack-server", cfg.tracing())
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

	ip, err := localIP()
	if err != nil {
		logger.Warn("could not find the local IP address", "error", err)
	}
	destination := offerDestination(cfg.Broadcast, ip)

	opts := append(cfg.options(),
		network.WithLogger(logger),
		network.WithDiscovery(
			discovery.WithPort(uint16(cfg.DiscoveryPort)),
			discovery.WithAddress(destination),
			discovery.WithInterval(cfg.Interval),
		),
	)
	server, err := network.Listen(cfg.Address, cfg.Name, opts...)
	if err != nil {
		return err
	}
	defer server.Close()

	logger.Info("Server started, listening on IP address "+ip.String(),
		"name", cfg.Name,
		"port", server.Port(),
		"offers_to", destination)
	return server.Serve(ctx)
}
