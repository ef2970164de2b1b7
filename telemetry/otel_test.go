package telemetry_test

import (
	"context"
	"testing"

	"github.com/luca-patrignani/blackjack/telemetry"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name string
		cfg  telemetry.Config
	}{
		{name: "no endpoint", cfg: telemetry.Config{Enabled: true, SampleRatio: 1}},
		{name: "disabled", cfg: telemetry.Config{Endpoint: "http://localhost:4318", SampleRatio: 1}},
		// A non-routable address: nothing is exported before shutdown.
		{name: "endpoint set", cfg: telemetry.Config{Endpoint: "http://192.0.2.1:4318", Enabled: true, SampleRatio: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shutdown, err := telemetry.Setup(context.Background(), "blackjack-test", tt.cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := shutdown(context.Background()); err != nil {
				t.Fatalf("shutdown error: %v", err)
			}
		})
	}
}

func TestSetupRejectsSampleRatio(t *testing.T) {
	cfg := telemetry.Config{Endpoint: "http://192.0.2.1:4318", Enabled: true, SampleRatio: 1.5}
	if _, err := telemetry.Setup(context.Background(), "blackjack-test", cfg); err == nil {
		t.Fatal("expected an error for a ratio above 1")
	}
}

func TestNoopShutdownIgnoresCancelledContext(t *testing.T) {
	shutdown, err := telemetry.Setup(context.Background(), "blackjack-test", telemetry.Config{})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown should not fail: %v", err)
	}
}
