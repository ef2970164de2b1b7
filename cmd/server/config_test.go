package main

import (
	"flag"
	"strings"
	"testing"
	"time"
)

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("BLACKJACK_SERVER_NAME", "Env Dealer")
	t.Setenv("BLACKJACK_SERVER_READ_TIMEOUT", "5s")
	fs := flag.NewFlagSet("test", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, []string{"-address", "127.0.0.1:4000", "-max-invalid", "5"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "Env Dealer" {
		t.Fatalf("expected env name, got %q", cfg.Name)
	}
	if cfg.Address != "127.0.0.1:4000" || cfg.MaxInvalid != 5 {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if cfg.ReadTimeout != 5*time.Second || cfg.RequestTimeout != 60*time.Second {
		t.Fatalf("unexpected timeouts %v, %v", cfg.ReadTimeout, cfg.RequestTimeout)
	}
	if cfg.DiscoveryPort != 13122 || cfg.Broadcast != "auto" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestParseConfigTruncatesName(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-name", strings.Repeat("x", 40)})
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Name) != 32 {
		t.Fatalf("expected a 32 byte name, got %d bytes", len(cfg.Name))
	}
}

func TestParseConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"port zero", []string{"-discovery-port", "0"}},
		{"port too large", []string{"-discovery-port", "70000"}},
		{"empty name", []string{"-name", ""}},
		{"bad duration", []string{"-interval", "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(new(strings.Builder))
			if _, err := ParseConfig(fs, tt.args); err == nil {
				t.Fatalf("expected an error for %v", tt.args)
			}
		})
	}
}

func TestParseConfigTracing(t *testing.T) {
	t.Setenv("BLACKJACK_OTEL_ENABLED", "false")
	t.Setenv("BLACKJACK_OTEL_SAMPLE_RATIO", "0.25")
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-otel-endpoint", "http://collector:4318"})
	if err != nil {
		t.Fatal(err)
	}
	tracing := cfg.tracing()
	if tracing.Endpoint != "http://collector:4318" || tracing.Enabled || tracing.SampleRatio != 0.25 {
		t.Fatalf("unexpected tracing config %+v", tracing)
	}
}
