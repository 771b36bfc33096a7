package cmd

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/statboard/internal/config"
	"github.com/ziadkadry99/statboard/internal/display"
	"github.com/ziadkadry99/statboard/internal/events"
	"github.com/ziadkadry99/statboard/internal/providers"
	"github.com/ziadkadry99/statboard/internal/refresh"
	"github.com/ziadkadry99/statboard/internal/stats"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `statboard init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// buildService wires the configured sources (filtered by --only) into a
// refresh.Service. bus may be nil.
func buildService(cfg *config.Config, bus *events.Bus) (*refresh.Service, error) {
	targets, err := providers.Targets(cfg, only)
	if err != nil {
		return nil, fmt.Errorf("configuring sources: %w", err)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no sources selected; check --only and the sources in %s", cfgFile)
	}

	fetcher := stats.NewFetcher(nil,
		stats.WithTimeout(cfg.TimeoutDuration()),
		stats.WithUserAgent(cfg.UserAgent),
	)

	sources := make([]stats.Source, 0, len(targets))
	for _, t := range targets {
		sources = append(sources, t.Source)
	}

	return refresh.NewService(stats.NewAggregator(fetcher, targets), display.NewBoard(sources), bus), nil
}

// startBus runs bus's dispatcher until the returned function is called.
// The dispatcher ignores ctx cancellation so that stopping always drains
// the events already queued; ctx only carries values.
func startBus(ctx context.Context, bus *events.Bus) (stop func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		bus.Run(context.WithoutCancel(ctx))
	}()
	return func() {
		bus.Close()
		<-done
	}
}
