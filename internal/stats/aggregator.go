package stats

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Target pairs a source with the handle to query it for.
type Target struct {
	Source Source
	Handle string
}

// Aggregator fans a fetch out to every configured target. Targets are fixed
// at construction.
type Aggregator struct {
	fetcher *Fetcher
	targets []Target
}

// NewAggregator creates an Aggregator over targets.
func NewAggregator(fetcher *Fetcher, targets []Target) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		targets: append([]Target(nil), targets...),
	}
}

// Targets returns the configured targets in order.
func (a *Aggregator) Targets() []Target {
	return append([]Target(nil), a.targets...)
}

// FetchAll starts every target's fetch without waiting for the others and
// returns the outcomes in target order. onOutcome, when non-nil, receives
// each outcome as soon as it is ready; it may be called concurrently.
func (a *Aggregator) FetchAll(ctx context.Context, onOutcome func(Outcome)) []Outcome {
	outcomes := make([]Outcome, len(a.targets))

	// A plain Group: one target failing must not cancel the others.
	var g errgroup.Group
	for i, t := range a.targets {
		g.Go(func() error {
			out := a.fetcher.Fetch(ctx, t.Source, t.Handle)
			outcomes[i] = out
			if onOutcome != nil {
				onOutcome(out)
			}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// FetchOne queries the target whose source is named name.
func (a *Aggregator) FetchOne(ctx context.Context, name string) (Outcome, bool) {
	for _, t := range a.targets {
		if t.Source.Name == name {
			return a.fetcher.Fetch(ctx, t.Source, t.Handle), true
		}
	}
	return Outcome{}, false
}
