// Package refresh runs aggregate fetches, renders them onto a board and
// announces the results on the event bus.
package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ziadkadry99/statboard/internal/display"
	"github.com/ziadkadry99/statboard/internal/events"
	"github.com/ziadkadry99/statboard/internal/stats"
)

// Update is published on events.TopicOutcome for every source outcome.
type Update struct {
	Outcome stats.Outcome
	Slots   []display.Slot
}

// Summary is published on events.TopicRefreshed after each refresh.
type Summary struct {
	Sources  int           `json:"sources"`
	Failed   int           `json:"failed"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
}

// Service owns the aggregator, the board it renders to and the bus it
// publishes on. Refreshes are serialized.
type Service struct {
	agg   *stats.Aggregator
	board *display.Board
	bus   *events.Bus

	running sync.Mutex

	mu      sync.Mutex
	last    []stats.Outcome
	lastSum Summary
}

// NewService creates a Service. bus may be nil.
func NewService(agg *stats.Aggregator, board *display.Board, bus *events.Bus) *Service {
	return &Service{agg: agg, board: board, bus: bus}
}

// Board returns the board the service renders to.
func (s *Service) Board() *display.Board {
	return s.board
}

// Refresh fetches every source and applies each outcome to the board as
// soon as it arrives. It returns the outcomes in source order.
func (s *Service) Refresh(ctx context.Context) []stats.Outcome {
	s.running.Lock()
	defer s.running.Unlock()

	started := time.Now()
	outcomes := s.agg.FetchAll(ctx, func(out stats.Outcome) {
		slots := s.board.Apply(out)
		s.publish(ctx, events.TopicOutcome, Update{Outcome: out, Slots: slots})
	})

	sum := Summary{
		Sources:  len(outcomes),
		Started:  started,
		Duration: time.Since(started),
	}
	for _, out := range outcomes {
		if !out.OK() {
			sum.Failed++
		}
	}

	s.mu.Lock()
	s.last = outcomes
	s.lastSum = sum
	s.mu.Unlock()

	slog.InfoContext(ctx, "stats refreshed",
		"sources", sum.Sources,
		"failed", sum.Failed,
		"duration", sum.Duration.String(),
	)
	s.publish(ctx, events.TopicRefreshed, sum)
	return outcomes
}

// RefreshOne fetches only the source named name, applies its outcome to
// the board and publishes it. Other sources are not queried. It reports
// false when no such source is configured.
func (s *Service) RefreshOne(ctx context.Context, name string) (stats.Outcome, bool) {
	s.running.Lock()
	defer s.running.Unlock()

	out, ok := s.agg.FetchOne(ctx, name)
	if !ok {
		return stats.Outcome{}, false
	}
	slots := s.board.Apply(out)
	s.publish(ctx, events.TopicOutcome, Update{Outcome: out, Slots: slots})

	s.mu.Lock()
	for i := range s.last {
		if s.last[i].Source == name {
			s.last[i] = out
		}
	}
	s.mu.Unlock()

	slog.DebugContext(ctx, "source refreshed", "source", name, "ok", out.OK())
	return out, true
}

// Last returns the outcomes and summary of the most recent refresh.
func (s *Service) Last() ([]stats.Outcome, Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stats.Outcome(nil), s.last...), s.lastSum
}

func (s *Service) publish(ctx context.Context, topic events.Topic, payload any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, topic, payload); err != nil {
		slog.WarnContext(ctx, "publishing event failed", "topic", topic, "error", err)
	}
}
