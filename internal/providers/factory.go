package providers

import (
	"fmt"

	"github.com/ziadkadry99/statboard/internal/config"
	"github.com/ziadkadry99/statboard/internal/stats"
)

// New creates a stats source from its configuration.
// Supported kinds: "leetcode", "codeforces", "json".
func New(cfg config.SourceConfig) (stats.Source, error) {
	var src stats.Source
	switch cfg.Kind {
	case config.KindLeetCode:
		src = NewLeetCode(cfg.Name, cfg.BaseURL)

	case config.KindCodeforces:
		src = NewCodeforces(cfg.Name, cfg.BaseURL)

	case config.KindJSON:
		if len(cfg.Fields) == 0 {
			return stats.Source{}, fmt.Errorf("source %s: json kind needs at least one field", cfg.Name)
		}
		src = NewJSON(cfg.Name, JSONSpec{
			Endpoint:     cfg.Endpoint,
			StatusPath:   cfg.StatusPath,
			SuccessValue: cfg.SuccessValue,
			MessagePath:  cfg.MessagePath,
			Fields:       cfg.Fields,
		})

	default:
		return stats.Source{}, fmt.Errorf("unsupported source kind: %s", cfg.Kind)
	}

	if cfg.RateLimitRPM > 0 {
		src.Client = stats.NewRateLimitedDoer(nil, cfg.RateLimitRPM)
	}
	return src, nil
}

// Targets builds aggregator targets for every enabled source in cfg whose
// name matches one of patterns.
func Targets(cfg *config.Config, patterns []string) ([]stats.Target, error) {
	sources, err := cfg.EnabledSources(patterns)
	if err != nil {
		return nil, err
	}

	targets := make([]stats.Target, 0, len(sources))
	for _, sc := range sources {
		src, err := New(sc)
		if err != nil {
			return nil, err
		}
		targets = append(targets, stats.Target{Source: src, Handle: cfg.HandleFor(sc)})
	}
	return targets, nil
}
