package providers

import (
	"maps"
	"math"
	"slices"

	"github.com/tidwall/gjson"

	"github.com/ziadkadry99/statboard/internal/stats"
)

// JSONSpec describes an arbitrary JSON stats API. Paths use gjson syntax.
type JSONSpec struct {
	Endpoint     string
	StatusPath   string
	SuccessValue string
	MessagePath  string
	// Fields maps a category label to the path of its count.
	Fields map[string]string
}

// maxExactCount is the largest magnitude a JSON number holds exactly.
const maxExactCount = 1 << 53

// NewJSON returns a source whose payload is read through spec's paths.
func NewJSON(name string, spec JSONSpec) stats.Source {
	return stats.Source{
		Name:       name,
		Endpoint:   spec.Endpoint,
		Categories: slices.Sorted(maps.Keys(spec.Fields)),
		Parse:      spec.parse,
	}
}

func (s JSONSpec) parse(body []byte) (stats.Record, error) {
	if !gjson.ValidBytes(body) {
		return nil, stats.Malformed("response is not valid JSON")
	}
	doc := gjson.ParseBytes(body)

	if s.StatusPath != "" {
		status := doc.Get(s.StatusPath)
		if !status.Exists() || status.String() != s.SuccessValue {
			msg := "Failed to get stats"
			if s.MessagePath != "" {
				if m := doc.Get(s.MessagePath); m.Exists() && m.String() != "" {
					msg = m.String()
				}
			}
			return nil, stats.Upstream(msg)
		}
	}

	rec := make(stats.Record, len(s.Fields))
	for label, path := range s.Fields {
		v := doc.Get(path)
		switch {
		case !v.Exists():
			return nil, stats.Malformed("missing %s at %q", label, path)
		case v.IsArray():
			// Arrays count their elements, e.g. a list of solved problems.
			rec[label] = len(v.Array())
		case v.Type == gjson.Number:
			if math.Abs(v.Num) > maxExactCount {
				return nil, stats.Malformed("%s at %q is out of range", label, path)
			}
			if v.Num != math.Trunc(v.Num) {
				return nil, stats.Malformed("%s at %q is not an integer", label, path)
			}
			rec[label] = int(v.Int())
		default:
			return nil, stats.Malformed("%s at %q is not a number", label, path)
		}
	}
	return rec, nil
}
