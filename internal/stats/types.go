package stats

import (
	"maps"
	"slices"
)

// Record maps a category label (e.g. "total", "easy") to a non-negative
// count. Categories are source-specific.
type Record map[string]int

// Clone returns a copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// Categories returns the record's labels in sorted order.
func (r Record) Categories() []string {
	return slices.Sorted(maps.Keys(r))
}

// Outcome is the atomic result of querying one Source. A failed outcome
// never carries a record, a successful one never carries a reason.
type Outcome struct {
	Source string
	Record Record
	Reason string
	Err    error
}

// Success builds a successful outcome for source.
func Success(source string, rec Record) Outcome {
	return Outcome{Source: source, Record: rec}
}

// Failure builds a failed outcome for source. err should wrap one of
// ErrTransport, ErrUpstream or ErrParse.
func Failure(source, reason string, err error) Outcome {
	if err == nil {
		err = ErrTransport
	}
	return Outcome{Source: source, Reason: reason, Err: err}
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.Err == nil
}
