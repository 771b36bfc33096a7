package display

import (
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/ziadkadry99/statboard/internal/stats"
)

const (
	// NotAvailable is shown in every slot of a source whose fetch failed.
	NotAvailable = "N/A"
	// Pending is shown before a source's first outcome arrives.
	Pending = "..."
)

// Slot is one named output cell, identified by source and category.
type Slot struct {
	Source   string `json:"source"`
	Category string `json:"category"`
	Value    string `json:"value"`
}

// ID returns the slot identifier used by the HTML page, e.g. "leetcode-total".
func (s Slot) ID() string {
	return s.Source + "-" + s.Category
}

// SourceView is the rendered state of one source.
type SourceView struct {
	Name      string    `json:"name"`
	Slots     []Slot    `json:"slots"`
	OK        bool      `json:"ok"`
	Pending   bool      `json:"pending"`
	Reason    string    `json:"reason,omitempty"`
	Class     string    `json:"class,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Snapshot is a point-in-time copy of a board.
type Snapshot struct {
	Sources []SourceView `json:"sources"`
}

type sourceState struct {
	categories []string
	values     map[string]string
	ok         bool
	pending    bool
	reason     string
	class      string
	updatedAt  time.Time
}

// Board holds the display slots for a fixed set of sources. Each source
// owns its slots; applying one source's outcome never touches another's.
type Board struct {
	mu      sync.RWMutex
	order   []string
	sources map[string]*sourceState
	now     func() time.Time
}

// NewBoard creates a board with one slot per declared category of every
// source. All slots start as Pending.
func NewBoard(sources []stats.Source) *Board {
	b := &Board{
		sources: make(map[string]*sourceState, len(sources)),
		now:     time.Now,
	}
	for _, src := range sources {
		if _, dup := b.sources[src.Name]; dup {
			continue
		}
		st := &sourceState{
			categories: slices.Clone(src.Categories),
			values:     make(map[string]string, len(src.Categories)),
			pending:    true,
		}
		for _, c := range src.Categories {
			st.values[c] = Pending
		}
		b.order = append(b.order, src.Name)
		b.sources[src.Name] = st
	}
	return b
}

// Apply renders out into its source's slots and returns the updated slots.
// A failure sets every slot of the source to NotAvailable. Outcomes for
// sources the board does not know are ignored.
func (b *Board) Apply(out stats.Outcome) []Slot {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.sources[out.Source]
	if !ok {
		return nil
	}

	st.pending = false
	st.ok = out.OK()
	st.reason = out.Reason
	st.class = stats.ErrorClass(out.Err)
	st.updatedAt = b.now()

	updated := make([]Slot, 0, len(st.categories))
	for _, c := range st.categories {
		value := NotAvailable
		if out.OK() {
			if n, found := out.Record[c]; found {
				value = strconv.Itoa(n)
			}
		}
		st.values[c] = value
		updated = append(updated, Slot{Source: out.Source, Category: c, Value: value})
	}
	return updated
}

// Value returns the current value of one slot.
func (b *Board) Value(source, category string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	st, ok := b.sources[source]
	if !ok {
		return "", false
	}
	v, ok := st.values[category]
	return v, ok
}

// Source returns the view of a single source.
func (b *Board) Source(name string) (SourceView, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	st, ok := b.sources[name]
	if !ok {
		return SourceView{}, false
	}
	return st.view(name), true
}

// Snapshot copies the board, sources in construction order.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snap := Snapshot{Sources: make([]SourceView, 0, len(b.order))}
	for _, name := range b.order {
		snap.Sources = append(snap.Sources, b.sources[name].view(name))
	}
	return snap
}

func (st *sourceState) view(name string) SourceView {
	v := SourceView{
		Name:      name,
		OK:        st.ok,
		Pending:   st.pending,
		Reason:    st.reason,
		Class:     st.class,
		UpdatedAt: st.updatedAt,
		Slots:     make([]Slot, 0, len(st.categories)),
	}
	for _, c := range st.categories {
		v.Slots = append(v.Slots, Slot{Source: name, Category: c, Value: st.values[c]})
	}
	return v
}
