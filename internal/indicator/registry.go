package indicator

import (
	"fmt"

	"chartengine/internal/model"
)

// Series is one indicator computed over a candle list. Values[i] belongs to
// the candle at Timestamps[i]; candles before the warm-up have no entry.
type Series struct {
	ID         string    `json:"id"`
	Spec       Spec      `json:"spec"`
	Values     []float64 `json:"values"`
	Timestamps []int64   `json:"timestamps"`
}

// Clone returns a deep copy.
func (s Series) Clone() Series {
	out := s
	out.Values = append([]float64(nil), s.Values...)
	out.Timestamps = append([]int64(nil), s.Timestamps...)
	return out
}

type entry struct {
	id   string
	spec Spec
}

// Registry holds configured indicators by stable id in insertion order.
// Designed for single-goroutine usage: no locks.
type Registry struct {
	entries []entry
	index   map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Add registers spec under id.
func (r *Registry) Add(id string, spec Spec) error {
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("indicator %q: %w", id, err)
	}
	if _, ok := r.index[id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	r.index[id] = len(r.entries)
	r.entries = append(r.entries, entry{id: id, spec: spec})
	return nil
}

// Remove unregisters id.
func (r *Registry) Remove(id string) error {
	i, ok := r.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownIndicator, id)
	}
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.entries); j++ {
		r.index[r.entries[j].id] = j
	}
	return nil
}

// Len returns the number of registered indicators.
func (r *Registry) Len() int { return len(r.entries) }

// IDs returns the registered ids in insertion order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.entries))
	for i, e := range r.entries {
		ids[i] = e.id
	}
	return ids
}


// Calculate computes the series for id over candles.
func (r *Registry) Calculate(id string, candles []model.Candle) (Series, error) {
	i, ok := r.index[id]
	if !ok {
		return Series{}, fmt.Errorf("%w: %q", ErrUnknownIndicator, id)
	}
	return Compute(id, r.entries[i].spec, candles)
}

// CalculateAll computes every registered indicator in insertion order.
func (r *Registry) CalculateAll(candles []model.Candle) ([]Series, error) {
	out := make([]Series, 0, len(r.entries))
	for _, e := range r.entries {
		s, err := Compute(e.id, e.spec, candles)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Compute runs spec over the candle closes.
func Compute(id string, spec Spec, candles []model.Candle) (Series, error) {
	ind, err := New(spec)
	if err != nil {
		return Series{}, err
	}
	s := Series{ID: id, Spec: spec}
	for _, c := range candles {
		ind.Update(c.Close)
		if ind.Ready() {
			s.Values = append(s.Values, ind.Value())
			s.Timestamps = append(s.Timestamps, c.Timestamp)
		}
	}
	return s, nil
}
