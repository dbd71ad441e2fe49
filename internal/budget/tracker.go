// Package budget keeps the running cost of the placed entities against a configurable limit.
// The total is never adjusted incrementally: every change recomputes it from the current
// entities and the current catalog prices.
package budget

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"floorplanner/internal/catalog"
)

var (
	// ErrInvalidCost is returned for cost edits that are empty, non-numeric, negative or not finite.
	ErrInvalidCost = errors.New("invalid cost")
	// ErrInvalidLimit is returned for limit edits that are empty, non-numeric, negative or not finite.
	ErrInvalidLimit = errors.New("invalid budget limit")
)

// Source lists the module ids of the currently placed entities, one per entity.
type Source interface {
	ModuleIDs() []string
}

// Prices looks up live unit costs. *catalog.Catalog implements it.
type Prices interface {
	Cost(id string) (float64, bool)
}

// State is the derived budget display state.
type State struct {
	Total     float64
	Limit     float64
	Percent   float64 // total as a percentage of the limit, clamped to [0,100]
	OverLimit bool
}

// Compute sums the current price of every id. Ids missing from prices count as zero.
func Compute(moduleIDs []string, prices Prices, limit float64) State {
	var total float64
	for _, id := range moduleIDs {
		if c, ok := prices.Cost(id); ok {
			total += c
		}
	}
	return State{
		Total:     total,
		Limit:     limit,
		Percent:   percentOf(total, limit),
		OverLimit: total > limit,
	}
}

func percentOf(total, limit float64) float64 {
	if limit <= 0 {
		if total > 0 {
			return 100
		}
		return 0
	}
	return math.Max(0, math.Min(100, total/limit*100))
}

// Tracker owns the limit and the last computed state, and notifies listeners on every
// recompute.
type Tracker struct {
	catalog   *catalog.Catalog
	source    Source
	limit     float64
	state     State
	listeners []func(State)
}

// NewTracker returns a tracker pricing entities from cat. Until SetSource is called there are no
// entities and the total is zero.
func NewTracker(cat *catalog.Catalog, limit float64) *Tracker {
	t := &Tracker{catalog: cat, limit: limit}
	t.state = Compute(nil, cat, limit)
	return t
}

// SetSource sets where placed entities are read from and recomputes.
func (t *Tracker) SetSource(s Source) {
	t.source = s
	t.Recompute()
}

// OnChange registers fn to be called with the new state after every recompute.
func (t *Tracker) OnChange(fn func(State)) {
	t.listeners = append(t.listeners, fn)
}

// Recompute rebuilds the state from the source and current prices.
func (t *Tracker) Recompute() State {
	var ids []string
	if t.source != nil {
		ids = t.source.ModuleIDs()
	}
	t.state = Compute(ids, t.catalog, t.limit)
	for _, fn := range t.listeners {
		fn(t.state)
	}
	return t.state
}

// State returns the last computed state.
func (t *Tracker) State() State {
	return t.state
}

// Limit returns the current budget limit.
func (t *Tracker) Limit() float64 {
	return t.limit
}

// SetLimit parses input as the new limit. Empty, non-numeric, negative and non-finite input is
// rejected and the previous limit kept. The total is unaffected; only Percent and OverLimit
// move.
func (t *Tracker) SetLimit(input string) error {
	v, err := parseAmount(input)
	if err != nil {
		return fmt.Errorf("budget: %w: %v", ErrInvalidLimit, err)
	}
	t.limit = v
	t.Recompute()
	return nil
}

// EditCosts applies new unit costs keyed by module id. Each value is validated on its own: bad
// values and unknown ids are rejected (the old price stays) while the others still apply.
// Prices are shared with already placed entities, so the recompute that follows reflects the
// new prices retroactively. The returned error joins every rejection, ordered by id.
func (t *Tracker) EditCosts(edits map[string]string) error {
	ids := make([]string, 0, len(edits))
	for id := range edits {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var errs []error
	for _, id := range ids {
		v, err := parseAmount(edits[id])
		if err != nil {
			errs = append(errs, fmt.Errorf("budget: %s: %w: %v", id, ErrInvalidCost, err))
			continue
		}
		if err := t.catalog.SetCost(id, v); err != nil {
			errs = append(errs, fmt.Errorf("budget: %w", err))
		}
	}
	t.Recompute()
	return errors.Join(errs...)
}

func parseAmount(input string) (float64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, errors.New("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not finite", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%q is negative", s)
	}
	return v, nil
}
