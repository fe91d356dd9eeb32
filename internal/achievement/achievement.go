// Package achievement evaluates milestone rules over a workout history.
//
// Rules are looked up by identifier in a Catalog; adding a rule means
// registering a predicate, not editing a dispatcher. Evaluation is pure.
// Persisting which rules are unlocked is the caller's job; Merge produces the
// next snapshot and guarantees an unlock is never revoked.
package achievement

import (
	"fmt"
	"sort"
	"time"

	"github.com/rnwolfe/grind/internal/workout"
)

// Predicate decides whether a rule is satisfied by a history summary.
type Predicate func(Summary) bool

// Rule is one achievement.
type Rule struct {
	ID          string
	Name        string
	Description string
	Category    string
	Predicate   Predicate
}

// Categories used by the default catalog.
const (
	CategoryMilestone   = "milestone"
	CategoryConsistency = "consistency"
	CategoryStrength    = "strength"
	CategoryExercise    = "exercise"
	CategoryLifestyle   = "lifestyle"
)

// Catalog maps rule identifiers to rules and keeps registration order.
type Catalog struct {
	rules map[string]Rule
	order []string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{rules: make(map[string]Rule)}
}

// Register adds r. IDs must be unique and rules must carry a predicate.
func (c *Catalog) Register(r Rule) error {
	if r.ID == "" {
		return fmt.Errorf("achievement rule has no id")
	}
	if r.Predicate == nil {
		return fmt.Errorf("achievement %q has no predicate", r.ID)
	}
	if _, dup := c.rules[r.ID]; dup {
		return fmt.Errorf("achievement %q already registered", r.ID)
	}
	c.rules[r.ID] = r
	c.order = append(c.order, r.ID)
	return nil
}

// Get returns the rule registered under id.
func (c *Catalog) Get(id string) (Rule, bool) {
	r, ok := c.rules[id]
	return r, ok
}

// Rules returns every rule in registration order.
func (c *Catalog) Rules() []Rule {
	out := make([]Rule, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.rules[id])
	}
	return out
}

// Len returns the number of registered rules.
func (c *Catalog) Len() int { return len(c.order) }

// Evaluate returns, for every rule in c, whether records satisfy it.
func Evaluate(records []workout.Record, c *Catalog, loc *time.Location) map[string]bool {
	return EvaluateSummary(Summarize(records, loc), c)
}

// EvaluateSummary is Evaluate over a precomputed summary.
func EvaluateSummary(s Summary, c *Catalog) map[string]bool {
	out := make(map[string]bool, c.Len())
	for _, id := range c.order {
		out[id] = c.rules[id].Predicate(s)
	}
	return out
}

// Snapshot records when each achievement was first unlocked.
type Snapshot map[string]time.Time

// Unlocked reports whether id is in the snapshot.
func (s Snapshot) Unlocked(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the unlocked identifiers sorted by unlock time, then id.
func (s Snapshot) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ti, tj := s[ids[i]], s[ids[j]]
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return ids[i] < ids[j]
	})
	return ids
}

// Merge folds an evaluation into prev. Previously unlocked entries keep their
// original time even if they no longer evaluate true. newly lists the IDs
// unlocked by this merge in sorted order.
func Merge(prev Snapshot, evaluated map[string]bool, now time.Time) (next Snapshot, newly []string) {
	next = make(Snapshot, len(prev))
	for id, at := range prev {
		next[id] = at
	}
	for id, ok := range evaluated {
		if !ok || next.Unlocked(id) {
			continue
		}
		next[id] = now.UTC()
		newly = append(newly, id)
	}
	sort.Strings(newly)
	return next, newly
}
