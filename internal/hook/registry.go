package hook

import (
	"path"
	"sort"
	"sync"
)

// Registry holds hooks and resolves which apply to an event.
type Registry struct {
	mu    sync.RWMutex
	hooks []Hook
}

// DefaultRegistry is the process-wide registry.
var DefaultRegistry = &Registry{}

// Register adds h.
func (r *Registry) Register(h Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, h)
}

// Resolve returns the hooks whose pattern matches event, sorted by name.
func (r *Registry) Resolve(event string) []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Hook
	for _, h := range r.hooks {
		if matchPattern(h.Pattern, event) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// All returns a copy of every registered hook.
func (r *Registry) All() []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Hook, len(r.hooks))
	copy(out, r.hooks)
	return out
}

// Count returns the number of registered hooks.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks)
}

// matchPattern reports whether event matches a glob pattern such as
// "workout.*" or "*".
func matchPattern(pattern, event string) bool {
	ok, _ := path.Match(pattern, event)
	return ok
}

// knownPattern reports whether pattern matches at least one emitted event.
func knownPattern(pattern string) bool {
	if _, err := path.Match(pattern, ""); err != nil {
		return false
	}
	for _, e := range Events {
		if matchPattern(pattern, e) {
			return true
		}
	}
	return false
}
