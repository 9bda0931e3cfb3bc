package gff

import "regexp"

// Registry tracks every parent-capable feature by identifier and holds
// orphans whose declared parent has not yet been seen. A slot always stores
// a list of candidates, even when only one feature carries the identifier,
// so a second registration never silently overwrites the first.
type Registry struct {
	slots   map[string][]*Feature
	orphans []*orphan
}

// orphan is a feature with parent references that did not resolve, together
// with the references still pending.
type orphan struct {
	feature *Feature
	pending []string
}

// NewRegistry creates an empty feature registry.
func NewRegistry() *Registry {
	return &Registry{slots: make(map[string][]*Feature)}
}

// Register stores a feature under its primary identifier and returns the
// number of features in the slot sharing the new feature's type, the new one
// included. A return greater than one signals a true duplicate identifier;
// benign identifier reuse across types still returns one. Callers use the
// count only to accumulate a duplicate report, never to alter control flow.
func (r *Registry) Register(f *Feature) int {
	slot := r.slots[f.PrimaryID]
	matches := 1
	for _, existing := range slot {
		if existing.Type == f.Type {
			matches++
		}
	}
	r.slots[f.PrimaryID] = append(slot, f)
	return matches
}

// Lookup returns the first registered feature under id whose type matches
// pat, or any member when pat is nil. Returns nil when nothing matches.
func (r *Registry) Lookup(id string, pat *regexp.Regexp) *Feature {
	for _, f := range r.slots[id] {
		if pat == nil || pat.MatchString(f.Type) {
			return f
		}
	}
	return nil
}

// Resolve finds the parent a referencing feature should attach under. A
// single-member slot resolves unconditionally, the historical tolerant
// behavior. A disambiguation group resolves to the first member whose type
// matches pat (when pat is non-nil) and whose span overlaps the referencing
// feature; the first plausible overlap wins. Returns nil on failure, which
// orphans the referencing feature for this reference.
func (r *Registry) Resolve(id string, pat *regexp.Regexp, ref *Feature) *Feature {
	slot := r.slots[id]
	if len(slot) == 0 {
		return nil
	}
	if len(slot) == 1 {
		return slot[0]
	}
	for _, f := range slot {
		if pat != nil && !pat.MatchString(f.Type) {
			continue
		}
		if f.Overlaps(ref) {
			return f
		}
	}
	return nil
}

// Orphan queues a feature whose given parent references failed to resolve.
// A feature already queued accumulates the additional pending references.
func (r *Registry) Orphan(f *Feature, pending ...string) {
	for _, o := range r.orphans {
		if o.feature == f {
			o.pending = append(o.pending, pending...)
			return
		}
	}
	r.orphans = append(r.orphans, &orphan{feature: f, pending: pending})
}

// Reconcile retries resolution for every queued orphan. An orphan with at
// least one successful resolution is attached under each resolving parent
// and removed from the queue; orphans with none remain queued. Reconcile is
// idempotent and safe to call at every checkpoint and again at end of file.
func (r *Registry) Reconcile() {
	kept := r.orphans[:0]
	for _, o := range r.orphans {
		resolved := false
		remaining := o.pending[:0]
		for _, id := range o.pending {
			parent := r.Resolve(id, nil, o.feature)
			if parent == nil {
				remaining = append(remaining, id)
				continue
			}
			parent.AddChild(o.feature)
			resolved = true
		}
		o.pending = remaining
		if !resolved {
			kept = append(kept, o)
		}
	}
	r.orphans = kept
}

// Orphans returns the features still waiting on an unresolved parent
// reference, in arrival order.
func (r *Registry) Orphans() []*Feature {
	out := make([]*Feature, len(r.orphans))
	for i, o := range r.orphans {
		out[i] = o.feature
	}
	return out
}
