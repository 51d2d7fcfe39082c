package engine

// liveRegistry is the set of executing sequences. Membership is what keeps a
// fire-and-forget sequence alive: scheduled callbacks only carry the sequence
// id and resolve it here.
//
// It is confined to the scheduling goroutine and therefore unlocked.
type liveRegistry struct {
	byID    map[string]*Sequence
	byTitle map[string]string
	order   []string
}

func newLiveRegistry() *liveRegistry {
	return &liveRegistry{
		byID:    make(map[string]*Sequence),
		byTitle: make(map[string]string),
	}
}

func (r *liveRegistry) add(s *Sequence) {
	if _, exists := r.byID[s.id]; exists {
		return
	}
	r.byID[s.id] = s
	r.order = append(r.order, s.id)
	if s.title != "" {
		r.byTitle[s.title] = s.id
	}
}

// remove drops s. The title index entry is only dropped when it still points
// at s, so a newer sequence holding the same title stays reachable.
func (r *liveRegistry) remove(s *Sequence) {
	if _, exists := r.byID[s.id]; !exists {
		return
	}
	delete(r.byID, s.id)
	for i, id := range r.order {
		if id == s.id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if id, ok := r.byTitle[s.title]; ok && id == s.id {
		delete(r.byTitle, s.title)
	}
}

func (r *liveRegistry) byIDLookup(id string) (*Sequence, bool) {
	s, ok := r.byID[id]
	return s, ok
}

// byTitleLookup never matches the empty title.
func (r *liveRegistry) byTitleLookup(title string) (*Sequence, bool) {
	if title == "" {
		return nil, false
	}
	id, ok := r.byTitle[title]
	if !ok {
		return nil, false
	}
	return r.byIDLookup(id)
}

func (r *liveRegistry) len() int {
	return len(r.byID)
}

// snapshot returns the live sequences in registration order.
func (r *liveRegistry) snapshot() []*Sequence {
	out := make([]*Sequence, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
