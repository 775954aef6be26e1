package hooks

import (
	"sort"

	"github.com/hart-dev/hart/pkg/scheduler"
)

// Store maps identities to entries. Each render root owns its own Store.
// A Store is not safe for concurrent use.
type Store struct {
	entries map[uint64]*Entry
	sched   scheduler.Scheduler

	created uint64
	evicted uint64
}

// NewStore creates a store whose effects and unmounts are deferred
// through sched.
func NewStore(sched scheduler.Scheduler) *Store {
	return &Store{
		entries: make(map[uint64]*Entry),
		sched:   sched,
	}
}

// Resolve returns the entry for id, creating it if absent. A retired
// entry still waiting for its unmount is replaced by a fresh one.
func (s *Store) Resolve(id uint64) *Entry {
	if e, ok := s.entries[id]; ok && !e.retired {
		return e
	}
	e := &Entry{id: id, store: s}
	s.entries[id] = e
	s.created++
	return e
}

// Lookup returns the entry for id without creating one.
func (s *Store) Lookup(id uint64) (*Entry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

// Len returns the number of entries held.
func (s *Store) Len() int {
	return len(s.entries)
}

// Entries returns the entries ordered by identity.
func (s *Store) Entries() []*Entry {
	out := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Stats returns how many entries were created and evicted so far.
func (s *Store) Stats() (created, evicted uint64) {
	return s.created, s.evicted
}

// Schedule defers task through the store's scheduler.
func (s *Store) Schedule(task func()) {
	s.sched.Schedule(task)
}

// UnmountAll detaches every entry and schedules its unmount.
func (s *Store) UnmountAll() {
	for _, e := range s.Entries() {
		if e.retired {
			continue
		}
		e.retired = true
		s.sched.Schedule(e.Unmount)
	}
}

func (s *Store) evict(e *Entry) {
	if cur, ok := s.entries[e.id]; ok && cur == e {
		delete(s.entries, e.id)
		s.evicted++
	}
}
