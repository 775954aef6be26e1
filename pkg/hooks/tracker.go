package hooks

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

type segment struct {
	token string
	pos   string
}

// Tracker records the identity path of the node being built.
// A Tracker is not safe for concurrent use.
type Tracker struct {
	path     []segment
	counters []int
	lists    []bool
}

// NewTracker returns a tracker positioned at the root scope.
func NewTracker() *Tracker {
	t := &Tracker{}
	t.Reset()
	return t
}

// Reset clears the path and opens the root sibling scope.
func (t *Tracker) Reset() {
	t.path = t.path[:0]
	t.counters = append(t.counters[:0], -1)
	t.lists = append(t.lists[:0], false)
}

// Enter pushes a segment for token. In a list scope a keyed segment's
// position is the key alone, so members keep their identity when they
// move. Elsewhere the position is the next sibling index, with the key
// appended when there is one.
func (t *Tracker) Enter(token, key string, keyed bool) {
	i := len(t.counters) - 1
	t.counters[i]++

	pos := strconv.Itoa(t.counters[i])
	switch {
	case keyed && t.lists[i]:
		pos = "=" + key
	case keyed:
		pos += "=" + key
	}
	t.path = append(t.path, segment{token: token, pos: pos})
}

// Exit pops the most recent segment.
func (t *Tracker) Exit() {
	if len(t.path) > 0 {
		t.path = t.path[:len(t.path)-1]
	}
}

// Nest opens a sibling scope for the children of the current node.
func (t *Tracker) Nest() {
	t.counters = append(t.counters, -1)
	t.lists = append(t.lists, false)
}

// NestList opens a sibling scope for the members of a keyed list.
func (t *Tracker) NestList() {
	t.counters = append(t.counters, -1)
	t.lists = append(t.lists, true)
}

// Unnest closes the current sibling scope.
func (t *Tracker) Unnest() {
	if len(t.counters) > 1 {
		t.counters = t.counters[:len(t.counters)-1]
		t.lists = t.lists[:len(t.lists)-1]
	}
}

// Depth returns the number of segments on the path.
func (t *Tracker) Depth() int {
	return len(t.path)
}

// Path renders the current path, e.g. "div:0 #list:1 fn#3:=a".
func (t *Tracker) Path() string {
	var b strings.Builder
	for i, s := range t.path {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s.token)
		b.WriteByte(':')
		b.WriteString(s.pos)
	}
	return b.String()
}

// Hash returns the xxhash64 of the current path.
func (t *Tracker) Hash() uint64 {
	d := xxhash.New()
	for i, s := range t.path {
		if i > 0 {
			d.WriteString(" ")
		}
		d.WriteString(s.token)
		d.WriteString(":")
		d.WriteString(s.pos)
	}
	return d.Sum64()
}
