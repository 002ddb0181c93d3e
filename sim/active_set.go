package sim

import (
	"container/heap"
	"fmt"
	"sort"
)

// ActiveSet holds the flows that still have bytes to send and picks the next one to serve.
// Implementations must agree exactly: the minimum RemainingSize wins and ties go to the
// lowest Flow.Index.
type ActiveSet interface {
	Add(f *Flow)
	// Min returns the flow to serve next. Panics on an empty set.
	Min() *Flow
	// Update restores ordering after f.RemainingSize dropped and removes f once it is done.
	Update(f *Flow)
	Len() int
}

// flowLess orders by remaining size, then by original index.
func flowLess(a, b *Flow) bool {
	if a.RemainingSize != b.RemainingSize {
		return a.RemainingSize < b.RemainingSize
	}
	return a.Index < b.Index
}

// heapActiveSet keeps the active flows in a binary min-heap keyed by
// (RemainingSize, Index): O(log n) per tick.
type heapActiveSet struct {
	flows []*Flow
}

// Len implements heap.Interface
func (h *heapActiveSet) Len() int { return len(h.flows) }

// Less implements heap.Interface
func (h *heapActiveSet) Less(i, j int) bool { return flowLess(h.flows[i], h.flows[j]) }

// Swap implements heap.Interface
func (h *heapActiveSet) Swap(i, j int) {
	h.flows[i], h.flows[j] = h.flows[j], h.flows[i]
	h.flows[i].heapIndex = i
	h.flows[j].heapIndex = j
}

// Push implements heap.Interface
func (h *heapActiveSet) Push(x any) {
	f := x.(*Flow)
	f.heapIndex = len(h.flows)
	h.flows = append(h.flows, f)
}

// Pop implements heap.Interface
func (h *heapActiveSet) Pop() any {
	old := h.flows
	n := len(old)
	f := old[n-1]
	old[n-1] = nil
	f.heapIndex = -1
	h.flows = old[0 : n-1]
	return f
}

func (h *heapActiveSet) Add(f *Flow) {
	if f.heapIndex != -1 {
		panic(fmt.Sprintf("Add: flow %d is already in an active set", f.Index))
	}
	heap.Push(h, f)
}

func (h *heapActiveSet) Min() *Flow {
	if len(h.flows) == 0 {
		panic("Min: active set is empty")
	}
	return h.flows[0]
}

func (h *heapActiveSet) Update(f *Flow) {
	i := f.heapIndex
	if i < 0 || i >= len(h.flows) || h.flows[i] != f {
		panic(fmt.Sprintf("Update: flow %d is not in this active set", f.Index))
	}
	if f.IsDone() {
		heap.Remove(h, i)
		return
	}
	heap.Fix(h, i)
}

// scanActiveSet keeps the active flows in index order and re-scans for the
// minimum every tick: O(n) per tick. The strict comparison makes the first
// (lowest-indexed) minimum win.
type scanActiveSet struct {
	flows []*Flow
}

func (s *scanActiveSet) Len() int { return len(s.flows) }

func (s *scanActiveSet) Add(f *Flow) {
	i := sort.Search(len(s.flows), func(i int) bool { return s.flows[i].Index >= f.Index })
	if i < len(s.flows) && s.flows[i].Index == f.Index {
		panic(fmt.Sprintf("Add: flow %d is already in the active set", f.Index))
	}
	s.flows = append(s.flows, nil)
	copy(s.flows[i+1:], s.flows[i:])
	s.flows[i] = f
}

func (s *scanActiveSet) Min() *Flow {
	if len(s.flows) == 0 {
		panic("Min: active set is empty")
	}
	best := s.flows[0]
	for _, f := range s.flows[1:] {
		if f.RemainingSize < best.RemainingSize {
			best = f
		}
	}
	return best
}

func (s *scanActiveSet) Update(f *Flow) {
	if !f.IsDone() {
		return
	}
	for i, g := range s.flows {
		if g == f {
			s.flows = append(s.flows[:i], s.flows[i+1:]...)
			return
		}
	}
	panic(fmt.Sprintf("Update: flow %d is not in this active set", f.Index))
}

// validActiveSets maps accepted selector names.
var validActiveSets = map[string]bool{
	"":     true, // empty defaults to heap
	"heap": true,
	"scan": true,
}

// IsValidActiveSet returns true if the given name is a recognized active-set implementation.
func IsValidActiveSet(name string) bool {
	return validActiveSets[name]
}

// ValidActiveSetNames returns the selectable names, sorted.
func ValidActiveSetNames() []string {
	return []string{"heap", "scan"}
}

// NewActiveSet creates an ActiveSet by name.
// Valid names: "heap" (default), "scan".
// Empty string defaults to the heap (for CLI flag default compatibility).
// Panics on unrecognized names.
func NewActiveSet(name string) ActiveSet {
	if !IsValidActiveSet(name) {
		panic(fmt.Sprintf("unknown active set %q", name))
	}
	switch name {
	case "", "heap":
		return &heapActiveSet{}
	case "scan":
		return &scanActiveSet{}
	default:
		panic(fmt.Sprintf("unhandled active set %q", name))
	}
}
