// Package queue provides the bounded heap used for nearest-neighbor selection.
package queue

import "container/heap"

// Candidate is a possible neighbor of the current source node.
type Candidate struct {
	Node     int     // position in the node set
	Distance float64 // distance from the source
}

// Before reports whether a ranks ahead of b: smaller distance first, and on
// exactly equal distances the earlier node. This matches a stable sort by
// distance over candidates visited in node order.
func (a Candidate) Before(b Candidate) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Node < b.Node
}

var _ heap.Interface = (*worstFirst)(nil)

// worstFirst is a heap whose root is the lowest ranked candidate.
type worstFirst []Candidate

func (h worstFirst) Len() int           { return len(h) }
func (h worstFirst) Less(i, j int) bool { return h[j].Before(h[i]) }
func (h worstFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *worstFirst) Push(x any)        { *h = append(*h, x.(Candidate)) }

func (h *worstFirst) Pop() any {
	old := *h
	n := len(old) - 1
	c := old[n]
	*h = old[:n]
	return c
}

// TopK keeps the k best candidates offered to it.
// It is not safe for concurrent use; each worker owns its own.
type TopK struct {
	k    int
	heap worstFirst
}

// NewTopK creates a selector retaining at most k candidates.
func NewTopK(k int) *TopK {
	return &TopK{k: k, heap: make(worstFirst, 0, max(k, 0))}
}

// Offer considers c, evicting the current worst if c ranks ahead of it.
func (t *TopK) Offer(c Candidate) {
	switch {
	case t.k <= 0:
	case len(t.heap) < t.k:
		heap.Push(&t.heap, c)
	case c.Before(t.heap[0]):
		t.heap[0] = c
		heap.Fix(&t.heap, 0)
	}
}

// Worst returns the lowest ranked retained candidate.
func (t *TopK) Worst() (Candidate, bool) {
	if len(t.heap) == 0 {
		return Candidate{}, false
	}
	return t.heap[0], true
}

// Len returns the number of retained candidates.
func (t *TopK) Len() int { return len(t.heap) }

// Drain appends the retained candidates to dst best first and empties the
// selector.
func (t *TopK) Drain(dst []Candidate) []Candidate {
	n := len(t.heap)
	start := len(dst)
	dst = append(dst, make([]Candidate, n)...)
	for i := n - 1; i >= 0; i-- {
		dst[start+i] = heap.Pop(&t.heap).(Candidate)
	}
	return dst
}
