package tokenizer

// mergeCand is one candidate adjacent-pair merge: the rank of merging the
// part starting at Pos with its immediate right neighbor, tagged with the
// generation the candidate was computed under so stale heap entries (left
// behind by an earlier merge that changed Pos's neighbor) can be discarded
// lazily instead of being removed from the heap eagerly.
//
// Grounded on the adjacent-pair priority queue in
// adiu19-bpetok-go/internal/utils/heap.go, adapted from token-pair entries
// to byte-offset "parts" boundaries and extended with the Gen field for
// lazy invalidation.
type mergeCand struct {
	Rank Rank
	Pos  int
	Gen  int
}

// mergeHeap is a container/heap.Interface min-heap ordered by (Rank, Pos),
// so popping always returns the lowest rank and, on ties, the leftmost
// position — the tie-break spec.md requires.
type mergeHeap []mergeCand

func (h mergeHeap) Len() int { return len(h) }
func (h mergeHeap) Less(i, j int) bool {
	if h[i].Rank != h[j].Rank {
		return h[i].Rank < h[j].Rank
	}
	return h[i].Pos < h[j].Pos
}
func (h mergeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x any)        { *h = append(*h, x.(mergeCand)) }
func (h *mergeHeap) Pop() any          { old := *h; n := len(old); x := old[n-1]; *h = old[:n-1]; return x }
