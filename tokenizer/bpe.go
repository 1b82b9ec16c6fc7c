package tokenizer

import (
	"container/heap"
	"fmt"
	"sync"
)

// Core is the BPE engine: the rank table (C1), pre-tokenizer (C2), piece
// encoder (C3) and special-token splitter (C4) wired together into the
// single immutable object the facade wraps. A *Core is safe for concurrent
// use by multiple goroutines once constructed; nothing here mutates engine
// state after NewCore returns.
//
// Grounded on coreBPE in the deleted tokenizer/bpe.go this package started
// from: same shape (ranks + specials + buffer pools), new piece encoder.
type Core struct {
	ranks    *rankTable
	specials *specialTable
	seg      Segmenter

	partsPool sync.Pool
	tokenPool sync.Pool

	prefixOnce sync.Once
	prefixIdx  *prefixIndex
}

// NewCore builds an engine from a mergeable-ranks vocabulary, a disjoint
// special-token map, and a pre-tokenizer. It validates that special-token
// ranks don't collide with vocabulary ranks, per the disjointness invariant
// special tokens carry.
func NewCore(vocab []RankPair, specials map[string]Rank, seg Segmenter) (*Core, error) {
	ranks, err := newRankTable(vocab)
	if err != nil {
		return nil, err
	}
	for lit, r := range specials {
		if b, ok := ranks.BytesOf(r); ok {
			return nil, fmt.Errorf("special token %q rank %d collides with vocabulary entry %q", lit, r, b)
		}
	}
	return &Core{
		ranks:    ranks,
		specials: newSpecialTable(specials),
		seg:      seg,
		partsPool: sync.Pool{New: func() any { s := make([]int, 0, 64); return &s }},
		tokenPool: sync.Pool{New: func() any { s := make([]Rank, 0, 64); return &s }},
	}, nil
}

// NVocab returns the number of ordinary vocabulary entries.
func (c *Core) NVocab() int { return c.ranks.Len() }

// MaxTokenValue returns the highest token id across both the vocabulary and
// the special-token map.
func (c *Core) MaxTokenValue() Rank {
	max := c.ranks.MaxRank()
	for _, r := range c.specials.enc {
		if r > max {
			max = r
		}
	}
	return max
}

// RankOfBytes, BytesOfRank expose the rank table to the facade.
func (c *Core) RankOfBytes(b []byte) (Rank, bool) { return c.ranks.RankOf(b) }
func (c *Core) BytesOfRank(r Rank) ([]byte, bool) { return c.ranks.BytesOf(r) }
func (c *Core) AllByteValues() [][]byte           { return c.ranks.AllByteValues() }

// SpecialRankOf, SpecialBytesOf expose the special table to the facade.
func (c *Core) SpecialRankOf(lit string) (Rank, bool)   { return c.specials.RankOf(lit) }
func (c *Core) SpecialBytesOf(r Rank) ([]byte, bool)    { return c.specials.BytesOf(r) }
func (c *Core) AllSpecialLiterals() map[string]struct{}  { return c.specials.AllLiterals() }

// EncodeOrdinary splits text with the pre-tokenizer and BPE-merges every
// piece, ignoring special tokens entirely (component C2+C3, no C4).
func (c *Core) EncodeOrdinary(text string) []Rank {
	out := make([]Rank, 0, len(text)/3+1)
	c.encodeOrdinaryInto(text, &out)
	return out
}

func (c *Core) encodeOrdinaryInto(text string, out *[]Rank) {
	i := 0
	for i < len(text) {
		j := c.seg.Next(text, i)
		if j <= i {
			j = i + 1
		}
		piece := text[i:j]
		c.encodePieceInto(piece, out)
		i = j
	}
}

// Encode runs the full C4-integrated pipeline: scan for allowed special
// tokens interleaved with ordinary encoding of the text between them, while
// independently scanning the whole text for disallowed special-token
// literals up front.
func (c *Core) Encode(text string, allowedSpecial map[string]struct{}, disallowedSpecial map[string]struct{}) ([]Rank, error) {
	if name, offset, found := c.specials.findDisallowed(text, disallowedSpecial); found {
		return nil, &DisallowedSpecialError{Name: name, ByteOffset: offset}
	}
	out := make([]Rank, 0, len(text)/3+1)
	start := 0
	i := 0
	for i < len(text) {
		if len(allowedSpecial) > 0 {
			if rank, n := c.specials.matchAt(text, i, allowedSpecial); n > 0 {
				c.encodeOrdinaryInto(text[start:i], &out)
				out = append(out, rank)
				i += n
				start = i
				continue
			}
		}
		i++
	}
	c.encodeOrdinaryInto(text[start:], &out)
	return out, nil
}

// DisallowedSpecialError mirrors tiktoken.DisallowedSpecialTokenError but
// lives in this package so Core doesn't need to import the facade package
// (which imports Core). The facade converts this into the exported error
// type at the boundary.
type DisallowedSpecialError struct {
	Name       string
	ByteOffset int
}

func (e *DisallowedSpecialError) Error() string {
	return fmt.Sprintf("disallowed special token %q at byte offset %d", e.Name, e.ByteOffset)
}

// EncodeSinglePiece BPE-merges a single pre-tokenizer piece with no further
// splitting, used by the facade's encode_single_piece aliased to callers
// that have already run their own pre-tokenization.
func (c *Core) EncodeSinglePiece(piece string) []Rank {
	out := make([]Rank, 0, 4)
	c.encodePieceInto(piece, &out)
	return out
}

// encodePieceInto runs the O(n log n) heap-based merge algorithm (C3) on a
// single pre-tokenizer piece and appends the resulting token ranks to out.
//
// A piece of n bytes starts as n+1 boundary nodes (0..n) linked in order.
// Each adjacent pair of parts (boundaries i, next[i], next[next[i]]) is a
// merge candidate whose rank is pushed onto a min-heap. Popping the lowest
// (rank, pos) candidate and splicing out the right node is the merge step;
// it invalidates at most two other candidates (at i and at prev[i]), which
// are recomputed and re-pushed. Stale heap entries are dropped lazily via a
// per-node generation counter plus a removed flag, rather than being
// eagerly deleted from the heap, for the O(n log n) bound.
//
// Grounded on the candidate-priority-queue merge in
// adiu19-bpetok-go/internal/utils/heap.go and merge_heap.go, adapted from
// whole-token pairs to piece-local byte-offset boundaries; replaces this
// module's earlier O(n) linear-rescan-per-merge approach.
func (c *Core) encodePieceInto(piece string, out *[]Rank) {
	n := len(piece)
	if n == 0 {
		return
	}
	if n == 1 {
		if r, ok := c.ranks.rankOfString(piece); ok {
			*out = append(*out, r)
		}
		return
	}
	next := make([]int, n+1)
	prev := make([]int, n+1)
	gen := make([]int, n+1)
	removed := make([]bool, n+1)
	for i := 0; i <= n; i++ {
		next[i] = i + 1
		prev[i] = i - 1
	}

	rankAt := func(i int) (Rank, bool) {
		j := next[i]
		if j > n {
			return 0, false
		}
		k := next[j]
		if k > n {
			return 0, false
		}
		return c.ranks.rankOfString(piece[i:k])
	}

	h := make(mergeHeap, 0, n)
	heap.Init(&h)
	push := func(i int) {
		if i < 0 || i >= n || removed[i] {
			return
		}
		if r, ok := rankAt(i); ok {
			heap.Push(&h, mergeCand{Rank: r, Pos: i, Gen: gen[i]})
		}
	}
	for i := 0; i < n; i++ {
		push(i)
	}

	for h.Len() > 0 {
		cand := heap.Pop(&h).(mergeCand)
		i := cand.Pos
		if removed[i] || gen[i] != cand.Gen {
			continue
		}
		j := next[i]
		if j > n {
			continue
		}
		k := next[j]
		next[i] = k
		if k <= n {
			prev[k] = i
		}
		removed[j] = true
		gen[i]++
		push(i)
		if p := prev[i]; p >= 0 {
			gen[p]++
			push(p)
		}
	}

	i := 0
	for i < n {
		j := next[i]
		if r, ok := c.ranks.rankOfString(piece[i:j]); ok {
			*out = append(*out, r)
		}
		i = j
	}
}
