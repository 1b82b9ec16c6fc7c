package tokenizer

import "fmt"

// Rank is the integer priority/identifier assigned to a vocabulary piece.
// Lower ranks merge first; a rank also doubles as the final token id.
type Rank = uint32

// RankPair is one (bytes, rank) entry of a mergeable-ranks vocabulary, kept
// as a plain pair rather than a map entry so callers can stream vocab files
// without building an intermediate map.
type RankPair struct {
	Bytes []byte
	Rank  Rank
}

// rankTable is the bidirectional bytes<->rank lookup (component C1).
// It is built once from the input vocabulary and never mutated afterward;
// the inverse table is materialized eagerly rather than lazily, per the
// "don't regenerate per call" note in the design notes.
type rankTable struct {
	enc map[string]Rank // bytes (as string) -> rank
	dec [][]byte        // rank -> bytes, dense array indexed by rank
}

func newRankTable(pairs []RankPair) (*rankTable, error) {
	enc := make(map[string]Rank, len(pairs))
	maxRank := Rank(0)
	for _, p := range pairs {
		if _, dup := enc[string(p.Bytes)]; dup {
			return nil, fmt.Errorf("duplicate vocabulary entry for %q", p.Bytes)
		}
		enc[string(p.Bytes)] = p.Rank
		if p.Rank > maxRank {
			maxRank = p.Rank
		}
	}
	dec := make([][]byte, int(maxRank)+1)
	seen := make([]bool, int(maxRank)+1)
	for _, p := range pairs {
		i := int(p.Rank)
		if seen[i] {
			return nil, fmt.Errorf("duplicate rank %d in vocabulary", p.Rank)
		}
		seen[i] = true
		dec[i] = p.Bytes
	}
	for b := 0; b < 256; b++ {
		if _, ok := enc[string([]byte{byte(b)})]; !ok {
			return nil, fmt.Errorf("vocabulary is missing single byte 0x%02x", b)
		}
	}
	return &rankTable{enc: enc, dec: dec}, nil
}

// RankOf returns the rank assigned to the given byte string, if present.
func (t *rankTable) RankOf(piece []byte) (Rank, bool) {
	r, ok := t.enc[string(piece)]
	return r, ok
}

// rankOfString is the allocation-free variant used on the hot path where the
// caller already holds a string (e.g. a substring of the input text).
func (t *rankTable) rankOfString(piece string) (Rank, bool) {
	r, ok := t.enc[piece]
	return r, ok
}

// BytesOf returns the byte string for a rank, if present.
func (t *rankTable) BytesOf(rank Rank) ([]byte, bool) {
	if int(rank) >= len(t.dec) {
		return nil, false
	}
	b := t.dec[rank]
	if b == nil {
		return nil, false
	}
	return b, true
}

// AppendInto appends the bytes for rank into dst, reporting whether rank was
// present. Avoids handing out a reference to internal storage.
func (t *rankTable) AppendInto(dst *[]byte, rank Rank) bool {
	b, ok := t.BytesOf(rank)
	if !ok {
		return false
	}
	*dst = append(*dst, b...)
	return true
}

// Len returns the number of entries in the vocabulary.
func (t *rankTable) Len() int { return len(t.enc) }

// AllByteValues returns every vocabulary piece, in no particular order.
func (t *rankTable) AllByteValues() [][]byte {
	out := make([][]byte, 0, len(t.enc))
	for _, b := range t.dec {
		if b != nil {
			out = append(out, b)
		}
	}
	return out
}

// MaxRank returns the highest rank present in the vocabulary.
func (t *rankTable) MaxRank() Rank {
	return Rank(len(t.dec) - 1)
}
