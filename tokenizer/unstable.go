package tokenizer

import (
	"sort"
	"strings"

	"github.com/emirpasic/gods/v2/trees/redblacktree"
)

// prefixIndex is a lazily-built sorted index over every vocabulary byte
// string. Red-black trees keep keys in sorted order, so every vocabulary
// entry sharing a given prefix occupies one contiguous range of Keys() —
// the same range trick a BTreeSet<Vec<u8>> gives the reference encoder,
// built here on emirpasic/gods/v2's redblacktree instead of a trie.
type prefixIndex struct {
	tree   *redblacktree.Tree[string, Rank]
	sorted []string // tree.Keys(), cached once for repeated prefix scans
}

func newPrefixIndex(ranks *rankTable) *prefixIndex {
	tree := redblacktree.New[string, Rank]()
	for _, b := range ranks.AllByteValues() {
		if r, ok := ranks.RankOf(b); ok {
			tree.Put(string(b), r)
		}
	}
	return &prefixIndex{tree: tree, sorted: tree.Keys()}
}

// withPrefix returns every (bytes, rank) entry whose bytes begin with
// prefix, found via binary search over the sorted key list rather than a
// tree-iterator seek.
func (p *prefixIndex) withPrefix(prefix string) []RankPair {
	lo := sort.SearchStrings(p.sorted, prefix)
	var out []RankPair
	for i := lo; i < len(p.sorted); i++ {
		k := p.sorted[i]
		if !strings.HasPrefix(k, prefix) {
			break
		}
		r, _ := p.tree.Get(k)
		out = append(out, RankPair{Bytes: []byte(k), Rank: r})
	}
	return out
}

func (c *Core) prefixes() *prefixIndex {
	c.prefixOnce.Do(func() {
		c.prefixIdx = newPrefixIndex(c.ranks)
	})
	return c.prefixIdx
}

// EncodeWithUnstable implements the unstable-suffix completion API
// (component C5) for streaming samplers that need to know which tokens a
// partial completion could still turn into as more text arrives.
//
// text is encoded as plain text: special-token literals are not recognized
// and allowedSpecial is not consulted, and no disallowed-literal check runs.
// The facade passes its text argument through unchanged.
//
// The last pre-tokenizer piece of text is the unstable region: under the
// split pattern's rules, a piece boundary earlier in the text can never
// move because of bytes appended after it, but the final piece could still
// grow or re-split if the caller's text is itself a prefix of more text to
// come. Tokens before that piece are returned as the stable prefix;
// completions are every distinct token sequence that results from BPE
// merging the unstable bytes against each vocabulary entry that extends
// them, found via the prefix index and deduplicated.
func (c *Core) EncodeWithUnstable(text string, allowedSpecial map[string]struct{}) (stable []Rank, completions [][]Rank) {
	if text == "" {
		return nil, nil
	}

	lastStart := 0
	i := 0
	for i < len(text) {
		j := c.seg.Next(text, i)
		if j <= i {
			j = i + 1
		}
		lastStart = i
		i = j
	}

	stable = make([]Rank, 0, len(text)/3+1)
	c.encodeOrdinaryInto(text[:lastStart], &stable)

	unstable := text[lastStart:]
	idx := c.prefixes()
	extensions := idx.withPrefix(unstable)

	seen := make(map[string]struct{}, len(extensions)+1)
	addCompletion := func(toks []Rank) {
		key := ranksKey(toks)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		completions = append(completions, toks)
	}

	// The unstable bytes as they stand today, with no further input, is
	// always one valid completion.
	asIs := make([]Rank, 0, 4)
	c.encodeOrdinaryInto(unstable, &asIs)
	addCompletion(asIs)

	for _, ext := range extensions {
		remainder := ext.Bytes[len(unstable):]
		if len(remainder) == 0 {
			addCompletion([]Rank{ext.Rank})
			continue
		}
		candidate := make([]Rank, 0, 4)
		c.encodeOrdinaryInto(unstable+string(remainder), &candidate)
		addCompletion(candidate)
	}

	return stable, completions
}

func ranksKey(toks []Rank) string {
	var sb strings.Builder
	for _, t := range toks {
		sb.WriteByte(byte(t >> 24))
		sb.WriteByte(byte(t >> 16))
		sb.WriteByte(byte(t >> 8))
		sb.WriteByte(byte(t))
	}
	return sb.String()
}
