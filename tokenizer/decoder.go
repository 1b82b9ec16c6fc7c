package tokenizer

import "unicode/utf8"

// UTF8ErrorPolicy selects how Decode handles byte sequences that aren't
// valid UTF-8 once all token bytes are concatenated (this can happen
// because BPE merges operate on raw bytes, not code points, so arbitrary
// token subsequences need not be valid UTF-8 on their own).
type UTF8ErrorPolicy int

const (
	// UTF8Strict returns InvalidUTF8Error on the first invalid byte run.
	UTF8Strict UTF8ErrorPolicy = iota
	// UTF8Replace substitutes one U+FFFD for each byte that does not begin
	// a valid UTF-8 sequence, so a truncated multi-byte sequence yields one
	// U+FFFD per byte rather than one for the whole sequence.
	UTF8Replace
	// UTF8Ignore drops invalid byte runs silently.
	UTF8Ignore
)

// bytesOfAny resolves a token id against the vocabulary first and the
// special-token table second, since both share the same id space.
func (c *Core) bytesOfAny(r Rank) ([]byte, bool) {
	if b, ok := c.ranks.BytesOf(r); ok {
		return b, true
	}
	return c.specials.BytesOf(r)
}

// DecodeBytes concatenates the byte values of every token, in order. It
// never fails on a valid token stream; an unknown id is reported through
// ok so the caller can surface UnknownTokenIDError with the offending id.
func (c *Core) DecodeBytes(tokens []Rank) ([]byte, Rank, bool) {
	out := make([]byte, 0, len(tokens)*3)
	for _, t := range tokens {
		b, ok := c.bytesOfAny(t)
		if !ok {
			return nil, t, false
		}
		out = append(out, b...)
	}
	return out, 0, true
}

// DecodeTokensBytes returns the byte value of each token individually,
// rather than concatenated, for callers that need per-token boundaries.
func (c *Core) DecodeTokensBytes(tokens []Rank) ([][]byte, Rank, bool) {
	out := make([][]byte, len(tokens))
	for i, t := range tokens {
		b, ok := c.bytesOfAny(t)
		if !ok {
			return nil, t, false
		}
		out[i] = b
	}
	return out, 0, true
}

// DecodeUTF8 concatenates token bytes and applies policy to whatever isn't
// valid UTF-8.
func (c *Core) DecodeUTF8(tokens []Rank, policy UTF8ErrorPolicy) (string, Rank, bool, bool) {
	raw, bad, ok := c.DecodeBytes(tokens)
	if !ok {
		return "", bad, false, true
	}
	if utf8.Valid(raw) {
		return string(raw), 0, true, false
	}
	switch policy {
	case UTF8Strict:
		return "", 0, true, true
	case UTF8Ignore:
		return stripInvalidUTF8(raw, false), 0, true, false
	default: // UTF8Replace
		return stripInvalidUTF8(raw, true), 0, true, false
	}
}

func stripInvalidUTF8(b []byte, replace bool) string {
	sb := make([]byte, 0, len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			if replace {
				sb = append(sb, string(utf8.RuneError)...)
			}
			b = b[1:]
			continue
		}
		sb = append(sb, b[:size]...)
		b = b[size:]
	}
	return string(sb)
}

// DecodeWithOffsets decodes tokens to text and, in the same O(n) pass,
// reports for each token the index (in runes... actually characters of the
// decoded string) at which its contribution starts. This matches
// decode_with_offsets' contract without the reference implementation's
// O(n^2) repeated re-decode: offsets are derived incrementally from the
// growing byte buffer's valid-UTF-8 prefix length rather than by re-scanning
// from the start on every token.
func (c *Core) DecodeWithOffsets(tokens []Rank) (string, []int, Rank, bool) {
	buf := make([]byte, 0, len(tokens)*3)
	offsets := make([]int, len(tokens))

	// charLen tracks how many decoded characters are backed by a complete,
	// valid prefix of buf; it only ever advances, since a byte run already
	// proven valid UTF-8 never becomes invalid as more bytes are appended.
	charLen := 0
	validLen := 0 // length of buf's longest known-valid-UTF-8 prefix

	for i, t := range tokens {
		b, ok := c.bytesOfAny(t)
		if !ok {
			return "", nil, t, false
		}
		offsets[i] = charLen
		buf = append(buf, b...)

		// Advance validLen/charLen over any newly-completed runes at the
		// tail of buf. A partial multi-byte sequence at the very end is
		// left unconsumed until a later token completes it.
		for validLen < len(buf) {
			r, size := utf8.DecodeRune(buf[validLen:])
			if r == utf8.RuneError && size == 1 && !utf8.FullRune(buf[validLen:]) {
				break // might be the prefix of a multi-byte rune still incoming
			}
			validLen += size
			charLen++
		}
	}
	if validLen < len(buf) {
		charLen += utf8.RuneCountInString(string(buf[validLen:]))
	}
	return string(buf), offsets, 0, true
}
