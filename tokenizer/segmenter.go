package tokenizer

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// Segmenter implements the pre-tokenizer (component C2): it yields the end
// index (exclusive) of the next non-empty regex match starting at i.
type Segmenter interface{ Next(s string, i int) int }

// Pattern strings for the encodings this module ships. These are the
// upstream tiktoken split patterns: dlclark/regexp2 is required because Go's
// stdlib regexp lacks \p{L}/\p{N} support in the alternations below plus the
// negative lookahead used in the trailing-whitespace rule.
const (
	// PatternGPT2 is the r50k/gpt2/p50k-family split pattern (the faster
	// equivalent form of the original release's pattern, per
	// tiktoken_ext/openai_public.py).
	PatternGPT2 = `'(?:[sdmt]|ll|ve|re)| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+`

	// PatternCL100K is the cl100k_base split pattern: case-insensitive
	// contractions, letter runs with an optional leading character that is
	// not a newline, letter or number (a space qualifies), digit runs capped
	// at 3, punctuation runs, newline runs,
	// and whitespace runs.
	PatternCL100K = `'(?i:[sdmt]|ll|ve|re)|[^\r\n\p{L}\p{N}]?+\p{L}+|\p{N}{1,3}| ?[^\s\p{L}\p{N}]++[\r\n]*|\s*[\r\n]|\s+(?!\S)|\s+`

	// PatternO200K is the o200k_base split pattern: separate rules for
	// uppercase-led and lowercase-led word runs (so scripts with their own
	// case distinctions split the same way Latin does), digit runs capped
	// at 3, punctuation runs, newline runs, and whitespace runs.
	PatternO200K = `[^\r\n\p{L}\p{N}]?[\p{Lu}\p{Lt}\p{Lm}\p{Lo}\p{M}]*[\p{Ll}\p{Lm}\p{Lo}\p{M}]+(?i:'s|'t|'re|'ve|'m|'ll|'d)?` +
		`|[^\r\n\p{L}\p{N}]?[\p{Lu}\p{Lt}\p{Lm}\p{Lo}\p{M}]+[\p{Ll}\p{Lm}\p{Lo}\p{M}]*(?i:'s|'t|'re|'ve|'m|'ll|'d)?` +
		`|\p{N}{1,3}` +
		`| ?[^\s\p{L}\p{N}]+[\r\n/]*` +
		`|\s*[\r\n]+` +
		`|\s+(?!\S)` +
		`|\s+`
)

// regexSegmenter drives the pre-tokenizer with a compiled regexp2 pattern.
// Compilation happens once, eagerly, at construction (NewSegmenter), unlike
// the lazily-built caches elsewhere in this package, since every encoding
// this module constructs needs its pattern immediately.
type regexSegmenter struct {
	re *regexp2.Regexp
}

// NewSegmenter compiles pattern and returns a Segmenter backed by it. The
// split patterns rely on negative lookahead (\s+(?!\S)) and possessive
// quantifiers (?+, ++), neither of which regexp2.RE2 mode permits (it
// restricts parsing to RE2-compatible syntax); compile in the default
// option set, as every pack reference compiling one of these patterns does.
func NewSegmenter(pattern string) (Segmenter, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile split pattern: %w", err)
	}
	return &regexSegmenter{re: re}, nil
}

// NewGPT2Segmenter returns a Segmenter for the legacy gpt2 split pattern.
func NewGPT2Segmenter() Segmenter {
	seg, err := NewSegmenter(PatternGPT2)
	if err != nil {
		panic(err) // PatternGPT2 is a compile-time constant known to compile
	}
	return seg
}

// NewCL100KSegmenter returns a Segmenter for the cl100k_base split pattern.
func NewCL100KSegmenter() Segmenter {
	seg, err := NewSegmenter(PatternCL100K)
	if err != nil {
		panic(err)
	}
	return seg
}

// NewO200KSegmenter returns a Segmenter for the o200k_base split pattern.
func NewO200KSegmenter() Segmenter {
	seg, err := NewSegmenter(PatternO200K)
	if err != nil {
		panic(err)
	}
	return seg
}

// Next returns the end of the next match starting at byte offset i. The
// pattern alternations are total over well-formed UTF-8 text, so a match is
// expected to start exactly at i; if the engine ever disagrees (malformed
// input slipped through, or a future custom pattern isn't total) we fall
// back to a single-byte step so callers always make forward progress.
func (s *regexSegmenter) Next(text string, i int) int {
	if i >= len(text) {
		return i
	}
	m, err := s.re.FindStringMatch(text[i:])
	if err != nil || m == nil {
		return i + 1
	}
	piece := m.String()
	// regexp2 matches over decoded runes, so on invalid UTF-8 the match text
	// (with U+FFFD in place of bad bytes) is not a prefix of the input.
	if piece == "" || m.Index != 0 || !strings.HasPrefix(text[i:], piece) {
		return i + 1
	}
	return i + len(piece)
}
