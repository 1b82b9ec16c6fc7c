// Package tiktoken is a byte-level BPE tokenizer: it turns Unicode text
// into a sequence of token ids from a fixed, precomputed vocabulary, and
// back. See the tokenizer subpackage for the engine this package's
// Encoding type wraps.
package tiktoken

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"github.com/aurorabpe/tiktoken/tokenizer"
)

// Encoding is the facade (component C8) over a *tokenizer.Core: the public
// entry point an application imports. It is immutable and safe for
// concurrent use once constructed.
type Encoding struct {
	name string
	core *tokenizer.Core

	// registeredArgs is set only when the Encoding was built directly via
	// NewEncoding (not resolved from the registry by name); GobEncode uses
	// it to serialize construction arguments instead of a bare name.
	registeredArgs *EncodingArgs
}

// EncodingArgs is the full construction recipe for an encoding: everything
// NewEncoding needs, and everything GobEncode needs to reconstruct an
// ad-hoc (unregistered) Encoding.
type EncodingArgs struct {
	Name           string
	Pattern        string
	MergeableRanks []tokenizer.RankPair
	SpecialTokens  map[string]tokenizer.Rank
	ExplicitNVocab int
}

// NewEncoding constructs an Encoding directly from its arguments, without
// consulting or populating the registry.
func NewEncoding(args EncodingArgs) (*Encoding, error) {
	core, err := tokenizer.New(tokenizer.EncodingDef{
		Name:           args.Name,
		Pattern:        args.Pattern,
		MergeableRanks: args.MergeableRanks,
		SpecialTokens:  args.SpecialTokens,
		ExplicitNVocab: args.ExplicitNVocab,
	})
	if err != nil {
		return nil, &InvalidVocabError{Reason: err.Error()}
	}
	a := args
	return &Encoding{name: args.Name, core: core, registeredArgs: &a}, nil
}

// Name returns the encoding's registered name.
func (e *Encoding) Name() string { return e.name }

// NVocab returns the number of ordinary vocabulary entries.
func (e *Encoding) NVocab() int { return e.core.NVocab() }

// MaxTokenValue returns the highest token id issued by this encoding,
// across both ordinary tokens and special tokens.
func (e *Encoding) MaxTokenValue() uint32 { return e.core.MaxTokenValue() }

// SpecialTokensSet returns every special-token literal this encoding
// recognizes, for use as an allowedSpecial argument.
func (e *Encoding) SpecialTokensSet() map[string]struct{} { return e.core.AllSpecialLiterals() }

// specialPolicy resolves the allowed/disallowed parameters each Encode*
// method accepts: "all" means every special token literal this encoding
// knows, nil/empty means none, and an explicit set is used as-is.
func (e *Encoding) specialPolicy(allowed any, disallowed any) (map[string]struct{}, map[string]struct{}) {
	resolve := func(v any, all map[string]struct{}) map[string]struct{} {
		switch t := v.(type) {
		case nil:
			return nil
		case string:
			if t == "all" {
				return all
			}
			return nil
		case map[string]struct{}:
			return t
		case []string:
			out := make(map[string]struct{}, len(t))
			for _, s := range t {
				out[s] = struct{}{}
			}
			return out
		default:
			return nil
		}
	}
	all := e.core.AllSpecialLiterals()
	allowedSet := resolve(allowed, all)
	disallowedSet := resolve(disallowed, all)
	// The default policy (both nil) is "allow no specials, disallow all
	// specials", matching the reference encoder's conservative default.
	if allowed == nil && disallowed == nil {
		return nil, all
	}
	return allowedSet, disallowedSet
}

// Encode splits text on any special-token literals named in allowedSpecial
// (pass "all" to allow every special token this encoding knows, or a
// []string/map[string]struct{} for an explicit set) and BPE-encodes the
// ordinary text in between. disallowedSpecial names literals that must
// never appear in text; finding one anywhere in text is an error
// regardless of where ordinary encoding has progressed to.
func (e *Encoding) Encode(text string, allowedSpecial, disallowedSpecial any) ([]uint32, error) {
	allowed, disallowed := e.specialPolicy(allowedSpecial, disallowedSpecial)
	toks, err := e.core.Encode(text, allowed, disallowed)
	if err != nil {
		if d, ok := err.(*tokenizer.DisallowedSpecialError); ok {
			return nil, &DisallowedSpecialTokenError{Name: d.Name, ByteOffset: d.ByteOffset}
		}
		return nil, err
	}
	return toks, nil
}

// EncodeOrdinary BPE-encodes text, ignoring special tokens: any special
// token literal present is encoded as ordinary bytes rather than as a
// single token.
func (e *Encoding) EncodeOrdinary(text string) []uint32 { return e.core.EncodeOrdinary(text) }

// EncodeOrdinaryFallback runs EncodeOrdinary on text after sanitizeSurrogates,
// which replaces runes in the UTF-16 surrogate range with U+FFFD. Ranging
// over a Go string never yields such a rune: a surrogate written in UTF-8
// form (bytes ED A0..BF xx) decodes as invalid bytes, which sanitizeSurrogates
// leaves in place. The result therefore equals EncodeOrdinary(text), with
// those bytes encoded as ordinary bytes; surrogate pairs are not combined.
func (e *Encoding) EncodeOrdinaryFallback(text string) []uint32 {
	return e.core.EncodeOrdinary(sanitizeSurrogates(text))
}

func sanitizeSurrogates(s string) string {
	hasSurrogate := false
	for _, r := range s {
		if r >= 0xD800 && r <= 0xDFFF {
			hasSurrogate = true
			break
		}
	}
	if !hasSurrogate {
		return s
	}
	var b bytes.Buffer
	b.Grow(len(s))
	for _, r := range s {
		if r >= 0xD800 && r <= 0xDFFF {
			b.WriteRune(0xFFFD)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// EncodeSingleToken returns the single token id for piece, failing if piece
// is not itself a vocabulary or special-token entry.
func (e *Encoding) EncodeSingleToken(piece []byte) (uint32, error) {
	if r, ok := e.core.RankOfBytes(piece); ok {
		return r, nil
	}
	if r, ok := e.core.SpecialRankOf(string(piece)); ok {
		return r, nil
	}
	return 0, &InvalidTokenError{Token: piece}
}

// EncodeSinglePiece BPE-merges piece with no further pre-tokenizer
// splitting, for callers that have already segmented their text.
func (e *Encoding) EncodeSinglePiece(piece string) []uint32 { return e.core.EncodeSinglePiece(piece) }

// EncodeWithUnstable returns the stable token prefix and the set of
// distinct completions the unstable trailing piece of text could still
// resolve to, for streaming/sampling callers. text is encoded as ordinary
// text: allowedSpecial is not used, special-token literals in text are not
// recognized, and none is reported as disallowed.
func (e *Encoding) EncodeWithUnstable(text string, allowedSpecial any) ([]uint32, [][]uint32) {
	allowed, _ := e.specialPolicy(allowedSpecial, nil)
	return e.core.EncodeWithUnstable(text, allowed)
}

// EncodeBatch runs Encode over every text concurrently, preserving input
// order, with the first encoding error cancelling the rest.
func (e *Encoding) EncodeBatch(ctx context.Context, texts []string, allowedSpecial, disallowedSpecial any) ([][]uint32, error) {
	allowed, disallowed := e.specialPolicy(allowedSpecial, disallowedSpecial)
	out, err := e.core.EncodeBatch(ctx, texts, allowed, disallowed)
	if err != nil {
		if d, ok := err.(*tokenizer.DisallowedSpecialError); ok {
			return nil, &DisallowedSpecialTokenError{Name: d.Name, ByteOffset: d.ByteOffset}
		}
		return nil, err
	}
	return out, nil
}

// EncodeOrdinaryBatch is EncodeBatch's special-token-oblivious counterpart.
func (e *Encoding) EncodeOrdinaryBatch(ctx context.Context, texts []string) ([][]uint32, error) {
	return e.core.EncodeOrdinaryBatch(ctx, texts)
}

// Decode concatenates the byte value of every token and returns the
// result as a string, substituting U+FFFD for each byte that isn't part
// of a valid UTF-8 sequence once concatenated.
func (e *Encoding) Decode(tokens []uint32) (string, error) {
	s, bad, ok, invalid := e.core.DecodeUTF8(tokens, tokenizer.UTF8Replace)
	if !ok {
		return "", &UnknownTokenIDError{ID: bad}
	}
	if invalid {
		return "", &InvalidUTF8Error{}
	}
	return s, nil
}

// DecodeStrict is Decode but fails rather than substituting on invalid
// UTF-8.
func (e *Encoding) DecodeStrict(tokens []uint32) (string, error) {
	s, bad, ok, invalid := e.core.DecodeUTF8(tokens, tokenizer.UTF8Strict)
	if !ok {
		return "", &UnknownTokenIDError{ID: bad}
	}
	if invalid {
		return "", &InvalidUTF8Error{}
	}
	return s, nil
}

// DecodeBytes concatenates the byte value of every token, without any
// UTF-8 validation or substitution.
func (e *Encoding) DecodeBytes(tokens []uint32) ([]byte, error) {
	b, bad, ok := e.core.DecodeBytes(tokens)
	if !ok {
		return nil, &UnknownTokenIDError{ID: bad}
	}
	return b, nil
}

// DecodeTokensBytes returns the byte value of each token individually.
func (e *Encoding) DecodeTokensBytes(tokens []uint32) ([][]byte, error) {
	out, bad, ok := e.core.DecodeTokensBytes(tokens)
	if !ok {
		return nil, &UnknownTokenIDError{ID: bad}
	}
	return out, nil
}

// DecodeSingleTokenBytes returns a single token's byte value.
func (e *Encoding) DecodeSingleTokenBytes(token uint32) ([]byte, error) {
	if b, ok := e.core.BytesOfRank(token); ok {
		return b, nil
	}
	if b, ok := e.core.SpecialBytesOf(token); ok {
		return b, nil
	}
	return nil, &InvalidTokenError{Token: token}
}

// DecodeWithOffsets decodes tokens to text and, for each token, the
// character offset at which its contribution begins in the decoded
// string.
func (e *Encoding) DecodeWithOffsets(tokens []uint32) (string, []int, error) {
	s, offsets, bad, ok := e.core.DecodeWithOffsets(tokens)
	if !ok {
		return "", nil, &UnknownTokenIDError{ID: bad}
	}
	return s, offsets, nil
}

// DecodeBatch runs Decode over every token sequence in order. Unlike the
// encode batch methods this has no concurrent fan-out: decoding is cheap
// enough (a single concatenation pass per sequence) that the C6 worker
// pool's bookkeeping isn't worth it here.
func (e *Encoding) DecodeBatch(ctx context.Context, tokenLists [][]uint32) ([]string, error) {
	out := make([]string, len(tokenLists))
	for i, toks := range tokenLists {
		s, err := e.Decode(toks)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// DecodeBytesBatch runs DecodeBytes over every token sequence in order.
func (e *Encoding) DecodeBytesBatch(ctx context.Context, tokenLists [][]uint32) ([][]byte, error) {
	out := make([][]byte, len(tokenLists))
	for i, toks := range tokenLists {
		b, err := e.DecodeBytes(toks)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// TokenByteValues returns the byte value of every ordinary vocabulary
// entry, in no particular order.
func (e *Encoding) TokenByteValues() [][]byte { return e.core.AllByteValues() }

// gobState is the serialized form a (*Encoding).GobEncode produces: either
// just a registered name (resolved against the registry on decode) or the
// full construction arguments, mirroring __getstate__/__setstate__ in
// original_source/tiktoken's Encoding class.
type gobState struct {
	Name         string
	HasFullArgs  bool
	FullArgs     *EncodingArgs
}

// GobEncode implements gob.GobEncoder. If e was obtained from the registry
// (GetEncoding), only its name is serialized and GobDecode re-resolves it
// from the registry; otherwise the full construction arguments travel with
// the encoded value.
func (e *Encoding) GobEncode() ([]byte, error) {
	state := gobState{Name: e.name}
	if e.registeredArgs != nil {
		state.HasFullArgs = true
		state.FullArgs = e.registeredArgs
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, fmt.Errorf("gob-encode tiktoken.Encoding: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (e *Encoding) GobDecode(data []byte) error {
	var state gobState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return fmt.Errorf("gob-decode tiktoken.Encoding: %w", err)
	}
	if !state.HasFullArgs {
		resolved, err := registryLookup(state.Name)
		if err != nil {
			return err
		}
		*e = *resolved
		return nil
	}
	resolved, err := NewEncoding(*state.FullArgs)
	if err != nil {
		return err
	}
	*e = *resolved
	return nil
}
