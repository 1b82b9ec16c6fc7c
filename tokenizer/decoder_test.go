package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBytes_RoundTripsEncodeOrdinary(t *testing.T) {
	core, err := newFixtureCore(simpleMergeVocab())
	require.NoError(t, err)

	for _, text := range []string{"hello", "hello hello", "x", "abcxyz"} {
		toks := core.EncodeOrdinary(text)
		raw, _, ok := core.DecodeBytes(toks)
		require.True(t, ok)
		assert.Equal(t, text, string(raw))
	}
}

func TestDecodeBytes_UnknownToken(t *testing.T) {
	core, err := newFixtureCore(simpleMergeVocab())
	require.NoError(t, err)

	_, bad, ok := core.DecodeBytes([]Rank{256, 99999})
	assert.False(t, ok)
	assert.EqualValues(t, 99999, bad)
}

func TestDecodeTokensBytes_PerTokenBoundaries(t *testing.T) {
	core, err := newFixtureCore(simpleMergeVocab())
	require.NoError(t, err)

	toks := core.EncodeSinglePiece("hello")
	perToken, _, ok := core.DecodeTokensBytes(toks)
	require.True(t, ok)
	require.Len(t, perToken, len(toks))

	var joined []byte
	for _, b := range perToken {
		joined = append(joined, b...)
	}
	assert.Equal(t, "hello", string(joined))
}

func TestDecodeUTF8_ReplacesInvalidBytes(t *testing.T) {
	core, err := newFixtureCore(simpleMergeVocab())
	require.NoError(t, err)

	// 0xFF is a valid single-byte vocabulary entry but is never valid UTF-8
	// on its own.
	s, _, ok, invalid := core.DecodeUTF8([]Rank{0xFF}, UTF8Replace)
	require.True(t, ok)
	assert.False(t, invalid)
	assert.Equal(t, "�", s)

	_, _, ok, invalid = core.DecodeUTF8([]Rank{0xFF}, UTF8Strict)
	require.True(t, ok)
	assert.True(t, invalid)
}

func TestDecodeWithOffsets_MatchesRuneBoundaries(t *testing.T) {
	core, err := newFixtureCore(simpleMergeVocab())
	require.NoError(t, err)

	toks := core.EncodeOrdinary("hello hello")
	text, offsets, _, ok := core.DecodeWithOffsets(toks)
	require.True(t, ok)
	require.Equal(t, "hello hello", text)
	require.Len(t, offsets, len(toks))

	rebuilt := ""
	for i, off := range offsets {
		assert.LessOrEqual(t, off, len([]rune(text)))
		if i > 0 {
			assert.GreaterOrEqual(t, off, offsets[i-1])
		}
		_ = rebuilt
	}
}
