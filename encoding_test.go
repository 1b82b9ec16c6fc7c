package tiktoken

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEncoding_RoundTrip(t *testing.T) {
	enc, err := NewEncoding(fixtureArgs("fixture"))
	require.NoError(t, err)

	for _, text := range []string{"hello", "hello world", "a<|endoftext|>b"} {
		toks := enc.EncodeOrdinary(text)
		got, err := enc.Decode(toks)
		require.NoError(t, err)
		assert.Equal(t, text, got)
	}
}

func TestEncode_DefaultPolicyDisallowsAllSpecials(t *testing.T) {
	enc, err := NewEncoding(fixtureArgs("fixture"))
	require.NoError(t, err)

	_, err = enc.Encode("hello<|endoftext|>hello", nil, nil)
	require.Error(t, err)
	var de *DisallowedSpecialTokenError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "<|endoftext|>", de.Name)
}

func TestEncode_AllSpecialAllowsEverything(t *testing.T) {
	enc, err := NewEncoding(fixtureArgs("fixture"))
	require.NoError(t, err)

	toks, err := enc.Encode("hello<|endoftext|>hello", "all", nil)
	require.NoError(t, err)

	eot, err := enc.EncodeSingleToken([]byte("<|endoftext|>"))
	require.NoError(t, err)
	assert.Contains(t, toks, eot)
}

func TestEncodeSingleToken_UnknownPiece(t *testing.T) {
	enc, err := NewEncoding(fixtureArgs("fixture"))
	require.NoError(t, err)

	_, err = enc.EncodeSingleToken([]byte("definitely-not-a-token"))
	require.Error(t, err)
	var ite *InvalidTokenError
	require.ErrorAs(t, err, &ite)
}

func TestDecodeSingleTokenBytes(t *testing.T) {
	enc, err := NewEncoding(fixtureArgs("fixture"))
	require.NoError(t, err)

	b, err := enc.DecodeSingleTokenBytes(256)
	require.NoError(t, err)
	assert.Equal(t, "he", string(b))

	_, err = enc.DecodeSingleTokenBytes(999999)
	require.Error(t, err)
	var ite *InvalidTokenError
	require.ErrorAs(t, err, &ite)
}

func TestEncodeOrdinaryBatch_MatchesSequential(t *testing.T) {
	enc, err := NewEncoding(fixtureArgs("fixture"))
	require.NoError(t, err)

	texts := []string{"hello", "hello world", "abc", "hello hello"}
	batch, err := enc.EncodeOrdinaryBatch(context.Background(), texts)
	require.NoError(t, err)

	for i, text := range texts {
		assert.Equal(t, enc.EncodeOrdinary(text), batch[i])
	}
}

func TestDecodeWithOffsets_Facade(t *testing.T) {
	enc, err := NewEncoding(fixtureArgs("fixture"))
	require.NoError(t, err)

	toks := enc.EncodeOrdinary("hello world")
	text, offsets, err := enc.DecodeWithOffsets(toks)
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
	assert.Len(t, offsets, len(toks))
	assert.Equal(t, 0, offsets[0])
}

func TestEncodeOrdinaryFallback_LeavesValidTextUnchanged(t *testing.T) {
	enc, err := NewEncoding(fixtureArgs("fixture"))
	require.NoError(t, err)

	// Valid text contains no surrogates, so the fallback must encode it
	// exactly as EncodeOrdinary does.
	toks := enc.EncodeOrdinaryFallback("hello")
	assert.Equal(t, enc.EncodeOrdinary("hello"), toks)
}
