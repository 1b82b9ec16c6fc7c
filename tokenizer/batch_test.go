package tokenizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeOrdinaryBatch_PreservesOrder(t *testing.T) {
	core, err := newFixtureCore(simpleMergeVocab())
	require.NoError(t, err)

	texts := []string{"hello", "x", "hello hello", "ab", "z"}
	got, err := core.EncodeOrdinaryBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, got, len(texts))

	for i, text := range texts {
		assert.Equal(t, core.EncodeOrdinary(text), got[i])
	}
}

func TestEncodeBatch_DisallowedCancelsPeers(t *testing.T) {
	core, err := newFixtureCore(simpleMergeVocab())
	require.NoError(t, err)

	// Sequential execution makes the outcome deterministic: the one
	// offending text is guaranteed to be the sole source of an error, so
	// the batch's returned error is unambiguously its
	// DisallowedSpecialError rather than a peer's context-cancellation
	// error racing to be recorded first.
	t.Setenv("TIKTOKEN_NUM_THREADS", "1")

	disallowed := core.AllSpecialLiterals()
	texts := make([]string, 8)
	for i := range texts {
		texts[i] = "hello"
	}
	texts[4] = "hello<|endoftext|>hello"

	_, err = core.EncodeBatch(context.Background(), texts, nil, disallowed)
	require.Error(t, err)
	_, ok := err.(*DisallowedSpecialError)
	assert.True(t, ok)
}

func TestNumWorkers_DefaultsToGOMAXPROCS(t *testing.T) {
	assert.Greater(t, numWorkers(), 0)
}
