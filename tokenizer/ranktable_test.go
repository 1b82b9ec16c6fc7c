package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRankTable_RequiresAllSingleBytes(t *testing.T) {
	pairs := []RankPair{{Bytes: []byte{0x00}, Rank: 0}} // missing bytes 1..255
	_, err := newRankTable(pairs)
	require.Error(t, err)
}

func TestNewRankTable_RejectsDuplicateBytes(t *testing.T) {
	pairs := singleByteRanks()
	pairs = append(pairs, RankPair{Bytes: []byte{0x00}, Rank: 999})
	_, err := newRankTable(pairs)
	require.Error(t, err)
}

func TestNewRankTable_RejectsDuplicateRank(t *testing.T) {
	pairs := singleByteRanks()
	pairs = append(pairs, RankPair{Bytes: []byte("xy"), Rank: 5}) // collides with byte 5
	_, err := newRankTable(pairs)
	require.Error(t, err)
}

func TestRankTable_RoundTrip(t *testing.T) {
	table, err := newRankTable(simpleMergeVocab())
	require.NoError(t, err)

	r, ok := table.RankOf([]byte("he"))
	require.True(t, ok)
	assert.EqualValues(t, 256, r)

	b, ok := table.BytesOf(256)
	require.True(t, ok)
	assert.Equal(t, "he", string(b))

	_, ok = table.RankOf([]byte("nope"))
	assert.False(t, ok)

	assert.Equal(t, Rank(257), table.MaxRank())
	assert.Equal(t, 258, table.Len())
}

func TestRankTable_AppendInto(t *testing.T) {
	table, err := newRankTable(simpleMergeVocab())
	require.NoError(t, err)

	var dst []byte
	ok := table.AppendInto(&dst, 256)
	require.True(t, ok)
	ok = table.AppendInto(&dst, Rank('l'))
	require.True(t, ok)
	assert.Equal(t, "hel", string(dst))

	ok = table.AppendInto(&dst, Rank(99999))
	assert.False(t, ok)
}
