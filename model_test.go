package tiktoken

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	RegisterEncoding("cl100k_base", func() (EncodingArgs, error) {
		return fixtureArgs("cl100k_base"), nil
	})
	RegisterEncoding("o200k_base", func() (EncodingArgs, error) {
		return fixtureArgs("o200k_base"), nil
	})
	RegisterEncoding("p50k_base", func() (EncodingArgs, error) {
		return fixtureArgs("p50k_base"), nil
	})
	RegisterEncoding("r50k_base", func() (EncodingArgs, error) {
		return fixtureArgs("r50k_base"), nil
	})
	RegisterEncoding("gpt2", func() (EncodingArgs, error) {
		return fixtureArgs("gpt2"), nil
	})
}

func TestEncodingForModel_ExactMatch(t *testing.T) {
	enc, err := EncodingForModel("text-davinci-003")
	require.NoError(t, err)
	assert.Equal(t, "p50k_base", enc.Name())
}

func TestEncodingForModel_PrefixMatch(t *testing.T) {
	enc, err := EncodingForModel("gpt-4-0314")
	require.NoError(t, err)
	assert.Equal(t, "cl100k_base", enc.Name())
}

func TestEncodingForModel_LongestPrefixWins(t *testing.T) {
	enc, err := EncodingForModel("gpt-4o-mini-2024-07-18")
	require.NoError(t, err)
	assert.Equal(t, "o200k_base", enc.Name())
}

func TestEncodingForModel_Unknown(t *testing.T) {
	_, err := EncodingForModel("totally-unknown-model-xyz")
	require.Error(t, err)
	var ue *UnknownModelError
	require.ErrorAs(t, err, &ue)
	assert.Contains(t, err.Error(), "could not automatically map")
}
