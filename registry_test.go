package tiktoken

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurorabpe/tiktoken/tokenizer"
)

func TestRegisterEncoding_DuplicateNamePanics(t *testing.T) {
	RegisterEncoding("test-dup-registry-entry", func() (EncodingArgs, error) {
		return fixtureArgs("test-dup-registry-entry"), nil
	})
	assert.Panics(t, func() {
		RegisterEncoding("test-dup-registry-entry", func() (EncodingArgs, error) {
			return fixtureArgs("test-dup-registry-entry"), nil
		})
	})
}

func TestGetEncoding_MemoizesByName(t *testing.T) {
	RegisterEncoding("test-memoized-entry", func() (EncodingArgs, error) {
		return fixtureArgs("test-memoized-entry"), nil
	})

	a, err := GetEncoding("test-memoized-entry")
	require.NoError(t, err)
	b, err := GetEncoding("test-memoized-entry")
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestGetEncoding_UnknownName(t *testing.T) {
	_, err := GetEncoding("no-such-encoding-anywhere")
	require.Error(t, err)
	var ue *UnknownEncodingError
	require.ErrorAs(t, err, &ue)
}

func TestGetEncoding_TranslatesHashMismatch(t *testing.T) {
	RegisterEncoding("test-hash-mismatch-entry", func() (EncodingArgs, error) {
		return EncodingArgs{}, &tokenizer.LoadError{
			Kind: "hash",
			URI:  "https://example.invalid/vocab.tiktoken",
			Want: "deadbeef",
			Got:  "c0ffee",
		}
	})

	_, err := GetEncoding("test-hash-mismatch-entry")
	require.Error(t, err)
	var he *HashMismatchError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "deadbeef", he.Expected)
	assert.Equal(t, "c0ffee", he.Actual)
}

func TestGetEncoding_TranslatesIOError(t *testing.T) {
	RegisterEncoding("test-io-error-entry", func() (EncodingArgs, error) {
		return EncodingArgs{}, &tokenizer.LoadError{
			Kind: "io",
			URI:  "https://example.invalid/vocab.tiktoken",
			Err:  assert.AnError,
		}
	})

	_, err := GetEncoding("test-io-error-entry")
	require.Error(t, err)
	var ie *IOError
	require.ErrorAs(t, err, &ie)
	assert.ErrorIs(t, ie, assert.AnError)
}

func TestListEncodingNames_IsRegistrationOrdered(t *testing.T) {
	RegisterEncoding("test-list-order-a", func() (EncodingArgs, error) {
		return fixtureArgs("test-list-order-a"), nil
	})
	RegisterEncoding("test-list-order-b", func() (EncodingArgs, error) {
		return fixtureArgs("test-list-order-b"), nil
	})

	names := ListEncodingNames()
	idxA, idxB := -1, -1
	for i, n := range names {
		if n == "test-list-order-a" {
			idxA = i
		}
		if n == "test-list-order-b" {
			idxB = i
		}
	}
	require.NotEqual(t, -1, idxA)
	require.NotEqual(t, -1, idxB)
	assert.Less(t, idxA, idxB)
}
