package tree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintLength(t *testing.T) {
	for _, length := range []int{1, 2, 8, 12, 32, 64} {
		fp, err := Fingerprint("some content", length)
		require.NoError(t, err)
		assert.Len(t, fp, length)
	}
}

func TestFingerprintDeterminism(t *testing.T) {
	a, err := Fingerprint("ABC", 12)
	require.NoError(t, err)
	b, err := Fingerprint("ABC", 12)
	require.NoError(t, err)
	assert.Equal(t, a, b, "fingerprint must be a pure function of (input, length)")
}

func TestFingerprintDistinguishesInputs(t *testing.T) {
	a, err := Fingerprint("ABC", 12)
	require.NoError(t, err)
	b, err := Fingerprint("ABD", 12)
	require.NoError(t, err)
	c, err := Fingerprint("", 12)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestFingerprintAlphabet(t *testing.T) {
	fp, err := Fingerprint("the quick brown fox", 64)
	require.NoError(t, err)
	for _, r := range fp {
		assert.True(t, strings.ContainsRune(alphabet, r), "symbol %q outside the 62-symbol alphabet", r)
	}
}

func TestFingerprintPrefixNotShared(t *testing.T) {
	// Longer requests are not extensions of shorter ones in general, but
	// the same request twice must agree.
	short, err := Fingerprint("content", 8)
	require.NoError(t, err)
	again, err := Fingerprint("content", 8)
	require.NoError(t, err)
	assert.Equal(t, short, again)
}

func TestFingerprintInvalidLength(t *testing.T) {
	for _, length := range []int{0, -1, -12} {
		_, err := Fingerprint("ABC", length)
		require.Error(t, err)
		assert.True(t, IsInvalidArgument(err), "length %d should be INVALID_ARGUMENT", length)
	}
}

func TestMustFingerprintPanicsOnBadLength(t *testing.T) {
	assert.Panics(t, func() { MustFingerprint("ABC", 0) })
}
