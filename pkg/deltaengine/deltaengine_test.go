package deltaengine

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncr-go/syncr/pkg/syncerr"
)

func roundTrip(t *testing.T, old, newData []byte) []byte {
	t.Helper()
	sig := Signature(old)
	delta, err := Delta(sig, newData)
	require.NoError(t, err)
	got, err := Apply(old, delta)
	require.NoError(t, err)
	return got
}

func TestApplyDeltaReconstructsNewData(t *testing.T) {
	cases := []struct {
		name string
		old  []byte
		new  []byte
	}{
		{"identical", []byte("hello\n"), []byte("hello\n")},
		{"append", []byte("hello\n"), []byte("hello world\n")},
		{"empty old", nil, []byte("fresh content")},
		{"empty new", []byte("going away"), nil},
		{"both empty", nil, nil},
		{"prepend", []byte("world\n"), []byte("hello world\n")},
		{"total rewrite", []byte("aaaaaaaaaa"), []byte("zzzzzzzzzzzzzzzzzzzz")},
		{"multi block", bytes.Repeat([]byte("x"), BlockSize*3+17), append(bytes.Repeat([]byte("x"), BlockSize*3+17), []byte("tail")...)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := roundTrip(t, tc.old, tc.new)
			assert.Equal(t, tc.new, got)
		})
	}
}

func TestApplyDeltaRandomizedProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 25; i++ {
		old := randomBytes(rng, rng.Intn(4*BlockSize))
		newData := mutate(rng, old)

		got := roundTrip(t, old, newData)
		assert.Equal(t, newData, got)
	}
}

func TestDeltaSmallerThanFullFileOnSmallAppend(t *testing.T) {
	old := []byte("hello\n")
	newData := []byte("hello world\n")

	sig := Signature(old)
	delta, err := Delta(sig, newData)
	require.NoError(t, err)

	assert.Less(t, len(delta), len(newData))
}

func TestSignatureBlockCountMatchesSize(t *testing.T) {
	data := bytes.Repeat([]byte("a"), BlockSize*2+5)
	sig := Signature(data)

	blocks, err := parseSignature(sig)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, uint32(BlockSize), blocks[0].length)
	assert.Equal(t, uint32(BlockSize), blocks[1].length)
	assert.Equal(t, uint32(5), blocks[2].length)
}

func TestSignatureEmptyData(t *testing.T) {
	sig := Signature(nil)
	blocks, err := parseSignature(sig)
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestDeltaRejectsCorruptSignature(t *testing.T) {
	_, err := Delta([]byte{0x00, 0x00}, []byte("x"))
	require.Error(t, err)
	assert.Equal(t, syncerr.DeltaFailure, syncerr.CodeOf(err))
}

func TestDeltaRejectsTruncatedSignature(t *testing.T) {
	sig := Signature([]byte("hello\n"))
	_, err := Delta(sig[:len(sig)-1], []byte("hello\n"))
	require.Error(t, err)
	assert.Equal(t, syncerr.DeltaFailure, syncerr.CodeOf(err))
}

func TestApplyRejectsUnknownOpcode(t *testing.T) {
	_, err := Apply([]byte("old"), []byte{0x09})
	require.Error(t, err)
	assert.Equal(t, syncerr.DeltaFailure, syncerr.CodeOf(err))
}

func TestApplyRejectsTruncatedLiteral(t *testing.T) {
	// opLiteral header claiming 10 bytes but carrying none.
	delta := []byte{opLiteral, 0x00, 0x00, 0x00, 0x0a}
	_, err := Apply(nil, delta)
	require.Error(t, err)
	assert.Equal(t, syncerr.DeltaFailure, syncerr.CodeOf(err))
}

func TestApplyRejectsCopyBeyondOldData(t *testing.T) {
	delta := []byte{opCopy, 0x00, 0x00, 0x00, 0x05}
	_, err := Apply([]byte("short"), delta)
	require.Error(t, err)
	assert.Equal(t, syncerr.DeltaFailure, syncerr.CodeOf(err))
}

func randomBytes(rng *rand.Rand, n int) []byte {
	if n <= 0 {
		return nil
	}
	b := make([]byte, n)
	rng.Read(b)
	return b
}

// mutate returns a modified copy of old: a random slice is spliced out and
// replaced with random bytes of a random length, simulating a local edit.
func mutate(rng *rand.Rand, old []byte) []byte {
	if len(old) == 0 {
		return randomBytes(rng, rng.Intn(64))
	}
	cut := rng.Intn(len(old))
	length := rng.Intn(len(old) - cut + 1)
	replacement := randomBytes(rng, rng.Intn(32))

	out := make([]byte, 0, len(old)+len(replacement))
	out = append(out, old[:cut]...)
	out = append(out, replacement...)
	out = append(out, old[cut+length:]...)
	return out
}
