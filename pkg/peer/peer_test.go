package peer

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	raw := make([]byte, IDLen)
	for i := range raw {
		raw[i] = byte(i)
	}
	hexStr := hex.EncodeToString(raw)

	id, err := Parse(hexStr)
	require.NoError(t, err)
	assert.Equal(t, hexStr, id.String())
}

func TestParseBase32(t *testing.T) {
	raw := make([]byte, IDLen)
	for i := range raw {
		raw[i] = byte(255 - i)
	}
	id, err := FromBytes(raw)
	require.NoError(t, err)

	encoded := base32Encoding.EncodeToString(raw)
	parsed, err := Parse(encoded)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParseRejectsWrongLength(t *testing.T) {
	_, err := Parse("deadbeef")
	assert.Error(t, err)
}

func TestFromBytesRejectsWrongLength(t *testing.T) {
	_, err := FromBytes([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestShortIsPrefixOfString(t *testing.T) {
	raw := make([]byte, IDLen)
	raw[0], raw[1], raw[2], raw[3] = 0xde, 0xad, 0xbe, 0xef
	id, err := FromBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", id.Short())
	assert.True(t, len(id.String()) > len(id.Short()))
}

func TestIsZero(t *testing.T) {
	var id ID
	assert.True(t, id.IsZero())
	id[0] = 1
	assert.False(t, id.IsZero())
}
