// Package peer defines the peer identity type shared by the store,
// session, sync manager, and transport layers: a long-lived 32-byte public
// key that is both the transport authentication principal and the
// authorization subject recorded in the metadata store.
package peer

import (
	"encoding/base32"
	"encoding/hex"
	"strings"

	"github.com/syncr-go/syncr/pkg/syncerr"
)

// IDLen is the fixed size of a peer public key in bytes.
const IDLen = 32

// ID is a peer's long-lived public-key identity.
type ID [IDLen]byte

// String renders the identity as lowercase hex, the canonical form used as
// a store key component and in log output.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// Short renders the first 4 bytes as hex, for compact log lines.
func (id ID) Short() string {
	return hex.EncodeToString(id[:4])
}

// IsZero reports whether id is the zero value (never a valid key).
func (id ID) IsZero() bool {
	return id == ID{}
}

var base32Encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Parse decodes a peer identity from hex or unpadded base-32, matching the
// key serialization CLI commands accept for peer arguments.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)

	if raw, err := hex.DecodeString(s); err == nil && len(raw) == IDLen {
		var id ID
		copy(id[:], raw)
		return id, nil
	}

	if raw, err := base32Encoding.DecodeString(strings.ToUpper(s)); err == nil && len(raw) == IDLen {
		var id ID
		copy(id[:], raw)
		return id, nil
	}

	return ID{}, syncerr.Newf(syncerr.ProtocolDecode, "%q is not a valid 32-byte peer identity (hex or base32)", s)
}

// FromBytes wraps a 32-byte public key as an ID.
func FromBytes(b []byte) (ID, error) {
	if len(b) != IDLen {
		return ID{}, syncerr.Newf(syncerr.ProtocolDecode, "peer identity must be %d bytes, got %d", IDLen, len(b))
	}
	var id ID
	copy(id[:], b)
	return id, nil
}
