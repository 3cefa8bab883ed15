package transport

import (
	"github.com/libp2p/go-libp2p/core/network"

	"github.com/syncr-go/syncr/pkg/peer"
	"github.com/syncr-go/syncr/pkg/syncerr"
)

// Stream is a bi-directional byte stream to one remote peer, the unit the
// session protocol reads and writes frames on.
type Stream struct {
	s network.Stream
}

// Read implements io.Reader.
func (st *Stream) Read(p []byte) (int, error) {
	return st.s.Read(p)
}

// Write implements io.Writer.
func (st *Stream) Write(p []byte) (int, error) {
	return st.s.Write(p)
}

// Close closes both directions of the stream.
func (st *Stream) Close() error {
	return st.s.Close()
}

// RemotePeer returns the authenticated identity of the remote side,
// derived from its libp2p connection public key.
func (st *Stream) RemotePeer() (peer.ID, error) {
	pub := st.s.Conn().RemotePublicKey()
	if pub == nil {
		return peer.ID{}, syncerr.New(syncerr.Transport, "remote connection has no public key")
	}
	raw, err := pub.Raw()
	if err != nil {
		return peer.ID{}, syncerr.Wrap(syncerr.Transport, "", err)
	}
	return peer.FromBytes(raw)
}
