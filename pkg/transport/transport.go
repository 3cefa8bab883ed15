// Package transport wraps the external, pre-existing authenticated
// transport collaborator the specification treats as out of scope: peer
// discovery, NAT traversal, QUIC-style bi-directional streams, and public
// key mutual authentication. It is grounded on libp2p usage in the
// retrieval pack (other_examples/manifests/myelnet-go-hop-exchange), which
// establishes the host.Host + SetStreamHandler + NewStream shape this
// package adapts to the daemon's Dial/Accept vocabulary.
package transport

import (
	"context"

	"github.com/libp2p/go-libp2p"
	libp2pcrypto "github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	libp2ppeer "github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	ma "github.com/multiformats/go-multiaddr"

	"github.com/syncr-go/syncr/pkg/peer"
	"github.com/syncr-go/syncr/pkg/syncerr"
)

// ProtocolID is the literal ALPN-equivalent protocol identifier both
// endpoints must advertise and match.
const ProtocolID = protocol.ID("syncr/1")

// Transport binds a libp2p host to the daemon's local identity and the
// syncr/1 protocol, exposing Dial/Accept in terms of this package's Stream
// rather than libp2p's network.Stream directly.
type Transport struct {
	host   host.Host
	accept chan network.Stream
}

// New constructs a Transport listening on listenAddrs (multiaddr strings,
// e.g. "/ip4/0.0.0.0/udp/0/quic-v1") using priv as the long-lived identity.
func New(priv libp2pcrypto.PrivKey, listenAddrs []string) (*Transport, error) {
	h, err := libp2p.New(
		libp2p.Identity(priv),
		libp2p.ListenAddrStrings(listenAddrs...),
	)
	if err != nil {
		return nil, syncerr.Wrap(syncerr.Transport, "", err)
	}

	t := &Transport{
		host:   h,
		accept: make(chan network.Stream, 16),
	}
	h.SetStreamHandler(ProtocolID, func(s network.Stream) {
		t.accept <- s
	})
	return t, nil
}

// LocalID returns this endpoint's own peer identity.
func (t *Transport) LocalID() (peer.ID, error) {
	pub := t.host.Peerstore().PubKey(t.host.ID())
	if pub == nil {
		return peer.ID{}, syncerr.New(syncerr.Transport, "local host has no public key")
	}
	b, err := pub.Raw()
	if err != nil {
		return peer.ID{}, syncerr.Wrap(syncerr.Transport, "", err)
	}
	return peer.FromBytes(b)
}

// Addrs returns the multiaddrs this host is reachable on.
func (t *Transport) Addrs() []ma.Multiaddr {
	return t.host.Addrs()
}

// DialableAddrs returns Addrs() with this host's own /p2p/<id> component
// encapsulated, the full form Dial expects a remote peer to publish out of
// band.
func (t *Transport) DialableAddrs() ([]ma.Multiaddr, error) {
	component, err := ma.NewComponent("p2p", t.host.ID().String())
	if err != nil {
		return nil, syncerr.Wrap(syncerr.Transport, "", err)
	}
	addrs := t.host.Addrs()
	full := make([]ma.Multiaddr, len(addrs))
	for i, a := range addrs {
		full[i] = a.Encapsulate(component)
	}
	return full, nil
}

// Accept blocks until an inbound stream on ProtocolID arrives, or ctx is
// cancelled.
func (t *Transport) Accept(ctx context.Context) (*Stream, error) {
	select {
	case s := <-t.accept:
		return &Stream{s: s}, nil
	case <-ctx.Done():
		return nil, syncerr.Wrap(syncerr.Transport, "", ctx.Err())
	}
}

// Dial connects to remote at addr (a full multiaddr including /p2p/<id>)
// and opens a new stream on ProtocolID.
func (t *Transport) Dial(ctx context.Context, addr ma.Multiaddr) (*Stream, error) {
	info, err := libp2ppeer.AddrInfoFromP2pAddr(addr)
	if err != nil {
		return nil, syncerr.Wrap(syncerr.Transport, addr.String(), err)
	}

	if err := t.host.Connect(ctx, *info); err != nil {
		return nil, syncerr.Wrap(syncerr.Transport, addr.String(), err)
	}

	s, err := t.host.NewStream(ctx, info.ID, ProtocolID)
	if err != nil {
		return nil, syncerr.Wrap(syncerr.Transport, addr.String(), err)
	}
	return &Stream{s: s}, nil
}

// DialByID opens a new stream to a peer already known to this host's
// peerstore (typically because it connected to us earlier and was
// identified). Full peer discovery is the external transport collaborator's
// responsibility; this only covers the already-seen case sync manager
// follow-up pulls rely on.
func (t *Transport) DialByID(ctx context.Context, id peer.ID) (*Stream, error) {
	pub, err := libp2pcrypto.UnmarshalEd25519PublicKey(id[:])
	if err != nil {
		return nil, syncerr.Wrap(syncerr.Transport, id.String(), err)
	}
	libp2pID, err := libp2ppeer.IDFromPublicKey(pub)
	if err != nil {
		return nil, syncerr.Wrap(syncerr.Transport, id.String(), err)
	}

	if err := t.host.Connect(ctx, libp2ppeer.AddrInfo{ID: libp2pID}); err != nil {
		return nil, syncerr.Wrap(syncerr.Transport, id.String(), err)
	}
	s, err := t.host.NewStream(ctx, libp2pID, ProtocolID)
	if err != nil {
		return nil, syncerr.Wrap(syncerr.Transport, id.String(), err)
	}
	return &Stream{s: s}, nil
}

// Close shuts down the underlying host. A pending Accept is not
// interrupted by Close; it returns when its ctx is cancelled.
func (t *Transport) Close() error {
	if err := t.host.Close(); err != nil {
		return syncerr.Wrap(syncerr.Transport, "", err)
	}
	return nil
}
