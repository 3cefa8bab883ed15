package transport

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	ma "github.com/multiformats/go-multiaddr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoopbackTransport(t *testing.T) *Transport {
	t.Helper()
	priv, err := LoadOrCreateIdentity(filepath.Join(t.TempDir(), "secret_key"))
	require.NoError(t, err)

	tr, err := New(priv, []string{"/ip4/127.0.0.1/tcp/0"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func TestDialAcceptRoundTrip(t *testing.T) {
	server := newLoopbackTransport(t)
	client := newLoopbackTransport(t)

	addrs := server.Addrs()
	require.NotEmpty(t, addrs)

	p2pComponent, err := ma.NewComponent("p2p", server.host.ID().String())
	require.NoError(t, err)
	dialAddr := addrs[0].Encapsulate(p2pComponent)

	var serverStream *Stream
	acceptErr := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s, err := server.Accept(ctx)
		serverStream = s
		acceptErr <- err
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	clientStream, err := client.Dial(ctx, dialAddr)
	require.NoError(t, err)
	defer clientStream.Close()

	require.NoError(t, <-acceptErr)
	defer serverStream.Close()

	_, err = clientStream.Write([]byte("hello"))
	require.NoError(t, err)

	buf := make([]byte, 5)
	_, err = io.ReadFull(serverStream, buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf))

	remote, err := serverStream.RemotePeer()
	require.NoError(t, err)
	clientID, err := client.LocalID()
	require.NoError(t, err)
	assert.Equal(t, clientID, remote)
}
