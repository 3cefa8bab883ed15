package syncmanager

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncr-go/syncr/pkg/peer"
	"github.com/syncr-go/syncr/pkg/session"
	"github.com/syncr-go/syncr/pkg/store"
	"github.com/syncr-go/syncr/pkg/watcher"
	"github.com/syncr-go/syncr/pkg/wireformat"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testPeer(b byte) peer.ID {
	var id peer.ID
	for i := range id {
		id[i] = b
	}
	return id
}

type fakeDialer struct {
	mu    sync.Mutex
	dials []struct {
		peer peer.ID
	}
	conns chan net.Conn // server ends, one per accepted dial
}

func (f *fakeDialer) DialByID(ctx context.Context, id peer.ID) (session.Conn, error) {
	client, server := net.Pipe()
	f.mu.Lock()
	f.dials = append(f.dials, struct{ peer peer.ID }{id})
	f.mu.Unlock()
	f.conns <- server
	return client, nil
}

func TestHandleLocalChangeNotifiesDescendantMatch(t *testing.T) {
	s := newTestStore(t)
	remote := testPeer(9)
	require.NoError(t, s.AddSync(remote, "/remote/docs", "/local/docs"))

	dialer := &fakeDialer{conns: make(chan net.Conn, 4)}
	m := New(s, nil, dialer, 2*time.Second, nil)

	go m.handleLocalChange(context.Background(), "/local/docs/sub/report.txt")

	server := <-dialer.conns
	defer server.Close()

	require.NoError(t, writeHandshakeForTest(server))
	require.NoError(t, readHandshakeForTest(server))

	msg, err := wireformat.ReadFrame(server)
	require.NoError(t, err)
	notif, ok := msg.(*wireformat.FileUpdateNotification)
	require.True(t, ok)
	assert.Equal(t, "/remote/docs/sub/report.txt", notif.Path)
}

func TestHandleLocalChangeIgnoresUnrelatedPaths(t *testing.T) {
	s := newTestStore(t)
	remote := testPeer(10)
	require.NoError(t, s.AddSync(remote, "/remote/docs", "/local/docs"))

	dialer := &fakeDialer{conns: make(chan net.Conn, 4)}
	m := New(s, nil, dialer, 2*time.Second, nil)

	m.handleLocalChange(context.Background(), "/local/other/file.txt")

	select {
	case <-dialer.conns:
		t.Fatal("expected no dial for an unrelated path")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestArmWatchesSkipsMissingPaths(t *testing.T) {
	s := newTestStore(t)
	dir := t.TempDir()
	existing := filepath.Join(dir, "exists")
	require.NoError(t, os.MkdirAll(existing, 0o755))
	missing := filepath.Join(dir, "missing")

	require.NoError(t, s.AddWatch(existing))
	require.NoError(t, s.AddWatch(missing))

	w, err := watcher.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	m := New(s, w, nil, 0, nil)
	require.NoError(t, m.ArmWatches(context.Background()))
}

func writeHandshakeForTest(conn net.Conn) error {
	return wireformat.WriteFrame(conn, &wireformat.Handshake{Version: session.ProtocolVersion})
}

func readHandshakeForTest(conn net.Conn) error {
	msg, err := wireformat.ReadFrame(conn)
	if err != nil {
		return err
	}
	_ = msg
	return nil
}
