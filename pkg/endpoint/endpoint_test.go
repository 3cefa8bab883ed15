package endpoint

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncr-go/syncr/pkg/metrics"
	"github.com/syncr-go/syncr/pkg/session"
	"github.com/syncr-go/syncr/pkg/store"
	"github.com/syncr-go/syncr/pkg/transport"
	"github.com/syncr-go/syncr/pkg/watcher"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		var total float64
		for _, m := range f.Metric {
			total += m.GetCounter().GetValue()
		}
		return total
	}
	return 0
}

func newLoopbackEndpoint(t *testing.T) (*Endpoint, *transport.Transport) {
	t.Helper()

	priv, err := transport.LoadOrCreateIdentity(filepath.Join(t.TempDir(), "secret_key"))
	require.NoError(t, err)
	tr, err := transport.New(priv, []string{"/ip4/127.0.0.1/tcp/0"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })

	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	w, err := watcher.New()
	require.NoError(t, err)

	ep, err := New(tr, s, w, 500*time.Millisecond, nil)
	require.NoError(t, err)
	return ep, tr
}

func TestEndpointServesAcceptedSession(t *testing.T) {
	server, serverTransport := newLoopbackEndpoint(t)

	runErr := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { runErr <- server.Run(ctx) }()

	clientPriv, err := transport.LoadOrCreateIdentity(filepath.Join(t.TempDir(), "secret_key"))
	require.NoError(t, err)
	client, err := transport.New(clientPriv, []string{"/ip4/127.0.0.1/tcp/0"})
	require.NoError(t, err)
	defer client.Close()

	dir := t.TempDir()
	remoteFile := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(remoteFile, []byte("synced content"), 0o644))

	require.Eventually(t, func() bool { return len(serverTransport.Addrs()) > 0 }, time.Second, 10*time.Millisecond)

	dialAddrs, err := serverTransport.DialableAddrs()
	require.NoError(t, err)
	require.NotEmpty(t, dialAddrs)

	dialCtx, dialCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer dialCancel()
	stream, err := client.Dial(dialCtx, dialAddrs[0])
	require.NoError(t, err)
	defer stream.Close()

	localPath := filepath.Join(t.TempDir(), "dst.txt")
	pullCtx, pullCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pullCancel()
	require.NoError(t, session.Pull(pullCtx, stream, remoteFile, localPath))

	got, err := os.ReadFile(localPath)
	require.NoError(t, err)
	assert.Equal(t, "synced content", string(got))

	cancel()
	select {
	case err := <-runErr:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestEndpointRecordsSessionAcceptedMetric(t *testing.T) {
	priv, err := transport.LoadOrCreateIdentity(filepath.Join(t.TempDir(), "secret_key"))
	require.NoError(t, err)
	tr, err := transport.New(priv, []string{"/ip4/127.0.0.1/tcp/0"})
	require.NoError(t, err)
	defer tr.Close()

	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	w, err := watcher.New()
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	ep, err := New(tr, s, w, 500*time.Millisecond, m)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- ep.Run(ctx) }()

	clientPriv, err := transport.LoadOrCreateIdentity(filepath.Join(t.TempDir(), "secret_key"))
	require.NoError(t, err)
	client, err := transport.New(clientPriv, []string{"/ip4/127.0.0.1/tcp/0"})
	require.NoError(t, err)
	defer client.Close()

	require.Eventually(t, func() bool { return len(tr.Addrs()) > 0 }, time.Second, 10*time.Millisecond)
	dialAddrs, err := tr.DialableAddrs()
	require.NoError(t, err)
	require.NotEmpty(t, dialAddrs)

	dialCtx, dialCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer dialCancel()
	stream, err := client.Dial(dialCtx, dialAddrs[0])
	require.NoError(t, err)
	stream.Close()

	require.Eventually(t, func() bool {
		return counterValue(t, reg, "syncr_sessions_accepted_total") == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-runErr:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
