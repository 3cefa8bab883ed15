// Package syncmanager turns local filesystem changes into outbound
// FileUpdateNotification sessions: it owns the boot-time watch arming, the
// watcher event loop, and the fan-out from one changed path to every peer
// that registered a sync against it or an ancestor of it.
package syncmanager

import (
	"context"
	"os"
	"time"

	"github.com/syncr-go/syncr/internal/logger"
	"github.com/syncr-go/syncr/pkg/metrics"
	"github.com/syncr-go/syncr/pkg/peer"
	"github.com/syncr-go/syncr/pkg/session"
	"github.com/syncr-go/syncr/pkg/store"
	"github.com/syncr-go/syncr/pkg/watcher"
)

// DefaultDialTimeout bounds how long a single outbound notification is
// allowed to take before it is logged and dropped.
const DefaultDialTimeout = 30 * time.Second

// Dialer opens an outbound stream to an already-known peer.
type Dialer interface {
	DialByID(ctx context.Context, id peer.ID) (session.Conn, error)
}

// Manager is the outbound half of the daemon: the responder side (pkg/session)
// reacts to peers, Manager reacts to the local filesystem.
type Manager struct {
	store       *store.Store
	watcher     *watcher.Watcher
	dialer      Dialer
	dialTimeout time.Duration
	metrics     *metrics.Metrics
}

// New constructs a Manager. dialTimeout of zero uses DefaultDialTimeout. m
// may be nil, in which case every metrics recording call is a no-op.
func New(s *store.Store, w *watcher.Watcher, d Dialer, dialTimeout time.Duration, m *metrics.Metrics) *Manager {
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}
	return &Manager{store: s, watcher: w, dialer: d, dialTimeout: dialTimeout, metrics: m}
}

// ArmWatches re-establishes filesystem watches for every path recorded in
// the store. A path that no longer exists is skipped with a warning, not
// treated as a boot failure: the registration stays in the store in case
// the path reappears. Re-arming an already-watched path is harmless.
func (m *Manager) ArmWatches(ctx context.Context) error {
	paths, err := m.store.ListWatches()
	if err != nil {
		return err
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			logger.WarnCtx(ctx, "skipping watch for missing path", "path", p, "error", err.Error())
			continue
		}
		if err := m.watcher.Watch(p); err != nil {
			logger.WarnCtx(ctx, "failed to arm watch", "path", p, "error", err.Error())
		}
	}
	return nil
}

// Run drains the watcher's event queue and reacts to each changed path
// until the watcher is closed (NextEvent then reports !ok) or ctx is
// cancelled. It is the daemon's main outbound loop and normally runs for
// the process's whole lifetime.
func (m *Manager) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		path, ok := m.watcher.NextEvent()
		if !ok {
			return
		}
		m.metrics.WatcherEventDelivered()
		m.handleLocalChange(ctx, path)
	}
}
